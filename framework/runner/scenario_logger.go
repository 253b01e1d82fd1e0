package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/restcontract/rest-contract-tests/framework"

	"github.com/fatih/color"
)

var consoleErrorColor = color.New(color.FgYellow)              //nolint:gochecknoglobals
var consoleFailedColor = color.New(color.FgRed)                //nolint:gochecknoglobals
var consoleSkippedColor = color.New(color.Faint, color.FgBlue) //nolint:gochecknoglobals
var consoleDebugOutputColor = color.New(color.Faint)           //nolint:gochecknoglobals
var allPassedColor = color.New(color.FgGreen)                  //nolint:gochecknoglobals

// ScenarioLogger receives status information as scenarios run.
type ScenarioLogger interface {
	ScenarioStarted(id ScenarioID)
	ScenarioError(id ScenarioID, err error)
	ScenarioFinished(id ScenarioID, result ScenarioResult, debugOutput framework.CapturedOutput)
	ScenarioSkipped(id ScenarioID, reason string)
	EndLog(results Results) error
}

type nullScenarioLogger struct{}

func (n nullScenarioLogger) ScenarioStarted(ScenarioID)                                            {}
func (n nullScenarioLogger) ScenarioError(ScenarioID, error)                                       {}
func (n nullScenarioLogger) ScenarioFinished(ScenarioID, ScenarioResult, framework.CapturedOutput) {}
func (n nullScenarioLogger) ScenarioSkipped(ScenarioID, string)                                    {}
func (n nullScenarioLogger) EndLog(Results) error                                                  { return nil }

// MultiLogger sends every event to several loggers.
type MultiLogger struct {
	Loggers []ScenarioLogger
}

func (m *MultiLogger) ScenarioStarted(id ScenarioID) {
	for _, l := range m.Loggers {
		l.ScenarioStarted(id)
	}
}

func (m *MultiLogger) ScenarioError(id ScenarioID, err error) {
	for _, l := range m.Loggers {
		l.ScenarioError(id, err)
	}
}

func (m *MultiLogger) ScenarioFinished(id ScenarioID, result ScenarioResult, debugOutput framework.CapturedOutput) {
	for _, l := range m.Loggers {
		l.ScenarioFinished(id, result, debugOutput)
	}
}

func (m *MultiLogger) ScenarioSkipped(id ScenarioID, reason string) {
	for _, l := range m.Loggers {
		l.ScenarioSkipped(id, reason)
	}
}

func (m *MultiLogger) EndLog(results Results) error {
	var errs []string
	for _, l := range m.Loggers {
		if err := l.EndLog(results); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) != 0 {
		return fmt.Errorf("logging errors: %s", strings.Join(errs, ", "))
	}
	return nil
}

// ConsoleLogger writes scenario progress to standard output.
type ConsoleLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c ConsoleLogger) ScenarioStarted(id ScenarioID) {
	fmt.Printf("[%s]\n", id)
}

func (c ConsoleLogger) ScenarioError(id ScenarioID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		_, _ = consoleErrorColor.Printf("  %s\n", line)
	}
	if es, ok := err.(ErrorWithStacktrace); ok {
		for _, s := range es.Stacktrace {
			_, _ = consoleErrorColor.Printf("    at %s\n", s)
		}
	}
}

func (c ConsoleLogger) ScenarioFinished(id ScenarioID, result ScenarioResult, debugOutput framework.CapturedOutput) {
	failed := len(result.Errors) != 0
	if failed {
		_, _ = consoleFailedColor.Printf("  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		_, _ = consoleDebugOutputColor.Println(debugOutput.ToString("    DEBUG "))
	}
}

func (c ConsoleLogger) ScenarioSkipped(id ScenarioID, reason string) {
	if reason == "" {
		_, _ = consoleSkippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		_, _ = consoleSkippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}

func (c ConsoleLogger) EndLog(results Results) error {
	PrintResults(results, os.Stdout, os.Stderr)
	return nil
}

// PrintResults writes the final summary of a run: the expectation totals, then either a success
// message or the list of failed scenarios.
func PrintResults(results Results, out, errOut io.Writer) {
	e := results.Expectations
	fmt.Fprintf(out, "Expectations: %d total, %d passed, %d failed, %d errors\n",
		e.Total, e.Passed, e.Failed, e.Errors)
	if len(results.Skipped) != 0 {
		_, _ = consoleSkippedColor.Fprintf(out, "Skipped scenarios: %d\n", len(results.Skipped))
	}
	if results.OK() {
		_, _ = allPassedColor.Fprintln(out, "All scenarios passed")
		return
	}
	_, _ = consoleFailedColor.Fprintf(errOut, "FAILED SCENARIOS (%d):\n", len(results.Failures))
	for _, f := range results.Failures {
		_, _ = consoleFailedColor.Fprintf(errOut, "  * %s\n", f.ID)
	}
}
