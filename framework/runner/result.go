package runner

import (
	"fmt"
	"strings"
	"time"

	"github.com/restcontract/rest-contract-tests/framework/contract"
)

// Results is the outcome of a whole run.
type Results struct {
	Scenarios []ScenarioResult
	Failures  []ScenarioResult
	Skipped   []ScenarioResult

	// Expectations summarizes every expectation evaluated by the engine during the run.
	Expectations contract.Summary
}

// ScenarioResult is the outcome of one scenario scope.
type ScenarioResult struct {
	ID         ScenarioID
	Errors     []error
	SkipReason string
	Duration   time.Duration
}

// OK returns true if no scenario failed and no expectation failed or errored.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && r.Expectations.OK()
}

// ScenarioID is the full name of a scenario, with one element per level of nesting.
type ScenarioID []string

func (s ScenarioID) String() string {
	return strings.Join(s, "/")
}

func (s ScenarioID) Plus(name string) ScenarioID {
	return append(append(ScenarioID(nil), s...), name)
}

// ScenarioFailure associates an error with the scenario it occurred in.
type ScenarioFailure struct {
	ID  ScenarioID
	Err error
}

func (f ScenarioFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
