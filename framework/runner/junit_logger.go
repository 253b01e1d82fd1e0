package runner

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/harness"
)

// JUnitLogger accumulates scenario results and writes them as a JUnit XML report at the end of the
// run. Each top-level scenario becomes a test suite.
type JUnitLogger struct {
	filePath   string
	serverInfo harness.ServerInfo
	filters    RegexFilters
	records    []*jUnitScenarioRecord // in the order the scenarios started
	byID       map[string]*jUnitScenarioRecord
	lock       sync.Mutex
}

type jUnitScenarioRecord struct {
	id         ScenarioID
	failures   []error
	skipped    bool
	skipReason string
	output     string
	duration   time.Duration
}

// Struct definitions for the JUnit XML schema - see https://github.com/jstemmer/go-junit-report

type jUnitXMLDocument struct {
	XMLName xml.Name            `xml:"testsuites"`
	Suites  []jUnitXMLTestSuite `xml:"testsuite"`
}

type jUnitXMLTestSuite struct {
	XMLName    xml.Name           `xml:"testsuite"`
	Tests      int                `xml:"tests,attr"`
	Failures   int                `xml:"failures,attr"`
	Skipped    int                `xml:"skipped,attr"`
	Time       string             `xml:"time,attr"`
	Name       string             `xml:"name,attr"`
	Properties []jUnitXMLProperty `xml:"properties>property,omitempty"`
	TestCases  []jUnitXMLTestCase `xml:"testcase"`
}

type jUnitXMLTestCase struct {
	XMLName     xml.Name             `xml:"testcase"`
	Classname   string               `xml:"classname,attr"`
	Name        string               `xml:"name,attr"`
	Time        string               `xml:"time,attr"`
	SkipMessage *jUnitXMLSkipMessage `xml:"skipped,omitempty"`
	Failure     *jUnitXMLFailure     `xml:"failure,omitempty"`
}

type jUnitXMLSkipMessage struct {
	Message string `xml:"message,attr"`
}

type jUnitXMLProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type jUnitXMLFailure struct {
	Message  string `xml:"message,attr"`
	Type     string `xml:"type,attr"`
	Contents string `xml:",chardata"`
}

func NewJUnitLogger(
	filePath string,
	serverInfo harness.ServerInfo,
	filters RegexFilters,
) *JUnitLogger {
	return &JUnitLogger{
		filePath:   filePath,
		serverInfo: serverInfo,
		filters:    filters,
		byID:       make(map[string]*jUnitScenarioRecord),
	}
}

func (j *JUnitLogger) update(id ScenarioID, fn func(*jUnitScenarioRecord)) {
	j.lock.Lock()
	defer j.lock.Unlock()
	if r := j.byID[id.String()]; r != nil {
		fn(r)
	}
}

func (j *JUnitLogger) ScenarioStarted(id ScenarioID) {
	j.lock.Lock()
	defer j.lock.Unlock()
	r := &jUnitScenarioRecord{id: id}
	j.records = append(j.records, r)
	j.byID[id.String()] = r
}

func (j *JUnitLogger) ScenarioError(id ScenarioID, err error) {
	j.update(id, func(r *jUnitScenarioRecord) { r.failures = append(r.failures, err) })
}

func (j *JUnitLogger) ScenarioFinished(id ScenarioID, result ScenarioResult, debugOutput framework.CapturedOutput) {
	j.update(id, func(r *jUnitScenarioRecord) {
		r.output = debugOutput.ToString("")
		r.duration = result.Duration
	})
}

func (j *JUnitLogger) ScenarioSkipped(id ScenarioID, reason string) {
	j.update(id, func(r *jUnitScenarioRecord) {
		r.skipped, r.skipReason = true, reason
	})
}

func (j *JUnitLogger) EndLog(results Results) error {
	fmt.Printf("Writing JUnit data to %s\n", j.filePath)

	data, err := j.render(results)
	if err != nil {
		return err
	}
	return os.WriteFile(j.filePath, data, 0644) //nolint:gosec
}

func (j *JUnitLogger) properties(results Results) []jUnitXMLProperty {
	e := results.Expectations
	return []jUnitXMLProperty{
		{Name: "api.url", Value: j.serverInfo.URL},
		{Name: "api.probe.status", Value: strconv.Itoa(j.serverInfo.ProbeStatus)},
		{Name: "scenarios.filter.mustMatch", Value: j.filters.MustMatch.String()},
		{Name: "scenarios.filter.mustNotMatch", Value: j.filters.MustNotMatch.String()},
		{Name: "expectations.total", Value: strconv.Itoa(e.Total)},
		{Name: "expectations.passed", Value: strconv.Itoa(e.Passed)},
		{Name: "expectations.failed", Value: strconv.Itoa(e.Failed)},
		{Name: "expectations.errors", Value: strconv.Itoa(e.Errors)},
	}
}

func (j *JUnitLogger) render(results Results) ([]byte, error) {
	j.lock.Lock()
	defer j.lock.Unlock()

	properties := j.properties(results)
	var doc jUnitXMLDocument
	suiteIndex := make(map[string]int)
	durations := make(map[string]time.Duration)

	for _, r := range j.records {
		if len(r.id) == 0 {
			continue
		}
		group := r.id[0]
		i, ok := suiteIndex[group]
		if !ok {
			i = len(doc.Suites)
			suiteIndex[group] = i
			doc.Suites = append(doc.Suites, jUnitXMLTestSuite{
				Name:       "API contract tests: " + group,
				Properties: properties,
			})
		}
		suite := &doc.Suites[i]
		suite.Tests++
		durations[group] += r.duration

		testCase := jUnitXMLTestCase{Classname: group, Name: r.id.String(), Time: jUnitDurationString(r.duration)}
		if r.skipped {
			suite.Skipped++
			testCase.SkipMessage = &jUnitXMLSkipMessage{Message: r.skipReason}
		}
		if len(r.failures) > 0 {
			suite.Failures++
			testCase.Failure = &jUnitXMLFailure{Message: failureMessage(r.failures), Contents: r.output}
		}
		suite.TestCases = append(suite.TestCases, testCase)
	}
	for i := range doc.Suites {
		doc.Suites[i].Time = jUnitDurationString(durations[doc.Suites[i].TestCases[0].Classname])
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// failureMessage joins the scenario's failures, each followed by its stacktrace if it has one.
func failureMessage(failures []error) string {
	var b strings.Builder
	for i, e := range failures {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(e.Error())
		if es, ok := e.(ErrorWithStacktrace); ok {
			b.WriteString("\n  Stacktrace:")
			for _, frame := range es.Stacktrace {
				b.WriteString("\n    " + frame.String())
			}
		}
	}
	return b.String()
}

func jUnitDurationString(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
