package runner

import (
	"bytes"
	"errors"
	"testing"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/contract"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	started  []string
	errors   []string
	skipped  []string
	output   map[string]framework.CapturedOutput
	endCalls int
}

func (r *recordingLogger) ScenarioStarted(id ScenarioID) { r.started = append(r.started, id.String()) }

func (r *recordingLogger) ScenarioError(id ScenarioID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}

func (r *recordingLogger) ScenarioFinished(id ScenarioID, result ScenarioResult, debugOutput framework.CapturedOutput) {
	if r.output == nil {
		r.output = make(map[string]framework.CapturedOutput)
	}
	r.output[id.String()] = debugOutput
}

func (r *recordingLogger) ScenarioSkipped(id ScenarioID, reason string) {
	r.skipped = append(r.skipped, id.String()+": "+reason)
}

func (r *recordingLogger) EndLog(Results) error {
	r.endCalls++
	return nil
}

func TestMultiLoggerForwardsEvents(t *testing.T) {
	l1, l2 := &recordingLogger{}, &recordingLogger{}
	multi := &MultiLogger{Loggers: []ScenarioLogger{l1, l2}}
	_, err := Run(Config{Logger: multi}, func(s *T) {
		s.Run("a", func(s *T) {
			s.Debug("hello")
			s.Errorf("bad")
		})
		s.Run("b", func(s *T) { s.SkipWithReason("later") })
	})
	assert.NoError(t, err)
	assert.NoError(t, multi.EndLog(Results{}))

	for _, l := range []*recordingLogger{l1, l2} {
		assert.Equal(t, []string{"a", "b"}, l.started)
		assert.Equal(t, []string{"a: bad"}, l.errors)
		assert.Equal(t, []string{"b: later"}, l.skipped)
		assert.Equal(t, 1, l.endCalls)
		assert.Contains(t, l.output["a"].ToString(""), "hello")
	}
}

func TestPrintResults(t *testing.T) {
	var out, errOut bytes.Buffer
	results := Results{
		Failures:     []ScenarioResult{{ID: ScenarioID{"albums", "create"}, Errors: []error{errors.New("x")}}},
		Expectations: contract.Summary{Total: 3, Passed: 1, Failed: 1, Errors: 1},
	}
	PrintResults(results, &out, &errOut)
	assert.Contains(t, out.String(), "Expectations: 3 total, 1 passed, 1 failed, 1 errors")
	assert.Contains(t, errOut.String(), "FAILED SCENARIOS (1):")
	assert.Contains(t, errOut.String(), "* albums/create")

	out.Reset()
	errOut.Reset()
	PrintResults(Results{}, &out, &errOut)
	assert.Contains(t, out.String(), "All scenarios passed")
	assert.Equal(t, "", errOut.String())
}
