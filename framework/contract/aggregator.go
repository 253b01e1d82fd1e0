package contract

import (
	"sync"

	h "github.com/restcontract/rest-contract-tests/framework/helpers"
)

// Aggregator accumulates outcomes for a whole run. It is safe for concurrent use.
type Aggregator struct {
	outcomes []Outcome
	lock     sync.Mutex
}

// Summary is a snapshot of the outcomes recorded so far.
type Summary struct {
	Total   int
	Passed  int
	Failed  int
	Errors  int
	Details []Outcome
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends outcomes. Outcomes passed in a single call are appended together, so the
// outcomes of one request are never interleaved with another's.
func (a *Aggregator) Record(outcomes ...Outcome) {
	a.lock.Lock()
	a.outcomes = append(a.outcomes, outcomes...)
	a.lock.Unlock()
}

// Summary returns the current totals and a copy of all outcomes in the order they were recorded.
func (a *Aggregator) Summary() Summary {
	a.lock.Lock()
	details := h.CopyOf(a.outcomes)
	a.lock.Unlock()
	s := Summary{Total: len(details), Details: details}
	for _, o := range details {
		switch o.Category {
		case CategoryPassed:
			s.Passed++
		case CategoryMismatch:
			s.Failed++
		default:
			s.Errors++
		}
	}
	return s
}

// OK returns true if there were no mismatches and no errors.
func (s Summary) OK() bool { return s.Failed+s.Errors == 0 }

// Failures returns the outcomes that did not pass.
func (s Summary) Failures() []Outcome {
	var ret []Outcome
	for _, o := range s.Details {
		if !o.Passed() {
			ret = append(ret, o)
		}
	}
	return ret
}
