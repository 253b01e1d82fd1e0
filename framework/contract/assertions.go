package contract

import (
	"fmt"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Assertions is passed to a Custom callback. Expectations registered on it are evaluated
// immediately against the callback's value, and their outcomes are recorded right after the
// outcome of the Custom expectation itself. The Custom outcome fails only for failures reported
// through Errorf or FailNow; a failing nested expectation shows up as its own outcome.
//
// Assertions also implements the Errorf/FailNow methods of a test context, so it can be used with
// matchers.In(a).Assert(...).
type Assertions struct {
	value    ldvalue.Value
	at       string
	base     Outcome
	outcomes []Outcome
	failures []string
}

type failNowSignal struct{}

// Value returns the value the Custom expectation was applied to.
func (a *Assertions) Value() ldvalue.Value { return a.value }

// Path returns the full path of the value within the response.
func (a *Assertions) Path() string { return a.at }

// Expect registers a nested expectation on a dotted path relative to the value. An empty path
// means the value itself. It panics if the path is invalid or the expectation is a transport
// failure expectation.
func (a *Assertions) Expect(path string, expectation Expectation) {
	segs, err := parsePath(path)
	if err != nil {
		panic(err)
	}
	if expectation.kind == KindTransportFailure || expectation.kind == 0 {
		panic(fmt.Sprintf("%s expectation cannot be used inside a custom expectation", expectation.kind))
	}
	base := a.base
	base.Target = joinPath(a.at, segs...)
	base.Kind = expectation.kind
	base.Expected = expectation.Description()
	values, err := walkPath(a.value, segs, a.at, nil)
	if err != nil {
		a.outcomes = append(a.outcomes, mismatch(base, ldvalue.Null(), err.Error()))
		return
	}
	a.outcomes = append(a.outcomes, applyExpectation(base, expectation, values, isMultiPath(segs))...)
}

// ExpectKind is the generic form of Expect.
func (a *Assertions) ExpectKind(path string, kind Kind, value interface{}) {
	a.Expect(path, mustExpectation(NewExpectation(kind, value)))
}

// Errorf records a failure of the Custom expectation without a nested outcome.
func (a *Assertions) Errorf(format string, args ...interface{}) {
	a.failures = append(a.failures, fmt.Sprintf(format, args...))
}

// FailNow stops the Custom callback. Any failures recorded so far are kept.
func (a *Assertions) FailNow() {
	panic(failNowSignal{})
}

func (a *Assertions) run(fn CustomFunc) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(failNowSignal); ok {
				if len(a.failures) == 0 {
					a.failures = append(a.failures, "custom expectation stopped")
				}
				return
			}
			a.failures = append(a.failures, fmt.Sprintf("custom expectation panicked: %v", r))
		}
	}()
	fn(a.value, a)
}

// diagnostic covers only failures reported on the Assertions itself. Nested expectations have
// outcomes of their own, so a failing one is counted once.
func (a *Assertions) diagnostic() string {
	return strings.Join(a.failures, "; ")
}

func isMultiPath(segs []string) bool {
	return Target{path: segs}.isMulti()
}

// applyExpectation evaluates an expectation against the values selected by a target. A target with
// a wildcard is evaluated element by element and produces a single outcome; a Custom expectation
// on such a target receives all the values as one array.
func applyExpectation(base Outcome, e Expectation, values []resolvedValue, multi bool) []Outcome {
	var combined ldvalue.Value
	if !multi && len(values) == 1 {
		combined = values[0].value
	} else {
		items := make([]ldvalue.Value, 0, len(values))
		for _, v := range values {
			items = append(items, v.value)
		}
		combined = ldvalue.ArrayOf(items...)
	}

	if e.kind == KindCustom {
		a := &Assertions{value: combined, at: base.Target, base: base}
		if !multi {
			a.at = values[0].path
		}
		a.run(e.predicate)
		base.Actual = combined
		if diag := a.diagnostic(); diag != "" {
			base.Category = CategoryMismatch
			base.Diagnostic = diag
		}
		return append([]Outcome{base}, a.outcomes...)
	}

	for _, v := range values {
		if v.text && e.comparesNumbers() {
			v.value = numericText(v.value)
		}
		if pass, diag := e.test(v.value, v.path); !pass {
			if multi && e.explain == nil {
				diag = fmt.Sprintf("%s: %s", v.path, diag)
			}
			return []Outcome{mismatch(base, v.value, diag)}
		}
	}
	base.Actual = combined
	return []Outcome{base}
}

func mismatch(base Outcome, actual ldvalue.Value, diagnostic string) Outcome {
	base.Category = CategoryMismatch
	base.Actual = actual
	base.Diagnostic = diagnostic
	return base
}
