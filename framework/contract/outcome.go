package contract

import (
	"fmt"
	"strings"

	h "github.com/restcontract/rest-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Category classifies an Outcome.
type Category int

const (
	// CategoryPassed means the expectation held.
	CategoryPassed Category = iota
	// CategoryMismatch means a response was received but did not meet the expectation, or the
	// target could not be found in it.
	CategoryMismatch
	// CategoryError means the expectation could not be evaluated because no response was
	// received.
	CategoryError
)

func (c Category) String() string {
	switch c {
	case CategoryPassed:
		return "passed"
	case CategoryMismatch:
		return "mismatch"
	case CategoryError:
		return "error"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Outcome is the result of evaluating one expectation.
type Outcome struct {
	RequestID int
	Method    string
	URL       string

	// Target is the resolved target, such as "status" or "body.data.id". For nested expectations
	// it is the full path from the top of the response body.
	Target   string
	Kind     Kind
	Expected string

	// Actual is the value that was compared, captured at evaluation time. It is null if nothing
	// could be resolved.
	Actual     ldvalue.Value
	Category   Category
	Diagnostic string

	// Reproduce is a curl command line for the request. It is only set for outcomes that did not
	// pass.
	Reproduce string
}

// Passed returns true if the expectation held.
func (o Outcome) Passed() bool { return o.Category == CategoryPassed }

// String returns a one-line summary of the outcome.
func (o Outcome) String() string {
	s := fmt.Sprintf("[%s] %s %s: %s (%s)", o.Category, o.Method, o.URL, o.Target, o.Expected)
	if o.Diagnostic != "" {
		s += ": " + o.Diagnostic
	}
	return s
}

// Report returns a multi-line description including the actual value and, for failures, the curl
// reproduction line.
func (o Outcome) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", o.Method, o.URL)
	fmt.Fprintf(&b, "  target: %s\n", o.Target)
	fmt.Fprintf(&b, "  expected: %s\n", o.Expected)
	if o.Category != CategoryError {
		fmt.Fprintf(&b, "  actual: %s\n", h.Truncate(h.CanonicalizedJSONString(o.Actual), 500))
	}
	if o.Diagnostic != "" {
		fmt.Fprintf(&b, "  %s: %s\n", o.Category, o.Diagnostic)
	}
	if o.Reproduce != "" {
		fmt.Fprintf(&b, "  reproduce: %s\n", o.Reproduce)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
