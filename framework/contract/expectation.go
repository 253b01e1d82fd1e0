package contract

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	h "github.com/restcontract/rest-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

// Kind identifies the comparison an Expectation performs.
type Kind int

const (
	KindEquals Kind = iota + 1
	KindMatchesType
	KindMatchesPattern
	KindLengthEquals
	KindIsArray
	KindCustom
	KindSatisfies
	KindTransportFailure
)

func (k Kind) String() string {
	switch k {
	case KindEquals:
		return "equals"
	case KindMatchesType:
		return "matches type"
	case KindMatchesPattern:
		return "matches pattern"
	case KindLengthEquals:
		return "length equals"
	case KindIsArray:
		return "is array"
	case KindCustom:
		return "custom"
	case KindSatisfies:
		return "satisfies"
	case KindTransportFailure:
		return "transport failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// CustomFunc is the callback for a Custom expectation. It receives the resolved value and may
// register nested expectations on it, or report a failure directly, through the Assertions.
type CustomFunc func(value ldvalue.Value, a *Assertions)

// Expectation is an assertion that has not yet been attached to a request. Expectations are
// immutable and can be shared between requests.
type Expectation struct {
	kind        Kind
	description string
	matcher     m.Matcher
	explain     func(actual ldvalue.Value, at string) string
	predicate   CustomFunc
	expected    ldvalue.Value // for KindEquals
}

// Kind returns the kind of comparison.
func (e Expectation) Kind() Kind { return e.kind }

// Description describes what the expectation requires, such as "equal to 201".
func (e Expectation) Description() string { return e.description }

// Matcher returns the expectation as a go-test-helpers Matcher operating on ldvalue.Value. For
// kinds that are not simple value comparisons (Custom and transport failure) it is the zero
// Matcher, which passes everything.
func (e Expectation) Matcher() m.Matcher { return e.matcher }

// test applies the matcher to a resolved value. On failure it returns a diagnostic for the
// value found at the given path.
func (e Expectation) test(actual ldvalue.Value, at string) (bool, string) {
	pass, failDescription := e.matcher.Test(actual)
	if pass {
		return true, ""
	}
	if e.explain != nil {
		return false, e.explain(actual, at)
	}
	return false, failDescription
}

// NewExpectation creates an Expectation from a kind and its parameter. It returns an error for an
// unknown kind or a parameter that is not appropriate for the kind:
//
//   - KindEquals: any value; it is converted with AsJSONValue
//   - KindMatchesType: one of the type tags accepted by MatchesType
//   - KindMatchesPattern: a regular expression string
//   - KindLengthEquals: an int
//   - KindIsArray, KindTransportFailure: nil
//   - KindCustom: a CustomFunc or func(ldvalue.Value, *Assertions)
//   - KindSatisfies: a matchers.Matcher
func NewExpectation(kind Kind, value interface{}) (Expectation, error) {
	switch kind {
	case KindEquals:
		return equalsExpectation(h.AsJSONValue(value)), nil
	case KindMatchesType:
		tag, ok := value.(string)
		if !ok {
			return Expectation{}, wrongValueType(kind, value)
		}
		return typeExpectation(kind, tag)
	case KindMatchesPattern:
		pattern, ok := value.(string)
		if !ok {
			return Expectation{}, wrongValueType(kind, value)
		}
		return patternExpectation(pattern)
	case KindLengthEquals:
		n, ok := value.(int)
		if !ok {
			return Expectation{}, wrongValueType(kind, value)
		}
		if n < 0 {
			return Expectation{}, fmt.Errorf("expected length cannot be negative (was %d)", n)
		}
		return lengthExpectation(n), nil
	case KindIsArray:
		if value != nil {
			return Expectation{}, wrongValueType(kind, value)
		}
		return typeExpectation(kind, "array")
	case KindCustom:
		var fn CustomFunc
		switch f := value.(type) {
		case CustomFunc:
			fn = f
		case func(ldvalue.Value, *Assertions):
			fn = f
		default:
			return Expectation{}, wrongValueType(kind, value)
		}
		if fn == nil {
			return Expectation{}, fmt.Errorf("custom expectation requires a non-nil function")
		}
		return Expectation{kind: KindCustom, description: "custom predicate", predicate: fn}, nil
	case KindSatisfies:
		matcher, ok := value.(m.Matcher)
		if !ok {
			return Expectation{}, wrongValueType(kind, value)
		}
		return Expectation{kind: KindSatisfies, description: "satisfying matcher", matcher: matcher}, nil
	case KindTransportFailure:
		if value != nil {
			return Expectation{}, wrongValueType(kind, value)
		}
		return Expectation{kind: KindTransportFailure, description: "no response (transport failure)"}, nil
	default:
		return Expectation{}, fmt.Errorf("unknown expectation kind %s", kind)
	}
}

func wrongValueType(kind Kind, value interface{}) error {
	return fmt.Errorf("invalid parameter for %q expectation: %T", kind, value)
}

func mustExpectation(e Expectation, err error) Expectation {
	if err != nil {
		panic(err)
	}
	return e
}

// Equals expects the value to be structurally equal to the expected value, which can be an
// ldvalue.Value or anything that marshals to JSON. Numbers compare by value, so Equals(201)
// matches a status of 201.
func Equals(expected interface{}) Expectation {
	return mustExpectation(NewExpectation(KindEquals, expected))
}

// MatchesType expects the value to be of a JSON type: "null", "boolean" (or "bool"), "number",
// "integer", "string", "array", or "object". It panics for any other tag.
func MatchesType(tag string) Expectation {
	return mustExpectation(NewExpectation(KindMatchesType, tag))
}

// MatchesPattern expects the string form of the value to match a regular expression. Strings are
// matched as-is; other values are matched against their JSON representation, so
// MatchesPattern("^20") matches any 2xx status. It panics if the pattern is invalid.
func MatchesPattern(pattern string) Expectation {
	return mustExpectation(NewExpectation(KindMatchesPattern, pattern))
}

// LengthEquals expects an array, object, or string of the given length.
func LengthEquals(n int) Expectation {
	return mustExpectation(NewExpectation(KindLengthEquals, n))
}

// IsArray expects the value to be a JSON array.
func IsArray() Expectation {
	return mustExpectation(NewExpectation(KindIsArray, nil))
}

// Custom runs a callback against the value. The callback can register nested expectations
// relative to the value, each of which gets its own outcome, or report failures directly with
// Errorf, which fail the Custom outcome itself.
func Custom(fn CustomFunc) Expectation {
	return mustExpectation(NewExpectation(KindCustom, fn))
}

// Satisfies applies any matcher to the value. The matcher receives an ldvalue.Value.
func Satisfies(matcher m.Matcher) Expectation {
	return mustExpectation(NewExpectation(KindSatisfies, matcher))
}

// ExpectTransportFailure expects the request to get no response at all. Its target is ignored.
func ExpectTransportFailure() Expectation {
	return mustExpectation(NewExpectation(KindTransportFailure, nil))
}

func equalsExpectation(expected ldvalue.Value) Expectation {
	description := "equal to " + h.Truncate(h.CanonicalizedJSONString(expected), 200)
	explain := func(actual ldvalue.Value, at string) string {
		path, want, got := firstDifference(expected, actual, at)
		if path == "" {
			return fmt.Sprintf("expected %s, got %s", want, got)
		}
		return fmt.Sprintf("%s differs: expected %s, got %s", path, want, got)
	}
	return Expectation{
		kind:        KindEquals,
		description: description,
		matcher: m.New(
			func(value interface{}) bool { return h.AsJSONValue(value).Equal(expected) },
			func() string { return description },
			func(value interface{}) string { return explain(h.AsJSONValue(value), "") },
		),
		explain:  explain,
		expected: expected,
	}
}

// comparesNumbers is true for an Equals expectation with a numeric expected value.
func (e Expectation) comparesNumbers() bool {
	return e.kind == KindEquals && e.expected.IsNumber()
}

// firstDifference walks two values in parallel and returns the path of the first place they
// differ, with a description of each side. Object keys are visited in sorted order.
func firstDifference(expected, actual ldvalue.Value, at string) (path, want, got string) {
	if expected.Type() != actual.Type() {
		return at, describeValue(expected), describeValue(actual)
	}
	switch expected.Type() {
	case ldvalue.ObjectType:
		wantProps, gotProps := expected.AsValueMap().AsMap(), actual.AsValueMap().AsMap()
		for _, key := range h.SortedKeys(expected) {
			gotProp, ok := gotProps[key]
			if !ok {
				return joinPath(at, key), describeValue(wantProps[key]), "no such property"
			}
			if p, w, g := firstDifference(wantProps[key], gotProp, joinPath(at, key)); w != "" {
				return p, w, g
			}
		}
		for _, key := range h.SortedKeys(actual) {
			if _, ok := wantProps[key]; !ok {
				return joinPath(at, key), "no such property", describeValue(gotProps[key])
			}
		}
	case ldvalue.ArrayType:
		if expected.Count() != actual.Count() {
			return at, fmt.Sprintf("array of length %d", expected.Count()),
				fmt.Sprintf("array of length %d", actual.Count())
		}
		for i := 0; i < expected.Count(); i++ {
			if p, w, g := firstDifference(expected.GetByIndex(i), actual.GetByIndex(i),
				joinPath(at, fmt.Sprint(i))); w != "" {
				return p, w, g
			}
		}
	default:
		if !expected.Equal(actual) {
			return at, describeValue(expected), describeValue(actual)
		}
	}
	return "", "", ""
}

func describeValue(value ldvalue.Value) string {
	return h.Truncate(h.CanonicalizedJSONString(value), 200)
}

var typeTests = map[string]func(ldvalue.Value) bool{
	"null":    ldvalue.Value.IsNull,
	"boolean": ldvalue.Value.IsBool,
	"bool":    ldvalue.Value.IsBool,
	"number":  ldvalue.Value.IsNumber,
	"integer": ldvalue.Value.IsInt,
	"string":  ldvalue.Value.IsString,
	"array":   func(v ldvalue.Value) bool { return v.Type() == ldvalue.ArrayType },
	"object":  func(v ldvalue.Value) bool { return v.Type() == ldvalue.ObjectType },
}

func typeExpectation(kind Kind, tag string) (Expectation, error) {
	test, ok := typeTests[tag]
	if !ok {
		return Expectation{}, fmt.Errorf("unknown type tag %q", tag)
	}
	explain := func(actual ldvalue.Value, _ string) string {
		return fmt.Sprintf("expected %s, got %s", tag, describeType(actual))
	}
	return Expectation{
		kind:        kind,
		description: "value of type " + tag,
		matcher: m.New(
			func(value interface{}) bool { return test(h.AsJSONValue(value)) },
			func() string { return "value of type " + tag },
			func(value interface{}) string { return explain(h.AsJSONValue(value), "") },
		),
		explain: explain,
	}, nil
}

func patternExpectation(pattern string) (Expectation, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Expectation{}, fmt.Errorf("invalid pattern: %w", err)
	}
	description := fmt.Sprintf("matching /%s/", pattern)
	explain := func(actual ldvalue.Value, _ string) string {
		return fmt.Sprintf("%q does not match /%s/", stringForm(actual), pattern)
	}
	return Expectation{
		kind:        KindMatchesPattern,
		description: description,
		matcher: m.New(
			func(value interface{}) bool { return re.MatchString(stringForm(h.AsJSONValue(value))) },
			func() string { return description },
			func(value interface{}) string { return explain(h.AsJSONValue(value), "") },
		),
		explain: explain,
	}, nil
}

func stringForm(value ldvalue.Value) string {
	if value.IsString() {
		return value.StringValue()
	}
	return value.JSONString()
}

func lengthOf(value ldvalue.Value) (int, bool) {
	switch value.Type() {
	case ldvalue.ArrayType, ldvalue.ObjectType:
		return value.Count(), true
	case ldvalue.StringType:
		return utf8.RuneCountInString(value.StringValue()), true
	default:
		return 0, false
	}
}

func lengthExpectation(n int) Expectation {
	description := fmt.Sprintf("length %d", n)
	explain := func(actual ldvalue.Value, _ string) string {
		if length, ok := lengthOf(actual); ok {
			return fmt.Sprintf("expected length %d, got %d", n, length)
		}
		return fmt.Sprintf("expected length %d, but value is %s", n, describeType(actual))
	}
	return Expectation{
		kind:        KindLengthEquals,
		description: description,
		matcher: m.New(
			func(value interface{}) bool {
				length, ok := lengthOf(h.AsJSONValue(value))
				return ok && length == n
			},
			func() string { return description },
			func(value interface{}) string { return explain(h.AsJSONValue(value), "") },
		),
		explain: explain,
	}
}
