package contract

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/restcontract/rest-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Wildcard is the path segment that selects every element of an array or every property value
// of an object.
const Wildcard = "*"

type targetKind int

const (
	targetBody targetKind = iota
	targetStatus
	targetHeaders
	targetHeader
)

// Target identifies the part of a response that an expectation is about.
//
// The accepted forms are "status", "headers", "header.<Name>" or "headers.<Name>", "body" or the
// empty string for the whole body, and "body.<path>" or a bare "<path>" for a dotted path into the
// body. Path segments that are integers index arrays, and Wildcard selects all elements.
//
// Header values resolve as strings. Equals with a numeric expected value still compares them as
// numbers when the header text is numeric, so "header.X-Total-Count" can be checked with
// Equals(501).
type Target struct {
	kind   targetKind
	header string
	path   []string
}

// ParseTarget parses a target string. It returns an error if the string is syntactically invalid;
// whether the target actually exists in a response is only known at evaluation time.
func ParseTarget(s string) (Target, error) {
	switch {
	case s == "status":
		return Target{kind: targetStatus}, nil
	case s == "headers":
		return Target{kind: targetHeaders}, nil
	case strings.HasPrefix(s, "header.") || strings.HasPrefix(s, "headers."):
		name := s[strings.Index(s, ".")+1:]
		if name == "" {
			return Target{}, fmt.Errorf("missing header name in target %q", s)
		}
		return Target{kind: targetHeader, header: name}, nil
	case s == "" || s == "body":
		return Target{kind: targetBody}, nil
	}
	path, err := parsePath(strings.TrimPrefix(s, "body."))
	if err != nil {
		return Target{}, fmt.Errorf("invalid target %q: %w", s, err)
	}
	return Target{kind: targetBody, path: path}, nil
}

func parsePath(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	segs := strings.Split(s, ".")
	for _, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("empty path segment in %q", s)
		}
	}
	return segs, nil
}

// String returns the canonical form of the target, as shown in outcomes.
func (t Target) String() string {
	switch t.kind {
	case targetStatus:
		return "status"
	case targetHeaders:
		return "headers"
	case targetHeader:
		return "header." + t.header
	default:
		return joinPath("body", t.path...)
	}
}

func (t Target) isMulti() bool {
	for _, seg := range t.path {
		if seg == Wildcard {
			return true
		}
	}
	return false
}

// resolvedValue is one value selected by a target, along with its full path for diagnostics.
type resolvedValue struct {
	path  string
	value ldvalue.Value
	text  bool // taken from header text rather than JSON
}

func (t Target) resolve(resp Response) ([]resolvedValue, error) {
	switch t.kind {
	case targetStatus:
		return []resolvedValue{{path: "status", value: ldvalue.Int(resp.StatusCode)}}, nil
	case targetHeaders:
		return []resolvedValue{{path: "headers", value: headersAsValue(resp.Header)}}, nil
	case targetHeader:
		values := resp.Header.Values(t.header)
		if len(values) == 0 {
			return nil, &PathError{Path: t.String(), Reason: "header not present in response"}
		}
		return []resolvedValue{{path: t.String(), value: ldvalue.String(values[0]), text: true}}, nil
	}
	if len(t.path) > 0 && resp.BodyError != nil {
		return nil, &PathError{Path: t.String(), Reason: fmt.Sprintf("body is not valid JSON: %s", resp.BodyError)}
	}
	return walkPath(resp.Body, t.path, "body", nil)
}

// walkPath descends into value one segment at a time, appending each value reached at the end
// of the path to out.
func walkPath(value ldvalue.Value, segs []string, at string, out []resolvedValue) ([]resolvedValue, error) {
	if len(segs) == 0 {
		return append(out, resolvedValue{path: at, value: value}), nil
	}
	seg, rest := segs[0], segs[1:]
	var err error
	switch value.Type() {
	case ldvalue.ObjectType:
		props := value.AsValueMap().AsMap()
		if seg == Wildcard {
			for _, key := range helpers.SortedKeys(value) {
				if out, err = walkPath(props[key], rest, joinPath(at, key), out); err != nil {
					return nil, err
				}
			}
			return out, nil
		}
		prop, ok := props[seg]
		if !ok {
			return nil, &PathError{Path: joinPath(at, seg), Reason: fmt.Sprintf("no property %q", seg)}
		}
		return walkPath(prop, rest, joinPath(at, seg), out)
	case ldvalue.ArrayType:
		if seg == Wildcard {
			for i := 0; i < value.Count(); i++ {
				if out, err = walkPath(value.GetByIndex(i), rest, joinPath(at, strconv.Itoa(i)), out); err != nil {
					return nil, err
				}
			}
			return out, nil
		}
		index, convErr := strconv.Atoi(seg)
		if convErr != nil {
			return nil, &PathError{Path: joinPath(at, seg), Reason: "array index must be an integer"}
		}
		if index < 0 || index >= value.Count() {
			return nil, &PathError{Path: joinPath(at, seg),
				Reason: fmt.Sprintf("index out of range for array of length %d", value.Count())}
		}
		return walkPath(value.GetByIndex(index), rest, joinPath(at, seg), out)
	default:
		return nil, &PathError{Path: joinPath(at, seg), Reason: fmt.Sprintf("%s is %s", at, describeType(value))}
	}
}

func joinPath(base string, segs ...string) string {
	if len(segs) == 0 {
		return base
	}
	if base == "" {
		return strings.Join(segs, ".")
	}
	return base + "." + strings.Join(segs, ".")
}

// numericText converts header text to a number, or returns it unchanged if it is not one.
func numericText(value ldvalue.Value) ldvalue.Value {
	if f, err := strconv.ParseFloat(strings.TrimSpace(value.StringValue()), 64); err == nil {
		return ldvalue.Float64(f)
	}
	return value
}

func headersAsValue(h http.Header) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for name, values := range h {
		if len(values) > 0 {
			b.Set(http.CanonicalHeaderKey(name), ldvalue.String(values[0]))
		}
	}
	return b.Build()
}

func describeType(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.NullType:
		return "null"
	case ldvalue.BoolType:
		return "a boolean"
	case ldvalue.NumberType:
		return "a number"
	case ldvalue.StringType:
		return "a string"
	case ldvalue.ArrayType:
		return "an array"
	default:
		return "an object"
	}
}
