package helpers

import (
	"sort"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
)

// AsJSONValue converts any value that can be marshaled to JSON into an ldvalue.Value. An
// ldvalue.Value is returned unchanged. The Value type is how the engine represents arbitrary
// JSON data, so fixture records and expected values all pass through here.
func AsJSONValue(value interface{}) ldvalue.Value {
	if v, ok := value.(ldvalue.Value); ok {
		return v
	}
	if value == nil {
		return ldvalue.Null()
	}
	return ldvalue.Parse(jsonhelpers.ToJSON(value))
}

// CanonicalizedJSONString reformats a JSON value so that object properties are alphabetized,
// making it easier for a human reader to compare an expected and actual body.
func CanonicalizedJSONString(value ldvalue.Value) string {
	switch value.Type() {
	case ldvalue.ArrayType:
		items := make([]string, 0, value.Count())
		for i := 0; i < value.Count(); i++ {
			items = append(items, CanonicalizedJSONString(value.GetByIndex(i)))
		}
		return "[" + strings.Join(items, ",") + "]"
	case ldvalue.ObjectType:
		keys := SortedKeys(value)
		items := make([]string, 0, len(keys))
		for _, k := range keys {
			items = append(items, ldvalue.String(k).JSONString()+":"+CanonicalizedJSONString(value.GetByKey(k)))
		}
		return "{" + strings.Join(items, ",") + "}"
	default:
		return value.JSONString()
	}
}

// Truncate shortens s to at most maxLength characters, marking the cut with "...".
func Truncate(s string, maxLength int) string {
	if len(s) <= maxLength || maxLength < 4 {
		return s
	}
	return s[:maxLength-3] + "..."
}

// SortedKeys returns the property names of a JSON object in alphabetical order, or nil if the
// value is not an object.
func SortedKeys(value ldvalue.Value) []string {
	if value.Type() != ldvalue.ObjectType {
		return nil
	}
	m := value.AsValueMap().AsMap()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
