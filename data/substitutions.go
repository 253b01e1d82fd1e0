package data

import (
	"sort"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// substitutionSet maps a placeholder name to its value. In a data file, a placeholder is written
// as <NAME>. A quoted placeholder that is the whole of a JSON string, like "<NAME>", is replaced
// with the value's JSON form, so that numbers stay numbers; anywhere else the placeholder is
// replaced with the value's text.
type substitutionSet map[string]ldvalue.Value

func expandConstants(originalData []byte) ([]byte, error) {
	var header struct {
		Constants substitutionSet `json:"constants"`
	}
	if err := ParseJSONOrYAML(originalData, &header); err != nil {
		return nil, err
	}
	if len(header.Constants) == 0 {
		return originalData, nil
	}
	return header.Constants.apply(originalData), nil
}

func (s substitutionSet) apply(originalData []byte) []byte {
	str := string(originalData)
	// encoding/json escapes angle brackets, so data that has been through it needs unescaping first
	str = strings.ReplaceAll(str, `\u003c`, "<")
	str = strings.ReplaceAll(str, `\u003e`, ">")

	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names)*4)
	for _, name := range names {
		value := s[name]
		typed := value.JSONString()
		text := typed
		if value.IsString() {
			text = value.StringValue()
		}
		pairs = append(pairs, `"<`+name+`>"`, typed, "<"+name+">", text)
	}
	return []byte(strings.NewReplacer(pairs...).Replace(str))
}
