package data

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandConstants(t *testing.T) {
	expectedValues := `{
  "id": 10,
  "title": "album 10",
  "url": "https://example.com/10"
}`

	for _, params := range []struct {
		desc  string
		input string
	}{
		{
			"JSON",
			`{
  "constants": { "ID": 10, "HOST": "https://example.com" },
  "values": { "id": "<ID>", "title": "album <ID>", "url": "<HOST>/<ID>" }
}`,
		},
		{
			"YAML",
			`---
constants:
  ID: 10
  HOST: https://example.com
values:
  id: "<ID>"
  title: album <ID>
  url: <HOST>/<ID>
`,
		},
	} {
		t.Run(params.desc, func(t *testing.T) {
			expanded, err := expandConstants([]byte(params.input))
			require.NoError(t, err)
			var s testValuesStruct
			require.NoError(t, ParseJSONOrYAML(expanded, &s))
			m.In(t).Assert(s.Values, m.JSONStrEqual(expectedValues))
		})
	}
}

func TestExpandConstantsWithoutConstantsReturnsDataUnchanged(t *testing.T) {
	input := []byte(`{"values": {"id": "<ID>"}}`)
	expanded, err := expandConstants(input)
	require.NoError(t, err)
	assert.Equal(t, input, expanded)
}

func TestSubstitutionSetUnescapesAngleBrackets(t *testing.T) {
	data := []byte(`{"id":"<ID>","title":"x <ID>"}`)
	out := substitutionSet{"ID": ldvalue.Int(7)}.apply(data)
	assert.Equal(t, `{"id":7,"title":"x 7"}`, string(out))
}

func TestSubstitutionSetStringValues(t *testing.T) {
	out := substitutionSet{"NAME": ldvalue.String("a")}.apply([]byte(`{"x":"<NAME>","y":"<NAME>-b"}`))
	assert.Equal(t, `{"x":"a","y":"a-b"}`, string(out))
}
