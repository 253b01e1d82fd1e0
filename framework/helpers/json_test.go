package helpers

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
)

func TestAsJSONValue(t *testing.T) {
	assert.Equal(t, ldvalue.Null(), AsJSONValue(nil))
	assert.Equal(t, ldvalue.String("x"), AsJSONValue(ldvalue.String("x")))
	assert.Equal(t, ldvalue.Int(3), AsJSONValue(3))

	type album struct {
		UserID int    `json:"userId"`
		Title  string `json:"title"`
	}
	assert.Equal(t,
		ldvalue.ObjectBuild().Set("userId", ldvalue.Int(1)).Set("title", ldvalue.String("t")).Build(),
		AsJSONValue(album{UserID: 1, Title: "t"}))
}

func TestCanonicalizedJSONString(t *testing.T) {
	v := ldvalue.Parse([]byte(`{"b":[3,{"z":1,"a":2}],"a":"x"}`))
	assert.Equal(t, `{"a":"x","b":[3,{"a":2,"z":1}]}`, CanonicalizedJSONString(v))
	assert.Equal(t, `null`, CanonicalizedJSONString(ldvalue.Null()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
}
