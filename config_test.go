package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigFile(t *testing.T) {
	c, err := parseConfigFile([]byte(`
baseUrl: http://localhost:3000
timeoutMs: 1500
requestsPerSecond: 2.5
defaultHeaders:
  Accept: application/json
`))
	require.NoError(t, err)
	engine := c.engineConfig()
	assert.Equal(t, "http://localhost:3000", engine.BaseURL)
	assert.Equal(t, 1500*time.Millisecond, engine.Timeout)
	assert.Equal(t, 2.5, engine.RequestsPerSecond)
	assert.Equal(t, map[string]string{"Accept": "application/json"}, engine.DefaultHeaders)
	assert.Equal(t, "", c.ProbePath)
}

func TestParseEmptyConfigFile(t *testing.T) {
	c, err := parseConfigFile(nil)
	require.NoError(t, err)
	assert.Equal(t, configFile{}, c)
}

func TestParseConfigFileErrors(t *testing.T) {
	for _, params := range []struct {
		desc  string
		input string
	}{
		{"unknown key", "baseUrl: http://x\nport: 8000\n"},
		{"wrong type", "timeoutMs: soon\n"},
		{"negative timeout", "timeoutMs: -5\n"},
		{"not YAML", "baseUrl: [unclosed\n"},
	} {
		t.Run(params.desc, func(t *testing.T) {
			_, err := parseConfigFile([]byte(params.input))
			assert.Error(t, err)
		})
	}
}
