package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/restcontract/rest-contract-tests/framework/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParamsFromFlags(t *testing.T) {
	var c commandParams
	require.NoError(t, c.parse([]string{"rest-contract-tests",
		"-url", "http://localhost:3000",
		"-timeout", "3s",
		"-rps", "20",
		"-header", "Authorization: Bearer x",
		"-header", "X-Trace:1",
		"-run", "albums",
		"-skip", "albums/delete",
		"-debug",
		"-junit", "out.xml",
	}))
	assert.Equal(t, "http://localhost:3000", c.engine.BaseURL)
	assert.Equal(t, 3*time.Second, c.engine.Timeout)
	assert.Equal(t, 20.0, c.engine.RequestsPerSecond)
	assert.Equal(t, map[string]string{"Authorization": "Bearer x", "X-Trace": "1"}, c.engine.DefaultHeaders)
	assert.Equal(t, defaultProbePath, c.probePath)
	assert.True(t, c.debug)
	assert.False(t, c.debugAll)
	assert.Equal(t, "out.xml", c.jUnitFile)
	assert.True(t, c.filters.Match(runner.ScenarioID{"albums", "read"}))
	assert.False(t, c.filters.Match(runner.ScenarioID{"albums", "delete"}))
	assert.False(t, c.filters.Match(runner.ScenarioID{"users"}))
}

func TestParamsFlagsOverrideConfigFile(t *testing.T) {
	path := writeTempFile(t, "config.yaml", `
baseUrl: http://from-file:3000
timeoutMs: 2500
requestsPerSecond: 5
probePath: /health
defaultHeaders:
  Authorization: Bearer file
  X-Source: file
`)
	var c commandParams
	require.NoError(t, c.parse([]string{"x", "-config", path, "-rps", "8", "-header", "X-Source: flag"}))
	assert.Equal(t, "http://from-file:3000", c.engine.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, c.engine.Timeout)
	assert.Equal(t, 8.0, c.engine.RequestsPerSecond)
	assert.Equal(t, "/health", c.probePath)
	assert.Equal(t, map[string]string{"Authorization": "Bearer file", "X-Source": "flag"}, c.engine.DefaultHeaders)

	require.NoError(t, c.parse([]string{"x", "-config", path, "-url", "https://from-flag"}))
	assert.Equal(t, "https://from-flag", c.engine.BaseURL)
}

func TestParamsErrors(t *testing.T) {
	for _, params := range []struct {
		desc string
		args []string
	}{
		{"no URL", []string{"x"}},
		{"bad URL scheme", []string{"x", "-url", "ftp://host"}},
		{"negative timeout", []string{"x", "-url", "http://host", "-timeout", "-1s"}},
		{"negative rps", []string{"x", "-url", "http://host", "-rps", "-1"}},
		{"bad header", []string{"x", "-url", "http://host", "-header", "no-colon"}},
		{"bad run pattern", []string{"x", "-url", "http://host", "-run", "("}},
		{"missing config file", []string{"x", "-config", "/no/such/file.yaml"}},
		{"unknown flag", []string{"x", "-url", "http://host", "-port", "8000"}},
	} {
		t.Run(params.desc, func(t *testing.T) {
			var c commandParams
			assert.Error(t, c.parse(params.args))
		})
	}
}
