package runner

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"

	"github.com/restcontract/rest-contract-tests/framework/harness"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJUnitLoggerWritesReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	logger := NewJUnitLogger(path, harness.ServerInfo{URL: "http://localhost:3000", ProbeStatus: 200}, RegexFilters{})

	results, err := Run(Config{Logger: logger}, func(s *T) {
		s.Run("albums", func(s *T) {
			s.Run("create", func(s *T) {})
			s.Run("duplicate", func(s *T) {
				s.Debug("sent POST")
				s.Errorf("expected 500")
			})
		})
		s.Run("users", func(s *T) {
			s.Run("pending", func(s *T) { s.Pending() })
		})
	})
	require.NoError(t, err)
	require.NoError(t, logger.EndLog(results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))

	require.Len(t, doc.Suites, 2)
	albums := doc.Suites[0]
	assert.Equal(t, "API contract tests: albums", albums.Name)
	assert.Equal(t, 3, albums.Tests)
	assert.Equal(t, 1, albums.Failures)
	require.Len(t, albums.TestCases, 3)
	assert.Equal(t, "albums", albums.TestCases[0].Name)
	assert.Nil(t, albums.TestCases[1].Failure)
	require.NotNil(t, albums.TestCases[2].Failure)
	assert.Equal(t, "expected 500", albums.TestCases[2].Failure.Message)
	assert.Contains(t, albums.TestCases[2].Failure.Contents, "sent POST")

	users := doc.Suites[1]
	assert.Equal(t, 1, users.Skipped)
	require.Len(t, users.TestCases, 2)
	require.NotNil(t, users.TestCases[1].SkipMessage)
	assert.Equal(t, "pending", users.TestCases[1].SkipMessage.Message)

	props := make(map[string]string)
	for _, p := range albums.Properties {
		props[p.Name] = p.Value
	}
	assert.Equal(t, "http://localhost:3000", props["api.url"])
	assert.Equal(t, "0", props["expectations.total"])
}
