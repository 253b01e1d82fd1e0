package harness

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/restcontract/rest-contract-tests/framework/contract"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHarnessWaitsForAPI(t *testing.T) {
	handler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(503),
		httphelpers.HandlerWithStatus(503),
		httphelpers.HandlerWithResponse(404, nil, []byte("not here")),
	)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var output bytes.Buffer
		h, err := NewHarness(server.URL+"/", "/db", 5*time.Second, time.Second, nil, &output)
		require.NoError(t, err)
		assert.Equal(t, server.URL, h.BaseURL())
		assert.Equal(t, ServerInfo{URL: server.URL, ProbeStatus: 404, FullData: []byte("not here")}, h.ServerInfo())
		assert.Contains(t, output.String(), "Connecting to API at "+server.URL+"/db...")
		assert.Contains(t, output.String(), "API responded with status 404")
	})
}

func TestHarnessGivesUpAfterTimeout(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(500), func(server *httptest.Server) {
		var output bytes.Buffer
		_, err := NewHarness(server.URL, "", 300*time.Millisecond, time.Second, nil, &output)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API returned status code 500")
	})
}

func TestHTTPTransportReturnsAnyStatus(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(418, http.Header{"X-Total-Count": []string{"7"}}, []byte(`{"data":[]}`)))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		transport := NewHTTPTransport(time.Second, nil)
		resp, err := transport.Send(context.Background(), contract.Request{
			Method: "POST",
			URL:    server.URL + "/albums?_page=2",
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   []byte(`{"title":"x"}`),
		})
		require.NoError(t, err)
		assert.Equal(t, 418, resp.StatusCode)
		assert.Equal(t, "7", resp.Header.Get("X-Total-Count"))
		assert.Equal(t, `{"data":[]}`, string(resp.Body))

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/albums", r.Request.URL.Path)
		assert.Equal(t, "2", r.Request.URL.Query().Get("_page"))
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.Equal(t, `{"title":"x"}`, string(r.Body))
	})
}

func TestHTTPTransportReportsBrokenConnection(t *testing.T) {
	httphelpers.WithServer(httphelpers.BrokenConnectionHandler(), func(server *httptest.Server) {
		transport := NewHTTPTransport(time.Second, nil)
		_, err := transport.Send(context.Background(), contract.Request{Method: "GET", URL: server.URL})
		assert.Error(t, err)
	})
}

func TestEngineOverHTTPTransport(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": []string{"application/json"}},
		[]byte(`{"data":{"id":1,"name":"Leanne Graham"}}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		engine, err := contract.NewEngine(contract.Config{BaseURL: server.URL}, NewHTTPTransport(time.Second, nil), nil)
		require.NoError(t, err)
		engine.Get("users/1").
			ExpectStatus(200).
			Expect("data.name", contract.Equals("Leanne Graham")).
			Expect("header.content-type", contract.MatchesPattern("json"))
		outcomes := engine.Flush(context.Background())
		require.Len(t, outcomes, 3)
		assert.True(t, engine.Summary().OK(), "%+v", engine.Summary().Failures())
	})
}
