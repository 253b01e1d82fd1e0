package contract

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://api.test"

type cannedResponse struct {
	status int
	body   string
	header http.Header
}

// fakeTransport answers requests by method and path without touching the network.
type fakeTransport struct {
	responses map[string]cannedResponse
	gates     map[string]chan struct{}
	requests  []Request
	lock      sync.Mutex
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string]cannedResponse), gates: make(map[string]chan struct{})}
}

func (f *fakeTransport) on(method, url string, status int, body string, headerKVs ...string) *fakeTransport {
	header := make(http.Header)
	for i := 0; i+1 < len(headerKVs); i += 2 {
		header.Add(headerKVs[i], headerKVs[i+1])
	}
	f.responses[method+" "+testBaseURL+url] = cannedResponse{status: status, body: body, header: header}
	return f
}

// gate makes requests to the URL block until the returned channel is closed.
func (f *fakeTransport) gate(method, url string) chan struct{} {
	ch := make(chan struct{})
	f.gates[method+" "+testBaseURL+url] = ch
	return ch
}

func (f *fakeTransport) Send(ctx context.Context, req Request) (RawResponse, error) {
	f.lock.Lock()
	f.requests = append(f.requests, req)
	f.lock.Unlock()
	key := req.Method + " " + req.URL
	if ch, ok := f.gates[key]; ok {
		<-ch
	}
	resp, ok := f.responses[key]
	if !ok {
		return RawResponse{}, errors.New("connection refused")
	}
	return RawResponse{StatusCode: resp.status, Header: resp.header, Body: []byte(resp.body)}, nil
}

func (f *fakeTransport) sent() []Request {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]Request(nil), f.requests...)
}

func newTestEngine(t *testing.T, transport Transport, timeout time.Duration) *Engine {
	e, err := NewEngine(Config{BaseURL: testBaseURL, Timeout: timeout}, transport, nil)
	require.NoError(t, err)
	return e
}

func flush(e *Engine) []Outcome {
	return e.Flush(context.Background())
}
