package harness

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/contract"
)

// HTTPTransport sends the engine's requests over HTTP. It does not retry, and it does not treat
// any status code as an error; only a failure to get a response is an error.
type HTTPTransport struct {
	client *http.Client
	logger framework.Logger
}

// NewHTTPTransport creates an HTTPTransport. A timeout of zero means requests can take as long as
// the engine is willing to wait for them.
func NewHTTPTransport(timeout time.Duration, debugLogger framework.Logger) *HTTPTransport {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: debugLogger,
	}
}

func (t *HTTPTransport) Send(ctx context.Context, r contract.Request) (contract.RawResponse, error) {
	var bodyReader io.Reader
	if r.Body != nil {
		bodyReader = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, bodyReader)
	if err != nil {
		return contract.RawResponse{}, err
	}
	for name, values := range r.Header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Printf("HTTP %s %s failed: %s", r.Method, r.URL, err)
		return contract.RawResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contract.RawResponse{}, err
	}
	return contract.RawResponse{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
