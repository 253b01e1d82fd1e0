package harness

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/helpers"
)

const probeInterval = 100 * time.Millisecond

// ServerInfo is what we learned about the API under test from the readiness probe.
type ServerInfo struct {
	// URL is the base URL of the API.
	URL string

	// ProbeStatus is the status code returned by the probe request.
	ProbeStatus int

	// FullData is the body of the probe response.
	FullData []byte
}

// Harness manages the connection to the API under test.
//
// It verifies on startup that the API is accepting requests, and then provides a transport that
// carries the engine's requests to it. It contains no knowledge of the API's resources.
type Harness struct {
	baseURL    string
	serverInfo ServerInfo
	transport  *HTTPTransport
	logger     framework.Logger
}

// NewHarness creates a Harness, waiting up to startupTimeout for the API at baseURL to respond to
// a GET of probePath with any status below 500. Progress is written to startupOutput.
func NewHarness(
	baseURL string,
	probePath string,
	startupTimeout time.Duration,
	requestTimeout time.Duration,
	debugLogger framework.Logger,
	startupOutput io.Writer,
) (*Harness, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	h := &Harness{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		transport: NewHTTPTransport(requestTimeout, debugLogger),
		logger:    debugLogger,
	}
	info, err := probeServer(h.baseURL+"/"+strings.TrimPrefix(probePath, "/"), startupTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	info.URL = h.baseURL
	h.serverInfo = info
	return h, nil
}

// ServerInfo returns the result of the readiness probe.
func (h *Harness) ServerInfo() ServerInfo {
	return h.serverInfo
}

// Transport returns the transport for sending requests to the API.
func (h *Harness) Transport() *HTTPTransport {
	return h.transport
}

// BaseURL returns the base URL of the API, without a trailing slash.
func (h *Harness) BaseURL() string {
	return h.baseURL
}

func probeServer(url string, timeout time.Duration, output io.Writer) (ServerInfo, error) {
	fmt.Fprintf(output, "Connecting to API at %s", url)

	var info ServerInfo
	var lastErr error
	ready := helpers.PollForSpecificResultValue(func() bool {
		fmt.Fprintf(output, ".")
		status, body, err := doProbe(url)
		if err != nil {
			lastErr = err
			return false
		}
		if status >= 500 {
			lastErr = fmt.Errorf("API returned status code %d", status)
			return false
		}
		info = ServerInfo{ProbeStatus: status, FullData: body}
		return true
	}, timeout, probeInterval, true)
	fmt.Fprintln(output)

	if !ready {
		return ServerInfo{}, fmt.Errorf("timed out waiting for API, result of last query was: %w", lastErr)
	}
	fmt.Fprintf(output, "API responded with status %d\n", info.ProbeStatus)
	return info, nil
}

func doProbe(url string) (int, []byte, error) {
	resp, err := http.DefaultClient.Get(url)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
