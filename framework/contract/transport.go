package contract

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Transport performs a single HTTP exchange. The engine does not retry, pool, or interpret
// protocol-level details; an implementation returns an error only if no response was received.
type Transport interface {
	Send(ctx context.Context, req Request) (RawResponse, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req Request) (RawResponse, error)

func (f TransportFunc) Send(ctx context.Context, req Request) (RawResponse, error) {
	return f(ctx, req)
}

// Request is what the Issuer hands to a Transport.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// RawResponse is what a Transport returns for a completed exchange.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Response is a RawResponse with its body decoded.
type Response struct {
	StatusCode int
	Header     http.Header

	// Body is the decoded JSON body. An empty body is JSON null. If the body was not valid JSON,
	// Body is a string value containing the raw text and BodyError is non-nil.
	Body      ldvalue.Value
	BodyError error

	RawBody  []byte
	Duration time.Duration
}

func newResponse(raw RawResponse, duration time.Duration) Response {
	body, err := decodeBody(raw.Body)
	header := raw.Header
	if header == nil {
		header = make(http.Header)
	}
	return Response{
		StatusCode: raw.StatusCode,
		Header:     header,
		Body:       body,
		BodyError:  err,
		RawBody:    raw.Body,
		Duration:   duration,
	}
}

func decodeBody(data []byte) (ldvalue.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return ldvalue.Null(), nil
	}
	r := jreader.NewReader(data)
	var value ldvalue.Value
	value.ReadFromJSONReader(&r)
	if err := r.Error(); err != nil {
		return ldvalue.String(string(data)), err
	}
	return value, nil
}
