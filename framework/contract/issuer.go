package contract

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/helpers"

	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
	"golang.org/x/time/rate"
)

// PageParam is the query parameter used by WithPage.
const PageParam = "_page"

type requestParams struct {
	header http.Header
	query  url.Values
}

// RequestOption is the interface for optional parameters to Issue.
type RequestOption helpers.ConfigOption[requestParams]

// WithHeader sets a request header, overriding any default header of the same name.
func WithHeader(name, value string) RequestOption {
	return helpers.ConfigOptionFunc[requestParams](func(p *requestParams) error {
		p.header.Set(name, value)
		return nil
	})
}

// WithQuery adds a query parameter.
func WithQuery(name, value string) RequestOption {
	return helpers.ConfigOptionFunc[requestParams](func(p *requestParams) error {
		p.query.Add(name, value)
		return nil
	})
}

// WithPage requests a page of a collection. Pages are numbered from 1.
func WithPage(page int) RequestOption {
	return helpers.ConfigOptionFunc[requestParams](func(p *requestParams) error {
		if page < 1 {
			return fmt.Errorf("page number must be at least 1 (was %d)", page)
		}
		p.query.Set(PageParam, strconv.Itoa(page))
		return nil
	})
}

// Issuer starts requests and tracks them for the Reconciler.
type Issuer struct {
	config    Config
	transport Transport
	limiter   *rate.Limiter
	tracker   *tracker
	logger    framework.Logger
	lastID    int
	lock      sync.Mutex
}

// NewIssuer creates an Issuer. The config should already have been validated.
func NewIssuer(config Config, transport Transport, logger framework.Logger) *Issuer {
	if logger == nil {
		logger = framework.NullLogger()
	}
	i := &Issuer{
		config:    config,
		transport: transport,
		tracker:   newTracker(),
		logger:    logger,
	}
	if config.RequestsPerSecond > 0 {
		burst := int(config.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		i.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return i
}

// Issue starts a request and returns its handle immediately. The body may be nil, an
// ldvalue.Value, or any value that can be marshaled to JSON.
//
// Issue panics if the method is not one of GET, POST, PUT, or DELETE, if the path cannot be
// parsed as a URL, or if an option is invalid. A failure to get a response is not reported here;
// it moves the request to the Failed state.
func (i *Issuer) Issue(method, path string, body interface{}, options ...RequestOption) *PendingRequest {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		panic(fmt.Sprintf("unsupported HTTP method %q", method))
	}

	params := requestParams{header: make(http.Header), query: make(url.Values)}
	for name, value := range i.config.DefaultHeaders {
		params.header.Set(name, value)
	}
	if err := helpers.ApplyOptions(&params, options...); err != nil {
		panic(err)
	}

	target, err := i.resolveURL(path, params.query)
	if err != nil {
		panic(err)
	}

	i.lock.Lock()
	i.lastID++
	id := i.lastID
	i.lock.Unlock()

	req := newPendingRequest(id, method, target, params.header, i.tracker,
		framework.LoggerWithPrefix(i.logger, fmt.Sprintf("[req %d] ", id)))
	if body != nil {
		req.body = jsonhelpers.ToJSON(helpers.AsJSONValue(body))
		if req.header.Get("Content-Type") == "" {
			req.header.Set("Content-Type", "application/json")
		}
	}
	i.tracker.add(req)

	go i.dispatch(req, Request{Method: method, URL: target, Header: req.header.Clone(), Body: req.body})
	return req
}

// Get issues a GET request.
func (i *Issuer) Get(path string, options ...RequestOption) *PendingRequest {
	return i.Issue(http.MethodGet, path, nil, options...)
}

// Post issues a POST request with a JSON body.
func (i *Issuer) Post(path string, body interface{}, options ...RequestOption) *PendingRequest {
	return i.Issue(http.MethodPost, path, body, options...)
}

// Put issues a PUT request with a JSON body.
func (i *Issuer) Put(path string, body interface{}, options ...RequestOption) *PendingRequest {
	return i.Issue(http.MethodPut, path, body, options...)
}

// Delete issues a DELETE request.
func (i *Issuer) Delete(path string, options ...RequestOption) *PendingRequest {
	return i.Issue(http.MethodDelete, path, nil, options...)
}

func (i *Issuer) resolveURL(path string, query url.Values) (string, error) {
	full := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		full = strings.TrimSuffix(i.config.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	if len(query) > 0 {
		if u.RawQuery != "" {
			u.RawQuery += "&" + query.Encode()
		} else {
			u.RawQuery = query.Encode()
		}
	}
	return u.String(), nil
}

func (i *Issuer) dispatch(req *PendingRequest, r Request) {
	// The context is never canceled by the engine; a request that outlives a flush timeout is
	// simply abandoned, and its eventual completion is ignored.
	ctx := context.Background()
	if i.limiter != nil {
		if err := i.limiter.Wait(ctx); err != nil {
			req.fail(&TransportError{Method: r.Method, URL: r.URL, Err: err})
			return
		}
	}
	req.logger.Printf("sending %s %s", r.Method, r.URL)
	start := time.Now()
	raw, err := i.transport.Send(ctx, r)
	if err != nil {
		req.fail(&TransportError{Method: r.Method, URL: r.URL, Err: err})
		return
	}
	req.resolve(newResponse(raw, time.Since(start)))
}

// tracker holds the requests that have work for the next flush.
type tracker struct {
	lock    sync.Mutex
	pending []*PendingRequest
	queued  map[*PendingRequest]bool
}

func newTracker() *tracker {
	return &tracker{queued: make(map[*PendingRequest]bool)}
}

func (t *tracker) add(r *PendingRequest) {
	t.lock.Lock()
	defer t.lock.Unlock()
	if !t.queued[r] {
		t.queued[r] = true
		t.pending = append(t.pending, r)
	}
}

func (t *tracker) drain() []*PendingRequest {
	t.lock.Lock()
	defer t.lock.Unlock()
	ret := t.pending
	t.pending = nil
	t.queued = make(map[*PendingRequest]bool)
	return ret
}
