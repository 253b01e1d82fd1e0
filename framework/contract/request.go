package contract

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/restcontract/rest-contract-tests/framework"
)

// State is the lifecycle state of a PendingRequest.
type State int

const (
	// Unresolved means the transport call has not completed.
	Unresolved State = iota
	// Resolved means a response was received.
	Resolved
	// Failed means no response was received, either because of a transport error or because a
	// flush timed out first.
	Failed
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type registeredExpectation struct {
	target      Target
	expectation Expectation
}

// PendingRequest is the deferred handle returned by the Issuer. Expectations can be attached at
// any time; they are evaluated by the next Reconciler flush after the request is terminal.
type PendingRequest struct {
	id      int
	method  string
	url     string
	header  http.Header
	body    []byte
	tracker *tracker
	logger  framework.Logger
	done    chan struct{}

	lock         sync.Mutex
	state        State
	response     Response
	cause        error
	expectations []registeredExpectation
	evaluated    int
	reported     bool
}

func newPendingRequest(id int, method, url string, header http.Header, tracker *tracker, logger framework.Logger) *PendingRequest {
	return &PendingRequest{
		id:      id,
		method:  method,
		url:     url,
		header:  header,
		tracker: tracker,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// ID returns the request's sequence number within its Issuer, starting at 1.
func (r *PendingRequest) ID() int { return r.id }

// Method returns the HTTP method.
func (r *PendingRequest) Method() string { return r.method }

// URL returns the absolute URL, including any query string.
func (r *PendingRequest) URL() string { return r.url }

// State returns the current lifecycle state.
func (r *PendingRequest) State() State {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.state
}

// Done returns a channel that is closed when the request reaches a terminal state.
func (r *PendingRequest) Done() <-chan struct{} { return r.done }

// Await blocks until the request is terminal or the context is done. It returns the response if
// the request resolved, or the failure cause. Awaiting does not evaluate any expectations.
func (r *PendingRequest) Await(ctx context.Context) (Response, error) {
	select {
	case <-r.done:
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state == Failed {
		return Response{}, r.cause
	}
	return r.response, nil
}

// Expect registers an expectation about the given target. It panics if the target string is
// invalid. The expectation is not evaluated until the next flush.
func (r *PendingRequest) Expect(target string, expectation Expectation) *PendingRequest {
	t, err := ParseTarget(target)
	if err != nil {
		panic(err)
	}
	if expectation.kind == 0 {
		panic("uninitialized Expectation; use one of the constructors such as Equals")
	}
	r.lock.Lock()
	r.expectations = append(r.expectations, registeredExpectation{target: t, expectation: expectation})
	r.lock.Unlock()
	r.tracker.add(r)
	return r
}

// ExpectKind is the generic form of Expect, taking the kind and its parameter separately. It
// panics if the kind is unknown or the value is not appropriate for the kind.
func (r *PendingRequest) ExpectKind(target string, kind Kind, value interface{}) *PendingRequest {
	return r.Expect(target, mustExpectation(NewExpectation(kind, value)))
}

// ExpectStatus is shorthand for Expect("status", Equals(status)).
func (r *PendingRequest) ExpectStatus(status int) *PendingRequest {
	return r.Expect("status", Equals(status))
}

func (r *PendingRequest) resolve(resp Response) bool {
	return r.complete(Resolved, resp, nil, func() {
		r.logger.Printf("%s %s -> %d (%s)", r.method, r.url, resp.StatusCode, resp.Duration)
	})
}

func (r *PendingRequest) fail(cause error) bool {
	return r.complete(Failed, Response{}, cause, func() {
		r.logger.Printf("%s %s failed: %s", r.method, r.url, cause)
	})
}

// complete performs the transition out of Unresolved. Only the first call has any effect. The
// transition is logged before anyone waiting on Done is released.
func (r *PendingRequest) complete(state State, resp Response, cause error, logTransition func()) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.state != Unresolved {
		return false
	}
	r.state, r.response, r.cause = state, resp, cause
	logTransition()
	close(r.done)
	return true
}

// takeUnevaluated returns the expectations that have not yet been evaluated, marking them as
// evaluated, along with a snapshot of the terminal state.
func (r *PendingRequest) takeUnevaluated() (snapshot requestSnapshot, pending []registeredExpectation) {
	r.lock.Lock()
	defer r.lock.Unlock()
	pending = r.expectations[r.evaluated:]
	r.evaluated = len(r.expectations)
	snapshot = requestSnapshot{
		request:  r,
		state:    r.state,
		response: r.response,
		cause:    r.cause,
	}
	for _, x := range r.expectations {
		if x.expectation.kind == KindTransportFailure {
			snapshot.expectsFailure = true
		}
	}
	snapshot.bareFailure = r.state == Failed && len(r.expectations) == 0 && !r.reported
	r.reported = true
	return snapshot, pending
}

// Curl returns a curl command line that reproduces the request.
func (r *PendingRequest) Curl() string {
	return curlCommand(r.method, r.url, r.header, r.body)
}
