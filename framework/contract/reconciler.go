package contract

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Reconciler evaluates the expectations of an Issuer's requests once they are terminal.
type Reconciler struct {
	issuer     *Issuer
	aggregator *Aggregator
	timeout    time.Duration
	lock       sync.Mutex
}

// NewReconciler creates a Reconciler for the requests of the given Issuer. Outcomes are recorded
// in the Aggregator. A zero timeout means DefaultTimeout.
func NewReconciler(issuer *Issuer, aggregator *Aggregator, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Reconciler{issuer: issuer, aggregator: aggregator, timeout: timeout}
}

// Flush waits for every request that has unevaluated expectations, or that was issued since the
// last flush, and evaluates them. Requests are evaluated in the order they become terminal;
// within a request, expectations are evaluated in the order they were registered.
//
// Requests still unresolved when the timeout elapses or the context is canceled are marked as
// Failed with a cause that matches ErrTimeout. Flush returns the outcomes produced by this call,
// which have also been recorded in the Aggregator. Calling Flush when nothing is pending does
// nothing.
func (r *Reconciler) Flush(ctx context.Context) []Outcome {
	r.lock.Lock()
	defer r.lock.Unlock()

	pending := r.issuer.tracker.drain()
	if len(pending) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	terminal := make(chan *PendingRequest, len(pending))
	for _, req := range pending {
		go func(req *PendingRequest) {
			select {
			case <-req.done:
			case <-ctx.Done():
				req.fail(&TransportError{Method: req.method, URL: req.url, Err: timeoutCause(ctx.Err())})
			}
			terminal <- req
		}(req)
	}

	var produced []Outcome
	for range pending {
		req := <-terminal
		outcomes := reconcile(req)
		if len(outcomes) > 0 {
			r.aggregator.Record(outcomes...)
			produced = append(produced, outcomes...)
		}
	}
	return produced
}

func timeoutCause(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return fmt.Errorf("%w (%s)", ErrTimeout, err)
}

type requestSnapshot struct {
	request        *PendingRequest
	state          State
	response       Response
	cause          error
	expectsFailure bool
	bareFailure    bool
}

func reconcile(req *PendingRequest) []Outcome {
	snapshot, pending := req.takeUnevaluated()
	var outcomes []Outcome
	if snapshot.bareFailure {
		outcomes = append(outcomes, Outcome{
			Target:     "request",
			Expected:   "a response",
			Category:   CategoryError,
			Diagnostic: fmt.Sprintf("request failed: %s", snapshot.cause),
		})
	}
	for _, x := range pending {
		if snapshot.state == Resolved {
			outcomes = append(outcomes, snapshot.evaluateResolved(x)...)
		} else {
			outcomes = append(outcomes, snapshot.evaluateFailed(x))
		}
	}
	for i := range outcomes {
		outcomes[i].RequestID = req.id
		outcomes[i].Method = req.method
		outcomes[i].URL = req.url
		if !outcomes[i].Passed() {
			outcomes[i].Reproduce = req.Curl()
		}
	}
	return outcomes
}

func (s requestSnapshot) evaluateResolved(x registeredExpectation) []Outcome {
	base := Outcome{Target: x.target.String(), Kind: x.expectation.kind, Expected: x.expectation.Description()}
	if x.expectation.kind == KindTransportFailure {
		return []Outcome{mismatch(base, ldvalue.Int(s.response.StatusCode),
			fmt.Sprintf("expected no response, but got status %d", s.response.StatusCode))}
	}
	values, err := x.target.resolve(s.response)
	if err != nil {
		return []Outcome{mismatch(base, ldvalue.Null(), err.Error())}
	}
	return applyExpectation(base, x.expectation, values, x.target.isMulti())
}

func (s requestSnapshot) evaluateFailed(x registeredExpectation) Outcome {
	o := Outcome{
		Target:   x.target.String(),
		Kind:     x.expectation.kind,
		Expected: x.expectation.Description(),
		Actual:   ldvalue.String(s.cause.Error()),
	}
	switch {
	case x.expectation.kind == KindTransportFailure:
		o.Category = CategoryPassed
	case s.expectsFailure:
		o.Category = CategoryMismatch
		o.Diagnostic = fmt.Sprintf("no response received: %s", s.cause)
	default:
		o.Category = CategoryError
		o.Diagnostic = fmt.Sprintf("request failed: %s", s.cause)
	}
	return o
}
