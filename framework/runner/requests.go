package runner

import (
	"context"

	"github.com/restcontract/rest-contract-tests/framework/contract"
)

// Engine returns the engine shared by all scenarios in the run. If the run was started without a
// transport, the scenario fails immediately.
func (t *T) Engine() *contract.Engine {
	if t.env.engine == nil {
		t.Errorf("no transport was configured for this run")
		t.FailNow()
	}
	return t.env.engine
}

// Get issues a GET request through the run's engine.
func (t *T) Get(path string, options ...contract.RequestOption) *contract.PendingRequest {
	return t.Engine().Get(path, options...)
}

// Post issues a POST request through the run's engine.
func (t *T) Post(path string, body interface{}, options ...contract.RequestOption) *contract.PendingRequest {
	return t.Engine().Post(path, body, options...)
}

// Put issues a PUT request through the run's engine.
func (t *T) Put(path string, body interface{}, options ...contract.RequestOption) *contract.PendingRequest {
	return t.Engine().Put(path, body, options...)
}

// Delete issues a DELETE request through the run's engine.
func (t *T) Delete(path string, options ...contract.RequestOption) *contract.PendingRequest {
	return t.Engine().Delete(path, options...)
}

// Wait evaluates every pending expectation and reports the ones that did not pass as failures of
// this scenario. It returns true if they all passed.
func (t *T) Wait() bool {
	return t.Engine().Verify(t)
}

// Await blocks until the request completes and returns its response, for scenarios where a later
// request depends on an earlier one. If no response arrives within the engine's timeout, the
// scenario fails immediately.
func (t *T) Await(req *contract.PendingRequest) contract.Response {
	ctx, cancel := context.WithTimeout(context.Background(), t.Engine().Timeout())
	defer cancel()
	resp, err := req.Await(ctx)
	if err != nil {
		t.Errorf("%s %s did not complete: %s", req.Method(), req.URL(), err)
		t.FailNow()
	}
	return resp
}
