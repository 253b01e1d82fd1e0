package contract

import (
	"context"
	"time"

	"github.com/restcontract/rest-contract-tests/framework"
	"github.com/restcontract/rest-contract-tests/framework/helpers"
)

// Engine bundles an Issuer, a Reconciler, and an Aggregator sharing one configuration. Its
// Issue, Get, Post, Put, and Delete methods come from the embedded Issuer.
type Engine struct {
	*Issuer
	config     Config
	reconciler *Reconciler
	aggregator *Aggregator
}

// NewEngine validates the configuration and creates an Engine. The logger receives a line for
// each request as it is sent and completed; it may be nil.
func NewEngine(config Config, transport Transport, logger framework.Logger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	issuer := NewIssuer(config, transport, logger)
	aggregator := NewAggregator()
	return &Engine{
		Issuer:     issuer,
		config:     config,
		reconciler: NewReconciler(issuer, aggregator, config.effectiveTimeout()),
		aggregator: aggregator,
	}, nil
}

// Timeout returns the flush timeout in effect.
func (e *Engine) Timeout() time.Duration {
	return e.config.effectiveTimeout()
}

// Flush evaluates all pending expectations. See Reconciler.Flush.
func (e *Engine) Flush(ctx context.Context) []Outcome {
	return e.reconciler.Flush(ctx)
}

// Summary returns the outcomes of every flush so far.
func (e *Engine) Summary() Summary {
	return e.aggregator.Summary()
}

// Verify flushes and reports every outcome that did not pass to the test context. It returns true
// if all of this flush's outcomes passed.
func (e *Engine) Verify(t helpers.TestContext) bool {
	ok := true
	for _, o := range e.Flush(context.Background()) {
		if !o.Passed() {
			t.Errorf("%s", o.Report())
			ok = false
		}
	}
	return ok
}
