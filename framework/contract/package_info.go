// Package contract is an HTTP contract-verification engine with deferred assertions.
//
// Scenario code issues requests through an Issuer and gets back a PendingRequest right away;
// the request itself runs on its own goroutine. Expectations are attached to the handle with
// Expect and are not evaluated until the Reconciler is flushed, at which point every tracked
// request is awaited and its expectations are evaluated in registration order. The results are
// kept by an Aggregator as a list of Outcomes.
//
//	e, _ := contract.NewEngine(config, transport, logger)
//	r := e.Get("albums/1")
//	r.Expect("status", contract.Equals(200))
//	r.Expect("data.title", contract.MatchesType("string"))
//	e.Flush(ctx)
//	summary := e.Summary()
//
// Transport failures, assertion mismatches, and unresolvable targets are all recorded as data;
// nothing that happens to a request aborts the run. Only mistakes in scenario code, such as an
// invalid regular expression passed to MatchesPattern, cause a panic, and they do so at the
// point where the expectation is created.
package contract
