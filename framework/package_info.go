// Package framework contains the low-level infrastructure for running contract scenarios
// against a REST resource API. The base package contains shared types such as Logger; other
// components are in the subpackages contract, harness, helpers, and runner.
//
// The general model is:
//
// 1. Scenario code issues requests against the API under test through a contract.Engine. Each
// request is dispatched immediately and returns a deferred handle.
//
// 2. Expectations are attached to those handles without waiting for the responses. They are
// evaluated later, when the engine is flushed.
//
// 3. There is a general notion of a scenario scope which is similar to Go's testing.T,
// allowing pieces of test logic to be associated with a scenario identifier and to accumulate
// success/failure results.
//
// The domain-specific code that knows what is being tested is responsible for choosing the
// endpoints, the request payloads, and the expectations.
package framework
