// Package runner runs a tree of named scenarios against a contract.Engine, in a way that is
// loosely modeled on Go's testing package. Each scenario gets a *T that issues requests, waits
// for their expectations, and records failures and debug output.
package runner
