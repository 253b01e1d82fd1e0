// Package servicedef contains definitions for the REST conventions that the API under test must
// follow: the collection names, the response envelope, and the pagination parameters.
//
// The package is used by the scenarios and by the mock API, so that both sides agree on the wire
// format.
package servicedef
