package contract

import (
	"errors"
	"fmt"
)

// ErrTimeout is the cause recorded for a request that was still unresolved when a flush timed
// out.
var ErrTimeout = errors.New("timeout")

// TransportError is the cause recorded for a request that did not receive a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PathError describes a target that could not be resolved within a response.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path not found: %s (%s)", e.Path, e.Reason)
}
