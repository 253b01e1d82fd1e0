package helpers

import (
	"time"
)

// PollForSpecificResultValue calls testFn right away and then once per interval, returning true
// as soon as it yields expectedValue, or false once timeout has passed without that happening.
func PollForSpecificResultValue[V comparable](
	testFn func() V,
	timeout time.Duration,
	interval time.Duration,
	expectedValue V,
) bool {
	deadline := time.Now().Add(timeout)
	for {
		if testFn() == expectedValue {
			return true
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return false
		}
		time.Sleep(min(interval, remaining))
	}
}
