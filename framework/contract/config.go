package contract

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultTimeout is the flush timeout used when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config contains options for an Engine.
type Config struct {
	// BaseURL is the root for all relative request paths, such as "http://localhost:3000".
	BaseURL string

	// Timeout is how long a flush waits for outstanding requests before marking them as failed
	// with ErrTimeout. Zero means DefaultTimeout.
	Timeout time.Duration

	// DefaultHeaders are added to every request. Headers set on an individual request take
	// precedence.
	DefaultHeaders map[string]string

	// RequestsPerSecond, if greater than zero, limits how fast requests are dispatched to the
	// transport. Issuing a request never blocks the caller; the wait happens on the request's
	// own goroutine.
	RequestsPerSecond float64
}

// Validate returns an error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base URL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative (was %s)", c.Timeout)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests per second cannot be negative (was %f)", c.RequestsPerSecond)
	}
	return nil
}

func (c Config) effectiveTimeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
