package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured marks a provider whose credentials or endpoint are absent.
// This is a routine condition that selects the synthetic fallback; it is
// logged at debug and never surfaced past the aggregator.
var ErrNotConfigured = errors.New("provider not configured")

// ErrPublishSkipped marks a scheduler tick that failed after all
// provider-level fallbacks. The previously cached snapshot stays
// authoritative.
var ErrPublishSkipped = errors.New("publish skipped")

// UpstreamError wraps a provider fetch failure: network error, non-2xx
// response, or malformed payload. It selects the synthetic fallback and is
// logged at warn.
type UpstreamError struct {
	Source string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Source, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err as an upstream failure attributed to source.
func NewUpstreamError(source string, err error) *UpstreamError {
	return &UpstreamError{Source: source, Err: err}
}
