package analytics

import (
	"errors"
	"fmt"
)

// ErrNoData is returned by single-entity lookups when the entity has no
// metrics in the requested range. Callers can distinguish it from a
// malformed query or a backend failure.
var ErrNoData = errors.New("no metrics for entity")

// ValidationError reports a malformed query (bad entity kind, unknown
// granularity, inverted date range). It is raised before any fetch or cache
// work and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// UpstreamError wraps a raw-record source failure. The service does not
// retry; retry policy belongs to the caller, which knows the transport.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream fetch failed during %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
