package match

import (
	"context"
	"errors"
)

// ErrorKind classifies why a score fell back to the heuristic path.
type ErrorKind string

const (
	KindNone                       ErrorKind = ""
	KindExternalServiceUnavailable ErrorKind = "external_service_unavailable"
	KindSchemaMismatch             ErrorKind = "schema_mismatch"
	KindInsufficientData           ErrorKind = "insufficient_data"
	KindUpstreamTimeout            ErrorKind = "upstream_timeout"
	KindTransport                  ErrorKind = "transport"
)

var (
	// ErrServiceUnavailable means no text-generation client is configured or it is switched off.
	ErrServiceUnavailable = errors.New("external text-generation service unavailable")
	// ErrSchemaMismatch means a response parsed but did not have the MatchResult shape.
	ErrSchemaMismatch = errors.New("response does not match result schema")
)

// KindOf maps an evaluator error onto the taxonomy. Anything unrecognised is a transport error.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrServiceUnavailable):
		return KindExternalServiceUnavailable
	case errors.Is(err, ErrSchemaMismatch):
		return KindSchemaMismatch
	case errors.Is(err, context.DeadlineExceeded):
		return KindUpstreamTimeout
	default:
		return KindTransport
	}
}
