package llm

import (
	"errors"
	"fmt"
)

// FailureKind classifies a gateway failure for retry and surfacing decisions
type FailureKind string

const (
	FailAuth        FailureKind = "auth_failure"       // Bad or missing credentials; never retried
	FailRateLimited FailureKind = "rate_limited"       // External throttling; retried with long backoff
	FailTimeout     FailureKind = "timeout"            // Per-call deadline exceeded; retried
	FailConnection  FailureKind = "connection_failure" // Transport-level failure; retried
	FailMalformed   FailureKind = "malformed_response" // Call succeeded but returned no usable text; retried
	FailBadRequest  FailureKind = "bad_request"        // Request the API rejected outright; never retried
)

// GatewayError is the typed failure every gateway call resolves to.
// Attempts records how many calls were actually made before giving up.
type GatewayError struct {
	Kind     FailureKind
	Attempts int
	Err      error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case FailAuth:
		return fmt.Sprintf("model API authentication failed (check API key): %v", e.Err)
	case FailRateLimited:
		return fmt.Sprintf("model API rate limit still in effect after %d attempts: %v", e.Attempts, e.Err)
	case FailTimeout:
		return fmt.Sprintf("model API call timed out after %d attempts: %v", e.Attempts, e.Err)
	case FailConnection:
		return fmt.Sprintf("could not reach model API after %d attempts: %v", e.Attempts, e.Err)
	case FailMalformed:
		return fmt.Sprintf("model API returned no usable text content after %d attempts: %v", e.Attempts, e.Err)
	default:
		return fmt.Sprintf("model API rejected the request: %v", e.Err)
	}
}

func (e *GatewayError) Unwrap() error { return e.Err }

// Retryable reports whether the failure kind participates in the retry budget
func (k FailureKind) Retryable() bool {
	switch k {
	case FailRateLimited, FailTimeout, FailConnection, FailMalformed:
		return true
	}
	return false
}

// KindOf extracts the failure kind from an error chain, if any
func KindOf(err error) (FailureKind, bool) {
	var ge *GatewayError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}

// IsAuthFailure reports whether err is a non-retryable credential problem
func IsAuthFailure(err error) bool {
	k, ok := KindOf(err)
	return ok && k == FailAuth
}

// IsRateLimited reports whether err is external throttling
func IsRateLimited(err error) bool {
	k, ok := KindOf(err)
	return ok && k == FailRateLimited
}

// EmptyResponseError distinguishes "model said nothing" from "model said
// something malformed" at the parser boundary.
type EmptyResponseError struct{}

func (e *EmptyResponseError) Error() string {
	return "model returned an empty response; nothing to parse"
}

// UnparsableResponseError carries the original parse failure plus a bounded
// preview of the raw text for diagnostics.
type UnparsableResponseError struct {
	Preview string
	Err     error
}

func (e *UnparsableResponseError) Error() string {
	return fmt.Sprintf("model response is not valid JSON (%v); response begins: %q", e.Err, e.Preview)
}

func (e *UnparsableResponseError) Unwrap() error { return e.Err }
