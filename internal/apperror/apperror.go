package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Kind classifies an operation failure so handlers can map it onto an HTTP
// status without string matching.
type Kind string

const (
	KindValidation       Kind = "validation_failed"
	KindRateLimited      Kind = "rate_limit_exceeded"
	KindForbidden        Kind = "forbidden"
	KindNotFound         Kind = "not_found"
	KindStoreUnavailable Kind = "store_unavailable"
	KindInternal         Kind = "internal"
)

// Error is the single error type crossing service boundaries. Validation
// failures carry every violated rule; rate-limit failures carry the wait
// until the oldest attempt leaves the window.
type Error struct {
	Kind       Kind
	Message    string
	Errors     []string
	RetryAfter time.Duration
	cause      error
}

func (e *Error) Error() string {
	if len(e.Errors) > 0 {
		return e.Message + ": " + strings.Join(e.Errors, "; ")
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Validation builds a collect-all validation failure. The caller guarantees
// errs is non-empty.
func Validation(errs []string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Errors: errs}
}

// RateLimited reports a throttled submission together with the time the
// caller must wait before retrying.
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Message: "too many submissions, slow down", RetryAfter: retryAfter}
}

func Forbidden(msg string) *Error {
	if msg == "" {
		msg = "forbidden"
	}
	return &Error{Kind: KindForbidden, Message: msg}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// StoreUnavailable wraps a persistence failure so callers can decide policy
// explicitly instead of silently diverging from the authoritative store.
func StoreUnavailable(err error) *Error {
	return &Error{Kind: KindStoreUnavailable, Message: "event store unavailable", cause: err}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: err}
}

// KindOf extracts the Kind from any error, defaulting to KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error onto the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Payload renders the JSON body for an error response. Validation errors are
// surfaced verbatim so the caller can display them.
func Payload(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}

	var ae *Error
	if !errors.As(err, &ae) {
		return body
	}

	body["error"] = ae.Message
	body["code"] = string(ae.Kind)
	if len(ae.Errors) > 0 {
		body["errors"] = ae.Errors
	}
	if ae.Kind == KindRateLimited {
		body["retry_after_ms"] = ae.RetryAfter.Milliseconds()
	}
	return body
}
