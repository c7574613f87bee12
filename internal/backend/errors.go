package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
)

// Kind categorizes generation failures. The pipeline reports the kind to the
// user and records it in the journal; nothing retries automatically.
type Kind string

const (
	// KindTimeout indicates the backend did not answer within the deadline.
	KindTimeout Kind = "timeout"

	// KindAuth indicates a missing or rejected API key.
	KindAuth Kind = "auth"

	// KindRateLimited indicates the provider refused the request for quota
	// or rate reasons.
	KindRateLimited Kind = "rate_limited"

	// KindRejected indicates the provider accepted the call but declined to
	// generate (content filter, invalid request, empty completion).
	KindRejected Kind = "rejected"

	// KindCanceled indicates the caller canceled the run.
	KindCanceled Kind = "canceled"

	// KindUnavailable indicates a transport failure or provider outage.
	KindUnavailable Kind = "unavailable"

	// KindUnknown indicates an unclassified failure.
	KindUnknown Kind = "unknown"
)

// BackendError wraps a generation failure with its classification.
type BackendError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend: %s: %s", e.Kind, e.Message)
}

func (e *BackendError) Unwrap() error {
	return e.Cause
}

// Classify wraps err in a BackendError with the appropriate kind. Errors
// that are already classified pass through unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return err
	}

	kind := KindUnknown
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.Is(err, context.Canceled):
		kind = KindCanceled
	default:
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			kind = classifyStatus(apiErr.StatusCode)
		} else {
			kind = KindUnavailable
		}
	}
	return &BackendError{Kind: kind, Message: err.Error(), Cause: err}
}

func classifyStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindRejected
	}
	if status >= 500 {
		return KindUnavailable
	}
	return KindUnknown
}

// KindOf extracts the classification from an error chain, or KindUnknown.
func KindOf(err error) Kind {
	var backendErr *BackendError
	if errors.As(err, &backendErr) {
		return backendErr.Kind
	}
	return KindUnknown
}
