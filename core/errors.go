package core

import (
	"errors"
	"fmt"
)

// ProviderError represents an error returned by a provider with full context.
type ProviderError struct {
	Provider  string
	Status    int
	RequestID string
	Code      string
	Message   string

	// Err is the classification sentinel (ErrTransport family or ErrDecode).
	Err error
	// Cause is the underlying error, if any (network failure, JSON syntax error).
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("%s: %s (status=%d, code=%s, request_id=%s)",
			e.Provider, e.Message, e.Status, e.Code, e.RequestID)
	}
	return fmt.Sprintf("%s: %s (status=%d, code=%s)",
		e.Provider, e.Message, e.Status, e.Code)
}

// Unwrap returns the classification sentinel and the cause for errors.Is/As.
func (e *ProviderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Sentinel errors for classification.
//
// Every status and connection failure wraps ErrTransport, so callers that only
// care about "the provider call failed" can test for that one value.
var (
	ErrUnsupportedProvider = errors.New("provider not supported")
	ErrTransport           = errors.New("transport error")
	ErrDecode              = errors.New("decode error")

	ErrNetwork      = fmt.Errorf("%w: network error", ErrTransport)
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrTransport)
	ErrRateLimited  = fmt.Errorf("%w: rate limited", ErrTransport)
	ErrBadRequest   = fmt.Errorf("%w: bad request", ErrTransport)
	ErrNotFound     = fmt.Errorf("%w: not found", ErrTransport)
	ErrServer       = fmt.Errorf("%w: server error", ErrTransport)
)

// Validation errors with actionable guidance.
var (
	ErrModelRequired = errors.New("model required: set Request.Model, e.g. \"llama3.2\"")
	ErrNoMessages    = errors.New("no messages: add at least one message to Request.Messages")
	ErrInvalidRole   = errors.New("invalid role: use system, user or assistant")
)

// IsTransportError reports whether err is a transport failure and returns the
// provider status code it carried (0 for connection failures).
func IsTransportError(err error) (int, bool) {
	if !errors.Is(err, ErrTransport) {
		return 0, false
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Status, true
	}
	return 0, true
}

// IsDecodeError reports whether err came from a malformed stream record.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// UnsupportedProviderError builds the error returned when resolution finds no adapter.
func UnsupportedProviderError(id string, available []string) error {
	return fmt.Errorf("%w: %q (available: %v)", ErrUnsupportedProvider, id, available)
}
