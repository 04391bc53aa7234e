// Package normalize provides shared provider error normalization helpers.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/petal-labs/unify/core"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 * 1024

// errorEnvelope covers the error shapes used by the supported providers:
// {"error":"..."}, {"error":{"message":"...","type":"...","code":"..."}},
// {"message":"..."} and {"detail":"...","title":"..."}.
type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Detail  json.RawMessage `json:"detail"`
	Title   string          `json:"title"`
}

type errorObject struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

// ParseErrorBody extracts a message and code from a provider error body.
// Unrecognized bodies are returned verbatim as the message.
func ParseErrorBody(body []byte) (message, code string) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "", ""
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return trimmed, ""
	}

	if len(env.Error) > 0 && string(env.Error) != "null" {
		var s string
		if err := json.Unmarshal(env.Error, &s); err == nil {
			return s, env.Type
		}
		var obj errorObject
		if err := json.Unmarshal(env.Error, &obj); err == nil {
			code := obj.Type
			if obj.Code != nil {
				code = fmt.Sprint(obj.Code)
			}
			return obj.Message, code
		}
	}
	if env.Message != "" {
		return env.Message, env.Type
	}
	if len(env.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(env.Detail, &detail); err == nil && detail != "" {
			return detail, env.Type
		}
	}
	if env.Title != "" {
		return env.Title, env.Type
	}
	return "", env.Type
}

// StatusError reads a non-success response body and builds a transport error
// carrying the status.
func StatusError(provider string, status int, body io.Reader, requestID string) error {
	var raw []byte
	if body != nil {
		raw, _ = io.ReadAll(io.LimitReader(body, maxErrorBody))
	}
	message, code := ParseErrorBody(raw)
	if code == "" {
		code = CodeForStatus(status)
	}
	return ProviderError(provider, status, requestID, code, message, nil)
}

// NetworkError wraps transport failures as provider-specific network errors.
func NetworkError(provider string, err error) error {
	var pe *core.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &core.ProviderError{
		Provider: provider,
		Code:     "network_error",
		Message:  err.Error(),
		Err:      core.ErrNetwork,
		Cause:    err,
	}
}

// DecodeError wraps decode/parsing failures as provider-specific decode errors.
func DecodeError(provider string, err error) error {
	return &core.ProviderError{
		Provider: provider,
		Code:     "decode_error",
		Message:  fmt.Sprintf("failed to parse stream record: %v", err),
		Err:      core.ErrDecode,
		Cause:    err,
	}
}

// StreamError builds an error for a failure the provider reported inside an
// otherwise healthy stream.
func StreamError(provider, code, message string) error {
	if code == "" {
		code = "stream_error"
	}
	return &core.ProviderError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Err:      core.ErrServer,
	}
}

// ProviderError constructs a normalized ProviderError.
// If message is empty, HTTP status text is used.
// If sentinel is nil, default status-based mapping is applied.
func ProviderError(provider string, status int, requestID, code, message string, sentinel error) error {
	if message == "" {
		message = http.StatusText(status)
	}
	if sentinel == nil {
		sentinel = SentinelForStatus(status)
	}
	return &core.ProviderError{
		Provider:  provider,
		Status:    status,
		RequestID: requestID,
		Code:      code,
		Message:   message,
		Err:       sentinel,
	}
}

// CodeForStatus returns a short machine-readable code for an HTTP status.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusInternalServerError:
		return "internal_error"
	case http.StatusBadGateway:
		return "gateway_error"
	case http.StatusServiceUnavailable:
		return "unavailable"
	default:
		return "http_" + fmt.Sprint(status)
	}
}

// SentinelForStatus maps an HTTP status code to a core sentinel error.
func SentinelForStatus(status int) error {
	return SentinelForStatusWithOverrides(status, nil)
}

// SentinelForStatusWithOverrides maps an HTTP status code to a core sentinel error,
// then applies any exact status overrides from the provided map.
func SentinelForStatusWithOverrides(status int, overrides map[int]error) error {
	if overrides != nil {
		if override, ok := overrides[status]; ok && override != nil {
			return override
		}
	}

	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return core.ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.ErrUnauthorized
	case status == http.StatusNotFound:
		return core.ErrNotFound
	case status == http.StatusTooManyRequests:
		return core.ErrRateLimited
	case status >= 500:
		return core.ErrServer
	default:
		return core.ErrTransport
	}
}
