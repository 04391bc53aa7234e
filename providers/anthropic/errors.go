package anthropic

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
)

// requestIDHeader carries the server-side request ID on Anthropic responses.
const requestIDHeader = "request-id"

// normalizeError converts an HTTP error response to a ProviderError with the appropriate sentinel.
func normalizeError(status int, body []byte, requestID string) error {
	// Parse error response if possible
	var errResp errorResponse
	_ = json.Unmarshal(body, &errResp)

	message := errResp.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	code := errResp.Error.Type
	if code == "" {
		code = "unknown_error"
	}

	// 529 is Anthropic's overloaded status.
	sentinel := normalize.SentinelForStatusWithOverrides(status, map[int]error{
		http.StatusNotFound: core.ErrNotFound,
		529:                 core.ErrServer,
	})

	return normalize.ProviderError(providerID, status, requestID, code, message, sentinel)
}

// readError reads a bounded error body and normalizes it.
func readError(status int, body io.Reader, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(body, 64*1024))
	return normalizeError(status, raw, requestID)
}

// streamError converts an error event received mid-stream.
func streamError(e *apiError) error {
	if e == nil {
		return normalize.StreamError(providerID, "", "stream error")
	}
	return normalize.StreamError(providerID, e.Type, e.Message)
}
