package openai

import (
	"fmt"

	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/transport"
)

// requestIDHeader carries the server-side request ID on OpenAI responses.
const requestIDHeader = "x-request-id"

// normalizeError converts an HTTP error response to a ProviderError with the appropriate sentinel.
func (p *OpenAI) normalizeError(resp *transport.Response) error {
	return normalize.StatusError(p.config.ID, resp.Status, resp.Body, resp.Header.Get(requestIDHeader))
}

// streamError converts an error record received mid-stream.
func (p *OpenAI) streamError(e *chatError) error {
	code := e.Type
	if e.Code != nil {
		code = fmt.Sprint(e.Code)
	}
	return normalize.StreamError(p.config.ID, code, e.Message)
}
