// Package transport is the send capability consumed by provider adapters:
// send a request payload, get back a status and a byte stream.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Request is a provider payload ready to send.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is the provider's reply. Body streams the payload and must be closed.
type Response struct {
	Status int
	Header http.Header
	Body   io.ReadCloser
}

// OK reports whether Status is in the 2xx success range.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Transport sends a request and returns the response without reading the body.
// Implementations must not retry.
type Transport interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req *Request) (*Response, error)

// Send calls f.
func (f Func) Send(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// NewJSONRequest marshals payload into a POST request with a JSON content type.
func NewJSONRequest(url string, header http.Header, payload any) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	h := make(http.Header, len(header)+1)
	h.Set("Content-Type", "application/json")
	for key, values := range header {
		for _, v := range values {
			h.Add(key, v)
		}
	}

	return &Request{
		Method: http.MethodPost,
		URL:    url,
		Header: h,
		Body:   body,
	}, nil
}
