package transport

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
)

// HTTP sends requests with a net/http client.
// HTTP is safe for concurrent use.
type HTTP struct {
	Client *http.Client
}

// NewHTTP creates an HTTP transport. A nil client means http.DefaultClient.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Client: client}
}

// Send executes req. The response body is returned unread; a non-2xx status is
// not an error at this layer.
func (t *HTTP) Send(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodPost
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   resp.Body,
	}, nil
}

var _ Transport = (*HTTP)(nil)
