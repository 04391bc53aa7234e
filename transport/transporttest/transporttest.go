// Package transporttest provides fake transports for adapter tests.
package transporttest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/petal-labs/unify/transport"
)

// ErrClosed is returned by reads after Close.
var ErrClosed = errors.New("transporttest: body closed")

// FragmentReader delivers its parts as separate Read results, so tests can
// control exactly where fragment boundaries fall.
type FragmentReader struct {
	mu     sync.Mutex
	parts  [][]byte
	err    error
	closed bool
}

// Fragments creates a reader returning each part from its own Read call.
func Fragments(parts ...string) *FragmentReader {
	r := &FragmentReader{}
	for _, p := range parts {
		r.parts = append(r.parts, []byte(p))
	}
	return r
}

// FailAfter makes the reader return err instead of io.EOF once all parts are read.
func (r *FragmentReader) FailAfter(err error) *FragmentReader {
	r.err = err
	return r
}

// Read implements io.Reader.
func (r *FragmentReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrClosed
	}
	for len(r.parts) > 0 && len(r.parts[0]) == 0 {
		r.parts = r.parts[1:]
	}
	if len(r.parts) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.parts[0])
	r.parts[0] = r.parts[0][n:]
	return n, nil
}

// Close implements io.Closer.
func (r *FragmentReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *FragmentReader) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Recorder is a fake transport replying with a canned response.
// It records every request it receives.
type Recorder struct {
	Status int
	Header http.Header
	Body   *FragmentReader
	Err    error

	mu       sync.Mutex
	requests []*transport.Request
}

// Reply creates a recorder answering with status and a body split into parts.
func Reply(status int, parts ...string) *Recorder {
	return &Recorder{
		Status: status,
		Header: make(http.Header),
		Body:   Fragments(parts...),
	}
}

// Fail creates a recorder whose Send fails with err.
func Fail(err error) *Recorder {
	return &Recorder{Err: err}
}

// Send implements transport.Transport.
func (r *Recorder) Send(_ context.Context, req *transport.Request) (*transport.Response, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return &transport.Response{
		Status: r.Status,
		Header: r.Header,
		Body:   r.Body,
	}, nil
}

// Requests returns the requests received so far.
func (r *Recorder) Requests() []*transport.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*transport.Request(nil), r.requests...)
}

// LastRequest returns the most recent request, or nil.
func (r *Recorder) LastRequest() *transport.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.requests) == 0 {
		return nil
	}
	return r.requests[len(r.requests)-1]
}

// DecodeLastBody unmarshals the JSON body of the most recent request into v.
func (r *Recorder) DecodeLastBody(v any) error {
	req := r.LastRequest()
	if req == nil {
		return errors.New("transporttest: no request recorded")
	}
	return json.Unmarshal(req.Body, v)
}

var _ transport.Transport = (*Recorder)(nil)
