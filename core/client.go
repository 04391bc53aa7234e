package core

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Client resolves a provider identifier to its Adapter and forwards the
// canonical request. It holds no per-call state and is safe for concurrent use.
type Client struct {
	registry  *Registry
	telemetry TelemetryHook
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Client dispatching through r.
func NewClient(r *Registry, opts ...ClientOption) *Client {
	if r == nil {
		r = NewRegistry()
	}
	c := &Client{
		registry:  r,
		telemetry: NoopTelemetryHook{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTelemetry sets the telemetry hook for the client.
func WithTelemetry(h TelemetryHook) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.telemetry = h
		}
	}
}

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRequestIDFunc overrides request ID generation.
func WithRequestIDFunc(fn func() string) ClientOption {
	return func(c *Client) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// Registry returns the registry the client dispatches through.
func (c *Client) Registry() *Registry {
	return c.registry
}

// Completions resolves providerID and forwards req to its adapter.
// Resolution failures return an error wrapping ErrUnsupportedProvider before
// any transport call. Errors from the adapter are returned unmodified.
func (c *Client) Completions(ctx context.Context, providerID string, req *Request) (*Result, error) {
	adapter, err := c.registry.Resolve(providerID)
	if err != nil {
		c.logger.Warn("provider not resolved", slog.String("provider", providerID))
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := RequestStartEvent{
		RequestID: c.newID(),
		Provider:  providerID,
		Model:     req.Model,
		Stream:    req.Stream,
		Start:     c.now(),
	}
	c.telemetry.OnRequestStart(start)
	c.logger.Debug("dispatching completion",
		slog.String("request_id", start.RequestID),
		slog.String("provider", providerID),
		slog.String("model", string(req.Model)),
		slog.Bool("stream", req.Stream),
	)

	res, err := adapter.Completions(ctx, req)
	if err != nil {
		c.end(start, Usage{}, 0, err)
		return nil, err
	}

	switch res.Kind {
	case KindStream:
		res.Stream.OnDone(func(s StreamSummary) {
			c.end(start, s.Last.Usage, s.Chunks, s.Err)
		})
	case KindResponse:
		c.end(start, res.Response.Usage, 0, nil)
	}
	return res, nil
}

// Complete runs a non-streaming completion regardless of req.Stream.
func (c *Client) Complete(ctx context.Context, providerID string, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNoMessages
	}
	r := *req
	r.Stream = false
	res, err := c.Completions(ctx, providerID, &r)
	if err != nil {
		return nil, err
	}
	return res.Response, nil
}

// Stream runs a streaming completion regardless of req.Stream.
// The caller must consume or Close the returned stream.
func (c *Client) Stream(ctx context.Context, providerID string, req *Request) (*Stream, error) {
	if req == nil {
		return nil, ErrNoMessages
	}
	r := *req
	r.Stream = true
	res, err := c.Completions(ctx, providerID, &r)
	if err != nil {
		return nil, err
	}
	return res.Stream, nil
}

func (c *Client) end(start RequestStartEvent, usage Usage, chunks int, err error) {
	e := RequestEndEvent{
		RequestID: start.RequestID,
		Provider:  start.Provider,
		Model:     start.Model,
		Stream:    start.Stream,
		Start:     start.Start,
		End:       c.now(),
		Usage:     usage,
		Chunks:    chunks,
		Err:       err,
	}

	attrs := []slog.Attr{
		slog.String("request_id", e.RequestID),
		slog.String("provider", e.Provider),
		slog.Duration("duration", e.Duration()),
		slog.Int("prompt_tokens", usage.PromptTokens),
		slog.Int("completion_tokens", usage.CompletionTokens),
		slog.Int("total_tokens", usage.TotalTokens),
	}
	if e.Stream {
		attrs = append(attrs, slog.Int("chunks", chunks))
	}
	if err != nil {
		attrs = append(attrs, slog.Any("error", err))
		c.logger.LogAttrs(context.Background(), slog.LevelWarn, "completion ended with error", attrs...)
	} else {
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "completion ended", attrs...)
	}

	c.telemetry.OnRequestEnd(e)
}
