package core

import (
	"context"
	"log/slog"
	"time"
)

// TelemetryHook receives notifications about request lifecycle events.
// Implementations can use this for logging, metrics, tracing, etc.
//
// # Security Considerations
//
// Event types NEVER include sensitive data: API keys, prompt text and
// completion text are not part of any event. Only operational metadata
// (provider, model, timing, token counts) is exposed, so events can be logged
// or exported without review.
type TelemetryHook interface {
	// OnRequestStart is called before the adapter is invoked.
	OnRequestStart(e RequestStartEvent)

	// OnRequestEnd is called when the call fails, when a non-streaming
	// response is returned, or when a streaming result terminates.
	OnRequestEnd(e RequestEndEvent)
}

// RequestStartEvent contains metadata about a starting request.
type RequestStartEvent struct {
	RequestID string    // Client-generated correlation ID
	Provider  string    // Provider identifier (e.g., "ollama")
	Model     ModelID   // Model being called
	Stream    bool      // Whether the caller asked for a stream
	Start     time.Time // When the request started
}

// RequestEndEvent contains metadata about a completed request.
//
// Err carries the error chain, which may include the provider's error message
// but never request or response content.
type RequestEndEvent struct {
	RequestID string
	Provider  string
	Model     ModelID
	Stream    bool
	Start     time.Time
	End       time.Time
	Usage     Usage // Final usage; for streams, the usage of the last chunk
	Chunks    int   // Chunks delivered to the caller (streams only)
	Err       error // Error if request failed, nil on success
}

// Duration returns the elapsed time for the request.
func (e RequestEndEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// NoopTelemetryHook is a no-op implementation of TelemetryHook.
// Use this as a default when no telemetry is configured.
type NoopTelemetryHook struct{}

// OnRequestStart does nothing.
func (NoopTelemetryHook) OnRequestStart(RequestStartEvent) {}

// OnRequestEnd does nothing.
func (NoopTelemetryHook) OnRequestEnd(RequestEndEvent) {}

// SlogTelemetryHook writes lifecycle events as structured log records.
type SlogTelemetryHook struct {
	Logger *slog.Logger
}

// NewSlogTelemetryHook creates a hook writing to logger (slog.Default if nil).
func NewSlogTelemetryHook(logger *slog.Logger) *SlogTelemetryHook {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogTelemetryHook{Logger: logger}
}

// OnRequestStart logs the start of a request at debug level.
func (h *SlogTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.Logger.LogAttrs(context.Background(), slog.LevelDebug, "completion started",
		slog.String("request_id", e.RequestID),
		slog.String("provider", e.Provider),
		slog.String("model", string(e.Model)),
		slog.Bool("stream", e.Stream),
	)
}

// OnRequestEnd logs the outcome of a request; failures are logged at error level.
func (h *SlogTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	attrs := []slog.Attr{
		slog.String("request_id", e.RequestID),
		slog.String("provider", e.Provider),
		slog.String("model", string(e.Model)),
		slog.Bool("stream", e.Stream),
		slog.Duration("duration", e.Duration()),
		slog.Int("prompt_tokens", e.Usage.PromptTokens),
		slog.Int("completion_tokens", e.Usage.CompletionTokens),
		slog.Int("total_tokens", e.Usage.TotalTokens),
	}
	if e.Stream {
		attrs = append(attrs, slog.Int("chunks", e.Chunks))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.Any("error", e.Err))
		h.Logger.LogAttrs(context.Background(), slog.LevelError, "completion failed", attrs...)
		return
	}
	h.Logger.LogAttrs(context.Background(), slog.LevelInfo, "completion finished", attrs...)
}

// Compile-time checks.
var (
	_ TelemetryHook = NoopTelemetryHook{}
	_ TelemetryHook = (*SlogTelemetryHook)(nil)
)
