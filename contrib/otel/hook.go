// Package otel exports completion lifecycle events as OpenTelemetry spans.
//
//	tracer := otel.Tracer("my-service")
//	client := core.NewClient(reg, core.WithTelemetry(unifyotel.NewHook(tracer)))
//
// Each call produces one client span that starts when the request is
// dispatched and ends when the response is returned, the stream terminates,
// or the call fails. Prompt and completion text are never recorded.
package otel

import (
	"context"
	"errors"
	"sync"

	otelglobal "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/petal-labs/unify/core"
)

// SpanName is the name of every completion span.
const SpanName = "unify.completion"

const instrumentationName = "github.com/petal-labs/unify/contrib/otel"

// ErrAbandoned is recorded on spans ended by Shutdown.
var ErrAbandoned = errors.New("stream abandoned before it terminated")

// Hook implements core.TelemetryHook with one span per call.
// Hook is safe for concurrent use.
//
// A streaming call's span stays open until the stream is drained or closed.
// Callers that drop a stream without doing either leave the span pending;
// Shutdown ends every pending span.
type Hook struct {
	tracer trace.Tracer

	mu    sync.Mutex
	spans map[string]trace.Span
}

// NewHook creates a hook recording spans with tracer.
// A nil tracer uses the global tracer provider.
func NewHook(tracer trace.Tracer) *Hook {
	if tracer == nil {
		tracer = otelglobal.Tracer(instrumentationName)
	}
	return &Hook{
		tracer: tracer,
		spans:  make(map[string]trace.Span),
	}
}

// OnRequestStart opens the span for e.RequestID.
func (h *Hook) OnRequestStart(e core.RequestStartEvent) {
	span := h.start(e)

	h.mu.Lock()
	h.spans[e.RequestID] = span
	h.mu.Unlock()
}

// OnRequestEnd records the outcome and ends the span.
func (h *Hook) OnRequestEnd(e core.RequestEndEvent) {
	h.mu.Lock()
	span, ok := h.spans[e.RequestID]
	delete(h.spans, e.RequestID)
	h.mu.Unlock()

	if !ok {
		// Start was not observed; still export the call.
		span = h.start(core.RequestStartEvent{
			RequestID: e.RequestID,
			Provider:  e.Provider,
			Model:     e.Model,
			Stream:    e.Stream,
			Start:     e.Start,
		})
	}

	span.SetAttributes(
		attribute.Int("gen_ai.usage.input_tokens", e.Usage.PromptTokens),
		attribute.Int("gen_ai.usage.output_tokens", e.Usage.CompletionTokens),
	)
	if e.Stream {
		span.SetAttributes(attribute.Int("unify.stream.chunks", e.Chunks))
	}

	if e.Err != nil {
		var pe *core.ProviderError
		if errors.As(e.Err, &pe) {
			if pe.Status != 0 {
				span.SetAttributes(attribute.Int("http.response.status_code", pe.Status))
			}
			if pe.Code != "" {
				span.SetAttributes(attribute.String("error.type", pe.Code))
			}
			if pe.RequestID != "" {
				span.SetAttributes(attribute.String("unify.provider_request_id", pe.RequestID))
			}
		}
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	var opts []trace.SpanEndOption
	if !e.End.IsZero() {
		opts = append(opts, trace.WithTimestamp(e.End))
	}
	span.End(opts...)
}

// Pending returns the number of spans still waiting for their end event.
func (h *Hook) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.spans)
}

// Shutdown ends every pending span with an error status. Call it before
// shutting down the tracer provider so abandoned streams are still exported.
func (h *Hook) Shutdown() {
	h.mu.Lock()
	pending := h.spans
	h.spans = make(map[string]trace.Span)
	h.mu.Unlock()

	for _, span := range pending {
		span.RecordError(ErrAbandoned)
		span.SetStatus(codes.Error, ErrAbandoned.Error())
		span.End()
	}
}

func (h *Hook) start(e core.RequestStartEvent) trace.Span {
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.system", e.Provider),
			attribute.String("gen_ai.request.model", string(e.Model)),
			attribute.Bool("unify.stream", e.Stream),
			attribute.String("unify.request_id", e.RequestID),
		),
	}
	if !e.Start.IsZero() {
		opts = append(opts, trace.WithTimestamp(e.Start))
	}
	_, span := h.tracer.Start(context.Background(), SpanName, opts...)
	return span
}

var _ core.TelemetryHook = (*Hook)(nil)
