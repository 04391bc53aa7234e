package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// mockAdapter is a test implementation of Adapter.
// It answers with a stream over chunks, or aggregates it when the request
// does not ask for a stream.
type mockAdapter struct {
	id          string
	chunks      []StreamingChunk
	err         error
	callCount   int
	lastRequest *Request
	mu          sync.Mutex
}

func (m *mockAdapter) ID() string {
	return m.id
}

func (m *mockAdapter) Completions(ctx context.Context, req *Request) (*Result, error) {
	m.mu.Lock()
	m.callCount++
	m.lastRequest = req
	m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return Finish(req, NewStreamFromChunks(m.chunks...), CombinePrompts(req.Messages))
}

// mockTelemetryHook records telemetry events for testing.
type mockTelemetryHook struct {
	startEvents []RequestStartEvent
	endEvents   []RequestEndEvent
	mu          sync.Mutex
}

func (h *mockTelemetryHook) OnRequestStart(e RequestStartEvent) {
	h.mu.Lock()
	h.startEvents = append(h.startEvents, e)
	h.mu.Unlock()
}

func (h *mockTelemetryHook) OnRequestEnd(e RequestEndEvent) {
	h.mu.Lock()
	h.endEvents = append(h.endEvents, e)
	h.mu.Unlock()
}

func helloAdapter(id string) *mockAdapter {
	last := textChunk(" there")
	last.Choices[0].FinishReason = FinishReasonStop
	last.Usage = NewUsage(2, 2)
	return &mockAdapter{id: id, chunks: []StreamingChunk{textChunk("hi"), last}}
}

func helloRequest(stream bool) *Request {
	return &Request{
		Model:    "m",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
		Stream:   stream,
	}
}

func TestNewClient(t *testing.T) {
	r := NewRegistry()
	c := NewClient(r)
	if c.Registry() != r {
		t.Error("Registry() should return the registry passed in")
	}
	if NewClient(nil).Registry() == nil {
		t.Error("nil registry should be replaced by an empty one")
	}
}

func TestCompletionsResponse(t *testing.T) {
	a := helloAdapter("fake")
	c := NewClient(NewRegistry(a))

	res, err := c.Completions(context.Background(), "fake", helloRequest(false))
	if err != nil {
		t.Fatalf("Completions() error = %v", err)
	}
	if res.Kind != KindResponse {
		t.Fatalf("Kind = %v, want response", res.Kind)
	}
	if res.Response.Output() != "hi there" {
		t.Errorf("Output() = %q", res.Response.Output())
	}
	if a.lastRequest.Model != "m" {
		t.Errorf("adapter got model %q", a.lastRequest.Model)
	}
}

func TestCompletionsStream(t *testing.T) {
	c := NewClient(NewRegistry(helloAdapter("fake")))

	res, err := c.Completions(context.Background(), "fake", helloRequest(true))
	if err != nil {
		t.Fatalf("Completions() error = %v", err)
	}
	if res.Kind != KindStream {
		t.Fatalf("Kind = %v, want stream", res.Kind)
	}

	var deltas []string
	for chunk, err := range res.Stream.All() {
		if err != nil {
			t.Fatalf("stream error = %v", err)
		}
		deltas = append(deltas, chunk.Content())
	}
	if strings.Join(deltas, "|") != "hi| there" {
		t.Errorf("deltas = %q", deltas)
	}
}

func TestCompletionsUnsupportedProvider(t *testing.T) {
	a := helloAdapter("fake")
	c := NewClient(NewRegistry(a))

	_, err := c.Completions(context.Background(), "nope", helloRequest(false))
	if !errors.Is(err, ErrUnsupportedProvider) {
		t.Errorf("error = %v, want ErrUnsupportedProvider", err)
	}
	if a.callCount != 0 {
		t.Error("adapter must not be called")
	}
}

func TestCompletionsValidation(t *testing.T) {
	a := helloAdapter("fake")
	hook := &mockTelemetryHook{}
	c := NewClient(NewRegistry(a), WithTelemetry(hook))

	_, err := c.Completions(context.Background(), "fake", &Request{Messages: helloRequest(false).Messages})
	if !errors.Is(err, ErrModelRequired) {
		t.Errorf("error = %v, want ErrModelRequired", err)
	}
	if a.callCount != 0 {
		t.Error("adapter must not be called for invalid requests")
	}
	if len(hook.startEvents) != 0 {
		t.Error("invalid requests should not emit telemetry")
	}
}

func TestCompletionsAdapterErrorUnmodified(t *testing.T) {
	adapterErr := &ProviderError{Provider: "fake", Status: 500, Err: ErrServer}
	c := NewClient(NewRegistry(&mockAdapter{id: "fake", err: adapterErr}))

	_, err := c.Completions(context.Background(), "fake", helloRequest(false))
	if err != adapterErr {
		t.Errorf("error = %v, want the adapter's error unchanged", err)
	}
}

func TestCompleteAndStreamForceVariant(t *testing.T) {
	a := helloAdapter("fake")
	c := NewClient(NewRegistry(a))

	req := helloRequest(true)
	resp, err := c.Complete(context.Background(), "fake", req)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Output() != "hi there" {
		t.Errorf("Output() = %q", resp.Output())
	}
	if !req.Stream {
		t.Error("Complete() must not mutate the caller's request")
	}

	s, err := c.Stream(context.Background(), "fake", helloRequest(false))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer s.Close()
	if !s.Next() || s.Chunk().Content() != "hi" {
		t.Error("Stream() should return the chunk sequence")
	}

	if _, err := c.Complete(context.Background(), "fake", nil); !errors.Is(err, ErrNoMessages) {
		t.Errorf("Complete(nil) error = %v", err)
	}
	if _, err := c.Stream(context.Background(), "fake", nil); !errors.Is(err, ErrNoMessages) {
		t.Errorf("Stream(nil) error = %v", err)
	}
}

func TestResponseTelemetry(t *testing.T) {
	hook := &mockTelemetryHook{}
	c := NewClient(NewRegistry(helloAdapter("fake")),
		WithTelemetry(hook),
		WithRequestIDFunc(func() string { return "req-1" }),
	)

	if _, err := c.Complete(context.Background(), "fake", helloRequest(false)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if len(hook.startEvents) != 1 || len(hook.endEvents) != 1 {
		t.Fatalf("events = %d start, %d end", len(hook.startEvents), len(hook.endEvents))
	}
	start, end := hook.startEvents[0], hook.endEvents[0]
	if start.RequestID != "req-1" || end.RequestID != "req-1" {
		t.Errorf("request IDs = %q, %q", start.RequestID, end.RequestID)
	}
	if start.Provider != "fake" || start.Model != "m" || start.Stream {
		t.Errorf("start = %+v", start)
	}
	if end.Err != nil || end.Usage != (Usage{PromptTokens: 2, CompletionTokens: 2, TotalTokens: 4}) {
		t.Errorf("end = %+v", end)
	}
	if end.End.Before(end.Start) {
		t.Error("End should not precede Start")
	}
}

func TestStreamTelemetry(t *testing.T) {
	hook := &mockTelemetryHook{}
	c := NewClient(NewRegistry(helloAdapter("fake")), WithTelemetry(hook))

	s, err := c.Stream(context.Background(), "fake", helloRequest(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Start event should be immediate; end waits for the stream.
	if len(hook.startEvents) != 1 {
		t.Errorf("expected 1 start event, got %d", len(hook.startEvents))
	}
	if len(hook.endEvents) != 0 {
		t.Errorf("end event before the stream finished")
	}

	for range s.All() {
	}

	if len(hook.endEvents) != 1 {
		t.Fatalf("expected 1 end event, got %d", len(hook.endEvents))
	}
	end := hook.endEvents[0]
	if end.Chunks != 2 || !end.Stream || end.Usage != NewUsage(2, 2) {
		t.Errorf("end = %+v", end)
	}
}

func TestAdapterErrorTelemetry(t *testing.T) {
	hook := &mockTelemetryHook{}
	adapterErr := errors.New("boom")
	c := NewClient(NewRegistry(&mockAdapter{id: "fake", err: adapterErr}), WithTelemetry(hook))

	c.Completions(context.Background(), "fake", helloRequest(false))

	if len(hook.endEvents) != 1 || hook.endEvents[0].Err != adapterErr {
		t.Errorf("end events = %+v", hook.endEvents)
	}
}

func TestClientLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewClient(NewRegistry(helloAdapter("fake")), WithLogger(logger))

	c.Complete(context.Background(), "fake", helloRequest(false))
	c.Complete(context.Background(), "missing", helloRequest(false))

	out := buf.String()
	if !strings.Contains(out, "dispatching completion") || !strings.Contains(out, "provider=fake") {
		t.Errorf("log output missing dispatch record: %s", out)
	}
	if !strings.Contains(out, "provider not resolved") {
		t.Errorf("log output missing resolution warning: %s", out)
	}
	if strings.Contains(out, "hello") {
		t.Errorf("log output must not contain prompt text: %s", out)
	}
}

func TestClientLoggerEndRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := NewClient(NewRegistry(helloAdapter("fake"), &mockAdapter{id: "broken", err: errors.New("boom")}),
		WithLogger(logger))

	if _, err := c.Complete(context.Background(), "fake", helloRequest(false)); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `msg="completion ended"`) {
		t.Fatalf("log output missing end record: %s", out)
	}
	for _, want := range []string{"duration=", "prompt_tokens=2", "completion_tokens=2", "total_tokens=4"} {
		if !strings.Contains(out, want) {
			t.Errorf("end record missing %q: %s", want, out)
		}
	}

	buf.Reset()
	s, err := c.Stream(context.Background(), "fake", helloRequest(true))
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	if strings.Contains(buf.String(), "completion ended") {
		t.Errorf("stream end logged before the stream was consumed: %s", buf.String())
	}
	for range s.All() {
	}
	if !strings.Contains(buf.String(), "chunks=2") {
		t.Errorf("stream end record missing chunk count: %s", buf.String())
	}

	buf.Reset()
	c.Complete(context.Background(), "broken", helloRequest(false))
	if out := buf.String(); !strings.Contains(out, "level=WARN") || !strings.Contains(out, "error=boom") {
		t.Errorf("failed call not logged at warn with its error: %s", out)
	}
}

func TestClientConcurrentUse(t *testing.T) {
	a := helloAdapter("fake")
	c := NewClient(NewRegistry(a))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Complete(context.Background(), "fake", helloRequest(false)); err != nil {
				t.Errorf("concurrent call failed: %v", err)
			}
		}()
	}
	wg.Wait()

	a.mu.Lock()
	count := a.callCount
	a.mu.Unlock()

	if count != 10 {
		t.Errorf("callCount = %d, want 10", count)
	}
}
