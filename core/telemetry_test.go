package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestRequestEndEventDuration(t *testing.T) {
	start := time.Now()
	end := start.Add(500 * time.Millisecond)

	event := RequestEndEvent{
		Start: start,
		End:   end,
	}

	if d := event.Duration(); d != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", d)
	}
}

func TestNoopTelemetryHookDoesNotPanic(t *testing.T) {
	var hook TelemetryHook = NoopTelemetryHook{}

	hook.OnRequestStart(RequestStartEvent{Provider: "test", Model: "test-model", Start: time.Now()})
	hook.OnRequestEnd(RequestEndEvent{Provider: "test", Model: "test-model", Err: errors.New("x")})
}

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		lines = append(lines, m)
	}
	return lines
}

func TestSlogTelemetryHook(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	hook := NewSlogTelemetryHook(logger)

	start := time.Unix(1700000000, 0)
	hook.OnRequestStart(RequestStartEvent{RequestID: "req-1", Provider: "ollama", Model: "llama3.2", Stream: true, Start: start})
	hook.OnRequestEnd(RequestEndEvent{
		RequestID: "req-1",
		Provider:  "ollama",
		Model:     "llama3.2",
		Stream:    true,
		Start:     start,
		End:       start.Add(2 * time.Second),
		Usage:     NewUsage(10, 5),
		Chunks:    3,
	})

	lines := decodeLogLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}

	if lines[0]["msg"] != "completion started" || lines[0]["level"] != "DEBUG" {
		t.Errorf("start line = %v", lines[0])
	}
	end := lines[1]
	if end["msg"] != "completion finished" || end["level"] != "INFO" {
		t.Errorf("end line = %v", end)
	}
	if end["request_id"] != "req-1" || end["provider"] != "ollama" || end["model"] != "llama3.2" {
		t.Errorf("end line = %v", end)
	}
	if end["total_tokens"] != float64(15) || end["chunks"] != float64(3) {
		t.Errorf("end line = %v", end)
	}
}

func TestSlogTelemetryHookError(t *testing.T) {
	var buf bytes.Buffer
	hook := NewSlogTelemetryHook(slog.New(slog.NewJSONHandler(&buf, nil)))

	hook.OnRequestEnd(RequestEndEvent{
		Provider: "openai",
		Err:      &ProviderError{Provider: "openai", Status: 500, Message: "boom", Err: ErrServer},
	})

	lines := decodeLogLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1", len(lines))
	}
	if lines[0]["level"] != "ERROR" || lines[0]["msg"] != "completion failed" {
		t.Errorf("line = %v", lines[0])
	}
	if !strings.Contains(lines[0]["error"].(string), "boom") {
		t.Errorf("error attr = %v", lines[0]["error"])
	}
	if _, ok := lines[0]["chunks"]; ok {
		t.Error("non-streaming calls should not log a chunk count")
	}
}

func TestNewSlogTelemetryHookDefault(t *testing.T) {
	if NewSlogTelemetryHook(nil).Logger == nil {
		t.Error("nil logger should fall back to slog.Default()")
	}
}
