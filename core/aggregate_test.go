package core

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func fixedClock(sec int64) func() time.Time {
	return func() time.Time { return time.Unix(sec, 0) }
}

func TestAggregate(t *testing.T) {
	chunks := []StreamingChunk{textChunk("hi"), textChunk(" there")}
	chunks[1].Choices[0].FinishReason = FinishReasonStop

	resp, err := Aggregate(NewStreamFromChunks(chunks...), "m", "hello", WithClock(fixedClock(1700000000)))
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}

	if resp.Model != "m" {
		t.Errorf("Model = %q", resp.Model)
	}
	if resp.Created != 1700000000 {
		t.Errorf("Created = %d", resp.Created)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("len(Choices) = %d, want 1", len(resp.Choices))
	}
	c := resp.Choices[0]
	if c.Index != 0 || c.Message.Content != "hi there" || c.Message.Role != RoleAssistant || c.FinishReason != FinishReasonStop {
		t.Errorf("choice = %+v", c)
	}
	if want := (Usage{PromptTokens: 2, CompletionTokens: 2, TotalTokens: 4}); resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}
}

func TestAggregateIdentity(t *testing.T) {
	parts := []string{"The ", "quick ", "", "brown ", "fox", " ✓"}
	chunks := make([]StreamingChunk, len(parts))
	for i, p := range parts {
		chunks[i] = textChunk(p)
	}

	resp, err := Aggregate(NewStreamFromChunks(chunks...), "m", "p")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got, want := resp.Output(), strings.Join(parts, ""); got != want {
		t.Errorf("Output() = %q, want %q", got, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	resp, err := Aggregate(NewStreamFromChunks(), "m", "a long prompt that would cost tokens")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if resp.Output() != "" {
		t.Errorf("Output() = %q, want empty", resp.Output())
	}
	if resp.Usage != (Usage{}) {
		t.Errorf("Usage = %+v, want zero", resp.Usage)
	}
	if resp.Choices[0].FinishReason != FinishReasonStop {
		t.Errorf("FinishReason = %q, want stop", resp.Choices[0].FinishReason)
	}
}

func TestAggregateLastFinishReasonWins(t *testing.T) {
	a, b, c := textChunk("a"), textChunk("b"), textChunk("c")
	a.Choices[0].FinishReason = FinishReasonStop
	b.Choices[0].FinishReason = FinishReasonLength

	resp, err := Aggregate(NewStreamFromChunks(a, b, c, StreamingChunk{}), "m", "")
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if resp.Choices[0].FinishReason != FinishReasonLength {
		t.Errorf("FinishReason = %q, want length", resp.Choices[0].FinishReason)
	}
	if resp.Output() != "abc" {
		t.Errorf("Output() = %q", resp.Output())
	}
}

func TestAggregateError(t *testing.T) {
	boom := &ProviderError{Provider: "x", Err: ErrDecode}
	body := &closeCounter{}
	s := NewStream(decoderOf(boom, textChunk("partial")), body)

	resp, err := Aggregate(s, "m", "p")
	if resp != nil {
		t.Error("no partial response on failure")
	}
	if !errors.Is(err, ErrDecode) {
		t.Errorf("error = %v, want ErrDecode", err)
	}
	if body.n != 1 {
		t.Errorf("body closed %d times, want 1", body.n)
	}
}

func TestAggregateCreatedCapturedBeforeFirstPull(t *testing.T) {
	now := int64(100)
	clock := func() time.Time { return time.Unix(now, 0) }

	dec := ChunkDecoderFunc(func() (StreamingChunk, error) {
		now += 50
		return StreamingChunk{}, io.EOF
	})

	resp, err := Aggregate(NewStream(dec, nil), "m", "", WithClock(clock))
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if resp.Created != 100 {
		t.Errorf("Created = %d, want 100", resp.Created)
	}
}

func TestAggregateCustomEstimator(t *testing.T) {
	resp, err := Aggregate(NewStreamFromChunks(textChunk("abcd")), "m", "ab", WithAggregateEstimator(NewEstimator(1)))
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if want := NewUsage(2, 4); resp.Usage != want {
		t.Errorf("Usage = %+v, want %+v", resp.Usage, want)
	}
}
