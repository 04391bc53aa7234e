package core

import (
	"errors"
	"io"
	"testing"
)

// closeCounter records Close calls on a stream body.
type closeCounter struct {
	n int
}

func (c *closeCounter) Close() error {
	c.n++
	return nil
}

func textChunk(s string) StreamingChunk {
	return StreamingChunk{
		Model:   "m",
		Choices: []StreamChoice{{Delta: Delta{Content: s, Role: RoleAssistant}}},
	}
}

// decoderOf yields chunks then ends with err (io.EOF for a clean end).
func decoderOf(err error, chunks ...StreamingChunk) ChunkDecoder {
	i := 0
	return ChunkDecoderFunc(func() (StreamingChunk, error) {
		if i >= len(chunks) {
			return StreamingChunk{}, err
		}
		c := chunks[i]
		i++
		return c, nil
	})
}

func TestStreamNext(t *testing.T) {
	body := &closeCounter{}
	s := NewStream(decoderOf(io.EOF, textChunk("a"), textChunk("b")), body)

	var got []string
	for s.Next() {
		got = append(got, s.Chunk().Content())
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("chunks = %q", got)
	}
	if body.n != 1 {
		t.Errorf("body closed %d times, want 1", body.n)
	}

	// Single use: nothing more after the end.
	if s.Next() {
		t.Error("Next() after end should be false")
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if body.n != 1 {
		t.Errorf("body closed %d times after extra Close, want 1", body.n)
	}
}

func TestStreamError(t *testing.T) {
	boom := errors.New("boom")
	body := &closeCounter{}
	s := NewStream(decoderOf(boom, textChunk("a")), body)

	if !s.Next() {
		t.Fatal("first Next() should succeed")
	}
	if s.Next() {
		t.Fatal("second Next() should fail")
	}
	if !errors.Is(s.Err(), boom) {
		t.Errorf("Err() = %v, want boom", s.Err())
	}
	if body.n != 1 {
		t.Errorf("body closed %d times, want 1", body.n)
	}
}

func TestStreamAll(t *testing.T) {
	s := NewStreamFromChunks(textChunk("x"), textChunk("y"))

	var got []string
	for chunk, err := range s.All() {
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		got = append(got, chunk.Content())
	}
	if len(got) != 2 {
		t.Errorf("got %d chunks, want 2", len(got))
	}

	// A consumed stream yields nothing.
	for range s.All() {
		t.Fatal("consumed stream should yield nothing")
	}
}

func TestStreamAllYieldsErrorOnce(t *testing.T) {
	boom := errors.New("boom")
	s := NewStream(decoderOf(boom, textChunk("a")), nil)

	var errs []error
	var chunks int
	for _, err := range s.All() {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		chunks++
	}
	if chunks != 1 || len(errs) != 1 || !errors.Is(errs[0], boom) {
		t.Errorf("chunks = %d, errs = %v", chunks, errs)
	}

	for _, err := range s.All() {
		t.Fatalf("error should be yielded only once, got %v", err)
	}
	if !errors.Is(s.Err(), boom) {
		t.Error("Err() should still report the failure")
	}
}

func TestStreamAllEarlyBreakCloses(t *testing.T) {
	body := &closeCounter{}
	pulled := 0
	dec := ChunkDecoderFunc(func() (StreamingChunk, error) {
		pulled++
		return textChunk("more"), nil
	})
	s := NewStream(dec, body)

	n := 0
	for range s.All() {
		n++
		if n == 3 {
			break
		}
	}
	if body.n != 1 {
		t.Errorf("body closed %d times, want 1", body.n)
	}
	if pulled != 3 {
		t.Errorf("decoder pulled %d times, want 3 (lazy)", pulled)
	}
	if s.Next() {
		t.Error("Next() after close should be false")
	}
	if s.Err() != nil {
		t.Errorf("Err() after early close = %v, want nil", s.Err())
	}
}

func TestStreamLazy(t *testing.T) {
	pulled := 0
	dec := ChunkDecoderFunc(func() (StreamingChunk, error) {
		pulled++
		return StreamingChunk{}, io.EOF
	})
	s := NewStream(dec, nil)
	if pulled != 0 {
		t.Fatal("constructing a stream must not read")
	}
	s.Next()
	if pulled != 1 {
		t.Errorf("pulled = %d, want 1", pulled)
	}
}

func TestStreamOnDone(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		s := NewStreamFromChunks(textChunk("a"), textChunk("b"))
		var got []StreamSummary
		s.OnDone(func(sum StreamSummary) { got = append(got, sum) })

		for s.Next() {
		}
		s.Close()

		if len(got) != 1 {
			t.Fatalf("OnDone called %d times, want 1", len(got))
		}
		if got[0].Chunks != 2 || !got[0].Completed || got[0].Err != nil || got[0].Last.Content() != "b" {
			t.Errorf("summary = %+v", got[0])
		}
	})

	t.Run("closed early", func(t *testing.T) {
		s := NewStreamFromChunks(textChunk("a"), textChunk("b"))
		var got StreamSummary
		s.OnDone(func(sum StreamSummary) { got = sum })

		s.Next()
		s.Close()

		if got.Completed || got.Chunks != 1 {
			t.Errorf("summary = %+v", got)
		}
	})

	t.Run("registered after end", func(t *testing.T) {
		boom := errors.New("boom")
		s := NewStream(decoderOf(boom), nil)
		s.Next()

		called := false
		s.OnDone(func(sum StreamSummary) {
			called = true
			if !errors.Is(sum.Err, boom) {
				t.Errorf("summary Err = %v", sum.Err)
			}
		})
		if !called {
			t.Error("OnDone after termination should run immediately")
		}
	})
}

func TestNilStream(t *testing.T) {
	var s *Stream
	if s.Next() {
		t.Error("nil Next() should be false")
	}
	if s.Err() != nil || s.Close() != nil {
		t.Error("nil stream should report no error")
	}
}
