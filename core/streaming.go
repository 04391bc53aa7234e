package core

import (
	"errors"
	"io"
	"iter"
	"sync"
)

// ChunkDecoder turns a provider's raw stream into canonical chunks, one per call.
// Next returns io.EOF once the stream is done; any other error is terminal.
type ChunkDecoder interface {
	Next() (StreamingChunk, error)
}

// ChunkDecoderFunc adapts a function to ChunkDecoder.
type ChunkDecoderFunc func() (StreamingChunk, error)

// Next calls f.
func (f ChunkDecoderFunc) Next() (StreamingChunk, error) { return f() }

// Stream is a lazy, finite, single-use sequence of chunks.
//
// The decoder advances only when the caller pulls, on the caller's goroutine.
// The underlying connection is released when the sequence ends, fails, or is
// closed early. A consumed Stream yields nothing on further iteration.
//
// Stream is NOT safe for concurrent use.
//
//	for s.Next() {
//	    fmt.Print(s.Chunk().Content())
//	}
//	if err := s.Err(); err != nil {
//	    return err
//	}
type Stream struct {
	dec  ChunkDecoder
	body io.Closer

	cur      StreamingChunk
	last     StreamingChunk
	count    int
	err      error
	done     bool
	reported bool

	closeOnce sync.Once
	closeErr  error
	final     StreamSummary
	onDone    []func(StreamSummary)
}

// StreamSummary describes a stream once it has terminated.
type StreamSummary struct {
	// Chunks is the number of chunks handed to the caller.
	Chunks int
	// Last is the final chunk observed, zero if none.
	Last StreamingChunk
	// Err is the terminal error, nil on clean completion or early close.
	Err error
	// Completed is false when the caller closed the stream before the end.
	Completed bool
}

// NewStream wraps a decoder and the resource backing it. body may be nil.
func NewStream(dec ChunkDecoder, body io.Closer) *Stream {
	return &Stream{dec: dec, body: body}
}

// NewStreamFromChunks builds a stream over a fixed chunk slice.
// It is mostly useful for tests and for providers that return a single payload.
func NewStreamFromChunks(chunks ...StreamingChunk) *Stream {
	i := 0
	return NewStream(ChunkDecoderFunc(func() (StreamingChunk, error) {
		if i >= len(chunks) {
			return StreamingChunk{}, io.EOF
		}
		c := chunks[i]
		i++
		return c, nil
	}), nil)
}

// Next advances to the next chunk. It returns false when the stream is done,
// has failed, or was closed; check Err afterwards.
func (s *Stream) Next() bool {
	if s == nil || s.done {
		return false
	}
	chunk, err := s.dec.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		s.finish(true)
		return false
	}
	s.cur = chunk
	s.last = chunk
	s.count++
	return true
}

// Chunk returns the chunk produced by the last successful call to Next.
func (s *Stream) Chunk() StreamingChunk {
	return s.cur
}

// Err returns the error that terminated the stream, if any.
func (s *Stream) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Close releases the underlying connection. It is safe to call more than once
// and after the stream has ended.
func (s *Stream) Close() error {
	if s == nil {
		return nil
	}
	s.finish(false)
	return s.closeErr
}

// All returns an iterator over the remaining chunks. A terminal error is
// yielded once as the final element. Breaking out of the loop closes the stream.
//
//	for chunk, err := range s.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.Content())
//	}
func (s *Stream) All() iter.Seq2[StreamingChunk, error] {
	return func(yield func(StreamingChunk, error) bool) {
		defer s.Close()
		for s.Next() {
			if !yield(s.cur, nil) {
				return
			}
		}
		if s.err != nil && !s.reported {
			s.reported = true
			yield(StreamingChunk{}, s.err)
		}
	}
}

// OnDone registers fn to run once when the stream terminates.
// Registering after termination runs fn immediately.
func (s *Stream) OnDone(fn func(StreamSummary)) {
	if s.done {
		fn(s.final)
		return
	}
	s.onDone = append(s.onDone, fn)
}

func (s *Stream) finish(completed bool) {
	s.closeOnce.Do(func() {
		s.done = true
		if s.body != nil {
			s.closeErr = s.body.Close()
		}
		s.final = StreamSummary{
			Chunks:    s.count,
			Last:      s.last,
			Err:       s.err,
			Completed: completed,
		}
		for _, fn := range s.onDone {
			fn(s.final)
		}
		s.onDone = nil
	})
}
