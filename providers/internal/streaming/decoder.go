package streaming

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
)

// State is the lifecycle position of a Decoder.
type State int

const (
	// StateAwaitingData waits for the next record from the transport.
	StateAwaitingData State = iota
	// StateDecoding is parsing a record into the provider's native shape.
	StateDecoding
	// StateEmitting has handed a chunk to the caller and will read again on the next pull.
	StateEmitting
	// StateDone is terminal: the provider signalled completion or the body ended.
	StateDone
	// StateError is terminal: a record was malformed or the transport failed.
	StateError
)

var stateNames = map[State]string{
	StateAwaitingData: "awaiting_data",
	StateDecoding:     "decoding",
	StateEmitting:     "emitting",
	StateDone:         "done",
	StateError:        "error",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Source yields raw records one at a time; io.EOF ends the stream.
// *LineReader and *EventReader are Sources.
type Source[R any] interface {
	Next() (R, error)
}

// Step is the outcome of mapping one native record.
type Step struct {
	// Chunk is handed to the caller when Emit is true.
	Chunk core.StreamingChunk
	Emit  bool
	// Done ends the stream after Chunk (if emitted).
	Done bool
}

// MapFunc maps one raw record to a Step. A non-nil error is terminal and is
// returned to the caller unchanged, so it should already be classified
// (see DecodeJSON and normalize.StreamError).
type MapFunc[R any] func(record R) (Step, error)

// Decoder is a per-request chunk decoder. It implements core.ChunkDecoder.
// Decoder is NOT safe for concurrent use.
type Decoder[R any] struct {
	provider string
	src      Source[R]
	mapRec   MapFunc[R]
	state    State
	err      error
}

// NewDecoder creates a decoder pulling records from src.
func NewDecoder[R any](provider string, src Source[R], fn MapFunc[R]) *Decoder[R] {
	return &Decoder[R]{
		provider: provider,
		src:      src,
		mapRec:   fn,
		state:    StateAwaitingData,
	}
}

// State returns the current lifecycle state.
func (d *Decoder[R]) State() State {
	return d.state
}

// Next returns the next canonical chunk, io.EOF once done, or the terminal error.
func (d *Decoder[R]) Next() (core.StreamingChunk, error) {
	for {
		switch d.state {
		case StateDone:
			return core.StreamingChunk{}, io.EOF
		case StateError:
			return core.StreamingChunk{}, d.err
		}

		d.state = StateAwaitingData
		record, err := d.src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.state = StateDone
				return core.StreamingChunk{}, io.EOF
			}
			return core.StreamingChunk{}, d.fail(normalize.NetworkError(d.provider, err))
		}

		d.state = StateDecoding
		step, err := d.mapRec(record)
		if err != nil {
			return core.StreamingChunk{}, d.fail(err)
		}

		if step.Done {
			d.state = StateDone
		}
		if step.Emit {
			if !step.Done {
				d.state = StateEmitting
			}
			return step.Chunk, nil
		}
	}
}

func (d *Decoder[R]) fail(err error) error {
	d.state = StateError
	d.err = err
	return err
}

// DecodeJSON unmarshals data into a T, classifying failures as decode errors.
func DecodeJSON[T any](provider string, data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, normalize.DecodeError(provider, err)
	}
	return v, nil
}

var (
	_ core.ChunkDecoder = (*Decoder[[]byte])(nil)
	_ Source[[]byte]    = (*LineReader)(nil)
	_ Source[[]byte]    = (*BodyReader)(nil)
	_ Source[Event]     = (*EventReader)(nil)
)
