package streaming

import (
	"bufio"
	"bytes"
	"io"
)

// DefaultBufferSize is the initial read buffer for record readers.
const DefaultBufferSize = 64 * 1024

// LineReader yields newline-delimited records.
// Blank and whitespace-only lines are skipped; a final record without a
// trailing newline is still returned before io.EOF.
type LineReader struct {
	r *bufio.Reader
}

// NewLineReader creates a LineReader over r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{r: bufio.NewReaderSize(r, DefaultBufferSize)}
}

// Next returns the next non-blank record with surrounding whitespace removed.
// The returned slice is owned by the caller.
func (l *LineReader) Next() ([]byte, error) {
	for {
		line, err := l.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			// A partial record followed by a read failure is never parsed.
			return nil, err
		}
		if record := bytes.TrimSpace(line); len(record) > 0 {
			return record, nil
		}
		if err == io.EOF {
			return nil, io.EOF
		}
	}
}

// BodyReader yields the whole body as one record, for providers that answer
// with a single JSON document instead of a stream. An empty body yields only
// io.EOF.
type BodyReader struct {
	r    io.Reader
	done bool
}

// NewBodyReader creates a BodyReader over r.
func NewBodyReader(r io.Reader) *BodyReader {
	return &BodyReader{r: r}
}

// Next returns the body on the first call and io.EOF afterwards.
func (b *BodyReader) Next() ([]byte, error) {
	if b.done {
		return nil, io.EOF
	}
	b.done = true

	data, err := io.ReadAll(b.r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, io.EOF
	}
	return data, nil
}

// Event is one server-sent event.
type Event struct {
	// Name is the value of the event: field, empty for unnamed events.
	Name string
	// Data is the concatenation of the event's data: lines, joined by "\n".
	Data []byte
}

// EventReader yields server-sent events.
// Comment lines are ignored, as are id: and retry: fields.
type EventReader struct {
	r *bufio.Reader
}

// NewEventReader creates an EventReader over r.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{r: bufio.NewReaderSize(r, DefaultBufferSize)}
}

// Next returns the next event carrying data.
func (e *EventReader) Next() (Event, error) {
	var (
		name string
		data [][]byte
	)
	for {
		line, err := e.r.ReadBytes('\n')
		if err != nil && err != io.EOF {
			return Event{}, err
		}
		line = bytes.TrimRight(line, "\r\n")

		if len(line) == 0 {
			if len(data) > 0 {
				return Event{Name: name, Data: bytes.Join(data, []byte("\n"))}, nil
			}
			name = ""
			if err == io.EOF {
				return Event{}, io.EOF
			}
			continue
		}

		field, value := splitField(line)
		switch field {
		case "":
			// comment
		case "event":
			name = string(value)
		case "data":
			data = append(data, value)
		}

		if err == io.EOF {
			if len(data) > 0 {
				return Event{Name: name, Data: bytes.Join(data, []byte("\n"))}, nil
			}
			return Event{}, io.EOF
		}
	}
}

// splitField splits "field: value". Comment lines return an empty field.
func splitField(line []byte) (string, []byte) {
	if line[0] == ':' {
		return "", nil
	}
	field, value, found := bytes.Cut(line, []byte(":"))
	if !found {
		return string(line), nil
	}
	if len(value) > 0 && value[0] == ' ' {
		value = value[1:]
	}
	return string(field), value
}
