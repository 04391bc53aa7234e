package core

import "context"

// Adapter is the interface every provider implements.
// Adapters SHOULD be safe for concurrent calls; each call owns its own
// decoder and aggregation state.
type Adapter interface {
	// ID returns the provider identifier (e.g., "ollama", "openai").
	ID() string

	// Completions sends req and returns a Result whose variant follows req.Stream:
	// a lazy Stream when true, an aggregated Response when false.
	Completions(ctx context.Context, req *Request) (*Result, error)
}

// Finish turns an opened chunk stream into the Result variant req asked for.
// Adapters call it once the transport reported success.
func Finish(req *Request, s *Stream, prompt string, opts ...AggregateOption) (*Result, error) {
	if req.Stream {
		return StreamResult(s), nil
	}
	resp, err := Aggregate(s, req.Model, prompt, opts...)
	if err != nil {
		return nil, err
	}
	return ResponseResult(resp), nil
}
