package ollama

import (
	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// mapRequest converts a canonical request to a generate request.
// Ollama's generate endpoint takes a single prompt, so the conversation is combined.
func mapRequest(req *core.Request, prompt, keepAlive string) *generateRequest {
	return &generateRequest{
		Model:     string(req.Model),
		Prompt:    prompt,
		Stream:    true,
		Options:   mapOptions(req),
		KeepAlive: keepAlive,
	}
}

// mapOptions converts request parameters to Ollama options.
func mapOptions(req *core.Request) *generateOptions {
	opts := &generateOptions{}
	hasOpts := false

	if req.Temperature != nil && *req.Temperature > 0 {
		opts.Temperature = *req.Temperature
		hasOpts = true
	}

	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		opts.NumPredict = *req.MaxTokens
		hasOpts = true
	}

	if !hasOpts {
		return nil
	}

	return opts
}

// chunkMapper maps generate records to canonical chunks.
// Records before the final one carry no finish reason and are dropped when empty.
func chunkMapper(b *streaming.ChunkBuilder) streaming.MapFunc[[]byte] {
	return func(record []byte) (streaming.Step, error) {
		rec, err := streaming.DecodeJSON[generateChunk](providerID, record)
		if err != nil {
			return streaming.Step{}, err
		}

		// Check for inline error
		if rec.Error != "" {
			return streaming.Step{}, normalize.StreamError(providerID, "", rec.Error)
		}

		if !rec.Done {
			if rec.Response == "" {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build(rec.Response, "", nil), Emit: true}, nil
		}

		return streaming.Step{
			Chunk: b.Build(rec.Response, mapDoneReason(rec.DoneReason), mapUsage(&rec)),
			Emit:  true,
			Done:  true,
		}, nil
	}
}

// mapDoneReason converts Ollama's done_reason to a finish reason.
func mapDoneReason(reason string) core.FinishReason {
	switch reason {
	case "", "stop":
		return core.FinishReasonStop
	case "length":
		return core.FinishReasonLength
	default:
		return core.FinishReason(reason)
	}
}

// mapUsage returns the token counts of a final record, or nil when Ollama
// did not report any.
func mapUsage(rec *generateChunk) *core.Usage {
	if rec.PromptEvalCount == 0 && rec.EvalCount == 0 {
		return nil
	}
	u := core.NewUsage(rec.PromptEvalCount, rec.EvalCount)
	return &u
}
