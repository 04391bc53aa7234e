package cohere

import (
	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// generatePath is the API path for the generate endpoint.
const generatePath = "/v1/generate"

func mapRequest(req *core.Request, prompt string) *generateRequest {
	return &generateRequest{
		Model:       string(req.Model),
		Prompt:      prompt,
		Stream:      true,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

// mapFinishReason converts Cohere's upper-case finish reasons.
func mapFinishReason(reason string) core.FinishReason {
	switch reason {
	case "", "COMPLETE":
		return core.FinishReasonStop
	case "MAX_TOKENS":
		return core.FinishReasonLength
	case "ERROR", "ERROR_TOXIC", "ERROR_LIMIT":
		return core.FinishReasonError
	default:
		return core.FinishReason(reason)
	}
}

func mapUsage(rec *generateChunk) *core.Usage {
	if rec.Response == nil || rec.Response.Meta == nil || rec.Response.Meta.BilledUnits == nil {
		return nil
	}
	b := rec.Response.Meta.BilledUnits
	u := core.NewUsage(b.InputTokens, b.OutputTokens)
	return &u
}

// chunkMapper maps generate records to canonical chunks. The is_finished
// record ends the stream and carries the finish reason.
func chunkMapper(b *streaming.ChunkBuilder) streaming.MapFunc[[]byte] {
	return func(record []byte) (streaming.Step, error) {
		rec, err := streaming.DecodeJSON[generateChunk](providerID, record)
		if err != nil {
			return streaming.Step{}, err
		}

		if !rec.IsFinished {
			if rec.Text == "" {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build(rec.Text, "", nil), Emit: true}, nil
		}

		return streaming.Step{
			Chunk: b.Build(rec.Text, mapFinishReason(rec.FinishReason), mapUsage(&rec)),
			Emit:  true,
			Done:  true,
		}, nil
	}
}
