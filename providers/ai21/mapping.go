package ai21

import (
	"fmt"
	"net/url"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// completePath returns the complete endpoint path for model.
func completePath(model core.ModelID) string {
	return "/" + url.PathEscape(string(model)) + "/complete"
}

func mapRequest(req *core.Request, prompt string) *completeRequest {
	return &completeRequest{
		Prompt:      prompt,
		NumResults:  1,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
}

// mapFinishReason converts AI21 finish reasons.
func mapFinishReason(fr *finishReason) core.FinishReason {
	if fr == nil {
		return core.FinishReasonStop
	}
	switch fr.Reason {
	case "", "endoftext", "stop":
		return core.FinishReasonStop
	case "length":
		return core.FinishReasonLength
	default:
		return core.FinishReason(fr.Reason)
	}
}

// mapUsage counts the token lists AI21 returns, when both are present.
func mapUsage(resp *completeResponse, c *completion) *core.Usage {
	if resp.Prompt == nil || resp.Prompt.Tokens == nil || c.Data.Tokens == nil {
		return nil
	}
	u := core.NewUsage(len(resp.Prompt.Tokens), len(c.Data.Tokens))
	return &u
}

// documentMapper maps the reply document to one final chunk.
func documentMapper(b *streaming.ChunkBuilder) streaming.MapFunc[[]byte] {
	return func(record []byte) (streaming.Step, error) {
		resp, err := streaming.DecodeJSON[completeResponse](providerID, record)
		if err != nil {
			return streaming.Step{}, err
		}
		if len(resp.Completions) == 0 {
			return streaming.Step{}, normalize.DecodeError(providerID, fmt.Errorf("response %q has no completions", resp.ID))
		}

		c := &resp.Completions[0]
		return streaming.Step{
			Chunk: b.Build(c.Data.Text, mapFinishReason(c.FinishReason), mapUsage(&resp, c)),
			Emit:  true,
			Done:  true,
		}, nil
	}
}
