package openai

import (
	"bytes"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// doneMarker is the data payload that ends a chat completions stream.
const doneMarker = "[DONE]"

// mapMessages converts canonical messages to the OpenAI format.
func mapMessages(msgs []core.Message) []chatMessage {
	result := make([]chatMessage, len(msgs))
	for i, msg := range msgs {
		result[i] = chatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}
	return result
}

// buildRequest creates a streaming chat request from a canonical request.
func buildRequest(req *core.Request) *chatRequest {
	return &chatRequest{
		Model:         string(req.Model),
		Messages:      mapMessages(req.Messages),
		Temperature:   req.Temperature,
		MaxTokens:     req.MaxTokens,
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	}
}

// mapFinishReason converts an OpenAI finish_reason.
func mapFinishReason(reason *string) core.FinishReason {
	if reason == nil {
		return ""
	}
	switch *reason {
	case "stop":
		return core.FinishReasonStop
	case "length":
		return core.FinishReasonLength
	default:
		return core.FinishReason(*reason)
	}
}

// chunkMapper maps SSE events to canonical chunks.
//
// Role-only records carry nothing for the caller and are skipped. The
// include_usage record has no choices; it is emitted as an empty delta so the
// last chunk carries the provider's counts.
func (p *OpenAI) chunkMapper(b *streaming.ChunkBuilder) streaming.MapFunc[streaming.Event] {
	return func(ev streaming.Event) (streaming.Step, error) {
		data := bytes.TrimSpace(ev.Data)
		if len(data) == 0 {
			return streaming.Step{}, nil
		}
		if string(data) == doneMarker {
			return streaming.Step{Done: true}, nil
		}

		rec, err := streaming.DecodeJSON[chatChunk](p.config.ID, data)
		if err != nil {
			return streaming.Step{}, err
		}
		if rec.Error != nil {
			return streaming.Step{}, p.streamError(rec.Error)
		}

		var native *core.Usage
		if rec.Usage != nil {
			u := core.NewUsage(rec.Usage.PromptTokens, rec.Usage.CompletionTokens)
			native = &u
		}

		if len(rec.Choices) == 0 {
			if native == nil {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build("", "", native), Emit: true}, nil
		}

		choice := rec.Choices[0]
		finish := mapFinishReason(choice.FinishReason)
		if choice.Delta.Content == "" && finish == "" && native == nil {
			return streaming.Step{}, nil
		}

		return streaming.Step{
			Chunk: b.Build(choice.Delta.Content, finish, native),
			Emit:  true,
		}, nil
	}
}
