package anthropic

import (
	"bytes"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// messagesPath is the API path for the Messages API.
const messagesPath = "/v1/messages"

// splitSystem separates system messages from the conversation.
// System messages are combined into a single system prompt.
func splitSystem(msgs []core.Message) (string, []core.Message) {
	var system []core.Message
	var rest []core.Message
	for _, msg := range msgs {
		if msg.Role == core.RoleSystem {
			system = append(system, msg)
			continue
		}
		rest = append(rest, msg)
	}
	return core.CombinePrompts(system), rest
}

// buildRequest converts a canonical request to the Anthropic format.
func (p *Anthropic) buildRequest(req *core.Request) *messagesRequest {
	system, conversation := splitSystem(req.Messages)

	maxTokens := p.config.MaxTokens
	if req.MaxTokens != nil && *req.MaxTokens > 0 {
		maxTokens = *req.MaxTokens
	}

	// The Messages API needs at least one turn; a system-only request is sent
	// as a single user turn instead.
	if len(conversation) == 0 {
		conversation = []core.Message{{Role: core.RoleUser, Content: system}}
		system = ""
	}

	msgs := make([]message, 0, len(conversation))
	for _, msg := range conversation {
		msgs = append(msgs, message{
			Role:    string(msg.Role),
			Content: []contentBlock{{Type: "text", Text: msg.Content}},
		})
	}

	return &messagesRequest{
		Model:       string(req.Model),
		Messages:    msgs,
		MaxTokens:   maxTokens,
		System:      system,
		Temperature: req.Temperature,
		Stream:      true,
	}
}

// mapStopReason converts an Anthropic stop_reason.
func mapStopReason(reason string) core.FinishReason {
	switch reason {
	case "end_turn", "stop_sequence":
		return core.FinishReasonStop
	case "max_tokens":
		return core.FinishReasonLength
	case "":
		return ""
	default:
		return core.FinishReason(reason)
	}
}

// eventMapper maps Messages API events to canonical chunks.
//
// Text deltas become chunks with estimated usage. message_delta becomes a
// final empty chunk carrying the stop reason and the reported token counts.
// message_stop ends the stream.
func eventMapper(b *streaming.ChunkBuilder) streaming.MapFunc[streaming.Event] {
	var inputTokens int

	return func(ev streaming.Event) (streaming.Step, error) {
		data := bytes.TrimSpace(ev.Data)
		if len(data) == 0 {
			return streaming.Step{}, nil
		}

		event, err := streaming.DecodeJSON[streamEvent](providerID, data)
		if err != nil {
			return streaming.Step{}, err
		}
		kind := event.Type
		if kind == "" {
			kind = ev.Name
		}

		switch kind {
		case "message_start":
			if event.Message != nil {
				inputTokens = event.Message.Usage.InputTokens
			}
			return streaming.Step{}, nil

		case "content_block_delta":
			if event.Delta == nil || event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build(event.Delta.Text, "", nil), Emit: true}, nil

		case "message_delta":
			var finish core.FinishReason
			if event.Delta != nil {
				finish = mapStopReason(event.Delta.StopReason)
			}
			var native *core.Usage
			if event.Usage != nil {
				u := core.NewUsage(inputTokens, event.Usage.OutputTokens)
				native = &u
			}
			if finish == "" && native == nil {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build("", finish, native), Emit: true}, nil

		case "message_stop":
			return streaming.Step{Done: true}, nil

		case "error":
			return streaming.Step{}, streamError(event.Error)

		default:
			// ping, content_block_start, content_block_stop
			return streaming.Step{}, nil
		}
	}
}
