// Package core provides the canonical completion model and the streaming
// normalization engine shared by every provider adapter.
package core

import (
	"encoding/json"
	"fmt"
)

// ModelID is a string identifier for a model.
// Using string avoids coupling to provider-specific enums.
type ModelID string

// Role represents a message participant role.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles a canonical request may carry.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// FinishReason explains why a choice stopped producing output.
// The zero value means the choice has not finished yet and is encoded as JSON null.
type FinishReason string

const (
	FinishReasonStop   FinishReason = "stop"
	FinishReasonLength FinishReason = "length"
	FinishReasonError  FinishReason = "error"
)

// MarshalJSON encodes an unset finish reason as null.
func (f FinishReason) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

// UnmarshalJSON accepts a string or null.
func (f *FinishReason) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = FinishReason(s)
	return nil
}

// Message represents a single message in a conversation.
type Message struct {
	Role    Role   `json:"role" jsonschema:"enum=system,enum=user,enum=assistant"`
	Content string `json:"content"`
}

// Request is the canonical, provider-agnostic completion request.
type Request struct {
	Model    ModelID   `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`

	// Optional sampling parameters, forwarded by adapters whose provider accepts them.
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}

// Validate checks the invariants every adapter relies on.
func (r *Request) Validate() error {
	if r == nil {
		return ErrNoMessages
	}
	if r.Model == "" {
		return ErrModelRequired
	}
	if len(r.Messages) == 0 {
		return ErrNoMessages
	}
	for i, m := range r.Messages {
		if !m.Role.Valid() {
			return fmt.Errorf("%w: message %d has role %q", ErrInvalidRole, i, m.Role)
		}
	}
	return nil
}

// Usage tracks token consumption for a request.
// TotalTokens is always PromptTokens + CompletionTokens.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// NewUsage builds a Usage with a consistent total. Negative counts are clamped to zero.
func NewUsage(prompt, completion int) Usage {
	prompt = max(prompt, 0)
	completion = max(completion, 0)
	return Usage{
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      prompt + completion,
	}
}

// Delta is an incremental fragment of assistant output.
type Delta struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// ResponseMessage is the fully accumulated assistant output.
type ResponseMessage struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

// StreamChoice is one choice inside a streaming chunk.
type StreamChoice struct {
	Index        int          `json:"index"`
	Delta        Delta        `json:"delta"`
	FinishReason FinishReason `json:"finish_reason"`
}

// Choice is one choice inside a non-streaming response.
type Choice struct {
	Index        int             `json:"index"`
	Message      ResponseMessage `json:"message"`
	FinishReason FinishReason    `json:"finish_reason"`
}

// StreamingChunk is a point-in-time streaming event.
// Usage holds cumulative totals as of this chunk.
type StreamingChunk struct {
	Model   ModelID        `json:"model"`
	Created int64          `json:"created"`
	Usage   Usage          `json:"usage"`
	Choices []StreamChoice `json:"choices"`
}

// Content returns the delta content of the first choice, or "".
func (c StreamingChunk) Content() string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// Response is the canonical non-streaming result.
type Response struct {
	Model   ModelID  `json:"model"`
	Created int64    `json:"created"`
	Usage   Usage    `json:"usage"`
	Choices []Choice `json:"choices"`
}

// Output returns the message content of the first choice, or "".
func (r *Response) Output() string {
	if r == nil || len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// ResultKind tags which variant a Result holds.
type ResultKind int

const (
	// KindResponse marks a fully aggregated Response.
	KindResponse ResultKind = iota + 1
	// KindStream marks a lazy chunk Stream.
	KindStream
)

// String implements fmt.Stringer.
func (k ResultKind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Result is the outcome of a completion call: exactly one of Response or Stream
// is set, as indicated by Kind. The variant follows Request.Stream.
type Result struct {
	Kind     ResultKind
	Response *Response
	Stream   *Stream
}

// ResponseResult wraps a non-streaming response.
func ResponseResult(r *Response) *Result {
	return &Result{Kind: KindResponse, Response: r}
}

// StreamResult wraps a streaming sequence.
func StreamResult(s *Stream) *Result {
	return &Result{Kind: KindStream, Stream: s}
}
