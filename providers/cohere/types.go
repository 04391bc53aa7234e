package cohere

// generateRequest is the request body for the Cohere generate API.
type generateRequest struct {
	Model       string   `json:"model"`
	Prompt      string   `json:"prompt"`
	Stream      bool     `json:"stream"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}

// generateChunk is one newline-delimited record of a generate stream.
type generateChunk struct {
	EventType    string            `json:"event_type,omitempty"`
	Text         string            `json:"text"`
	IsFinished   bool              `json:"is_finished"`
	FinishReason string            `json:"finish_reason,omitempty"`
	Response     *generateResponse `json:"response,omitempty"`
}

// generateResponse is the summary attached to the final record.
type generateResponse struct {
	ID   string `json:"id"`
	Meta *meta  `json:"meta,omitempty"`
}

type meta struct {
	BilledUnits *billedUnits `json:"billed_units,omitempty"`
}

type billedUnits struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
