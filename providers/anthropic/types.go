package anthropic

// messagesRequest represents a request to the Anthropic Messages API.
type messagesRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature *float32  `json:"temperature,omitempty"`
	Stream      bool      `json:"stream"`
}

// message represents a conversation turn in the Anthropic format.
type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock represents a content block in a message.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// streamEvent represents the data payload of a streaming event.
type streamEvent struct {
	Type string `json:"type"`
	// For message_start
	Message *messageStart `json:"message,omitempty"`
	// For content_block_delta and message_delta
	Index int    `json:"index,omitempty"`
	Delta *delta `json:"delta,omitempty"`
	// For message_delta
	Usage *usage `json:"usage,omitempty"`
	// For error
	Error *apiError `json:"error,omitempty"`
}

// messageStart is the message skeleton sent in message_start.
type messageStart struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Usage usage  `json:"usage"`
}

// delta is an incremental update in a stream event.
type delta struct {
	Type       string `json:"type,omitempty"`
	Text       string `json:"text,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
}

// usage represents token usage in Anthropic events.
type usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// apiError is the error object of error responses and error events.
type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// errorResponse represents an Anthropic API error response.
type errorResponse struct {
	Type  string   `json:"type"`
	Error apiError `json:"error"`
}
