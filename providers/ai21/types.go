package ai21

// completeRequest is the request body for the complete endpoint.
type completeRequest struct {
	Prompt      string   `json:"prompt"`
	NumResults  int      `json:"numResults"`
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	Temperature *float32 `json:"temperature,omitempty"`
}

// completeResponse is the single JSON document the complete endpoint returns.
type completeResponse struct {
	ID          string       `json:"id"`
	Prompt      *promptData  `json:"prompt"`
	Completions []completion `json:"completions"`
}

type promptData struct {
	Text   string  `json:"text"`
	Tokens []token `json:"tokens"`
}

type completion struct {
	Data         completionData `json:"data"`
	FinishReason *finishReason  `json:"finishReason"`
}

type completionData struct {
	Text   string  `json:"text"`
	Tokens []token `json:"tokens"`
}

// token is kept opaque; only the count matters.
type token struct{}

type finishReason struct {
	Reason string `json:"reason"`
}
