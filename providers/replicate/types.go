package replicate

// predictionRequest is the body sent to create a prediction.
type predictionRequest struct {
	// Version is set only for "owner/name:version" models.
	Version string          `json:"version,omitempty"`
	Input   predictionInput `json:"input"`
	Stream  bool            `json:"stream"`
}

type predictionInput struct {
	Prompt       string   `json:"prompt"`
	MaxNewTokens *int     `json:"max_new_tokens,omitempty"`
	Temperature  *float32 `json:"temperature,omitempty"`
}

// prediction is the create-prediction reply.
type prediction struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  any    `json:"error"`
	URLs   struct {
		Stream string `json:"stream"`
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

// doneEvent is the payload of the terminal "done" event.
type doneEvent struct {
	Reason string `json:"reason"`
}
