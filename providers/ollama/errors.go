package ollama

import (
	"fmt"
	"io"
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/transport"
)

// parseErrorResponse reads and parses an error response from Ollama.
func parseErrorResponse(resp *transport.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return &core.ProviderError{
			Provider: providerID,
			Code:     "read_error",
			Message:  fmt.Sprintf("failed to read error response: %v", err),
			Status:   resp.Status,
			Err:      normalize.SentinelForStatus(resp.Status),
			Cause:    err,
		}
	}

	// Ollama sends {"error":"..."}; proxies in front of it may not.
	message, _ := normalize.ParseErrorBody(body)
	return mapOllamaError(resp.Status, message)
}

// mapOllamaError converts an Ollama error to a core.ProviderError.
func mapOllamaError(statusCode int, errMsg string) error {
	code := normalize.CodeForStatus(statusCode)
	if statusCode == http.StatusNotFound {
		// Ollama answers 404 for models that have not been pulled.
		code = "model_not_found"
	}
	return normalize.ProviderError(providerID, statusCode, "", code, errMsg, nil)
}
