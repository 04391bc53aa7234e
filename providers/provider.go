// Package providers contains the provider adapters and a catalog for building
// a core.Registry from them.
//
// Each adapter is implemented in its own subpackage (providers/ollama,
// providers/openai, providers/anthropic, providers/cohere, providers/ai21,
// providers/replicate). Adapters implement the core.Adapter interface.
//
// # Adapter Interface
//
//	type Adapter interface {
//	    ID() string
//	    Completions(ctx context.Context, req *Request) (*Result, error)
//	}
//
// # Concurrency
//
// Adapters SHOULD be safe for concurrent calls. Each call owns its decoder
// and aggregation state.
//
// # Streaming
//
// Every adapter asks its provider for a streamed reply where one exists; AI21
// answers with a single document, decoded as a one-chunk stream. When the
// request has Stream set, the Result carries a lazy *core.Stream; otherwise
// the stream is aggregated into a *core.Response before Completions returns.
// Adapters MUST:
//   - Validate the request before any transport call
//   - Report non-2xx statuses as transport errors carrying the status
//   - Close the response body on completion, failure or early close
package providers

import "github.com/petal-labs/unify/core"

// Re-export core types for convenience.
// Adapter implementations can import just the providers package.
type (
	// Adapter is the interface that provider adapters must implement.
	Adapter = core.Adapter

	// ModelID is a string identifier for a model.
	ModelID = core.ModelID

	// Request is the canonical completion request.
	Request = core.Request

	// Result is the tagged union returned by adapters.
	Result = core.Result

	// Response is the aggregated completion.
	Response = core.Response

	// Stream is the lazy chunk sequence.
	Stream = core.Stream

	// StreamingChunk is one incremental piece of a completion.
	StreamingChunk = core.StreamingChunk

	// Message represents a single message in a conversation.
	Message = core.Message

	// Role represents a message participant role.
	Role = core.Role

	// Usage tracks token consumption for a request.
	Usage = core.Usage
)

// Re-export role constants.
const (
	RoleSystem    = core.RoleSystem
	RoleUser      = core.RoleUser
	RoleAssistant = core.RoleAssistant
)
