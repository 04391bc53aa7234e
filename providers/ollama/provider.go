package ollama

import (
	"context"
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

const providerID = "ollama"

// Ollama is an adapter for the Ollama generate API.
// Ollama is safe for concurrent use.
type Ollama struct {
	config Config
}

// New creates a new Ollama adapter with the given options.
// For local Ollama instances, no API key is required.
// For Ollama Cloud, use WithCloud() and WithAPIKey().
func New(opts ...Option) *Ollama {
	cfg := Config{
		BaseURL:   DefaultLocalURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Ollama{config: cfg}
}

// ID returns the provider identifier.
func (p *Ollama) ID() string {
	return providerID
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Ollama) buildHeaders() http.Header {
	headers := make(http.Header)

	// Authorization header only if API key is provided (for Ollama Cloud)
	if !p.config.APIKey.IsEmpty() {
		headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())
	}

	// Copy any extra headers
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions sends req to the generate endpoint. The reply is always read as
// a stream; when req.Stream is false it is aggregated before returning.
func (p *Ollama) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

// Compile-time check that Ollama implements Adapter.
var _ core.Adapter = (*Ollama)(nil)
