package cohere

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the Cohere API key.
const DefaultAPIKeyEnvVar = "COHERE_API_KEY"

const providerID = "cohere"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("cohere: COHERE_API_KEY environment variable not set")

// NewFromEnv creates a new Cohere adapter using the COHERE_API_KEY environment variable.
func NewFromEnv(opts ...Option) (*Cohere, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Cohere is an adapter for the Cohere generate API.
// Cohere is safe for concurrent use.
type Cohere struct {
	config Config
}

// New creates a new Cohere adapter with the given API key and options.
func New(apiKey string, opts ...Option) *Cohere {
	cfg := Config{
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Cohere{config: cfg}
}

// ID returns the provider identifier.
func (p *Cohere) ID() string {
	return providerID
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Cohere) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions sends req to the generate endpoint with the conversation
// combined into one prompt.
func (p *Cohere) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

// Compile-time check that Cohere implements Adapter.
var _ core.Adapter = (*Cohere)(nil)
