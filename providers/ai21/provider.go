package ai21

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the AI21 API key.
const DefaultAPIKeyEnvVar = "AI21_API_KEY"

const providerID = "ai21"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("ai21: AI21_API_KEY environment variable not set")

// NewFromEnv creates a new AI21 adapter using the AI21_API_KEY environment variable.
func NewFromEnv(opts ...Option) (*AI21, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// AI21 is an adapter for the AI21 Studio complete API.
// AI21 is safe for concurrent use.
type AI21 struct {
	config Config
}

// New creates a new AI21 adapter with the given API key and options.
func New(apiKey string, opts ...Option) *AI21 {
	cfg := Config{
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &AI21{config: cfg}
}

// ID returns the provider identifier.
func (p *AI21) ID() string {
	return providerID
}

func (p *AI21) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions sends req to the model's complete endpoint.
func (p *AI21) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

var _ core.Adapter = (*AI21)(nil)
