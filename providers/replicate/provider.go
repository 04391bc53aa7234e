package replicate

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the Replicate API token.
const DefaultAPIKeyEnvVar = "REPLICATE_API_TOKEN"

const providerID = "replicate"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("replicate: REPLICATE_API_TOKEN environment variable not set")

// NewFromEnv creates a new Replicate adapter using the REPLICATE_API_TOKEN environment variable.
func NewFromEnv(opts ...Option) (*Replicate, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Replicate is an adapter for Replicate language models.
// Replicate is safe for concurrent use.
type Replicate struct {
	config Config
}

// New creates a new Replicate adapter with the given API token and options.
func New(apiKey string, opts ...Option) *Replicate {
	cfg := Config{
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Replicate{config: cfg}
}

// ID returns the provider identifier.
func (p *Replicate) ID() string {
	return providerID
}

func (p *Replicate) buildHeaders() http.Header {
	headers := make(http.Header)
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())

	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions creates a streaming prediction and decodes its event stream.
func (p *Replicate) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

var _ core.Adapter = (*Replicate)(nil)
