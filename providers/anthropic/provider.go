package anthropic

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the Anthropic API key.
const DefaultAPIKeyEnvVar = "ANTHROPIC_API_KEY"

const providerID = "anthropic"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("anthropic: ANTHROPIC_API_KEY environment variable not set")

// NewFromEnv creates a new Anthropic adapter using the ANTHROPIC_API_KEY environment variable.
// This is a convenience factory for quick setup:
//
//	adapter, err := anthropic.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := core.NewClient(core.NewRegistry(adapter))
//
// Additional options can be passed to customize the adapter.
func NewFromEnv(opts ...Option) (*Anthropic, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// Anthropic is an adapter for the Anthropic Messages API.
// Anthropic is safe for concurrent use.
type Anthropic struct {
	config Config
}

// New creates a new Anthropic adapter with the given API key and options.
func New(apiKey string, opts ...Option) *Anthropic {
	cfg := Config{
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Version:   DefaultVersion,
		MaxTokens: defaultMaxTokens,
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Anthropic{config: cfg}
}

// ID returns the provider identifier.
func (p *Anthropic) ID() string {
	return providerID
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *Anthropic) buildHeaders() http.Header {
	headers := make(http.Header)

	// Required headers
	headers.Set("x-api-key", p.config.APIKey.Expose())
	headers.Set("anthropic-version", p.config.Version)
	headers.Set("Accept", "text/event-stream")

	// Copy any extra headers
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions sends req to the Messages API. The reply is always streamed;
// when req.Stream is false it is aggregated before returning.
func (p *Anthropic) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

// Compile-time check that Anthropic implements Adapter.
var _ core.Adapter = (*Anthropic)(nil)
