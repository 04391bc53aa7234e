package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultAPIKeyEnvVar is the environment variable name for the OpenAI API key.
const DefaultAPIKeyEnvVar = "OPENAI_API_KEY"

// ErrAPIKeyNotFound is returned when the API key environment variable is not set.
var ErrAPIKeyNotFound = errors.New("openai: API key environment variable not set")

// ErrUnknownPreset is returned by NewPreset for names with no preset.
var ErrUnknownPreset = errors.New("openai: unknown preset")

// NewFromEnv creates a new OpenAI adapter using the OPENAI_API_KEY environment variable.
// This is a convenience factory for quick setup:
//
//	adapter, err := openai.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := core.NewClient(core.NewRegistry(adapter))
func NewFromEnv(opts ...Option) (*OpenAI, error) {
	apiKey := os.Getenv(DefaultAPIKeyEnvVar)
	if apiKey == "" {
		return nil, ErrAPIKeyNotFound
	}
	return New(apiKey, opts...), nil
}

// NewPreset creates an adapter for a named OpenAI-compatible host.
// When apiKey is empty it is read from the preset's environment variable.
func NewPreset(name, apiKey string, opts ...Option) (*OpenAI, error) {
	p, ok := LookupPreset(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	if apiKey == "" {
		apiKey = os.Getenv(p.APIKeyEnv)
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: %s", ErrAPIKeyNotFound, p.APIKeyEnv)
	}
	return New(apiKey, append([]Option{WithPreset(name)}, opts...)...), nil
}

// OpenAI is an adapter for the OpenAI chat completions API and the hosts
// that mirror it. OpenAI is safe for concurrent use.
type OpenAI struct {
	config Config
}

// New creates a new OpenAI adapter with the given API key and options.
func New(apiKey string, opts ...Option) *OpenAI {
	cfg := Config{
		ID:        "openai",
		APIKey:    core.NewSecret(apiKey),
		BaseURL:   DefaultBaseURL,
		Transport: transport.NewHTTP(http.DefaultClient),
		Estimator: core.NewEstimator(core.DefaultCharsPerToken),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &OpenAI{config: cfg}
}

// ID returns the provider identifier.
func (p *OpenAI) ID() string {
	return p.config.ID
}

// buildHeaders constructs the HTTP headers for an API request.
func (p *OpenAI) buildHeaders() http.Header {
	headers := make(http.Header)

	// Required headers
	headers.Set("Authorization", "Bearer "+p.config.APIKey.Expose())
	headers.Set("Accept", "text/event-stream")

	// Optional organization header
	if p.config.OrgID != "" {
		headers.Set("OpenAI-Organization", p.config.OrgID)
	}

	// Optional project header
	if p.config.ProjectID != "" {
		headers.Set("OpenAI-Project", p.config.ProjectID)
	}

	// Copy any extra headers
	for key, values := range p.config.Headers {
		for _, v := range values {
			headers.Add(key, v)
		}
	}

	return headers
}

// Completions sends req to the chat completions endpoint. The reply is always
// streamed; when req.Stream is false it is aggregated before returning.
func (p *OpenAI) Completions(ctx context.Context, req *core.Request) (*core.Result, error) {
	return p.doCompletions(ctx, req)
}

// Compile-time check that OpenAI implements Adapter.
var _ core.Adapter = (*OpenAI)(nil)
