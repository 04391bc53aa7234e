package anthropic

import (
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// Config holds configuration for the Anthropic adapter.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.anthropic.com
	BaseURL string

	// Transport sends requests. Defaults to an HTTP transport over http.DefaultClient.
	Transport transport.Transport

	// Version is the Anthropic API version. Defaults to 2023-06-01.
	Version string

	// MaxTokens is sent when a request leaves max_tokens unset.
	// Anthropic requires the field. Defaults to 1024.
	MaxTokens int

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Estimator approximates usage for chunks that carry no token counts.
	Estimator core.Estimator
}

// DefaultBaseURL is the default Anthropic API base URL.
const DefaultBaseURL = "https://api.anthropic.com"

// DefaultVersion is the default Anthropic API version.
const DefaultVersion = "2023-06-01"

// defaultMaxTokens is the default max_tokens value when not specified.
const defaultMaxTokens = 1024

// Option configures the Anthropic adapter.
type Option func(*Config)

// WithBaseURL sets the API base URL.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithHTTPClient sends requests through a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Config) {
		c.Transport = transport.NewHTTP(client)
	}
}

// WithTransport sets the transport used to send requests.
func WithTransport(t transport.Transport) Option {
	return func(c *Config) {
		c.Transport = t
	}
}

// WithVersion sets the Anthropic API version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.Version = version
	}
}

// WithMaxTokens sets the max_tokens used when a request does not set one.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxTokens = n
		}
	}
}

// WithHeader adds an extra header to include in requests.
func WithHeader(key, value string) Option {
	return func(c *Config) {
		if c.Headers == nil {
			c.Headers = make(http.Header)
		}
		c.Headers.Set(key, value)
	}
}

// WithEstimator sets the usage estimator.
func WithEstimator(e core.Estimator) Option {
	return func(c *Config) {
		c.Estimator = e
	}
}
