package ollama

import (
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// Default base URLs for Ollama API.
const (
	// DefaultLocalURL is the default URL for local Ollama instances.
	DefaultLocalURL = "http://127.0.0.1:11434"

	// DefaultCloudURL is the URL for Ollama Cloud (ollama.com).
	DefaultCloudURL = "https://ollama.com"
)

// Config holds the configuration for the Ollama provider.
type Config struct {
	// APIKey is the API key for Ollama Cloud. Optional for local instances.
	APIKey core.Secret

	// BaseURL is the base URL for the Ollama API.
	// Defaults to DefaultLocalURL.
	BaseURL string

	// Transport sends requests. Defaults to an HTTP transport over http.DefaultClient.
	Transport transport.Transport

	// Headers contains additional HTTP headers to include in requests.
	Headers http.Header

	// KeepAlive controls how long the model stays loaded after the request.
	KeepAlive string

	// Estimator approximates usage when records carry no token counts.
	Estimator core.Estimator
}

// Option is a function that configures the Ollama provider.
type Option func(*Config)

// WithAPIKey sets the API key for Ollama Cloud.
// This is optional for local Ollama instances.
func WithAPIKey(key string) Option {
	return func(c *Config) {
		c.APIKey = core.NewSecret(key)
	}
}

// WithBaseURL sets a custom base URL for the Ollama API.
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithCloud configures the provider for Ollama Cloud (ollama.com).
// This sets the base URL to DefaultCloudURL. You should also call
// WithAPIKey to provide authentication.
func WithCloud() Option {
	return func(c *Config) {
		c.BaseURL = DefaultCloudURL
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

// WithHeaders sets additional HTTP headers to include in requests.
func WithHeaders(headers http.Header) Option {
	return func(c *Config) {
		c.Headers = headers
	}
}

// WithKeepAlive sets the keep_alive duration sent with each request (e.g. "5m").
func WithKeepAlive(d string) Option {
	return func(c *Config) {
		c.KeepAlive = d
	}
}

// WithEstimator sets the usage estimator.
func WithEstimator(e core.Estimator) Option {
	return func(c *Config) {
		c.Estimator = e
	}
}
