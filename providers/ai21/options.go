package ai21

import (
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// DefaultBaseURL is the default AI21 Studio API base URL.
const DefaultBaseURL = "https://api.ai21.com/studio/v1"

// Config holds configuration for the AI21 adapter.
type Config struct {
	// APIKey is the AI21 API key (required).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to DefaultBaseURL.
	BaseURL string

	// Transport sends requests. Defaults to an HTTP transport over http.DefaultClient.
	Transport transport.Transport

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Estimator approximates usage when the reply carries no token lists.
	Estimator core.Estimator
}

// Option configures the AI21 adapter.
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
