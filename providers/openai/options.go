package openai

import (
	"net/http"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/transport"
)

// Config holds configuration for the OpenAI-compatible adapter.
type Config struct {
	// ID is the provider identifier reported by the adapter. Defaults to "openai".
	ID string

	// APIKey is the API key (required by every hosted preset).
	APIKey core.Secret

	// BaseURL is the API base URL. Defaults to https://api.openai.com/v1
	BaseURL string

	// Transport sends requests. Defaults to an HTTP transport over http.DefaultClient.
	Transport transport.Transport

	// OrgID is the optional OpenAI organization ID.
	OrgID string

	// ProjectID is the optional OpenAI project ID.
	ProjectID string

	// Headers contains optional extra headers to include in requests.
	Headers http.Header

	// Estimator approximates usage for chunks that carry no token counts.
	Estimator core.Estimator
}

// DefaultBaseURL is the default OpenAI API base URL.
const DefaultBaseURL = "https://api.openai.com/v1"

// Option configures the OpenAI-compatible adapter.
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

// WithOrgID sets the OpenAI organization ID header.
func WithOrgID(org string) Option {
	return func(c *Config) {
		c.OrgID = org
	}
}

// WithProjectID sets the OpenAI project ID header.
func WithProjectID(project string) Option {
	return func(c *Config) {
		c.ProjectID = project
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

// WithID overrides the provider identifier reported by the adapter.
func WithID(id string) Option {
	return func(c *Config) {
		c.ID = id
	}
}

// WithPreset points the adapter at a known OpenAI-compatible host.
// Unknown names leave the configuration untouched; use LookupPreset to check.
func WithPreset(name string) Option {
	return func(c *Config) {
		p, ok := LookupPreset(name)
		if !ok {
			return
		}
		c.ID = p.ID
		c.BaseURL = p.BaseURL
	}
}
