package openai

import "sort"

// Preset describes an OpenAI-compatible host.
type Preset struct {
	// ID is the provider identifier registered for the host.
	ID string
	// BaseURL is the chat completions base URL.
	BaseURL string
	// APIKeyEnv is the environment variable conventionally holding the key.
	APIKeyEnv string
}

var presets = map[string]Preset{
	"openai":     {ID: "openai", BaseURL: DefaultBaseURL, APIKeyEnv: "OPENAI_API_KEY"},
	"mistral":    {ID: "mistral", BaseURL: "https://api.mistral.ai/v1", APIKeyEnv: "MISTRAL_API_KEY"},
	"deepinfra":  {ID: "deepinfra", BaseURL: "https://api.deepinfra.com/v1/openai", APIKeyEnv: "DEEPINFRA_API_KEY"},
	"xai":        {ID: "xai", BaseURL: "https://api.x.ai/v1", APIKeyEnv: "XAI_API_KEY"},
	"perplexity": {ID: "perplexity", BaseURL: "https://api.perplexity.ai", APIKeyEnv: "PERPLEXITY_API_KEY"},
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// Presets returns every known preset, sorted by ID.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
