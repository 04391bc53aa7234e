// Package openai provides an adapter for the OpenAI chat completions API and
// for hosts that serve the same protocol (Mistral, DeepInfra, xAI, Perplexity).
//
//	adapter := openai.New(os.Getenv("OPENAI_API_KEY"))
//
//	mistral, err := openai.NewPreset("mistral", "")
//
// Requests are always sent with stream=true and include_usage, and the
// server-sent events are decoded into canonical chunks. The stream ends at the
// [DONE] marker.
package openai
