// Package replicate provides an adapter for Replicate language models.
//
// A call creates a prediction with streaming enabled, then reads the
// prediction's server-sent event stream. The conversation is combined into
// the model's "prompt" input. Models are addressed as "owner/name" (the
// model's latest version) or "owner/name:version".
package replicate
