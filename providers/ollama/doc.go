// Package ollama provides an Ollama adapter.
//
// Ollama is a local-first LLM platform that allows running models locally,
// with optional cloud support via ollama.com. The adapter talks to the
// generate endpoint, which takes a single prompt: the conversation is joined
// with core.CombinePrompts and the newline-delimited JSON reply is decoded
// into canonical chunks.
//
// # Local Usage (Default)
//
// For local Ollama instances, no API key is required:
//
//	adapter := ollama.New()
//	client := core.NewClient(core.NewRegistry(adapter))
//
//	resp, err := client.Complete(ctx, "ollama", &core.Request{
//		Model:    "llama3.2",
//		Messages: []core.Message{{Role: core.RoleUser, Content: "Hello!"}},
//	})
//
// # Custom Base URL
//
// To connect to a remote Ollama instance:
//
//	adapter := ollama.New(
//		ollama.WithBaseURL("http://remote-host:11434"),
//	)
//
// # Ollama Cloud
//
// For Ollama Cloud (ollama.com), an API key is required:
//
//	adapter := ollama.New(
//		ollama.WithCloud(),
//		ollama.WithAPIKey(os.Getenv("OLLAMA_API_KEY")),
//	)
//
// # Usage
//
// The final record of a generate stream carries prompt_eval_count and
// eval_count; those are reported as-is on the last chunk. Earlier chunks
// carry a running estimate.
//
// See https://ollama.com/library for available models.
package ollama
