// Package core defines the provider-neutral completion model of Unify: the
// canonical [Request], the two [Result] variants ([Response] and [Stream]),
// usage estimation, error sentinels, and the [Client] that dispatches a
// request to a registered [Adapter].
//
// # Client and Registry
//
// A [Registry] maps provider identifiers to adapters. It is built explicitly
// and handed to [NewClient]:
//
//	reg := core.NewRegistry(ollama.New(), openai.New(os.Getenv("OPENAI_API_KEY")))
//	client := core.NewClient(reg,
//	    core.WithTelemetry(core.NewSlogTelemetryHook(logger)),
//	)
//
// Unknown identifiers fail with an error wrapping [ErrUnsupportedProvider]
// before any network activity.
//
// # Results
//
// [Client.Completions] returns a [Result] whose variant follows
// [Request.Stream]. Streams are lazy and pull based; the caller drives them
// and must consume or Close them:
//
//	s, err := client.Stream(ctx, "ollama", req)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	for chunk, err := range s.All() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Print(chunk.Content())
//	}
//
// Non-streaming calls consume the same chunk stream internally and fold it
// with [Aggregate]. Aggregated usage is always estimated with [Estimator]
// (one token per four characters, rounded up) so that results are comparable
// across providers.
//
// # Errors
//
// Failures are classified by sentinel. Use [errors.Is] against
// [ErrTransport] (and its refinements [ErrNetwork], [ErrUnauthorized],
// [ErrRateLimited], [ErrBadRequest], [ErrNotFound], [ErrServer]),
// [ErrDecode] and the validation errors. [ProviderError] carries the
// provider, HTTP status and request ID when known.
//
// # Secrets
//
// API keys are held in [Secret], which renders as a placeholder through fmt,
// slog and the JSON, YAML and TOML encoders.
package core
