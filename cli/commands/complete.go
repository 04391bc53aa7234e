package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitProvider   = 2
	ExitNetwork    = 3
	ExitDecode     = 4
)

func (a *App) newCompleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [prompt]",
		Short: "Send a completion request",
		Long: `Send a completion request to an LLM provider.

The prompt comes from --prompt, the positional arguments, or stdin when the
prompt is "-".

Examples:
  unify complete --provider ollama --model llama3.2 "Why is the sky blue?"
  unify complete --prompt "Hello" --stream
  echo "Hello" | unify complete - --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runComplete(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&a.completePrompt, "prompt", "", "User message")
	cmd.Flags().StringVar(&a.completeSystem, "system", "", "System message")
	cmd.Flags().Float32Var(&a.completeTemperature, "temperature", 0, "Temperature (0 = use default)")
	cmd.Flags().IntVar(&a.completeMaxTokens, "max-tokens", 0, "Max tokens (0 = use default)")
	cmd.Flags().BoolVar(&a.completeStream, "stream", false, "Print output as it arrives")

	return cmd
}

func (a *App) runComplete(ctx context.Context, args []string) error {
	if a.provider == "" {
		return a.handleError(fmt.Errorf("provider required: use --provider flag or set default_provider in config"), ExitValidation)
	}
	if a.model == "" {
		return a.handleError(fmt.Errorf("%w: use --model flag or set default_model in config", core.ErrModelRequired), ExitValidation)
	}

	prompt, err := a.readPrompt(args)
	if err != nil {
		return a.handleError(err, ExitValidation)
	}

	registry, err := a.cfg.Registry(a.catalog, providers.Settings{Transport: a.transport})
	if err != nil {
		return a.handleError(err, ExitValidation)
	}

	opts := []core.ClientOption{core.WithLogger(a.logger)}
	if a.verbose {
		opts = append(opts, core.WithTelemetry(core.NewSlogTelemetryHook(a.logger)))
	}
	client := core.NewClient(registry, opts...)
	req := a.buildRequest(prompt)

	if a.completeStream {
		return a.runStreaming(ctx, client, req, prompt)
	}
	return a.runNonStreaming(ctx, client, req, prompt)
}

func (a *App) readPrompt(args []string) (string, error) {
	prompt := a.completePrompt
	if prompt == "" {
		prompt = strings.Join(args, " ")
	}
	if prompt == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(data))
	}
	if prompt == "" {
		return "", fmt.Errorf("%w: pass a prompt argument, --prompt, or - for stdin", core.ErrNoMessages)
	}
	return prompt, nil
}

func (a *App) buildRequest(prompt string) *core.Request {
	req := &core.Request{Model: core.ModelID(a.model)}
	if a.completeSystem != "" {
		// System message comes before the user message.
		req.Messages = append(req.Messages, core.Message{Role: core.RoleSystem, Content: a.completeSystem})
	}
	req.Messages = append(req.Messages, core.Message{Role: core.RoleUser, Content: prompt})

	if a.completeTemperature > 0 {
		t := a.completeTemperature
		req.Temperature = &t
	}
	if a.completeMaxTokens > 0 {
		n := a.completeMaxTokens
		req.MaxTokens = &n
	}
	return req
}

func (a *App) runNonStreaming(ctx context.Context, client *core.Client, req *core.Request, prompt string) error {
	resp, err := client.Complete(ctx, a.provider, req)
	if err != nil {
		return a.handleError(err, exitCodeFor(err))
	}

	if a.jsonOutput {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	if a.isTerminal(a.stdout) {
		fmt.Fprintf(a.stdout, "> %s\n", prompt)
	}
	fmt.Fprintln(a.stdout, resp.Output())
	a.logUsage(resp.Usage)
	return nil
}

func (a *App) runStreaming(ctx context.Context, client *core.Client, req *core.Request, prompt string) error {
	stream, err := client.Stream(ctx, a.provider, req)
	if err != nil {
		return a.handleError(err, exitCodeFor(err))
	}
	defer stream.Close()

	if !a.jsonOutput && a.isTerminal(a.stdout) {
		fmt.Fprintf(a.stdout, "> %s\n", prompt)
	}

	// JSON output is one chunk per line.
	enc := json.NewEncoder(a.stdout)
	var last core.StreamingChunk
	for chunk, err := range stream.All() {
		if err != nil {
			if !a.jsonOutput {
				fmt.Fprintln(a.stdout)
			}
			return a.handleError(err, exitCodeFor(err))
		}
		last = chunk
		if a.jsonOutput {
			if err := enc.Encode(chunk); err != nil {
				return err
			}
			continue
		}
		fmt.Fprint(a.stdout, chunk.Content())
	}

	if !a.jsonOutput {
		fmt.Fprintln(a.stdout)
	}
	a.logUsage(last.Usage)
	return nil
}

func (a *App) logUsage(u core.Usage) {
	a.logger.Debug("usage",
		slog.Int("prompt_tokens", u.PromptTokens),
		slog.Int("completion_tokens", u.CompletionTokens),
		slog.Int("total_tokens", u.TotalTokens),
	)
}

// exitCodeFor classifies a completion failure.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, core.ErrUnsupportedProvider),
		errors.Is(err, core.ErrModelRequired),
		errors.Is(err, core.ErrNoMessages),
		errors.Is(err, core.ErrInvalidRole):
		return ExitValidation
	case errors.Is(err, core.ErrDecode):
		return ExitDecode
	case errors.Is(err, core.ErrNetwork):
		return ExitNetwork
	default:
		return ExitProvider
	}
}

func (a *App) handleError(err error, code int) error {
	var provErr *core.ProviderError
	switch {
	case errors.As(err, &provErr) && a.jsonOutput:
		a.outputErrorJSON(provErr)
	case errors.As(err, &provErr):
		fmt.Fprintf(a.stderr, "Error: %s\n", provErr.Message)
		if provErr.RequestID != "" {
			fmt.Fprintf(a.stderr, "  Provider: %s, Request ID: %s\n", provErr.Provider, provErr.RequestID)
		}
	case a.jsonOutput:
		a.outputSimpleErrorJSON(errorType(code), err.Error())
	default:
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(code, err)
}

func errorType(code int) string {
	switch code {
	case ExitValidation:
		return "validation_error"
	case ExitNetwork:
		return "network_error"
	case ExitDecode:
		return "decode_error"
	default:
		return "error"
	}
}

func (a *App) outputErrorJSON(provErr *core.ProviderError) {
	output := map[string]any{
		"error": map[string]any{
			"type":       provErr.Code,
			"message":    provErr.Message,
			"provider":   provErr.Provider,
			"status":     provErr.Status,
			"request_id": provErr.RequestID,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

func (a *App) outputSimpleErrorJSON(errType, message string) {
	output := map[string]any{
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	}

	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	enc.Encode(output)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
