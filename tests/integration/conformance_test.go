//go:build integration

package integration

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers"
)

type conformanceConfig struct {
	provider string
	model    core.ModelID
	settings providers.Settings
	timeout  time.Duration
}

func newConformanceClient(t *testing.T, cfg conformanceConfig) *core.Client {
	t.Helper()
	adapter, err := providers.DefaultCatalog().Create(cfg.provider, cfg.settings)
	if err != nil {
		t.Fatalf("Create(%q) error = %v", cfg.provider, err)
	}
	return core.NewClient(core.NewRegistry(adapter))
}

func conformanceContext(t *testing.T, cfg conformanceConfig) context.Context {
	t.Helper()
	timeout := cfg.timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// runConformance checks the normalized contract every provider must meet.
func runConformance(t *testing.T, cfg conformanceConfig) {
	t.Run("Complete", func(t *testing.T) { runConformanceComplete(t, cfg) })
	t.Run("Stream", func(t *testing.T) { runConformanceStream(t, cfg) })
	t.Run("UnknownModel", func(t *testing.T) { runConformanceUnknownModel(t, cfg) })
}

func runConformanceComplete(t *testing.T, cfg conformanceConfig) {
	client := newConformanceClient(t, cfg)
	maxTokens := 32

	resp, err := client.Complete(conformanceContext(t, cfg), cfg.provider, &core.Request{
		Model:     cfg.model,
		Messages:  []core.Message{{Role: core.RoleUser, Content: "Say 'hello' and nothing else."}},
		MaxTokens: &maxTokens,
	})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	if resp.Output() == "" {
		t.Error("Response output is empty")
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("len(Choices) = %d, want 1", len(resp.Choices))
	}
	if resp.Choices[0].Message.Role != core.RoleAssistant {
		t.Errorf("Role = %q, want assistant", resp.Choices[0].Message.Role)
	}
	if resp.Choices[0].FinishReason == "" {
		t.Error("FinishReason is empty")
	}
	u := resp.Usage
	if u.TotalTokens != u.PromptTokens+u.CompletionTokens {
		t.Errorf("Usage total %d != %d + %d", u.TotalTokens, u.PromptTokens, u.CompletionTokens)
	}
	if u.PromptTokens == 0 || u.CompletionTokens == 0 {
		t.Errorf("Usage = %+v, want non-zero counts", u)
	}

	t.Logf("Response: %s", resp.Output())
	t.Logf("Usage: %d prompt + %d completion = %d total", u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

func runConformanceStream(t *testing.T, cfg conformanceConfig) {
	client := newConformanceClient(t, cfg)

	stream, err := client.Stream(conformanceContext(t, cfg), cfg.provider, &core.Request{
		Model:    cfg.model,
		Messages: []core.Message{{Role: core.RoleUser, Content: "Count from 1 to 5, each number on a new line."}},
	})
	if err != nil {
		t.Fatalf("Stream() error = %v", err)
	}
	defer stream.Close()

	var (
		text      strings.Builder
		chunks    int
		lastUsage core.Usage
		finish    core.FinishReason
	)
	for chunk, err := range stream.All() {
		if err != nil {
			t.Fatalf("Stream error after %d chunks: %v", chunks, err)
		}
		chunks++
		if len(chunk.Choices) != 1 {
			t.Fatalf("chunk %d has %d choices", chunks, len(chunk.Choices))
		}
		if chunk.Usage.CompletionTokens < lastUsage.CompletionTokens {
			t.Errorf("chunk %d completion tokens went from %d to %d",
				chunks, lastUsage.CompletionTokens, chunk.Usage.CompletionTokens)
		}
		lastUsage = chunk.Usage
		text.WriteString(chunk.Content())
		if fr := chunk.Choices[0].FinishReason; fr != "" {
			finish = fr
		}
	}

	if chunks == 0 {
		t.Fatal("No chunks received")
	}
	if text.Len() == 0 {
		t.Error("Combined output is empty")
	}
	if finish == "" {
		t.Error("No chunk carried a finish reason")
	}

	t.Logf("Received %d chunks", chunks)
	t.Logf("Combined output: %s", text.String())
	t.Logf("Final usage: %+v", lastUsage)
}

func runConformanceUnknownModel(t *testing.T, cfg conformanceConfig) {
	client := newConformanceClient(t, cfg)

	_, err := client.Complete(conformanceContext(t, cfg), cfg.provider, &core.Request{
		Model:    "unify-model-that-does-not-exist",
		Messages: []core.Message{{Role: core.RoleUser, Content: "hi"}},
	})
	if err == nil {
		t.Fatal("expected an error for an unknown model")
	}

	var pe *core.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error %T is not a *core.ProviderError: %v", err, err)
	}
	if pe.Provider != cfg.provider {
		t.Errorf("Provider = %q, want %q", pe.Provider, cfg.provider)
	}
	if pe.Status < 400 {
		t.Errorf("Status = %d, want a 4xx or 5xx", pe.Status)
	}
	t.Logf("Error: %v", err)
}
