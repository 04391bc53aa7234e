//go:build integration

package integration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeOllamaConfig writes a config pointing the ollama provider at the
// local host and returns its path.
func writeOllamaConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := fmt.Sprintf("default_provider: ollama\ndefault_model: %s\nproviders:\n  ollama:\n    base_url: %s\n",
		ollamaModel(), ollamaHost())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestCLI_Complete(t *testing.T) {
	skipIfNoOllama(t)

	result := runCLI(t, nil, "complete",
		"--config", writeOllamaConfig(t),
		"--prompt", "Say 'hello' and nothing else.")

	if result.ExitCode != 0 {
		t.Errorf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}
	if strings.TrimSpace(result.Stdout) == "" {
		t.Error("Stdout is empty")
	}

	t.Logf("Output: %s", result.Stdout)
}

func TestCLI_Complete_StreamJSON(t *testing.T) {
	skipIfNoOllama(t)

	result := runCLI(t, nil, "complete",
		"--config", writeOllamaConfig(t),
		"--prompt", "Count from 1 to 3.",
		"--stream", "--json")

	if result.ExitCode != 0 {
		t.Fatalf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	lines := 0
	scanner := bufio.NewScanner(strings.NewReader(result.Stdout))
	for scanner.Scan() {
		var chunk map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &chunk); err != nil {
			t.Fatalf("line %d is not valid JSON: %v\n%s", lines+1, err, scanner.Text())
		}
		if _, ok := chunk["usage"]; !ok {
			t.Errorf("line %d has no usage", lines+1)
		}
		lines++
	}
	if lines == 0 {
		t.Error("no chunks printed")
	}
}

func TestCLI_Complete_InvalidKey(t *testing.T) {
	requireKey(t, "OPENAI_API_KEY")

	result := runCLI(t, []string{"OPENAI_API_KEY=sk-invalid"}, "complete",
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--provider", "openai",
		"--model", "gpt-4o-mini",
		"--prompt", "hi",
		"--json")

	if result.ExitCode != 2 {
		t.Fatalf("Exit code = %d, want 2\nStderr: %s", result.ExitCode, result.Stderr)
	}

	var errOut struct {
		Error struct {
			Provider string `json:"provider"`
			Status   int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(result.Stderr), &errOut); err != nil {
		t.Fatalf("Stderr is not valid JSON: %v\n%s", err, result.Stderr)
	}
	if errOut.Error.Provider != "openai" || errOut.Error.Status != 401 {
		t.Errorf("error = %+v, want openai 401", errOut.Error)
	}
}

func TestCLI_Providers(t *testing.T) {
	result := runCLI(t, nil, "providers", "--json",
		"--config", filepath.Join(t.TempDir(), "none.yaml"))

	if result.ExitCode != 0 {
		t.Fatalf("Exit code = %d, want 0\nStderr: %s", result.ExitCode, result.Stderr)
	}

	var list []map[string]any
	if err := json.Unmarshal([]byte(result.Stdout), &list); err != nil {
		t.Fatalf("Output is not valid JSON: %v\n%s", err, result.Stdout)
	}
	if len(list) < 4 {
		t.Errorf("len(providers) = %d, want at least 4", len(list))
	}
}
