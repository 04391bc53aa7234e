package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/petal-labs/unify/cli/config"
)

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "myapp", false},
		{"valid with numbers", "app123", false},
		{"valid with underscore", "my_app", false},
		{"valid with hyphen", "my-app", false},
		{"empty", "", true},
		{"starts with number", "123app", true},
		{"starts with hyphen", "-app", true},
		{"contains space", "my app", true},
		{"contains dot", "my.app", true},
		{"reserved dot", ".", true},
		{"reserved dotdot", "..", true},
		{"reserved unify", "unify", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateProjectName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateProjectName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestEnvVarForProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"ollama", "OLLAMA_API_KEY"},
		{"mistral", "MISTRAL_API_KEY"},
		{"custom", "CUSTOM_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got := envVarForProvider(tt.provider)
			if got != tt.want {
				t.Errorf("envVarForProvider(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestDefaultModel(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"ollama", "llama3.2"},
		{"anthropic", "claude-sonnet-4-5"},
		{"cohere", "command"},
		{"ai21", "j2-mid"},
		{"replicate", "meta/meta-llama-3-8b-instruct"},
		{"unknown", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			got := defaultModel(tt.provider)
			if got != tt.want {
				t.Errorf("defaultModel(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestGenerateFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")

	tmpl := "Hello {{.Provider}}!"
	data := templateData{Provider: "world"}

	err := generateFile(path, tmpl, data)
	if err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(content) != "Hello world!" {
		t.Errorf("generateFile() content = %q, want 'Hello world!'", string(content))
	}
}

func TestGenerateFileWithFuncs(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.txt")

	tmpl := "Provider: {{.Provider}}, Env: {{.Provider | envVar}}, Model: {{.Provider | defaultModel}}"
	data := templateData{Provider: "anthropic"}

	err := generateFile(path, tmpl, data)
	if err != nil {
		t.Fatalf("generateFile() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	expected := "Provider: anthropic, Env: ANTHROPIC_API_KEY, Model: claude-sonnet-4-5"
	if string(content) != expected {
		t.Errorf("generateFile() content = %q, want %q", string(content), expected)
	}
}

func TestInitCreatesProject(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "testproject")
	var stdout bytes.Buffer
	app := NewApp(WithIO(nil, &stdout, &bytes.Buffer{}))

	if err := app.runInit(projectPath, "anthropic", config.FormatYAML); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	mainContent, err := os.ReadFile(filepath.Join(projectPath, "main.go"))
	if err != nil {
		t.Fatalf("main.go not created: %v", err)
	}
	for _, want := range []string{"package main", `"anthropic"`, "claude-sonnet-4-5", "providers.DefaultCatalog()"} {
		if !strings.Contains(string(mainContent), want) {
			t.Errorf("main.go missing %q", want)
		}
	}

	cfg, err := config.LoadConfig(filepath.Join(projectPath, "unify.yaml"))
	if err != nil {
		t.Fatalf("unify.yaml not loadable: %v", err)
	}
	if cfg.DefaultProvider != "anthropic" || cfg.DefaultModel != "claude-sonnet-4-5" {
		t.Errorf("config = %+v", cfg)
	}
	if cfg.Providers["anthropic"].APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Errorf("providers = %+v", cfg.Providers)
	}

	if !strings.Contains(stdout.String(), "export ANTHROPIC_API_KEY=<your-key>") {
		t.Errorf("output missing next steps: %q", stdout.String())
	}
}

func TestInitTOML(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "tomlproject")
	app := NewApp(WithIO(nil, &bytes.Buffer{}, &bytes.Buffer{}))

	if err := app.runInit(projectPath, "ollama", config.FormatTOML); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	cfg, err := config.LoadConfig(filepath.Join(projectPath, "unify.toml"))
	if err != nil {
		t.Fatalf("unify.toml not loadable: %v", err)
	}
	if cfg.DefaultProvider != "ollama" || cfg.DefaultModel != "llama3.2" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestInitThroughCommand(t *testing.T) {
	dir := t.TempDir()
	projectPath := filepath.Join(dir, "cmdproject")
	var stdout bytes.Buffer
	app := NewApp(
		WithIO(nil, &stdout, &bytes.Buffer{}),
		WithConfigLoader(func(string) (*config.Config, error) { return &config.Config{}, nil }),
	)
	app.root.SetArgs([]string{"init", projectPath})

	if err := app.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectPath, "unify.yaml")); err != nil {
		t.Errorf("unify.yaml not created: %v", err)
	}
	if !strings.Contains(stdout.String(), "ollama pull llama3.2") {
		t.Errorf("output = %q", stdout.String())
	}
}

func TestInitErrorOnExistingDirectory(t *testing.T) {
	projectPath := filepath.Join(t.TempDir(), "existing")
	if err := os.MkdirAll(projectPath, 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	app := NewApp(WithIO(nil, &bytes.Buffer{}, &bytes.Buffer{}))
	err := app.runInit(projectPath, "ollama", config.FormatYAML)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("runInit() error = %v, want 'already exists'", err)
	}
}

func TestInitRejectsUnknownProviderAndFormat(t *testing.T) {
	app := NewApp(WithIO(nil, &bytes.Buffer{}, &bytes.Buffer{}))
	dir := t.TempDir()

	if err := app.runInit(filepath.Join(dir, "a"), "nope", config.FormatYAML); err == nil {
		t.Error("expected error for unknown provider")
	}
	if err := app.runInit(filepath.Join(dir, "b"), "ollama", config.Format("ini")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := os.Stat(filepath.Join(dir, "a")); !os.IsNotExist(err) {
		t.Error("no directory should be created on validation failure")
	}
}
