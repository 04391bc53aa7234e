package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/petal-labs/unify/cli/config"
	"github.com/petal-labs/unify/providers"
)

const defaultInitProvider = "ollama"

func (a *App) newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init <project-name>",
		Short: "Initialize a new Unify project",
		Long: `Initialize a new Unify project.

Creates a project directory with:
  - main.go: A starter Go program sending one completion
  - unify.yaml (or unify.toml): CLI configuration for the project

The provider comes from --provider or the config default (ollama when unset).

Example:
  unify init myapp
  unify init myapp --provider anthropic --format toml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := a.provider
			if provider == "" {
				provider = defaultInitProvider
			}
			return a.runInit(args[0], provider, config.Format(a.initFormat))
		},
	}

	cmd.Flags().StringVar(&a.initFormat, "format", string(config.FormatYAML), "config format: yaml or toml")

	return cmd
}

func (a *App) runInit(projectPath, provider string, format config.Format) error {
	projectName := filepath.Base(projectPath)

	// Validate project name (just the base name, not full path)
	if err := validateProjectName(projectName); err != nil {
		return err
	}
	if format != config.FormatYAML && format != config.FormatTOML {
		return fmt.Errorf("unknown config format %q: use yaml or toml", format)
	}
	if !a.catalog.IsRegistered(provider) {
		return fmt.Errorf("unsupported provider %q (available: %v)", provider, a.catalog.List())
	}

	// Check if directory already exists
	if _, err := os.Stat(projectPath); err == nil {
		return fmt.Errorf("directory %q already exists", projectPath)
	}

	if err := os.MkdirAll(projectPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", projectPath, err)
	}

	data := templateData{Provider: provider}

	// Generate main.go
	mainPath := filepath.Join(projectPath, "main.go")
	if err := generateFile(mainPath, mainGoTemplate, data); err != nil {
		return fmt.Errorf("failed to create main.go: %w", err)
	}

	// Generate the project config
	configPath := filepath.Join(projectPath, "unify."+string(format))
	cfg := &config.Config{
		DefaultProvider: provider,
		DefaultModel:    defaultModel(provider),
		Providers: map[string]config.ProviderConfig{
			provider: {APIKeyEnv: envVarForProvider(provider)},
		},
	}
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(configPath), err)
	}

	// Print success message
	fmt.Fprintf(a.stdout, "Created Unify project: %s\n\n", projectName)
	fmt.Fprintln(a.stdout, "Next steps:")
	fmt.Fprintf(a.stdout, "  cd %s\n", projectPath)
	if provider == defaultInitProvider {
		fmt.Fprintf(a.stdout, "  ollama pull %s\n", defaultModel(provider))
	} else {
		fmt.Fprintf(a.stdout, "  export %s=<your-key>\n", envVarForProvider(provider))
	}
	fmt.Fprintln(a.stdout, "  go run main.go")

	return nil
}

func validateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	// Check for invalid characters
	validName := regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid project name %q: must start with a letter and contain only letters, numbers, underscores, and hyphens", name)
	}

	// Check for reserved names
	reserved := []string{".", "..", "unify"}
	for _, r := range reserved {
		if name == r {
			return fmt.Errorf("invalid project name %q: reserved name", name)
		}
	}

	return nil
}

type templateData struct {
	Provider string
}

var templateFuncs = template.FuncMap{
	"envVar":       envVarForProvider,
	"defaultModel": defaultModel,
}

func generateFile(path string, tmplContent string, data templateData) error {
	tmpl, err := template.New("file").Funcs(templateFuncs).Parse(tmplContent)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, data)
}

func envVarForProvider(provider string) string {
	if env := providers.DefaultCatalog().APIKeyEnv(provider); env != "" {
		return env
	}
	return strings.ToUpper(provider) + "_API_KEY"
}

func defaultModel(provider string) string {
	switch provider {
	case "ollama":
		return "llama3.2"
	case "openai":
		return "gpt-4o-mini"
	case "anthropic":
		return "claude-sonnet-4-5"
	case "cohere":
		return "command"
	case "mistral":
		return "mistral-small-latest"
	case "deepinfra":
		return "meta-llama/Meta-Llama-3.1-8B-Instruct"
	case "xai":
		return "grok-4-1-fast-non-reasoning"
	case "perplexity":
		return "sonar"
	case "ai21":
		return "j2-mid"
	case "replicate":
		return "meta/meta-llama-3-8b-instruct"
	default:
		return "default"
	}
}

// Templates

var mainGoTemplate = `package main

import (
	"context"
	"fmt"
	"os"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers"
)

func main() {
	// API keys are read from {{.Provider | envVar}} and the other provider variables.
	client := core.NewClient(providers.DefaultCatalog().Registry(nil))

	resp, err := client.Complete(context.Background(), "{{.Provider}}", &core.Request{
		Model:    "{{.Provider | defaultModel}}",
		Messages: []core.Message{{Role: core.RoleUser, Content: "Hello, world!"}},
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	fmt.Println(resp.Output())
}
`
