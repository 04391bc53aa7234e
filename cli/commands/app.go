// Package commands implements the CLI command structure using Cobra.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petal-labs/unify/cli/config"
	"github.com/petal-labs/unify/providers"
	"github.com/petal-labs/unify/transport"
)

// ConfigLoader loads CLI config from a path.
type ConfigLoader func(path string) (*config.Config, error)

// AppOption customizes App dependencies.
type AppOption func(*App)

// App holds CLI state and runtime dependencies.
type App struct {
	root *cobra.Command

	loadConfig ConfigLoader
	catalog    *providers.Catalog
	transport  transport.Transport
	isTerminal func(w io.Writer) bool
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	logger     *slog.Logger

	cfgFile    string
	envFile    string
	provider   string
	model      string
	jsonOutput bool
	verbose    bool
	cfg        *config.Config

	completePrompt      string
	completeSystem      string
	completeTemperature float32
	completeMaxTokens   int
	completeStream      bool
	initFormat          string
}

// WithConfigLoader injects a config loader dependency.
func WithConfigLoader(loader ConfigLoader) AppOption {
	return func(a *App) {
		if loader != nil {
			a.loadConfig = loader
		}
	}
}

// WithCatalog replaces the provider catalog.
func WithCatalog(c *providers.Catalog) AppOption {
	return func(a *App) {
		if c != nil {
			a.catalog = c
		}
	}
}

// WithTransport sends every provider call through t.
func WithTransport(t transport.Transport) AppOption {
	return func(a *App) {
		a.transport = t
	}
}

// WithTerminalCheck overrides terminal detection for the output stream.
func WithTerminalCheck(fn func(w io.Writer) bool) AppOption {
	return func(a *App) {
		if fn != nil {
			a.isTerminal = fn
		}
	}
}

// WithIO injects process I/O streams.
func WithIO(stdin io.Reader, stdout, stderr io.Writer) AppOption {
	return func(a *App) {
		if stdin != nil {
			a.stdin = stdin
		}
		if stdout != nil {
			a.stdout = stdout
		}
		if stderr != nil {
			a.stderr = stderr
		}
	}
}

// NewApp creates a new CLI app with default dependencies.
func NewApp(opts ...AppOption) *App {
	a := &App{
		loadConfig: config.LoadConfig,
		catalog:    providers.DefaultCatalog(),
		isTerminal: isTerminal,
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		initFormat: string(config.FormatYAML),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.root = a.newRootCommand()
	return a
}

func (a *App) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "unify",
		Short: "Unify - one completion interface for many LLM providers",
		Long: `Unify is a command-line interface for LLM completion APIs.

Every provider's output is normalized into the same response and chunk
format, so scripts work unchanged when you switch providers.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags available to all commands.
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file, .yaml or .toml (default is ~/.unify/config.yaml)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load API keys from this dotenv file (default .env if present)")
	root.PersistentFlags().StringVar(&a.provider, "provider", "", "provider ID (ollama, openai, anthropic, ...)")
	root.PersistentFlags().StringVar(&a.model, "model", "", "model ID (e.g. llama3.2)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "emit JSON output")
	root.PersistentFlags().BoolVar(&a.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(a.newCompleteCommand())
	root.AddCommand(a.newProvidersCommand())
	root.AddCommand(a.newSchemaCommand())
	root.AddCommand(a.newInitCommand())
	root.AddCommand(a.newVersionCommand())

	return root
}

// Execute runs the root command.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx; cancelling ctx aborts an
// in-flight completion.
func (a *App) ExecuteContext(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return err
}

func (a *App) initConfig() error {
	if err := a.loadEnv(); err != nil {
		return err
	}

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))

	path := a.cfgFile
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg, err := a.loadConfig(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", slog.String("path", path))

	// Apply config defaults if flags not set.
	if a.provider == "" && cfg.DefaultProvider != "" {
		a.provider = cfg.DefaultProvider
	}
	if a.model == "" && cfg.DefaultModel != "" {
		a.model = cfg.DefaultModel
	}

	return nil
}

// loadEnv reads the dotenv file. Variables already set in the environment win.
// A missing default .env is not an error.
func (a *App) loadEnv() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
		return nil
	}
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load()
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var defaultApp = NewApp()

// Execute runs the default app root command.
func Execute() error {
	return defaultApp.Execute()
}

// ExecuteContext runs the default app root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return defaultApp.ExecuteContext(ctx)
}
