package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/haivivi/huaxiazi/cmd/huaxiazi/internal/config"
	"github.com/haivivi/huaxiazi/pkg/cli"
)

var (
	// Global flags
	verbose      bool
	contextName  string
	formatOutput string
	queryOutput  string
	ephemeral    bool

	// Global configuration (loaded at init time)
	globalConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "huaxiazi",
	Short: "Translate and speak Chinese regional dialects",
	Long: `huaxiazi - translate between Mandarin and fifteen regional dialects,
hear the result spoken with a regional accent, and keep a history of what
you translated.

Configuration is stored in the OS config directory:
  macOS:   ~/Library/Application Support/huaxiazi/
  Linux:   ~/.config/huaxiazi/
  Windows: %AppData%/huaxiazi/

Without a context, GEMINI_API_KEY is used with default settings.

Examples:
  # Translate into Cantonese and speak the result
  huaxiazi translate --speak 今天天气很好

  # Translate Shanghainese into Mandarin
  huaxiazi translate -d shanghainese -m mandarin 侬好

  # Use OpenAI in a named context
  huaxiazi config add-context studio
  huaxiazi config set studio app provider openai
  huaxiazi config set studio openai api_key sk-xxx
  huaxiazi -c studio translate 你吃饭了吗`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := cli.ParseFormat(formatOutput); err != nil {
			return err
		}
		slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
		return nil
	},
}

// Execute runs the root command. Interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVarP(&contextName, "context", "c", "", "context name (default: current context)")
	pf.StringVarP(&formatOutput, "output", "o", "table", "output format: table, yaml, json, raw")
	pf.StringVarP(&queryOutput, "query", "q", "", "jq expression applied to the result")
	pf.BoolVar(&ephemeral, "ephemeral", false, "keep history and profile in memory only")
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// configLoadErr stores the error from config.Load() for deferred reporting.
var configLoadErr error

func initConfig() {
	cfg, err := config.Load()
	if err != nil {
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// GetConfig returns the global configuration.
func GetConfig() (*config.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

// output writes v in the selected format to the command's stdout.
func output(cmd *cobra.Command, v any) error {
	return cli.Output(v, cli.OutputOptions{
		Format: cli.OutputFormat(formatOutput),
		Query:  queryOutput,
		Writer: cmd.OutOrStdout(),
	})
}

// tableOutput reports whether the human-readable rendering is selected.
func tableOutput() bool {
	return formatOutput == string(cli.FormatTable) && queryOutput == ""
}
