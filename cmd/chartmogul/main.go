// chartmogul is a command-line front-end to the ChartMogul subscription
// analytics API, with an MCP server mode for AI agents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stephendolan/chartmogul-cli/internal/api"
	"github.com/stephendolan/chartmogul-cli/internal/apierror"
	"github.com/stephendolan/chartmogul-cli/internal/output"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	// Global flags
	compact bool
	verbose bool

	// Logger, built in PersistentPreRunE; writes to stderr only.
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:     "chartmogul",
	Short:   "A command-line interface for ChartMogul analytics",
	Version: version,
	Long: `chartmogul queries the ChartMogul subscription-analytics API.

All output is JSON with monetary amounts converted from cents to major
currency units. Run "chartmogul auth login" first, or set the
CHARTMOGUL_API_KEY environment variable.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{"stderr"}
		cfg.ErrorOutputPaths = []string{"stderr"}
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		built, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// printer returns the output printer for the current invocation.
func printer() output.Printer {
	return output.New(os.Stdout, compact)
}

// newClient builds the API client with stored credentials.
func newClient() *api.Client {
	return api.New()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&compact, "compact", "c", false, "Minified JSON output (single line)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Every failure path converges here: classify, redact, serialize.
		_ = printer().Failure(apierror.Handle(err))
		stop()
		os.Exit(1)
	}
}
