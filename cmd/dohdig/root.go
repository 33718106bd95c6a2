package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dohdig",
		Short: "DNS-over-HTTPS lookup tool and local relay",
		Long: `dohdig resolves names through the JSON API of public DNS-over-HTTPS
resolvers (Google, Cloudflare, Quad9, or any compatible endpoint).

It can also run as a local relay that answers plain DNS and HTTP
queries from a file of override records before falling back upstream.`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("log-level", envOrDefault("DOHDIG_LOG_LEVEL", "info"), "Log level (debug|info|warn|error) (env DOHDIG_LOG_LEVEL)")
	cmd.PersistentFlags().String("log-format", envOrDefault("DOHDIG_LOG_FORMAT", "text"), "Log format (text|json) (env DOHDIG_LOG_FORMAT)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		level, _ := c.Flags().GetString("log-level")
		format, _ := c.Flags().GetString("log-format")
		return setupLogger(level, format)
	}

	cmd.AddCommand(newCmdResolve())
	cmd.AddCommand(newCmdServe())
	cmd.AddCommand(newCmdVersion())
	return cmd
}

// setupLogger installs the process-wide slog default. Logs go to stderr
// so resolve output on stdout stays pipeable.
func setupLogger(level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return fmt.Errorf("invalid log format %q", format)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
