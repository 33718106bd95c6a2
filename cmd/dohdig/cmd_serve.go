package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dohdig/dohdig/doh"
	"github.com/dohdig/dohdig/override"
	"github.com/dohdig/dohdig/relay"
)

// newCmdServe returns the command that runs the local relay.
func newCmdServe() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local DNS relay",
		Long: `Serve answers plain DNS (UDP/TCP) and HTTP resolution queries from a
local override store, forwarding everything else to the configured
DNS-over-HTTPS provider. Override records can be managed through the
HTTP API and reloaded from a watched JSON file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "dohdig.yaml", "Path to the YAML config file")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string) error {
	config, err := loadConfig(configPath)
	if err != nil {
		// The default config path is optional; an explicitly given one
		// must exist.
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return err
		}
		slog.Info("config file not found, using defaults", "path", configPath)
		config = defaultConfig()
	}
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// The config file carries the daemon's log settings; explicit global
	// flags still win.
	level, format := config.Log.Level, config.Log.Format
	if cmd.Flags().Changed("log-level") {
		level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		format, _ = cmd.Flags().GetString("log-format")
	}
	if err := setupLogger(level, format); err != nil {
		return err
	}

	slog.Info("starting dohdig relay", "version", version, "provider", config.Provider)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := override.NewStore()

	if config.Overrides.Path != "" {
		file := override.NewFile(config.Overrides.Path, store)
		if err := file.LoadAndApply(); err != nil {
			return fmt.Errorf("load overrides: %w", err)
		}
		if config.Overrides.Watch {
			go func() {
				if err := file.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					slog.Error("overrides watcher stopped", "error", err)
				}
			}()
		}
	}

	timeout, err := config.UpstreamTimeout()
	if err != nil {
		return err
	}
	client, err := doh.NewClient(doh.ClientConfig{
		Provider:  doh.Provider(config.Provider),
		Timeout:   timeout,
		UserAgent: config.UserAgent,
		CAFile:    config.CAFile,
	})
	if err != nil {
		return fmt.Errorf("upstream client: %w", err)
	}

	resolver := relay.NewResolver(store, client, relay.ResolverConfig{
		DefaultTTL: config.Overrides.DefaultTTL,
	})

	errCh := make(chan error, 2)

	if config.DNS.Listen != "" {
		dnsSrv := relay.NewDNSServer(relay.DNSServerConfig{
			Listen:     config.DNS.Listen,
			UDPEnabled: config.DNS.UDPEnabled,
			TCPEnabled: config.DNS.TCPEnabled,
		}, resolver)
		go func() {
			if err := dnsSrv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
			}
		}()
	}

	if config.HTTP.Listen != "" {
		httpSrv := relay.NewHTTPServer(relay.HTTPServerConfig{
			Listen:    config.HTTP.Listen,
			AuthToken: config.authToken(),
			TLSCert:   config.HTTP.CertFile,
			TLSKey:    config.HTTP.KeyFile,
		}, resolver, store)
		go func() {
			if err := httpSrv.Start(); err != nil {
				errCh <- err
			}
		}()
		defer httpSrv.Shutdown()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}
