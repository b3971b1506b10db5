package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/catalog"
	"aromatiq-hq/neroli/pkg/cli"
	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/policy/manager"
	"aromatiq-hq/neroli/pkg/server"
	"aromatiq-hq/neroli/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Neroli API server",
	Long: `Start the Neroli API server with the specified configuration.

The server loads the regulatory and physiological rule tables and
exposes compliance validation, rule retrieval, signal simulation, the
ingredient catalog, and formula profiling over HTTP.

Examples:
  # Start with default config
  aromatiq serve

  # Start with custom config
  aromatiq serve --config /etc/neroli/neroli.yaml

  # Override listen address
  aromatiq serve --listen 0.0.0.0:8630

  # Reload tables on file changes
  aromatiq serve --watch

  # Validate config without starting server
  aromatiq serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "reload tables when their files change")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if serveFlags.listenAddress != "" {
		cfg.Server.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.watch {
		cfg.Tables.Watch = true
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	if serveFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	printBanner(cfg)

	// Load the regulatory and rule tables. A missing table file yields
	// empty tables; a malformed one is a startup error.
	m, err := manager.NewManager(cfg, logger)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}
	if err := m.Load(); err != nil {
		return cli.NewCommandError("serve", fmt.Errorf("failed to load tables: %w", err))
	}
	status := m.Status()
	fmt.Printf("✓ Tables loaded (%d restricted, %d allergens, %d rules)\n",
		status.RestrictedCount, status.AllergenCount, status.RuleCount)

	deps := server.Dependencies{
		Manager: m,
		Logger:  logger,
	}

	if cfg.Catalog.IsEnabled() {
		cat, err := catalog.Open(cfg.Catalog.Path, logger)
		if err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to open catalog: %w", err))
		}
		defer cat.Close()
		deps.Catalog = cat
		fmt.Printf("✓ Catalog opened (%s)\n", cfg.Catalog.Path)
	}

	if cfg.Audit.IsEnabled() {
		store, err := audit.Open(cfg.Audit.SQLitePath, logger)
		if err != nil {
			return cli.NewCommandError("serve", fmt.Errorf("failed to open audit store: %w", err))
		}
		defer store.Close()
		deps.Audit = store
		deps.Pruner = audit.NewPruner(store, audit.PrunerConfig{
			Days:       cfg.Audit.Retention.Days,
			Schedule:   cfg.Audit.Retention.Schedule,
			MaxRecords: cfg.Audit.Retention.MaxRecords,
		}, logger)
		fmt.Println("✓ Audit store initialized")
	}

	if cfg.Telemetry.Metrics.IsEnabled() {
		deps.Metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	srv, err := server.New(cfg, deps)
	if err != nil {
		return cli.NewCommandError("serve", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run(ctx)
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.IsEnabled() {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for shutdown signal or server error
	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		if err != nil {
			return cli.NewCommandError("serve", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		if err := <-errChan; err != nil {
			return cli.NewCommandError("serve", err)
		}
		fmt.Println("✓ Server stopped")
		return nil
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf("Aromatiq Neroli v%s\n", Version)
	if _, err := os.Stat(cfgFile); err == nil {
		fmt.Printf("Loading configuration from: %s\n", cfgFile)
	} else {
		fmt.Println("No configuration file found, using built-in defaults")
	}
	fmt.Println("✓ Configuration loaded")

	slog.Debug("tables configured",
		"regulatory", cfg.Tables.RegulatoryPath,
		"rules", cfg.Tables.RulesPath,
		"watch", cfg.Tables.Watch,
	)
	slog.Debug("retrieval configured", "embedder", cfg.Retrieval.Embedder)
	if cfg.Audit.IsEnabled() {
		slog.Debug("audit enabled", "path", cfg.Audit.SQLitePath)
	}
}
