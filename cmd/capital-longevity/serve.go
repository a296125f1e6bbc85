package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/iwvelando/capital-longevity/internal/server"
	"github.com/iwvelando/capital-longevity/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigPath, err)
			}
			if address != "" {
				cfg.Address = address
			}

			conf, missing, err := root.loadConfig()
			if err != nil {
				return err
			}

			// Server logging settings take precedence over the dashboard file.
			logging := conf.Logging
			if cfg.Logging.Level != "" {
				logging.Level = cfg.Logging.Level
			}
			if cfg.Logging.Format != "" {
				logging.Format = cfg.Logging.Format
			}
			if cfg.Logging.OutputFile != "" {
				logging.OutputFile = cfg.Logging.OutputFile
			}
			logger, err := initializeLogger(logging, root.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()
			root.logConfigNotes(logger, conf, missing)

			srv, err := server.New(logger, conf, cfg, version)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("dashboard configured",
				zap.String("op", "main.serve"),
				zap.String("address", srv.Addr()),
				zap.String("sessionBackend", cfg.Session.Backend),
				zap.Int64("maxRequestSize", cfg.RequestSizeBytes()),
			)
			if err := srv.Run(ctx); err != nil {
				logger.Error("server stopped with error",
					zap.String("op", "main.serve"),
					zap.Error(err),
				)
				return err
			}
			logger.Info("server exited", zap.String("op", "main.serve"))
			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override (e.g. :8080)")
	return cmd
}
