package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/config"
	"github.com/sjses80519/dcnSyslogAnalysis-project/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve finished report folders over HTTP",
	Long: `Serve the manifests and artifacts of the report folders found in the
output directory.

Endpoints:
  GET /v1/health
  GET /v1/runs
  GET /v1/runs/{folder}
  GET /artifacts/{folder}/{file}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	f := serveCmd.Flags()
	f.String("listen", "127.0.0.1:8080", "listen address")
	f.String("output-dir", ".", "directory holding the report folders")
	f.String("log-level", "info", "log level: debug, info, warn, error")
	f.String("log-format", "json", "log format: console, json")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServeConfig(cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("Starting dcn-syslog server",
		zap.String("listen", cfg.Server.ListenAddress),
		zap.String("output_dir", cfg.Output.Dir))

	srv, err := server.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
