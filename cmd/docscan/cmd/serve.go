package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for the extraction API",
	Long: `Start an HTTP server that provides REST API endpoints for document
field extraction.

The server provides the following endpoints:
  POST /scan           - Extract fields from an upload or JSON text
  POST /scan/batch     - Extract fields from several texts
  GET  /ws             - WebSocket streaming of scan and classify requests
  GET  /document-types - List document types and their fields
  GET  /scans          - List archived scans (when an archive is configured)
  GET  /health         - Health check endpoint
  GET  /metrics        - Prometheus metrics

Examples:
  docscan serve
  docscan serve --port 8080
  docscan serve --host 0.0.0.0 --port 3000 --archive-driver sqlite --archive-dsn scans.db`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		serverConfig, shutdownTimeout := configToServerConfig(cfg, cmd)

		if serverConfig.Port < 1 || serverConfig.Port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", serverConfig.Port)
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		store, err := openArchive(ctx, cfg)
		if err != nil {
			return err
		}
		serverConfig.Archive = store

		scanServer, err := server.NewServer(serverConfig)
		if err != nil {
			if store != nil {
				_ = store.Close()
			}
			return fmt.Errorf("failed to initialize server: %w", err)
		}
		defer func() { _ = scanServer.Close() }()

		mux := http.NewServeMux()
		scanServer.SetupRoutes(mux)

		httpServer := &http.Server{
			Addr:              serverConfig.Addr(),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(serverConfig.TimeoutSec) * time.Second,
		}

		go func() {
			slog.Info("Starting docscan server", "host", serverConfig.Host, "port", serverConfig.Port,
				"archive", cfg.Archive.Driver, "rate_limit", serverConfig.RateLimit.Enabled)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		if err := scanServer.Close(); err != nil {
			slog.Error("Server cleanup error", "error", err)
		}

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

// configToServerConfig maps centralized configuration and flag overrides
// to server.Config. It also returns the shutdown timeout in seconds.
func configToServerConfig(cfg *config.Config, cmd *cobra.Command) (server.Config, int) {
	rl := cfg.Server.RateLimit
	rateLimit := server.RateLimitConfig{
		Enabled:           boolFlag(cmd, "rate-limit-enabled", rl.Enabled),
		RequestsPerMinute: intFlag(cmd, "requests-per-minute", rl.RequestsPerMinute),
		RequestsPerHour:   intFlag(cmd, "requests-per-hour", rl.RequestsPerHour),
		MaxRequestsPerDay: intFlag(cmd, "max-requests-per-day", rl.MaxRequestsPerDay),
		MaxDataPerDay:     rl.MaxDataPerDay,
	}
	if cmd.Flags().Changed("max-data-per-day") {
		rateLimit.MaxDataPerDay, _ = cmd.Flags().GetInt64("max-data-per-day")
	}

	return server.Config{
		Host:           stringFlag(cmd, "host", cfg.Server.Host),
		Port:           intFlag(cmd, "port", cfg.Server.Port),
		CORSOrigin:     stringFlag(cmd, "cors-origin", cfg.Server.CORSOrigin),
		MaxUploadMB:    int64(intFlag(cmd, "max-upload-size", cfg.Server.MaxUploadMB)),
		TimeoutSec:     intFlag(cmd, "timeout", cfg.Server.TimeoutSec),
		MaxBatchItems:  intFlag(cmd, "max-batch-items", cfg.Server.MaxBatchItems),
		PipelineConfig: cfg.ToPipelineConfig(),
		RateLimit:      rateLimit,
		Logger:         slog.Default(),
	}, intFlag(cmd, "shutdown-timeout", cfg.Server.ShutdownTimeout)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("max-upload-size", 20, "maximum upload size in MB")
	serveCmd.Flags().Int("timeout", 30, "request timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().Int("max-batch-items", 10, "maximum texts per /scan/batch request")
	// Rate limiting flags
	serveCmd.Flags().Bool("rate-limit-enabled", false, "enable rate limiting")
	serveCmd.Flags().Int("requests-per-minute", 60, "maximum requests per minute per client")
	serveCmd.Flags().Int("requests-per-hour", 1000, "maximum requests per hour per client")
	serveCmd.Flags().Int("max-requests-per-day", 5000, "maximum requests per day per client")
	serveCmd.Flags().Int64("max-data-per-day", 500*1024*1024, "maximum data processed per day per client (bytes)")
}
