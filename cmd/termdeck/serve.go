package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kailas-cloud/termdeck/internal/config"
	"github.com/kailas-cloud/termdeck/internal/metrics"
	chiTransport "github.com/kailas-cloud/termdeck/internal/transport/chi"
	exportuc "github.com/kailas-cloud/termdeck/internal/usecase/export"
	healthuc "github.com/kailas-cloud/termdeck/internal/usecase/health"
	searchuc "github.com/kailas-cloud/termdeck/internal/usecase/search"
	sessionuc "github.com/kailas-cloud/termdeck/internal/usecase/session"
	"github.com/kailas-cloud/termdeck/internal/version"
)

const healthTimeout = 5 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API with interactive search sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(v)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().IntP("port", "p", 0, "HTTP listen port")
	bindFlagToViper(v, config.KeyHTTPPort, cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting termdeck API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("termdat_url", cfg.Termdat.BaseURL),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterUpstreamMetrics()

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer d.Close()

	defaults, err := defaultSelection(cfg, nil)
	if err != nil {
		return err
	}

	agg := searchuc.New(d.api)
	registry := sessionuc.NewRegistry(agg, defaults, time.Duration(cfg.Session.IdleTTLSec)*time.Second, logger)
	defer registry.Close()

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go registry.Run(janitorCtx, time.Duration(cfg.Session.SweepSec)*time.Second)

	exportSvc := exportuc.New(agg, cfg.Export.Limit)
	healthSvc := healthuc.New(d.api, d.cachePinger(), healthTimeout)

	server := chiTransport.NewServer(d.api, registry, exportSvc, healthSvc, logger)
	handler := server.Handler(
		jsonRecoverer(logger),
		chiMiddleware.RequestID,
		wideEventMiddleware(logger),
		chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys),
		metrics.Middleware(),
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	// Close sessions first so event streams end and the server can drain.
	registry.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
