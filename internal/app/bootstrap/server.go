// internal/app/bootstrap/server.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AfrozSheikh/krushivarsa/internal/app/system/metrics"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/timeouts"
	"github.com/AfrozSheikh/krushivarsa/internal/app/system/workers"
	"go.uber.org/zap"
)

// Run boots the whole service and blocks until shutdown: config, logger,
// Mongo, indexes, admin seed, router, HTTP server.
func Run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := NewLogger(cfg.Production)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	timeouts.ConfigureFromEnv()
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := ConnectMongo(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error("mongo disconnect failed", zap.Error(err))
		}
	}()

	if err := EnsureSchema(ctx, db, logger); err != nil {
		return err
	}
	if err := SeedAdmin(ctx, db, cfg, logger); err != nil {
		return err
	}

	sweep := workers.NewRegistrySweep(db, logger, cfg.SweepInterval)
	sweep.Start()
	defer sweep.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           BuildRouter(cfg, client, db, logger),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Main is the process entry point used by cmd.
func Main() {
	if err := Run(); err != nil {
		fmt.Fprintln(os.Stderr, "krushivarsa:", err)
		os.Exit(1)
	}
}
