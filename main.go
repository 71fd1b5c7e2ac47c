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

	"seastate/internal/config"
	"seastate/internal/logger"
	"seastate/internal/server"
	"seastate/internal/storage"
)

// ShutdownTimeout bounds graceful shutdown of in-flight requests
const ShutdownTimeout = 30 * time.Second

func main() {
	os.Exit(run(context.Background()))
}

// run serves until ctx is done or a signal arrives and returns the exit code.
// Deferred cleanup runs before the process exits.
func run(ctx context.Context) int {
	// Load configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Error("Failed to load configuration", err)
		return 1
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	srv, err := newServer(ctx, cfg)
	if err != nil {
		logger.Error("Failed to create server", err)
		return 1
	}
	defer func() {
		if err := srv.Close(); err != nil {
			logger.Error("Failed to close server", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, srv.NewHTTPServer()); err != nil {
		logger.Error("HTTP server error", err)
		return 1
	}
	return 0
}

// newServer picks the deployment mode and builds the server
func newServer(ctx context.Context, cfg *config.Config) (*server.Server, error) {
	mode := storage.ModeFor(cfg)

	fields := logger.Fields{
		"port":        cfg.Port,
		"environment": cfg.Environment,
		"mode":        string(mode),
		"version":     config.GetVersion(),
		"mockup_mode": cfg.MockupMode,
	}
	if mode == storage.DeploymentLocal {
		fields["reports_dir"] = cfg.LocalReportsDir
	} else {
		fields["bucket"] = cfg.GCSBucket
	}
	logger.Info("Starting Sea State Report Service", fields)

	srv, err := server.NewServer(ctx, cfg, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}
	return srv, nil
}

// serve runs httpServer until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, httpServer *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", logger.Fields{"addr": httpServer.Addr})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
