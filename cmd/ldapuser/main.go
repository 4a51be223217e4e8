package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lugatuic/ldapuser/auth"
	"github.com/lugatuic/ldapuser/config"
	"github.com/lugatuic/ldapuser/internal/httpserver"
	"github.com/lugatuic/ldapuser/internal/logging"
	"github.com/lugatuic/ldapuser/ldapattr"
	"github.com/lugatuic/ldapuser/rolemap"
	"github.com/lugatuic/ldapuser/session"
)

func main() {
	// Load configuration first; the log format is part of it.
	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFormat, cfg.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", err)
		}
	}()

	schema, err := ldapattr.SchemaByName(cfg.Schema)
	if err != nil {
		logger.Fatal("schema.invalid", zap.Error(err))
	}
	provider := auth.NewProvider(
		ldapattr.NewConverter(schema, logger.Named("ldapattr")),
		rolemap.New(cfg.DefaultRole, cfg.RoleMap, logger.Named("rolemap")),
		logger.Named("auth"),
	)
	store := session.NewMemoryStore(cfg.SessionTTL, logger.Named("session"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go store.Run(ctx, cfg.SweepInterval)

	// Build HTTP handler using Mat Ryer–style server composition.
	s := httpserver.New(cfg, logger, provider, store)

	// Harden the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http.listen",
			zap.String("addr", cfg.BindAddr),
			zap.String("schema", schema.Name),
			zap.Int("role_rules", len(cfg.RoleMap)),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown.signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown.error", zap.Error(err))
		} else {
			logger.Info("shutdown.complete")
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("http.server.failed", zap.Error(err))
		}
	}
}
