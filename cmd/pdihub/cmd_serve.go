package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pdihub/pdihub/internal/api"
	"github.com/pdihub/pdihub/internal/config"
	"github.com/pdihub/pdihub/internal/crypto"
	"github.com/pdihub/pdihub/internal/db"
	"github.com/pdihub/pdihub/internal/db/migrations"
	"github.com/pdihub/pdihub/internal/dbpool"
	"github.com/pdihub/pdihub/internal/service"
	"github.com/pdihub/pdihub/internal/store"
	"github.com/pdihub/pdihub/internal/ws"
)

// shutdownTimeout bounds how long in-flight requests may run after SIGTERM.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the PDIHub API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// newKeyProvider selects the encryption key source from config.
func newKeyProvider(cfg *config.Config) (crypto.KeyProvider, error) {
	switch cfg.EncryptionProvider {
	case "vault":
		return crypto.NewVaultProvider(cfg.VaultAddr, cfg.VaultToken.Value()), nil
	default:
		return crypto.NewStaticProvider(cfg.EncryptionKey.Value())
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg.LogLevel)
	log.WithFields(logrus.Fields{"version": config.Version, "addr": cfg.Addr()}).Info("starting pdihub")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	keys, err := newKeyProvider(cfg)
	if err != nil {
		return fmt.Errorf("encryption setup: %w", err)
	}

	base := store.Base{Pool: pool, Log: log, Crypto: crypto.NewService(keys)}
	inspectionStore := store.NewInspectionStore(base)
	userStore := store.NewUserStore(base)
	auditStore := store.NewAuditStore(base)

	// Background workers get their own context so they drain after the
	// HTTP server has stopped accepting requests.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	worker := service.NewAuditWorker(auditStore, userStore, log, cfg.AuditQueueSize)
	hub := ws.NewHub(log)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); worker.Run(workerCtx) }()
	go func() { defer wg.Done(); hub.Run(workerCtx) }()

	users := service.NewUserService(userStore, worker, log)
	deps := &api.RouterDeps{
		Log:            log,
		Pool:           pool,
		Hub:            hub,
		Inspections:    service.NewInspectionService(inspectionStore, worker, hub, log),
		Users:          users,
		Audit:          service.NewAuditService(auditStore, log),
		Compliance:     service.NewComplianceService(inspectionStore, worker, log, cfg.RetentionDays),
		Sessions:       users,
		ActorLookup:    userStore,
		CORSOrigins:    cfg.CORSOrigins,
		TrustedProxies: cfg.TrustedProxies,
		Version:        config.Version,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(ctx, deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}

	// Drain WebSocket clients and flush queued audit entries before the
	// pool closes.
	hub.Shutdown()
	stopWorkers()
	wg.Wait()

	log.Info("shutdown complete")

	return nil
}
