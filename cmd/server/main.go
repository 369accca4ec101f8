package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/afrolearn/afrolearn/internal/catalog"
	"github.com/afrolearn/afrolearn/internal/catalog/seed"
	"github.com/afrolearn/afrolearn/internal/nav"
	"github.com/afrolearn/afrolearn/internal/platform/cache"
	"github.com/afrolearn/afrolearn/internal/platform/config"
	"github.com/afrolearn/afrolearn/internal/platform/database"
	"github.com/afrolearn/afrolearn/internal/progress"
	"github.com/afrolearn/afrolearn/internal/report"
	"github.com/afrolearn/afrolearn/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := database.New(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	catalogStore, err := catalog.NewPostgresStore(db.Pool)
	if err != nil {
		slog.Error("failed to create catalog store", "error", err)
		os.Exit(1)
	}
	ledger, err := progress.NewPostgresLedger(db.Pool)
	if err != nil {
		slog.Error("failed to create progress ledger", "error", err)
		os.Exit(1)
	}

	checks := map[string]server.HealthChecker{"database": db}

	var store catalog.Store = catalogStore
	if cfg.Cache.URL != "" {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Error("failed to connect to cache", "error", err)
			os.Exit(1)
		}
		defer c.Close()
		store = catalog.NewCachedStore(catalogStore, c.Client, time.Duration(cfg.Cache.TTLSeconds)*time.Second)
		checks["cache"] = c
	}

	if cfg.Seed.Path != "" {
		if err := seedCatalog(ctx, catalogStore, cfg.Seed.Path); err != nil {
			slog.Error("failed to seed catalog", "error", err)
			os.Exit(1)
		}
	}

	resolver := nav.NewResolver(store)
	aggregator := progress.NewAggregator(store, ledger, progress.NewPostgresEventLogger(db.Pool))
	exporter := report.NewExporter(store, aggregator)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.New(store, resolver, aggregator, exporter, checks).Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// seedStore is the catalog surface needed to import content: reads to detect
// a populated catalog, writes to fill an empty one.
type seedStore interface {
	catalog.Store
	catalog.Writer
}

// seedCatalog imports the content directory on first boot only; a populated
// catalog is left untouched.
func seedCatalog(ctx context.Context, store seedStore, path string) error {
	subjects, err := store.ListSubjects(ctx)
	if err != nil {
		return err
	}
	if len(subjects) > 0 {
		slog.Info("catalog already populated, skipping seed", "subjects", len(subjects))
		return nil
	}
	return seed.NewImporter(store).Import(ctx, path)
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
