package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	lessonstore "github.com/wozniakbe/lesson-store"
)

func openStore(ctx context.Context, cfg Config) (lessonstore.Store, func() error, error) {
	switch cfg.StoreBackend {
	case "badger":
		s, err := lessonstore.OpenBadgerStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "dynamo":
		s, err := lessonstore.NewDynamoStore(ctx, lessonstore.DynamoConfig{
			Region:    cfg.AWSRegion,
			Endpoint:  cfg.DynamoEndpoint,
			TableName: cfg.DynamoTableName,
		})
		if err != nil {
			return nil, nil, err
		}
		return s, func() error { return nil }, nil
	default:
		return lessonstore.NewMemoryStore(), func() error { return nil }, nil
	}
}

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to open store", "error", err, "backend", cfg.StoreBackend)
		os.Exit(1)
	}

	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	prefs := lessonstore.NewPreferences(store, &telemetry{store: store, logger: logger})
	activity := lessonstore.NewActivity(store, catalog, &dirDownloads{root: cfg.DownloadsDir}, prefs)
	metrics := lessonstore.NewMetrics(store)

	handler := NewHandler(prefs, activity, metrics, logger)
	router := NewRouter(handler, cfg, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.ServerPort, "backend", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	if err := closeStore(); err != nil {
		logger.Error("store close error", "error", err)
	}

	logger.Info("server stopped")
}
