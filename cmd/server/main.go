package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"load-planning-service/internal/api"
	"load-planning-service/internal/adapters/repositories"
	"load-planning-service/internal/app"
	"load-planning-service/internal/config"
	"load-planning-service/internal/platform/logging"
	"load-planning-service/internal/services"

	"go.uber.org/zap"
)

// main is the application composition root.
// It wires concrete adapters (record store, Gemini) behind ports and starts the HTTP server.
func main() {
	hadDotEnv := config.LoadDotEnv()
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !hadDotEnv {
		zap.L().Info("no .env file found (using environment variables)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg.Store)
	if err != nil {
		zap.L().Fatal("open store", zap.Error(err))
	}
	defer func() { _ = closeStore() }()

	// Seed demo data on startup for local runs.
	if err := app.SeedIfPresent(ctx, store, cfg.Store.SeedPath); err != nil {
		zap.L().Fatal("seed store", zap.Error(err))
	}

	repo := repositories.NewRecordMatchRepository(store)
	planner := &services.ShipmentPlanner{
		Repo:   repo,
		Oracle: app.NewOracle(ctx, cfg.Oracle),
	}

	router := api.NewRouter(repo, planner, services.NewRunRegistry(), api.RouterConfig{
		DefaultLanguage: cfg.PlanLanguage,
		DefaultCapacity: cfg.TruckCapacityM3,
	})

	// Write timeout leaves room for two sequential oracle calls.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      2*cfg.Oracle.Timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zap.L().Info("server listening",
		zap.String("addr", srv.Addr),
		zap.String("store", cfg.Store.Backend),
		zap.Bool("oracle", planner.Oracle.Available()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
