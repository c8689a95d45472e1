package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/papertrade/paper-trading-simulator/internal/activity"
	"github.com/papertrade/paper-trading-simulator/internal/config"
	"github.com/papertrade/paper-trading-simulator/internal/engine"
	"github.com/papertrade/paper-trading-simulator/internal/handlers"
	"github.com/papertrade/paper-trading-simulator/internal/ledger"
	"github.com/papertrade/paper-trading-simulator/internal/market"
)

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)
	log.Info("Starting application",
		slog.String("env", cfg.Env),
		slog.String("port", cfg.Port),
		slog.String("store_backend", cfg.StoreBackend),
	)

	backend, err := openBackend(cfg)
	if err != nil {
		log.Error("Failed to open ledger backend", "error", err)
		os.Exit(1)
	}

	store, err := ledger.Open(backend, log)
	if err != nil {
		log.Error("Failed to load ledger", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	gateway := market.NewClient(cfg.MarketBaseURL, time.Duration(cfg.MarketTimeout)*time.Second)
	sink := activity.NewSink(log)

	eng := engine.New(store, gateway, sink, log, cfg.TutorialAward, cfg.NumWorkers)
	eng.Start()
	defer eng.Stop()

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	api := handlers.NewAPI(eng, store, gateway, sink, log, []byte(cfg.JWTSecret))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()
	log.Info("Server started", slog.String("addr", server.Addr))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("Got signal to shutdown server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Stopping server error", "error", err)
	}
}

func openBackend(cfg *config.Config) (ledger.Backend, error) {
	if cfg.StoreBackend == "postgres" {
		return ledger.NewPostgresBackend(
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.User,
			cfg.Postgres.Pass,
			cfg.Postgres.Db,
		)
	}
	return ledger.NewFileBackend(cfg.DataDir)
}

func setupLogger(env string) *slog.Logger {
	if env == "local" {
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}
	return slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
}
