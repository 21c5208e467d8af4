package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattelier/mattelier-backend/internal/app"
	httpserver "github.com/mattelier/mattelier-backend/internal/http"
	"github.com/mattelier/mattelier-backend/internal/http/handlers"
	"github.com/mattelier/mattelier-backend/internal/library"
	"github.com/mattelier/mattelier-backend/internal/observability"
	"github.com/mattelier/mattelier-backend/internal/platform/logger"
	"github.com/mattelier/mattelier-backend/internal/store"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	cfg := app.LoadConfig(log)

	// Telemetry
	telemetry := observability.New(log)
	if err := telemetry.Init(context.Background(), cfg.Telemetry); err != nil {
		log.Warn("Telemetry init failed", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(ctx); err != nil {
			log.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	// Store
	log.Info("Setting up slot store from main...", "driver", cfg.Store.Driver)
	slotStore, err := store.Open(cfg.Store, log)
	if err != nil {
		log.Error("Could not open slot store", "error", err)
		os.Exit(1)
	}
	defer slotStore.Close()

	// Library
	repo := library.New(library.Config{
		APIBaseURL: cfg.MirrorBaseURL,
		Store:      slotStore,
		Logger:     log,
	})
	log.Info("Library configured", "source", repo.Source())

	// Handlers
	log.Info("Setting up handlers from main...")
	materialHandler := handlers.NewMaterialHandler(log, repo)
	shareHandler := handlers.NewShareHandler(log)
	transferHandler := handlers.NewTransferHandler(log, repo)
	workspaceHandler := handlers.NewWorkspaceHandler(log, repo)
	healthHandler := handlers.NewHealthHandler()

	// Router
	log.Info("Setting up router from main...")
	srv := httpserver.NewServer(httpserver.RouterConfig{
		Logger:           log,
		CORSOrigins:      cfg.CORSOrigins,
		ServiceName:      cfg.Telemetry.ServiceName,
		MaterialHandler:  materialHandler,
		ShareHandler:     shareHandler,
		TransferHandler:  transferHandler,
		WorkspaceHandler: workspaceHandler,
		HealthHandler:    healthHandler,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server...", "addr", cfg.HTTPAddr)
		errCh <- srv.Run(cfg.HTTPAddr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server exited", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("Shutting down", "signal", sig.String())
	}
}
