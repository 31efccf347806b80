package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/pbarbosa/bulario-api/config"
	"github.com/pbarbosa/bulario-api/data"
	"github.com/pbarbosa/bulario-api/handlers"
	"github.com/pbarbosa/bulario-api/health"
	"github.com/pbarbosa/bulario-api/logging"
	"github.com/pbarbosa/bulario-api/query"
	"github.com/pbarbosa/bulario-api/registry"
	"github.com/pbarbosa/bulario-api/scheduler"
	"github.com/pbarbosa/bulario-api/server"
	"github.com/pbarbosa/bulario-api/validation"
)

func main() {
	// .env is optional; deployments configure through the environment
	if err := godotenv.Load(); err != nil {
		logging.Debug("No .env file found", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs")

	container := data.NewContainer()
	container.SetServerStartTime(time.Now())

	loader := registry.NewLoader(cfg.CSVPath)
	validator := validation.NewDataValidator()

	sched := scheduler.NewScheduler(container, loader, validator)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	engine := query.NewEngine(container)
	checker := health.NewHealthChecker(container)
	handler := handlers.NewHandler(engine, validator, checker)

	srv := server.NewServer(cfg, handler)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown failed", "error", err)
		os.Exit(1)
	}
}
