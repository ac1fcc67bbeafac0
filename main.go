package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/giygas/medisync-api/checker"
	"github.com/giygas/medisync-api/config"
	"github.com/giygas/medisync-api/data"
	"github.com/giygas/medisync-api/datasets"
	"github.com/giygas/medisync-api/handlers"
	"github.com/giygas/medisync-api/health"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/mcpserver"
	"github.com/giygas/medisync-api/metrics"
	"github.com/giygas/medisync-api/scheduler"
	"github.com/giygas/medisync-api/server"
	"github.com/giygas/medisync-api/validation"
)

const rateLimiterCleanupInterval = 30 * time.Minute

func loadEnv() {
	if err := godotenv.Load(); err == nil {
		return
	}

	// If failed, try loading from the executable directory
	ex, err := os.Executable()
	if err != nil {
		return
	}
	exPath := filepath.Dir(ex)
	if err := os.Chdir(exPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to change directory: %v\n", err)
		os.Exit(1)
	}
	_ = godotenv.Load()
}

func main() {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCloser := logging.InitLoggerWithConfig(cfg)
	defer logCloser.Close()

	logging.Info("Configuration loaded",
		"env", cfg.Env.String(),
		"address", cfg.Address,
		"port", cfg.Port,
		"data_dir", cfg.DataDir)
	if cfg.APIKey == config.DemoAPIKey {
		logging.Warn("Using the demo API key; set MEDISYNC_API_KEY before exposing the service")
	}

	startTime := time.Now()

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), time.Minute)
	bundle, err := datasets.LoadAll(loadCtx, cfg.DataDir)
	cancelLoad()
	if err != nil {
		logging.Error("Failed to load datasets", "data_dir", cfg.DataDir, "error", err)
		logCloser.Close()
		os.Exit(1)
	}

	dataContainer := data.NewDataContainer(bundle, cfg.DataDir)
	dataContainer.SetServerStartTime(startTime)
	metrics.SetDatasetSizes(
		dataContainer.Interactions().DrugCount(),
		dataContainer.Clinical().DosageLimitCount(),
		dataContainer.Clinical().ContraindicationCount(),
	)

	checkInterval := time.Duration(cfg.DataCheckIntervalMinutes) * time.Minute

	interactionChecker := checker.NewFromStore(dataContainer)
	validator := validation.NewRequestValidator()
	sched := scheduler.NewScheduler(dataContainer, checkInterval)
	healthChecker := health.NewHealthChecker(dataContainer, checkInterval)
	healthChecker.SetDriftSchedule(sched)
	httpHandler := handlers.NewHTTPHandler(interactionChecker, validator, healthChecker, cfg.MaxRequestBody)
	mcpServer := mcpserver.NewServer(interactionChecker, validator)

	srv := server.NewServer(cfg, httpHandler, mcpServer.Handler())

	sched.AddMaintenanceJob("rate-limiter-cleanup", rateLimiterCleanupInterval, func() {
		srv.RateLimiter().Cleanup()
	})
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		logCloser.Close()
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-quit:
		logging.Info("Shutdown signal received")
	case err := <-serverErr:
		logging.Error("Server failed to start", "error", err)
		exitCode = 1
	}

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		exitCode = 1
	}

	if exitCode != 0 {
		logCloser.Close()
		os.Exit(exitCode)
	}
}
