// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/deliveryperf/backend-go/internal/api"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/cache"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/config"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/service"
	"github.com/andresuchdata/deliveryperf/backend-go/internal/source/csvsource"
	"github.com/andresuchdata/deliveryperf/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	source, err := buildSource(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize report source")
	}

	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	reportService := service.NewReportService(source, reportCache, cfg.Report.SnapshotID)

	router := api.NewRouter(&api.Services{ReportService: reportService}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func buildSource(cfg *config.Config) (service.Source, error) {
	switch cfg.Report.Source {
	case "postgres":
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		return postgres.NewFactRepository(db), nil
	case "csv":
		return csvsource.New(cfg.Report.FactsPath, cfg.Report.CustomersPath, cfg.Report.DateLayout), nil
	default:
		return nil, fmt.Errorf("unknown report source %q", cfg.Report.Source)
	}
}
