package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookblend/bookblend/internal/api"
	"github.com/bookblend/bookblend/internal/blend"
	"github.com/bookblend/bookblend/internal/config"
	"github.com/bookblend/bookblend/internal/events"
	"github.com/bookblend/bookblend/internal/goodreads"
	"github.com/bookblend/bookblend/internal/insights"
	"github.com/bookblend/bookblend/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	weights := blend.WeightSet{
		CommonBooks:   cfg.Scoring.Weights.CommonBooks,
		CommonAuthors: cfg.Scoring.Weights.CommonAuthors,
		Genre:         cfg.Scoring.Weights.Genre,
		Era:           cfg.Scoring.Weights.Era,
		Rating:        cfg.Scoring.Weights.Rating,
		Length:        cfg.Scoring.Weights.Length,
		Year:          cfg.Scoring.Weights.Year,
	}
	if err := weights.Validate(); err != nil {
		logger.Error("invalid scoring weights", "error", err)
		os.Exit(1)
	}
	tuning := blend.Tuning{
		RatingScaleSpan:  cfg.Scoring.RatingScaleSpan,
		LengthNormalizer: cfg.Scoring.LengthNormalizer,
		YearNormalizer:   cfg.Scoring.YearNormalizer,
		Calibration: blend.Calibration{
			Floor:   cfg.Scoring.Calibration.Floor,
			Offset:  cfg.Scoring.Calibration.Offset,
			Slope:   cfg.Scoring.Calibration.Slope,
			Ceiling: 100,
		},
	}
	blender := blend.NewBlender(weights, tuning, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Blend history (optional)
	var db store.Store
	if cfg.Database.URL != "" {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		db = pg
		defer pg.Close()
		logger.Info("connected to database")
	}

	// Events (optional)
	var eventsClient events.Client
	if cfg.Events.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.Events.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to nats, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to nats")
		}
	}

	// External collaborators
	fetcher := goodreads.NewHTTPClient(cfg.Goodreads.BaseURL, cfg.Goodreads.UserAgent, cfg.Goodreads.PageSize)
	classifier := insights.NewOpenAIClassifier(cfg.Classifier.BaseURL, cfg.Classifier.APIKey, cfg.Classifier.Model)

	// API server
	router := api.NewRouter(fetcher, classifier, blender, db, eventsClient, cfg.Server.APIKey, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}
