package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skufu/GoRisk/internal/config"
	"github.com/Skufu/GoRisk/internal/database"
	"github.com/Skufu/GoRisk/internal/logger"
	"github.com/Skufu/GoRisk/internal/model"
	"github.com/Skufu/GoRisk/internal/risk"
	"github.com/Skufu/GoRisk/internal/server"
	"github.com/Skufu/GoRisk/internal/sink"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	logger.Init(cfg.AppName, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	registry := model.Load(model.Options{
		Dir:        cfg.ModelsDir,
		ServiceURL: cfg.ModelServiceURL,
		Timeout:    cfg.ModelTimeout,
	})
	evaluator := risk.NewEvaluator(registry.Predictors())

	var db server.HealthChecker
	var sinks []sink.Sink
	if cfg.EnableDB {
		pool, err := database.Connect(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
		if err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		defer pool.Close()

		if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatal().Err(err).Msg("database migration failed")
		}
		db = pool
		sinks = append(sinks, sink.NewWarehouseSink(pool))
	}

	if cfg.PredictionLogFile != "" {
		fileSink, err := sink.NewFileSink(cfg.PredictionLogFile)
		if err != nil {
			log.Fatal().Err(err).Msg("prediction log file unavailable")
		}
		defer fileSink.Close()
		sinks = append(sinks, fileSink)
	}

	staticRoot := cfg.StaticRoot
	if staticRoot == "" {
		staticRoot = server.DetectStaticRoot()
	}

	router := server.NewRouter(server.Deps{
		Evaluator:  evaluator,
		Recorder:   sink.NewRecorder(cfg.SinkTimeout, sinks...),
		DB:         db,
		Models:     registry,
		StaticRoot: staticRoot,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	log.Info().Str("port", cfg.Port).Int("sinks", len(sinks)).Msg("server listening")
	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
