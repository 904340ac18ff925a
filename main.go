package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hk-arcade-map/api-go/config"
	"github.com/hk-arcade-map/api-go/controllers"
	"github.com/hk-arcade-map/api-go/logger"
	"github.com/hk-arcade-map/api-go/metrics"
	"github.com/hk-arcade-map/api-go/middleware"
	"github.com/hk-arcade-map/api-go/routes"
	"github.com/hk-arcade-map/api-go/services"
	"github.com/hk-arcade-map/api-go/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error().Err(err).Msg("load configuration")
		os.Exit(1)
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: os.Stdout})
	gin.SetMode(cfg.Server.Mode)

	if err := middleware.RegisterValidators(); err != nil {
		logger.Error().Err(err).Msg("register validators")
		os.Exit(1)
	}

	// Initialize database
	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logger.Error().Err(err).Msg("initialize database")
		os.Exit(1)
	}

	rdb := config.OpenRedis(cfg.Redis)
	if rdb == nil {
		logger.Warn().Msg("REDIS_ADDR not set; every view will be counted")
	} else {
		defer rdb.Close()
	}

	var store controllers.PhotoStore
	if r2 := storage.NewR2Store(config.NewR2Client(cfg.Storage), cfg.Storage); r2 != nil {
		store = r2
	} else {
		logger.Warn().Msg("object storage not configured; uploads disabled")
	}

	google := config.NewGoogleConfig(cfg.Google)
	if google == nil {
		logger.Warn().Msg("GOOGLE_CLIENT_ID not set; Google sign-in disabled")
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware(), metrics.GinMiddleware())
	routes.SetupRoutes(r, routes.Dependencies{
		DB:      db,
		Service: services.New(db, services.NewViewDeduper(rdb, cfg.Redis.ViewWindow)),
		Store:   store,
		Google:  google,
		JWT:     cfg.JWT,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           middleware.WrapHTTP(r, cfg.CORS, cfg.RateLimit),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
