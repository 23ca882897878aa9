package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"io.winapps.imagealbum/internal/config"
	"io.winapps.imagealbum/internal/gallery"
	"io.winapps.imagealbum/internal/logging"
	"io.winapps.imagealbum/internal/middleware"
)

func main() {
	cfg, err := config.LoadGallery()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	table := gallery.NewTable()
	fetcher := gallery.NewFetcher(gallery.FetcherConfig{
		APIBaseURL:   cfg.APIBaseURL,
		AssetBaseURL: cfg.AssetBaseURL,
	}, table, logger)

	if cfg.FetchOnStart {
		fetcher.FetchAndRenderAsync(context.Background())
	}

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.RequestLoggingMiddleware(logger),
	)

	gallery.NewPageHandler(fetcher, table, cfg.Title, logger).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Infow("Gallery server starting", "addr", cfg.Addr, "api_base_url", cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
