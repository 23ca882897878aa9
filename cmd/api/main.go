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
	"io.winapps.imagealbum/internal/db"
	"io.winapps.imagealbum/internal/handlers"
	"io.winapps.imagealbum/internal/ingest"
	"io.winapps.imagealbum/internal/logging"
	"io.winapps.imagealbum/internal/middleware"
	"io.winapps.imagealbum/internal/store"
	"io.winapps.imagealbum/internal/vision"
)

func main() {
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize PostgreSQL
	postgresDB, err := db.InitPostgres(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("Failed to initialize PostgreSQL", "error", err)
	}
	defer postgresDB.Close()

	// Initialize Redis
	redisClient, err := db.InitRedis(cfg.Redis)
	if err != nil {
		logger.Fatalw("Failed to initialize Redis", "error", err)
	}
	defer redisClient.Close()

	imageStore := store.NewPostgresImageStore(postgresDB)
	imagesCache := db.NewImagesCache(redisClient, cfg.CacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Move newly dropped files into the asset directory on a schedule
	ingestCfg := ingest.Config{IncomingDir: cfg.IncomingDir, AssetDir: cfg.AssetDir}
	if cfg.Vision.Enabled() {
		client := vision.NewClient(cfg.Vision.BaseURL, cfg.Vision.APIKey, cfg.Vision.Model, cfg.Vision.Timeout)
		ingestCfg.Summarizer = ingest.NewModelSummarizer(client)
		logger.Infow("Image summarisation enabled", "model", cfg.Vision.Model, "baseURL", cfg.Vision.BaseURL)
	} else {
		logger.Infow("Image summarisation disabled, ingested images keep placeholder values")
	}
	sweeper := ingest.NewSweeper(ingestCfg, imageStore, imagesCache, logger)
	if err := sweeper.Start(ctx, cfg.IngestSchedule); err != nil {
		logger.Fatalw("Failed to start ingest scheduler", "error", err)
	}

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(logger),
		middleware.RequestLoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	imagesHandler := handlers.NewImagesHandler(imageStore, imagesCache, cfg.AssetDir, logger)
	imagesHandler.RegisterRoutes(router)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Infow("API server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalw("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	cancel()
	sweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
