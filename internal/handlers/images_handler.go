package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	imagemodels "io.winapps.imagealbum/internal/models/image"
	"io.winapps.imagealbum/internal/store"
)

// ListingCache caches the full image listing. db.ImagesCache implements it.
type ListingCache interface {
	Get(ctx context.Context) ([]imagemodels.Record, bool, error)
	Set(ctx context.Context, records []imagemodels.Record) error
	Invalidate(ctx context.Context) error
}

type ImagesHandler struct {
	store    store.ImageStore
	cache    ListingCache
	assetDir string
	logger   *zap.SugaredLogger
}

// NewImagesHandler creates a new images handler. cache may be nil.
func NewImagesHandler(imageStore store.ImageStore, cache ListingCache, assetDir string, logger *zap.SugaredLogger) *ImagesHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &ImagesHandler{
		store:    imageStore,
		cache:    cache,
		assetDir: assetDir,
		logger:   logger,
	}
}

// RegisterRoutes wires the image listing, registration and asset routes
func (h *ImagesHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/images", h.ListImages)
	router.POST("/images", h.RegisterImage)
	router.Static("/assets", h.assetDir)
}
