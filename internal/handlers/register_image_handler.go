package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	imagemodels "io.winapps.imagealbum/internal/models/image"
)

// RegisterImage stores metadata for an asset that already exists in the asset directory
func (h *ImagesHandler) RegisterImage(c *gin.Context) {
	var req imagemodels.RegisterImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if !validAssetID(req.ID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
		return
	}

	info, err := os.Stat(filepath.Join(h.assetDir, req.ID))
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}
	if err != nil {
		h.logError(c, err, "failed to stat asset", "image_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify asset"})
		return
	}

	category := req.Category
	if category == "" {
		category = imagemodels.DefaultCategory
	}
	rec := imagemodels.Record{ID: req.ID, Category: category, Summary: req.Summary}

	ctx := c.Request.Context()
	if err := h.store.Insert(ctx, rec); err != nil {
		h.logError(c, err, "failed to register image", "image_id", req.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register image"})
		return
	}

	// Invalidate cached listing
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			h.logWarn(c, "images cache invalidation failed", "error", err)
		}
	}

	c.JSON(http.StatusCreated, rec)
}

// validAssetID reports whether id names a single file inside the asset directory
func validAssetID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
