package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListImages returns every image record as a JSON array
func (h *ImagesHandler) ListImages(c *gin.Context) {
	ctx := c.Request.Context()

	// Try Redis cache first
	if h.cache != nil {
		cached, ok, err := h.cache.Get(ctx)
		if err != nil {
			h.logWarn(c, "images cache read failed", "error", err)
		} else if ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	records, err := h.store.List(ctx)
	if err != nil {
		h.logError(c, err, "failed to list images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list images"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, records); err != nil {
			h.logWarn(c, "images cache write failed", "error", err)
		}
	}

	c.JSON(http.StatusOK, records)
}
