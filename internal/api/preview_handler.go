package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mixtape-backend-go/internal/core"
)

// PreviewHandler handles API endpoints for link preview metadata.
type PreviewHandler struct {
	previewService core.PreviewService
}

// NewPreviewHandler creates a new PreviewHandler.
func NewPreviewHandler(ps core.PreviewService) *PreviewHandler {
	return &PreviewHandler{previewService: ps}
}

// GetPreview handles GET /preview?url=. A minimal hostname-only result is
// a valid outcome; only an unparseable URL is rejected.
func (h *PreviewHandler) GetPreview(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 'url' query parameter is required"})
		return
	}

	preview := h.previewService.FetchPreview(c.Request.Context(), rawURL)
	if preview == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid URL"})
		return
	}
	c.JSON(http.StatusOK, preview)
}
