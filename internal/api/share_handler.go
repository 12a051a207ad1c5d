package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/middleware"
	"mixtape-backend-go/internal/models"
)

// ShareHandler handles API endpoints for creating and mutating shared items.
type ShareHandler struct {
	shareService core.ShareService
	logger       *zap.Logger
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(ss core.ShareService, logger *zap.Logger) *ShareHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShareHandler{shareService: ss, logger: logger}
}

// mapShareErrorToStatus maps errors from core.ShareService to HTTP status
// codes and ErrorResponse.
func (h *ShareHandler) mapShareErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrValidation):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Validation failed", Details: err.Error()}
	case errors.Is(err, core.ErrItemNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrItemNotFound.Error()}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	default:
		h.logger.Error("Share operation failed", zap.Error(err))
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// UploadFile handles POST /uploads (multipart form, field "file").
func (h *ShareHandler) UploadFile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 'file' form field is required", Details: err.Error()})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to open uploaded file", Details: err.Error()})
		return
	}
	defer f.Close()

	item, err := h.shareService.UploadFile(c.Request.Context(), identity, fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		h.mapShareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// ShareLink handles POST /links.
func (h *ShareHandler) ShareLink(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	var req models.ShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	item, err := h.shareService.ShareLink(c.Request.Context(), identity, req.URL)
	if err != nil {
		h.mapShareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// SetReaction handles PUT /uploads/:itemId/reaction.
func (h *ShareHandler) SetReaction(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	var req models.SetReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	if err := h.shareService.SetReaction(c.Request.Context(), c.Param("itemId"), identity, req.Emoji); err != nil {
		h.mapShareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Reaction updated"})
}

// DeleteItem handles DELETE /uploads/:itemId.
func (h *ShareHandler) DeleteItem(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	if err := h.shareService.DeleteItem(c.Request.Context(), c.Param("itemId"), identity.UID); err != nil {
		h.mapShareErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Item deleted"})
}
