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

// ProfileHandler handles API endpoints for the user's display nickname.
type ProfileHandler struct {
	profileService core.ProfileService
	logger         *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(ps core.ProfileService, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{profileService: ps, logger: logger}
}

// GetProfile handles GET /profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	profile, err := h.profileService.Load(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to load profile", zap.String("uid", identity.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveNickname handles PUT /profile.
func (h *ProfileHandler) SaveNickname(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	var req models.SaveNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	profile, err := h.profileService.SaveNickname(c.Request.Context(), identity, req.Nickname)
	if err != nil {
		if errors.Is(err, core.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
			return
		}
		h.logger.Error("Failed to save nickname", zap.String("uid", identity.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save nickname"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
