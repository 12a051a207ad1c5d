package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/middleware"
)

// InviteHandler handles API endpoints for issuing invites.
type InviteHandler struct {
	inviteService core.InviteService
	logger        *zap.Logger
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(is core.InviteService, logger *zap.Logger) *InviteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InviteHandler{inviteService: is, logger: logger}
}

// IssueInvite handles POST /invites.
func (h *InviteHandler) IssueInvite(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Identity not found in context"})
		return
	}

	invite, link, err := h.inviteService.IssueInvite(c.Request.Context(), identity)
	if err != nil {
		h.logger.Error("Failed to issue invite", zap.String("uid", identity.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate invite link"})
		return
	}

	c.JSON(http.StatusCreated, InviteResponse{Token: invite.Token, Link: link})
}
