package api

import (
	"net/http" // For http.StatusOK in health check

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/config"
	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/db" // For db.GetFirebaseAuthClient()
	"mixtape-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and middleware.
// Global middleware (Logging, Recovery, CORS) are expected to be applied to the
// `router` instance *before* this function is called, typically in `main.go`.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	accessGate *core.AccessGate,
	feed *core.FeedSynchronizer,
	names core.NameResolver,
	shareService core.ShareService,
	inviteService core.InviteService,
	previewService core.PreviewService,
	profileService core.ProfileService,
) {
	// --- Initialize Middleware requiring dependencies ---
	// Get Firebase Auth client. This must be available after db.InitFirebase().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		// The application cannot secure routes without it.
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirebase() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient, logger)
	accessMW := middleware.RequireAccess(accessGate, logger)

	// --- Initialize Handlers ---
	feedHandler := NewFeedHandler(feed, names, logger)
	shareHandler := NewShareHandler(shareService, logger)
	inviteHandler := NewInviteHandler(inviteService, logger)
	previewHandler := NewPreviewHandler(previewService)
	profileHandler := NewProfileHandler(profileService, logger)

	// --- Define API Route Groups ---
	apiV1 := router.Group("/api/v1")
	{
		// Everything behind both token verification and the allowlist gate.
		// The gate reads an optional ?invite= token, so a first request with
		// an invite link both redeems it and grants access.
		authed := apiV1.Group("", authMW.VerifyToken(), accessMW)
		{
			// --- Feed Endpoints ---
			feedGroup := authed.Group("/feed")
			{
				feedGroup.GET("", feedHandler.GetFeed)
				feedGroup.POST("/next", feedHandler.LoadMore)
				feedGroup.GET("/view", feedHandler.GetFilteredView)
			}

			// --- Shared Item Endpoints ---
			uploadsGroup := authed.Group("/uploads")
			{
				uploadsGroup.POST("", shareHandler.UploadFile)
				uploadsGroup.DELETE("/:itemId", shareHandler.DeleteItem)
				uploadsGroup.PUT("/:itemId/reaction", shareHandler.SetReaction)
			}
			authed.POST("/links", shareHandler.ShareLink)

			// --- Invite Endpoints ---
			authed.POST("/invites", inviteHandler.IssueInvite)

			// --- Link Preview Endpoint ---
			authed.GET("/preview", previewHandler.GetPreview)

			// --- Profile Endpoints ---
			profileGroup := authed.Group("/profile")
			{
				profileGroup.GET("", profileHandler.GetProfile)
				profileGroup.PUT("", profileHandler.SaveNickname)
			}
		}
	}

	// --- General Health Check Endpoint ---
	// Public, does not go under the /api/v1 group.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Mixtape backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
