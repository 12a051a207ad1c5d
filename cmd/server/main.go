package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mixtape-backend-go/internal/api"
	"mixtape-backend-go/internal/config"
	"mixtape-backend-go/internal/core"
	"mixtape-backend-go/internal/db"
	"mixtape-backend-go/internal/middleware"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	// NewDevelopment gives verbose, human-readable output; production
	// deployments set GIN_MODE=release and get the JSON encoder.
	var zapLogger *zap.Logger
	var err error
	if strings.ToLower(os.Getenv("GIN_MODE")) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (Firestore, Auth, Storage) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirebase(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Admin SDK", zap.Error(err))
	}
	if !appConfig.HasCredentials() {
		zapLogger.Warn("No explicit Firebase credentials configured; relying on Application Default Credentials.")
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	// --- 4. Retrieve initialized clients ---
	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	firebaseApp := db.GetFirebaseApp()

	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	zapLogger.Info("Firestore and Firebase Auth clients retrieved successfully.")

	// --- 5. Initialize Repositories ---
	shareRepo := db.NewFirestoreShareRepository(firestoreClient)
	inviteRepo := db.NewFirestoreInviteRepository(firestoreClient)
	allowlistRepo := db.NewFirestoreAllowlistRepository(firestoreClient)
	profileRepo := db.NewFirestoreProfileRepository(firestoreClient)
	authRevoker := db.NewFirebaseAuthRevoker(firebaseAuthClient)

	blobStore, err := db.NewFirebaseBlobStore(initCtx, firebaseApp, appConfig.FirebaseStorageBucket)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firebase Storage bucket", zap.Error(err))
	}
	zapLogger.Info("Repositories initialized successfully.")

	// --- 6. Initialize Core Services ---
	nameCache := core.NewNameCache(profileRepo, zapLogger)
	accessGate := core.NewAccessGate(inviteRepo, allowlistRepo, authRevoker, zapLogger)
	feed := core.NewFeedSynchronizer(shareRepo, zapLogger)
	previewService := core.NewPreviewFetcher(nil, appConfig.PreviewProxyURL, zapLogger)
	shareService := core.NewShareService(shareRepo, blobStore, previewService, zapLogger)
	inviteService := core.NewInviteService(inviteRepo, appConfig.AppBaseURL, zapLogger)
	profileService := core.NewProfileService(profileRepo, nameCache, zapLogger)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()
	zapLogger.Info("Gin engine created.")

	// --- 8. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 9. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		accessGate,
		feed,
		nameCache,
		shareService,
		inviteService,
		previewService,
		profileService,
	)

	// --- 10. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 11. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Stop the tail subscription before tearing down the HTTP layer.
	feed.Close()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
