// @title           ProofDeck Backend API
// @version         1.0.0
// @description     Backend API for proof approval and order management. Staff upload product proofs and send tokenized review links; customers approve or request changes through the proof portal; orders sync from ShipStation.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"proofdeck-backend/internal/config"
	"proofdeck-backend/internal/database"
	"proofdeck-backend/internal/handlers"
	"proofdeck-backend/internal/middleware"
	"proofdeck-backend/internal/notify"
	"proofdeck-backend/internal/services"
	"proofdeck-backend/internal/shipstation"
	"proofdeck-backend/internal/storage"
	"proofdeck-backend/internal/store"
	"proofdeck-backend/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	st, err := store.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer st.Close()

	// External clients. Each degrades to a disabled state when its
	// credentials are absent.
	ssClient := shipstation.NewClient(cfg.ShipStationAPIURL, cfg.ShipStationAPIKey, cfg.ShipStationAPISecret)
	if !ssClient.Configured() {
		log.Println("Warning: ShipStation credentials not configured, sync is disabled")
	}

	var objects services.ObjectStore = storage.Disabled{}
	if cfg.StorageConfigured() {
		storageClient, err := storage.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			log.Fatalf("Failed to initialize storage client: %v", err)
		}
		objects = storageClient
	} else {
		log.Println("Warning: object storage not configured, proof uploads are disabled")
	}

	var mailer notify.Mailer = notify.NoopMailer{}
	if cfg.EmailConfigured() {
		mailer = notify.NewResendMailer(cfg.ResendAPIKey)
	} else {
		log.Println("Warning: RESEND_API_KEY not set, outbound email is disabled")
	}

	syncService := services.NewSyncService(st, ssClient)
	decisionService := services.NewDecisionService(st, mailer, cfg.AppPublicBaseURL)
	proofService := services.NewProofService(st, objects, mailer, cfg.AppPublicBaseURL)
	reminderService := services.NewReminderService(st, mailer)

	validate := validation.New()
	secureCookies := cfg.Environment == "production"

	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(cfg.AdminPassword, cfg.SessionSecret, secureCookies, validate)
	syncHandler := handlers.NewSyncHandler(syncService, st, ssClient, cfg, validate)
	ordersHandler := handlers.NewOrdersHandler(st, validate)
	proofsHandler := handlers.NewProofsHandler(proofService, validate)
	portalHandler := handlers.NewPortalHandler(st, decisionService, validate)
	settingsHandler := handlers.NewSettingsHandler(st, validate)
	remindersHandler := handlers.NewRemindersHandler(reminderService)

	limiter := middleware.NewRateLimiter()

	router := gin.Default()

	router.GET("/health", healthHandler.Check)

	// Customer portal (token-authenticated, rate limited)
	router.GET("/p/:token",
		middleware.RateLimit(limiter, "portal_view", middleware.LimitPortalView),
		portalHandler.View)
	router.POST("/api/actions/submit",
		middleware.RateLimit(limiter, "submit", middleware.LimitCustomerSubmit),
		portalHandler.Submit)

	// Auth
	router.POST("/api/auth/login",
		middleware.RateLimit(limiter, "login", middleware.LimitLogin),
		authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)

	// Admin API
	admin := router.Group("/api")
	admin.Use(middleware.RequireAdmin(cfg.SessionSecret))
	admin.Use(middleware.RateLimit(limiter, "admin", middleware.LimitAdmin))

	admin.GET("/orders", ordersHandler.List)
	admin.POST("/orders", ordersHandler.Create)
	admin.GET("/orders/:id", ordersHandler.Detail)
	admin.POST("/proofs/upload",
		middleware.RateLimit(limiter, "upload", middleware.LimitUpload),
		proofsHandler.Upload)
	admin.POST("/proofs/send", proofsHandler.Send)
	admin.GET("/admin/settings", settingsHandler.Get)
	admin.PUT("/admin/settings", settingsHandler.Update)
	admin.GET("/shipstation/status", syncHandler.Status)
	admin.POST("/shipstation/test", syncHandler.Test)

	// Sync can be triggered by staff or by the scheduler. The GET form is
	// for schedulers that cannot POST.
	router.POST("/api/shipstation/sync",
		middleware.RequireCronOrAdmin(cfg.CronSecret, cfg.SessionSecret),
		syncHandler.Trigger)
	router.GET("/api/shipstation/sync",
		middleware.RequireCron(cfg.CronSecret),
		syncHandler.Trigger)

	// Scheduled jobs
	router.GET("/api/cron/reminders",
		middleware.RequireCron(cfg.CronSecret),
		remindersHandler.Run)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
