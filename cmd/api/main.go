// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/orkestra-labs/roster-backend/internal/api/handlers"
	"github.com/orkestra-labs/roster-backend/internal/api/middleware"
	"github.com/orkestra-labs/roster-backend/internal/config"
	"github.com/orkestra-labs/roster-backend/internal/cron"
	"github.com/orkestra-labs/roster-backend/internal/db"
	"github.com/orkestra-labs/roster-backend/internal/email"
	"github.com/orkestra-labs/roster-backend/internal/notification"
	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/seed"
	"github.com/orkestra-labs/roster-backend/internal/service"
	"github.com/orkestra-labs/roster-backend/internal/socket"
	"github.com/orkestra-labs/roster-backend/internal/storage"
)

func main() {
	// ============================================
	// Load environment variables
	// ============================================
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// ============================================
	// Load configuration
	// ============================================
	cfg := config.Load()

	// ============================================
	// Set Gin mode
	// ============================================
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// ============================================
	// Run Database Migrations FIRST
	// ============================================
	log.Println("🔄 Running database migrations...")
	migrationsPath := "./internal/db/migrations"
	if err := db.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	// ============================================
	// Initialize PostgreSQL (pgxpool + sqlx)
	// ============================================
	ctx := context.Background()

	pg, err := db.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to create pgx pool: %v", err)
	}
	defer pg.Close()

	sqlxDB, err := db.NewSQLxDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to open sqlx DB: %v", err)
	}
	defer sqlxDB.Close()

	log.Println("✅ Connected to PostgreSQL")

	// ============================================
	// Initialize Repositories
	// ============================================
	repos := repository.NewRepositories(pg.Pool, sqlxDB)
	log.Println("📦 Repositories initialized")

	// ============================================
	// Initialize Redis (optional)
	// ============================================
	var redisDB *db.RedisDB
	if cfg.RedisURL != "" {
		redisDB, err = db.NewRedisDB(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (continuing without cache)", err)
		} else {
			defer redisDB.Close()
			log.Println("⚡ Redis cache enabled")
		}
	}

	// ============================================
	// Initialize Email Service (optional)
	// ============================================
	var emailSvc *email.Service
	if cfg.SMTPHost != "" {
		emailSvc = email.NewService(&email.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			FromName: cfg.SMTPFromName,
			UseTLS:   cfg.SMTPUseTLS,
		})
		log.Println("📧 Email service initialized")
	} else {
		log.Println("⚠️  Email not configured (SMTP_HOST not set)")
	}

	// ============================================
	// Initialize Object Storage (optional)
	// ============================================
	var store *storage.Client
	if cfg.MinioEndpoint != "" {
		store, err = storage.New(ctx, storage.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			log.Printf("⚠️ Failed to connect to object storage: %v (photos and backups disabled)", err)
			store = nil
		} else {
			log.Println("🗄️  Object storage initialized")
		}
	} else {
		log.Println("⚠️  Object storage not configured (MINIO_ENDPOINT not set)")
	}

	// ============================================
	// Initialize WebSocket Hub
	// ============================================
	hub := socket.NewHub()
	go hub.Run()
	broadcaster := socket.NewBroadcaster(hub)

	// WebSocket handler with JWT secret for self-authentication
	wsHandler := socket.NewHandler(hub, cfg.JWTSecret)
	log.Println("🔌 WebSocket hub initialized")

	// ============================================
	// Seed Data (for development)
	// ============================================
	if cfg.Environment != "production" {
		log.Println("🌱 Seeding development data...")
		seed.SeedData(repos)
	}

	// ============================================
	// Initialize Notification Service + Feed
	// ============================================
	notificationSvc := notification.NewService(
		repos.NotificationRepo,
		repos.MemberRepo,
	)
	notificationSvc.SetBroadcaster(broadcaster)

	feed := notification.NewFeed(repos.NotificationRepo)
	notificationSvc.SetFeed(feed)
	go feed.Run(ctx)
	defer feed.Stop()

	// ============================================
	// Initialize All Services
	// ============================================
	services := service.NewServices(&service.ServiceDeps{
		Config:      cfg,
		Repos:       repos,
		NotifSvc:    notificationSvc,
		Feed:        feed,
		EmailSvc:    emailSvc,
		Broadcaster: broadcaster,
		Redis:       redisDB,
		Storage:     store,
	})
	log.Println("✨ All services initialized")

	// ============================================
	// Initialize Handlers
	// ============================================
	h := handlers.NewHandlers(services)

	// ============================================
	// Initialize Cron Scheduler
	// ============================================
	cronScheduler := cron.NewScheduler(services, notificationSvc, repos)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// ============================================
	// Create Gin Router
	// ============================================
	r := gin.Default()
	r.Use(middleware.RequestLogger())

	// Configure CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "healthy",
			"timestamp":  time.Now(),
			"database":   "connected",
			"cache":      getCacheStatus(redisDB),
			"websocket":  "active",
			"ws_clients": len(hub.GetOnlineMembers()),
			"email":      getEmailStatus(emailSvc),
			"storage":    getStorageStatus(store),
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// ============================================
		// Public routes (no auth required)
		// ============================================
		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		// WebSocket route
		api.GET("/ws", wsHandler.HandleWebSocket)

		// ============================================
		// Protected routes (require auth middleware)
		// ============================================
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(services.Auth))
		{
			protected.GET("/profile", h.Auth.Profile)

			// Member routes
			members := protected.Group("/member")
			{
				members.GET("", h.Member.List)
				members.POST("", h.Member.Create)
				members.GET("/:id", h.Member.Get)
				members.PUT("/:id", h.Member.Update)
				members.DELETE("/:id", h.Member.Delete)
				members.GET("/:id/editable", h.Member.Editable)
			}

			// Status change request routes
			requests := protected.Group("/status-requests")
			{
				requests.GET("", h.StatusRequest.ListPending)
				requests.GET("/initiated", h.StatusRequest.ListInitiated)
				requests.POST("", h.StatusRequest.Create)
				requests.GET("/:id", h.StatusRequest.Get)
				requests.PUT("/:id/accept", h.StatusRequest.Accept)
				requests.PUT("/:id/reject", h.StatusRequest.Reject)
			}

			// Notification routes
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.List)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.PUT("/:id/read", h.Notification.MarkRead)
				notifications.PUT("/read-all", h.Notification.MarkAllRead)
				notifications.DELETE("/:id", h.Notification.Delete)
			}

			// Event routes
			events := protected.Group("/events")
			{
				events.GET("", h.Event.List)
				events.POST("", h.Event.Create)
				events.GET("/:id", h.Event.Get)
				events.PUT("/:id", h.Event.Update)
				events.DELETE("/:id", h.Event.Delete)
			}

			// Forum post routes
			posts := protected.Group("/posts")
			{
				posts.GET("", h.Post.List)
				posts.POST("", h.Post.Create)
				posts.GET("/:id", h.Post.Get)
				posts.PUT("/:id", h.Post.Update)
				posts.PATCH("/:id/pin", h.Post.Pin)
				posts.DELETE("/:id", h.Post.Delete)
			}

			// Dashboard settings
			settings := protected.Group("/settings")
			{
				settings.GET("", h.Setting.List)
				settings.PUT("", h.Setting.Update)
			}

			// Export / backup routes
			export := protected.Group("/export")
			{
				export.GET("/members.csv", h.Export.ExportCSV)
				export.GET("/members.json", h.Export.ExportJSON)
			}

			backups := protected.Group("/backups")
			{
				backups.GET("", h.Export.ListBackups)
				backups.POST("", h.Export.CreateBackup)
				backups.POST("/import", h.Export.Import)
			}
		}
	}

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("🚀 Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func getCacheStatus(redisDB *db.RedisDB) string {
	if redisDB != nil {
		return "connected"
	}
	return "disabled"
}

func getEmailStatus(emailSvc *email.Service) string {
	if emailSvc != nil {
		return "configured"
	}
	return "disabled"
}

func getStorageStatus(store *storage.Client) string {
	if store != nil {
		return "connected"
	}
	return "disabled"
}
