package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/guardian-portal/api/database"
	"github.com/guardian-portal/api/handlers"
	auth_handlers "github.com/guardian-portal/api/handlers/auth"
	college_handlers "github.com/guardian-portal/api/handlers/college"
	complaint_handlers "github.com/guardian-portal/api/handlers/complaint"
	feedback_handlers "github.com/guardian-portal/api/handlers/feedback"
	news_handlers "github.com/guardian-portal/api/handlers/news"
	notification_handlers "github.com/guardian-portal/api/handlers/notification"
	student_handlers "github.com/guardian-portal/api/handlers/student"
	"github.com/guardian-portal/api/model"
	"github.com/guardian-portal/api/services"
	"github.com/guardian-portal/api/services/storage"
	"github.com/guardian-portal/api/utils/auth"
	"github.com/guardian-portal/api/utils/cache"
	"github.com/guardian-portal/api/utils/middleware"
	"gorm.io/gorm"
)

// Dependencies collects the shared services the routes are built on, so
// app setup can reuse them (the cron manager shares the dispatcher).
type Dependencies struct {
	DB            *gorm.DB
	JWTManager    *auth.JWTManager
	Dispatcher    services.Dispatcher
	Notifications *services.NotificationService
	Blacklist     *auth.BlacklistService
}

// SetupRoutes wires every route of the API and returns the shared
// dependencies.
func SetupRoutes(app *fiber.App, store database.Storage) *Dependencies {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "guardian-portal-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the brute force protection; the API still runs without it
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Notification plumbing shared by handlers and cron jobs
	emailService := services.NewEmailService()
	notificationService := services.NewNotificationService(db)
	dispatcher := services.NewNotifyDispatcher(emailService, notificationService)

	// Object storage for evidence attachments; optional
	var spacesClient *storage.SpacesClient
	if os.Getenv("SPACES_ACCESS_KEY") != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: os.Getenv("SPACES_ACCESS_KEY"),
			SecretKey: os.Getenv("SPACES_SECRET_KEY"),
			Bucket:    os.Getenv("SPACES_BUCKET"),
			Region:    os.Getenv("SPACES_REGION"),
			Endpoint:  os.Getenv("SPACES_ENDPOINT"),
			CDNURL:    os.Getenv("SPACES_CDN_URL"),
		})
		if err != nil {
			log.Printf("Warning: Failed to init object storage: %v. Attachment uploads will be disabled.", err)
		}
	}

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, emailService, bruteForceProtection)
	collegeHandler := college_handlers.NewCollegeHandler(db)
	complaintHandler := complaint_handlers.NewComplaintHandler(db, dispatcher, spacesClient)
	studentHandler := student_handlers.NewStudentHandler(db)
	feedbackHandler := feedback_handlers.NewFeedbackHandler(db)
	newsHandler := news_handlers.NewNewsHandler(db)
	notificationHandler := notification_handlers.NewNotificationHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// College reference data; reads public so the registration form works
	colleges := api.Group("/colleges")
	colleges.Get("/", collegeHandler.ListColleges)
	colleges.Get("/:id", collegeHandler.GetCollege)
	colleges.Get("/:id/branches", collegeHandler.ListCollegeBranches)
	colleges.Post("/", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), collegeHandler.CreateCollege)
	colleges.Post("/:id/branches", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), collegeHandler.CreateBranch)

	api.Get("/branches", collegeHandler.ListBranches)

	// Complaint workflow (protected; per-record scoping inside handlers)
	complaints := api.Group("/complaints", authMiddleware.Required())
	complaints.Get("/", complaintHandler.ListComplaints)
	complaints.Post("/", complaintHandler.CreateComplaint)
	complaints.Get("/:id", complaintHandler.GetComplaint)
	complaints.Patch("/:id", authMiddleware.RequireRole(model.RoleAdmin, model.RolePrincipal, model.RoleSquad), complaintHandler.UpdateComplaint)
	complaints.Get("/:id/attachments", complaintHandler.ListAttachments)
	complaints.Post("/:id/attachments", complaintHandler.UploadAttachment)

	// Student roster and moderation
	students := api.Group("/students", authMiddleware.Required())
	students.Get("/", studentHandler.ListStudents)
	students.Get("/:id", studentHandler.GetStudent)
	students.Post("/:id/suspend", authMiddleware.RequireRole(model.RolePrincipal), studentHandler.Suspend)
	students.Post("/:id/unsuspend", authMiddleware.RequireRole(model.RolePrincipal), studentHandler.Unsuspend)

	// Account deletion (admin)
	api.Delete("/users/:id", authMiddleware.Required(), authMiddleware.RequireRole(model.RoleAdmin), studentHandler.DeleteUser)

	// Feedback
	feedback := api.Group("/feedback", authMiddleware.Required())
	feedback.Get("/", feedbackHandler.ListFeedback)
	feedback.Post("/", feedbackHandler.CreateFeedback)

	// News
	newsGroup := api.Group("/news", authMiddleware.Required())
	newsGroup.Get("/", newsHandler.ListNews)
	newsGroup.Post("/", authMiddleware.RequireRole(model.RoleAdmin), newsHandler.CreateNews)

	// In-app notifications
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Get("/unread-count", notificationHandler.GetUnreadCount)
	notifications.Patch("/read-all", notificationHandler.MarkAllAsRead)
	notifications.Patch("/:id/read", notificationHandler.MarkAsRead)
	notifications.Delete("/:id", notificationHandler.DeleteNotification)

	return &Dependencies{
		DB:            db,
		JWTManager:    jwtManager,
		Dispatcher:    dispatcher,
		Notifications: notificationService,
		Blacklist:     auth.NewBlacklistService(db),
	}
}
