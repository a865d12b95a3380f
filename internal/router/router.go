package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/danhtrinhdevelopermay/BSA6/internal/handlers"
	"github.com/danhtrinhdevelopermay/BSA6/internal/middleware"
	"github.com/danhtrinhdevelopermay/BSA6/internal/models"
	"github.com/danhtrinhdevelopermay/BSA6/internal/repositories"
	"github.com/danhtrinhdevelopermay/BSA6/internal/services"
	"github.com/danhtrinhdevelopermay/BSA6/pkg/config"
	"github.com/danhtrinhdevelopermay/BSA6/pkg/lock"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, cfg *config.Config) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mongoDB := mgClient.Database(cfg.MongoDatabase)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	conversationRepo := repositories.NewMongoConversationRepository(mongoDB)
	mediaRepo, err := repositories.NewGridFSMediaRepository(mongoDB)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	// --- Initialize Services ---
	locks := lock.NewKeyedMutex()
	optimizer := services.SelectOptimizer(cfg.CloudMediaEndpoint)
	mediaPipeline := services.NewMediaPipeline(mediaRepo, optimizer)
	streakService := services.NewStreakService(userRepo, locks, nil)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, cfg.AdminUserID)
	chatService := services.NewChatService(conversationRepo, mediaPipeline, locks, nil)

	// Health check and media retrieval - always accessible
	e.GET("/health", handlers.HealthCheck)

	mediaHandler := handlers.NewMediaHandler(mediaRepo)
	mediaHandler.RegisterMediaRoutes(e)
	log.Println("Media routes configured.")

	// --- Protected routes (require Firebase authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
	log.Println("Firebase authentication middleware applied to /api/v1 group.")

	userHandler := handlers.NewUserHandler(userRepo, streakService)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	postHandler := handlers.NewPostHandler(postRepo, mediaPipeline, notificationService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, notificationService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, notificationService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)
	log.Println("Chat routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	adminHandler := handlers.NewAdminHandler(notificationService, postRepo)
	adminHandler.RegisterAdminRoutes(api)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
