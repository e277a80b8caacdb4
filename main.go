package main

import (
	"log"

	"cityrace/config"
	"cityrace/handlers"
	"cityrace/middleware"
	"cityrace/models"
	"cityrace/repository"
	"cityrace/routes"
	"cityrace/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present, real deployments use the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.Game{},
		&models.Member{},
		&models.Question{},
		&models.GameQuestion{},
		&models.MemberQuestion{},
		&models.Position{},
		&models.Placement{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize repositories
	gameRepo := repository.NewGameRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	placementRepo := repository.NewPlacementRepository(db)

	// Initialize event hub
	hub := services.NewHub()
	go hub.Run()

	// Initialize services
	userService := services.NewUserService(redisClient, cfg.UserServiceURL, cfg.UserCacheTTL)
	questionService := services.NewQuestionService(cfg.Game, questionRepo, gameRepo, memberRepo)
	gameService := services.NewGameService(gameRepo, memberRepo, questionService, userService, hub)
	positionService := services.NewPositionService(cfg.Game, gameRepo, memberRepo, questionRepo, positionRepo, placementRepo, gameService, hub)

	// Initialize handlers
	gameHandler := handlers.NewGameHandler(gameService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	positionHandler := handlers.NewPositionHandler(positionService)
	healthHandler := handlers.NewHealthHandler(db)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, gameHandler, questionHandler, positionHandler, healthHandler, hub, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
