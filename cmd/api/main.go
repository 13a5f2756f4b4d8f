package main

import (
	"fmt"
	"net/http"
	"os"

	"secmaster/internal/config"
	"secmaster/internal/database"
	"secmaster/internal/handlers"
	"secmaster/internal/logger"
	"secmaster/internal/middleware"
	"secmaster/internal/services"
	"secmaster/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "secmaster/internal/docs" // Import swagger docs
)

// @title           Secmaster API
// @version         1.0
// @description     Security master service: identifier resolution, point-in-time identifier history, and priority-based reconciliation of multi-source market data.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
// @description Pipeline API key for write endpoints.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	securityService := services.NewSecurityService(db)
	resolverService := services.NewResolverService(db)
	sourceService := services.NewSourceService(db)
	priceService := services.NewPriceService(db)
	factorService := services.NewFactorService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	securityHandler := handlers.NewSecurityHandler(securityService)
	resolutionHandler := handlers.NewResolutionHandler(resolverService)
	sourceHandler := handlers.NewSourceHandler(sourceService)
	priceHandler := handlers.NewPriceHandler(priceService)
	factorHandler := handlers.NewFactorHandler(factorService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Token exchange (guarded by the pipeline API key)
	auth := v1.Group("/auth")
	auth.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	auth.POST("/token", authHandler.IssueToken)

	// Pipeline (write) routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(appConfig.PipelineAPIKey))
	pipeline.POST("/securities", securityHandler.CreateSecurity)
	pipeline.POST("/securities/:id/identifiers", securityHandler.AddIdentifier)
	pipeline.POST("/resolve-or-create", resolutionHandler.ResolveOrCreate)
	pipeline.POST("/prices/:source", priceHandler.RecordPrices)
	pipeline.POST("/factors/:source", factorHandler.RecordValues)

	// Protected (read) routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	securities := protected.Group("/securities")
	securities.GET("", securityHandler.SearchSecurities)
	securities.GET("/:id", securityHandler.GetSecurity)
	securities.GET("/:id/identifiers", securityHandler.GetIdentifiers)
	securities.DELETE("/:id", securityHandler.DeactivateSecurity)
	securities.GET("/:id/prices", priceHandler.GetPriceHistory)
	securities.GET("/:id/prices/best", priceHandler.GetBestPrices)
	securities.GET("/:id/factors/latest", factorHandler.GetLatestFactors)
	securities.GET("/:id/factors/:code/best", factorHandler.GetBestValues)

	resolve := protected.Group("/resolve")
	resolve.GET("", resolutionHandler.Resolve)
	resolve.GET("/auto", resolutionHandler.ResolveAuto)
	resolve.GET("/detect", resolutionHandler.Detect)

	sources := protected.Group("/sources")
	sources.POST("", sourceHandler.CreateSource)
	sources.GET("", sourceHandler.ListSources)
	sources.PATCH("/:code", sourceHandler.UpdateSource)

	factors := protected.Group("/factors")
	factors.POST("", factorHandler.CreateFactor)
	factors.GET("", factorHandler.ListFactors)

	log.Infof("Starting secmaster server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
