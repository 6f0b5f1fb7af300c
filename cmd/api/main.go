package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"tally/internal/config"
	"tally/internal/database"
	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/middleware"
	"tally/internal/queue"
	"tally/internal/services"
	"tally/internal/validator"
)

// @title           Tally API
// @version         1.0
// @description     Tally is a financial tracking backend for small businesses: income and expense tracking, dashboard aggregation, CSV reports, and audited user management.

// @host      localhost:8080
// @BasePath  /api/v1

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

	// Register custom request validators
	validator.Register()

	// Audit spill queue is optional; without it failed audit writes are
	// logged and dropped once retries are exhausted.
	var spill services.AuditSpillPublisher
	if appConfig.AMQPURL != "" {
		queueClient, err := queue.NewClient(appConfig.AMQPURL, appConfig.AuditExchange, appConfig.AuditSpillQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to audit spill queue: %w", err)
		}
		defer queueClient.Close()
		spill = queueClient
	} else {
		log.Warn("AMQP_URL not set, audit spill queue disabled")
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db, spill)
	userService := services.NewUserService(db, auditService)
	transactionService := services.NewTransactionService(db, auditService)
	dashboardService := services.NewDashboardService(transactionService)
	reportService := services.NewReportService(transactionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	reportHandler := handlers.NewReportHandler(reportService)
	categoryHandler := handlers.NewCategoryHandler()
	userHandler := handlers.NewUserHandler(userService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.Create)
	transactions.GET("", transactionHandler.List)
	transactions.GET("/:id", transactionHandler.Get)
	transactions.PUT("/:id", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	// Dashboard and reports
	protected.GET("/dashboard", dashboardHandler.Get)
	protected.GET("/reports/transactions.csv", reportHandler.ExportCSV)

	// Suggested categories
	protected.GET("/categories", categoryHandler.List)

	// Admin routes
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/users", userHandler.List)
	admin.PUT("/users/:id/role", userHandler.SetRole)
	admin.PUT("/users/:id/active", userHandler.SetActive)
	admin.GET("/audit-logs", auditHandler.List)

	log.Infof("Starting Tally backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
