package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"coinfolio/internal/config"
	"coinfolio/internal/database"
	"coinfolio/internal/handlers"
	"coinfolio/internal/logger"
	"coinfolio/internal/middleware"
	"coinfolio/internal/services"
	"coinfolio/internal/userlock"
	"coinfolio/internal/validator"
)

// @title           Coinfolio API
// @version         1.0
// @description     Coinfolio is a personal finance tracker for cryptocurrency, gold and fiat holdings: planned allocations, BUY/SELL transactions, manual price points and portfolio summaries.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Money and quantity values serialize as JSON numbers, matching the
	// charting clients' expected payload shape.
	decimal.MarshalJSONWithoutQuotes = true

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	locks := userlock.New()
	userService := services.NewUserService(db)
	assetService := services.NewAssetService(db)
	priceService := services.NewPriceService(db)
	holdingService := services.NewHoldingService(db, assetService)
	transactionService := services.NewTransactionService(db, assetService, locks)
	summaryService := services.NewSummaryService(db, transactionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	assetHandler := handlers.NewAssetHandler(assetService)
	priceHandler := handlers.NewPriceHandler(priceService)
	holdingHandler := handlers.NewHoldingHandler(holdingService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

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

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

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

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Asset catalog
	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.GET("/:id", assetHandler.GetAssetByID)
	assets.PUT("/:id", assetHandler.UpdateAsset)

	// Price log
	prices := protected.Group("/prices")
	prices.POST("", priceHandler.RecordPrice)
	prices.GET("/latest", priceHandler.GetLatestPrices)

	// Holdings / plans
	holdings := protected.Group("/holdings")
	holdings.GET("", holdingHandler.GetHoldings)
	holdings.PUT("/plan", holdingHandler.SetPlan)
	holdings.DELETE("/:id", holdingHandler.DeleteHolding)

	// Transactions
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CommitTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/totals", transactionHandler.GetTotals)

	// Portfolio aggregations
	protected.GET("/portfolio/summary", summaryHandler.GetSummary)
	protected.GET("/portfolio/projection", summaryHandler.GetProjection)
	protected.GET("/dashboard", summaryHandler.GetDashboard)

	log.Infof("Starting Coinfolio backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
