// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/stylelens/catalogue-backend/internal/config"
	"github.com/stylelens/catalogue-backend/internal/handlers"
	"github.com/stylelens/catalogue-backend/internal/middleware"
	"github.com/stylelens/catalogue-backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(cfg)
	storageService := services.NewStorageService(cfg)
	extractionService := services.NewExtractionService(cfg)
	catalogService := services.NewCatalogService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogueHandler := handlers.NewCatalogueHandler(extractionService, storageService, catalogService)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Authentication routes
	auth := r.Group("/auth")
	auth.Use(middleware.AuthRateLimit())
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
	}

	// Catalogue routes
	service := r.Group("/service")
	service.Use(middleware.AuthRequired(authService, cfg.Supabase.JWTSecret))
	{
		service.POST("/analyze", middleware.AnalyzeRateLimit(), catalogueHandler.Analyze)
		service.POST("/store", middleware.AnalyzeRateLimit(), catalogueHandler.Store)
		service.GET("/product/:id", catalogueHandler.GetProduct)
		service.GET("/products", catalogueHandler.GetProducts)
	}

	return r
}
