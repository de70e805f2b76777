// internal/router/router.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/ai"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/config"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/handlers"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/middleware"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/services"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/utils"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

func Initialize(db *gorm.DB, cfg *config.Config, aiClient *ai.Client, products wizard.ProductDataProvider) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("Image mirroring disabled")
	}
	listingService := services.NewListingService(db)
	draftService := services.NewDraftService(db, products, aiClient, listingService, storageService, cfg.AI)
	analysisService := services.NewAnalysisService(db, aiClient, listingService)

	// Initialize handlers
	wizardHandler := handlers.NewWizardHandler(draftService)
	listingHandler := handlers.NewListingHandler(listingService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language"},
		ExposeHeaders:    []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Wizard session routes
		sessions := v1.Group("/wizard/sessions")
		sessions.Use(middleware.AuthRequired())
		{
			sessions.POST("", wizardHandler.CreateSession)
			sessions.GET("", wizardHandler.ListSessions)
			sessions.GET("/:id", wizardHandler.GetSession)
			sessions.DELETE("/:id", wizardHandler.DeleteSession)

			sessions.GET("/:id/asins", wizardHandler.GetASINs)
			sessions.POST("/:id/asins", middleware.ScrapeRateLimit(), wizardHandler.AddASINs)
			sessions.DELETE("/:id/asins/:asin", wizardHandler.RemoveASIN)

			sessions.GET("/:id/keywords", wizardHandler.GetKeywords)
			sessions.POST("/:id/keywords", wizardHandler.AddKeyword)
			sessions.POST("/:id/keywords/:keywordId/toggle", wizardHandler.ToggleKeyword)
			sessions.DELETE("/:id/keywords/:keywordId", wizardHandler.RemoveKeyword)

			sessions.PUT("/:id/style", wizardHandler.UpdateStyle)
			sessions.PUT("/:id/step", wizardHandler.GoToStep)
			sessions.POST("/:id/next", wizardHandler.NextStep)
			sessions.POST("/:id/previous", wizardHandler.PreviousStep)

			sessions.POST("/:id/generate", middleware.AIRateLimit(), wizardHandler.Generate)
		}

		// Listing routes
		listings := v1.Group("/listings")
		listings.Use(middleware.AuthRequired())
		{
			listings.GET("", listingHandler.GetListings)
			listings.GET("/:id", listingHandler.GetListing)
			listings.DELETE("/:id", listingHandler.DeleteListing)

			listings.GET("/:id/versions", listingHandler.GetVersions)
			listings.POST("/:id/versions", listingHandler.ReplaceContent)
			listings.PUT("/:id/versions/:versionId/keywords", listingHandler.UpdateKeywordTags)
			listings.PUT("/:id/versions/:versionId/current", listingHandler.SetCurrentVersion)

			listings.GET("/:id/keyword-usage", listingHandler.GetKeywordUsage)

			listings.POST("/:id/analyses", middleware.AIRateLimit(), analysisHandler.RequestAnalysis)
			listings.GET("/:id/analyses", analysisHandler.GetAnalyses)
			listings.GET("/:id/analyses/:analysisId", analysisHandler.GetAnalysis)
		}
	}

	return r
}
