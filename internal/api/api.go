// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/Roxeraf/pfep/internal/api/handlers"
	"github.com/Roxeraf/pfep/internal/api/middleware"
	"github.com/Roxeraf/pfep/internal/service"
	"github.com/Roxeraf/pfep/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	CatalogService   *service.CatalogService
	AnalyticsService *service.AnalyticsService
	Archive          storage.ObjectStorage
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)

	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.CatalogService != nil {
			partsHandler := handlers.NewPartsHandler(services.CatalogService, services.Archive)
			partsGroup := apiGroup.Group("/parts")
			{
				partsGroup.GET("", partsHandler.ListParts)
				partsGroup.POST("", partsHandler.UpsertPart)
				partsGroup.GET("/export", partsHandler.ExportParts)
				partsGroup.POST("/upload", partsHandler.UploadParts)
				partsGroup.GET("/:part_number", partsHandler.GetPart)
				partsGroup.PUT("/:part_number", partsHandler.UpsertPart)
				partsGroup.DELETE("/:part_number", partsHandler.DeletePart)
			}
		}

		if services.AnalyticsService != nil {
			analyticsHandler := handlers.NewAnalyticsHandler(services.AnalyticsService)
			analyticsGroup := apiGroup.Group("/analytics")
			{
				analyticsGroup.GET("/suppliers", analyticsHandler.GetSupplierRatings)
				analyticsGroup.GET("/alerts", analyticsHandler.GetInventoryAlerts)
				analyticsGroup.GET("/forecast/:part_number", analyticsHandler.GetForecast)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
