package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	handler *Handler,
	authMiddleware gin.HandlerFunc,
	createLimiter gin.HandlerFunc,
	uploadDir string,
	env string,
) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	// Photo blobs are served straight from the upload directory.
	router.Static("/uploads", uploadDir)

	api := router.Group("/api")
	{
		api.GET("/health", handler.health)

		api.GET("/reports", handler.listReports)
		api.POST("/reports", createLimiter, handler.createReport)
		api.GET("/reports/:uuid", handler.getReport)
		api.DELETE("/reports/:uuid", handler.deleteReport)

		api.GET("/stats", handler.getStats)

		api.GET("/geocode", handler.searchGeocode)
		api.GET("/geocode/reverse", handler.reverseGeocode)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/auth/login", handler.login)

		protected := admin.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/auth/me", handler.currentAdmin)
			protected.POST("/auth/change-password", handler.changePassword)

			protected.GET("/reports", handler.adminListReports)
			protected.GET("/reports/:uuid", handler.adminGetReport)
			protected.PATCH("/reports/:uuid/status", handler.adminUpdateReportStatus)
			protected.DELETE("/reports/:uuid", handler.adminDeleteReport)
		}
	}

	return router
}
