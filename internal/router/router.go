package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jmpark/gocheol-backend/config"
	"github.com/jmpark/gocheol-backend/internal/app/controller"
	"github.com/jmpark/gocheol-backend/internal/middleware"
	"github.com/jmpark/gocheol-backend/internal/websocket"
)

type Router struct {
	pricingController  *controller.PricingController
	marketController   *controller.MarketController
	siteController     *controller.SiteController
	materialController *controller.MaterialController
	uploadController   *controller.UploadController
	hub                *websocket.Hub
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	pricingController *controller.PricingController,
	marketController *controller.MarketController,
	siteController *controller.SiteController,
	materialController *controller.MaterialController,
	uploadController *controller.UploadController,
	hub *websocket.Hub,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		pricingController:  pricingController,
		marketController:   marketController,
		siteController:     siteController,
		materialController: materialController,
		uploadController:   uploadController,
		hub:                hub,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "GOCHEOL pricing API is running",
		})
	})

	// 시세판 실시간 구독
	router.GET("/ws/ticker", r.hub.ServeWS)

	v1 := router.Group("/api/v1")
	{
		pricing := v1.Group("/pricing")
		{
			pricing.GET("/materials", r.pricingController.GetMaterials)
			pricing.GET("/recommendation", r.pricingController.GetRecommendation)
			pricing.GET("/trend", r.pricingController.GetTrend)
			pricing.GET("/decisions", r.pricingController.ListDecisions)
			pricing.GET("/decisions/export", r.pricingController.ExportDecisions)

			pricing.POST("/coefficients",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin", "pricing_manager"),
				r.pricingController.UpsertCoefficient,
			)
			pricing.POST("/approve",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin", "pricing_manager"),
				r.pricingController.Approve,
			)
		}

		market := v1.Group("/market")
		{
			market.GET("/ticker", r.marketController.GetTicker)

			market.POST("/prices",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.marketController.CreateDailyPrice,
			)
			market.POST("/prices/update",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.marketController.UpdateFromExternalAPI,
			)
		}

		sites := v1.Group("/sites")
		{
			sites.GET("", r.siteController.GetSites)
			sites.GET("/:id", r.siteController.GetSite)
			sites.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.siteController.CreateSite,
			)
			sites.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.siteController.UpdateSite,
			)
			sites.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.siteController.DeleteSite,
			)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", r.materialController.GetMaterials)
			materials.GET("/:id", r.materialController.GetMaterial)
			materials.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.materialController.CreateMaterial,
			)
			materials.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.materialController.UpdateMaterial,
			)
			materials.PUT("/:id/symbol-map",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.materialController.UpsertSymbolMap,
			)
		}

		upload := v1.Group("/upload")
		upload.Use(r.authMiddleware.Authenticate())
		{
			upload.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
