package routes

import (
	"time"

	"junkbutler/handlers"
	"junkbutler/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterEstimateRoutes registers the estimate dialogue endpoints.
func RegisterEstimateRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/estimates")
	{
		api.POST("", hb.StartEstimate)
		api.GET("/:id", hb.GetEstimate)
		api.DELETE("/:id", hb.DiscardEstimate)

		// Guided steps
		api.POST("/:id/quantity", hb.SelectQuantity)
		api.POST("/:id/items", hb.ToggleItem)
		api.POST("/:id/items/continue", hb.ContinueItems)
		api.POST("/:id/photos", hb.AddPhotos)
		api.POST("/:id/resale", hb.SelectResale)

		// Conversational turns stream as server-sent events.
		api.POST("/:id/messages", hb.SendMessage)
		api.POST("/:id/retry", hb.RetryMessage)
		api.POST("/:id/banner/dismiss", hb.DismissBanner)
		api.POST("/:id/reset", hb.ResetChat)

		api.GET("/:id/result", hb.GetEstimateResult)
	}
}

// RegisterMarketplaceRoutes registers public marketplace browsing.
func RegisterMarketplaceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/marketplace")
	{
		api.GET("/listings", hb.ListListings)
		api.GET("/listings/:id", hb.GetListing)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/admin/login", hb.AdminLogin)

	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/pickups", hb.UpcomingPickups)
		adminGroup.GET("/listings", hb.AdminListings)
		adminGroup.POST("/listings", hb.CreateListing)
		adminGroup.PATCH("/listings/:id/approve", hb.ApproveListing)
		adminGroup.PATCH("/listings/:id/sold", hb.MarkListingSold)
		adminGroup.PATCH("/listings/:id/reclaim", hb.ReclaimListing)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterEstimateRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterMarketplaceRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
