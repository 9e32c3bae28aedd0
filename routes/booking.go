package routes

import (
	"junkbutler/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers booking submission and the service area check.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/bookings", hb.CreateBooking)
		api.GET("/service-area/:zip", hb.CheckServiceArea)
	}
}
