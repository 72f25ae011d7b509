package routes

import (
	"time"

	"handyhub/handlers"
	"handyhub/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes registers provider availability endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		// Public: anyone may look up bookable slots and a provider's schedule.
		api.GET("/:providerId/resolve", hb.ResolveAvailabilityHandler)
		api.GET("/:providerId", hb.GetAvailabilityHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.PUT("/:providerId", hb.SaveAvailabilityHandler)
	}
}

// RegisterBookingRoutes registers booking lifecycle endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListBookingsHandler)
		api.GET("/:id", hb.GetBookingHandler)
		api.PUT("/:id/status", hb.UpdateBookingStatusHandler)
		api.POST("/:id/cancellation-requests", hb.RequestCancellationHandler)
		api.POST("/:id/cancellation-requests/:requestId/respond", hb.RespondCancellationHandler)
	}
}

// RegisterOfferingRoutes registers provider offering endpoints.
func RegisterOfferingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/offerings")
	{
		api.GET("/provider/:providerId", hb.ListProviderOfferingsHandler)

		protected := api.Group("")
		protected.Use(middleware.JWTAuthMiddleware())
		protected.PUT("/:id", hb.UpdateOfferingHandler)
		protected.POST("/:id/publish", hb.PublishOfferingHandler)
		protected.DELETE("/:id", hb.DeleteOfferingHandler)
		protected.POST("/:id/deactivate-month", hb.DeactivateMonthHandler)
		protected.POST("/:id/activate-month", hb.ActivateMonthHandler)
	}
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	if hb.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(hb.MetricsHandler))
	}
}

// RegisterRoutes applies CORS and registers every route group.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterOpsRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterOfferingRoutes(r, hb)
}
