package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Availability endpoints
	ResolveAvailabilityHandler gin.HandlerFunc
	GetAvailabilityHandler     gin.HandlerFunc
	SaveAvailabilityHandler    gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler       gin.HandlerFunc
	GetBookingHandler          gin.HandlerFunc
	ListBookingsHandler        gin.HandlerFunc
	UpdateBookingStatusHandler gin.HandlerFunc
	RequestCancellationHandler gin.HandlerFunc
	RespondCancellationHandler gin.HandlerFunc

	// Offering endpoints
	ListProviderOfferingsHandler gin.HandlerFunc
	UpdateOfferingHandler        gin.HandlerFunc
	PublishOfferingHandler       gin.HandlerFunc
	DeleteOfferingHandler        gin.HandlerFunc
	DeactivateMonthHandler       gin.HandlerFunc
	ActivateMonthHandler         gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler http.Handler
}
