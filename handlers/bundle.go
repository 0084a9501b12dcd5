package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Supplier passthrough endpoints
	SearchHandler    gin.HandlerFunc
	HotelPageHandler gin.HandlerFunc
	PrebookHandler   gin.HandlerFunc

	// Booking endpoints
	CreateBookingHandler  gin.HandlerFunc
	StartBookingHandler   gin.HandlerFunc
	BookingStatusHandler  gin.HandlerFunc
	BookHandler           gin.HandlerFunc
	EnqueueBookingHandler gin.HandlerFunc
	BookingProgress       gin.HandlerFunc

	// Hotel cache endpoints
	SeedTestHotelHandler gin.HandlerFunc
	GetHotelHandler      gin.HandlerFunc
	UpsertHotelHandler   gin.HandlerFunc

	WebhookHandler gin.HandlerFunc
}
