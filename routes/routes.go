package routes

import (
	"net/http"
	"time"

	"staybridge/handlers"
	"staybridge/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute reports the last dependency probe.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		code := http.StatusOK
		state := "ok"
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
			state = "degraded"
		}
		c.JSON(code, gin.H{"status": state, "services": status})
	})
}

// RegisterSupplierRoutes registers the search and prebook passthroughs.
func RegisterSupplierRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/search", hb.SearchHandler)
	api.POST("/hotel", hb.HotelPageHandler)
	api.POST("/prebook", hb.PrebookHandler)
}

// RegisterBookingRoutes sets up the single-step order calls and the orchestrated flow.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	bookingGroup := api.Group("/booking")
	{
		bookingGroup.POST("/create", hb.CreateBookingHandler)
		bookingGroup.POST("/start", hb.StartBookingHandler)
		bookingGroup.POST("/status", hb.BookingStatusHandler)

		bookingGroup.POST("", hb.BookHandler)
		bookingGroup.POST("/async", hb.EnqueueBookingHandler)
		bookingGroup.GET("/:partnerOrderId/progress", hb.BookingProgress)
	}
}

// RegisterHotelRoutes registers the hotel cache endpoints.
func RegisterHotelRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	api.POST("/seed-test-hotel", hb.SeedTestHotelHandler)
	api.GET("/hotels/:id", hb.GetHotelHandler)
	api.PUT("/hotels/:id", hb.UpsertHotelHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)

	api := r.Group("/api")
	RegisterSupplierRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterHotelRoutes(api, hb)
	api.POST("/webhook/booking", hb.WebhookHandler)
}
