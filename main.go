package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybridge/config"
	"staybridge/database"
	hotelRepo "staybridge/database/repository/hotel"
	"staybridge/handlers"
	"staybridge/middleware"
	"staybridge/routes"
	"staybridge/services/booking"
	"staybridge/services/hotel"
	"staybridge/services/supplier"
	"staybridge/utils"
	"staybridge/worker"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB(logger)
	sessionCache := utils.GetSessionCacheClient()

	// repositories.
	hotels, err := hotelRepo.NewMongoHotelRepo(database.Database())
	if err != nil {
		logger.Fatal("main: failed to initialize hotel repository", zap.Error(err))
	}

	// services.
	supplierClient := supplier.NewClient(supplier.Config{
		BaseURL:        config.AppConfig.ETGBaseURL,
		KeyID:          config.AppConfig.ETGKeyID,
		APIKey:         config.AppConfig.ETGAPIKey,
		Timeout:        config.AppConfig.ETGTimeout,
		RequestsPerSec: config.AppConfig.ETGRequestsPerSec,
	}, logger)

	orchestrator := booking.NewOrchestrator(supplierClient, logger,
		booking.WithPollInterval(config.AppConfig.BookingPollInterval),
		booking.WithMaxPollAttempts(config.AppConfig.BookingMaxPollAttempts),
		booking.WithCallTimeout(config.AppConfig.ETGTimeout),
	)

	queue := asynq.NewClient(worker.RedisOpt())
	defer queue.Close()

	bookingService := &booking.DefaultBookingService{
		Orchestrator: orchestrator,
		Sessions:     booking.NewRedisSessionStore(sessionCache, config.AppConfig.BookingSessionTTL),
		Queue:        queue,
		Logger:       logger.Named("booking_service"),
	}
	hotelService := &hotel.DefaultHotelService{
		Repo:   hotels,
		Logger: logger.Named("hotel"),
	}

	bookingWorker := worker.New(bookingService, logger)
	bookingWorker.Start()

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, sessionCache, database.MongoClient, 30*time.Second)

	supplierHandler := handlers.NewSupplierHandler(supplierClient)
	bookingHandler := handlers.NewBookingHandler(supplierClient, bookingService)
	hotelHandler := handlers.NewHotelHandler(hotelService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		SearchHandler:    supplierHandler.SearchHandler,
		HotelPageHandler: supplierHandler.HotelPageHandler,
		PrebookHandler:   supplierHandler.PrebookHandler,

		CreateBookingHandler:  bookingHandler.CreateBookingHandler,
		StartBookingHandler:   bookingHandler.StartBookingHandler,
		BookingStatusHandler:  bookingHandler.BookingStatusHandler,
		BookHandler:           bookingHandler.BookHandler,
		EnqueueBookingHandler: bookingHandler.EnqueueBookingHandler,
		BookingProgress:       bookingHandler.BookingProgressHandler,

		SeedTestHotelHandler: hotelHandler.SeedTestHotelHandler,
		GetHotelHandler:      hotelHandler.GetHotelHandler,
		UpsertHotelHandler:   hotelHandler.UpsertHotelHandler,

		WebhookHandler: handlers.BookingWebhookHandler,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	// Synchronous bookings in flight may poll for the full window.
	grace := config.AppConfig.BookingPollInterval*time.Duration(config.AppConfig.BookingMaxPollAttempts) + 30*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	bookingWorker.Shutdown()
	stopMonitor()

	if err := database.CloseDB(context.Background()); err != nil {
		logger.Warn("main: failed to disconnect from MongoDB", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}
