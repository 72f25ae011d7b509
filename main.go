package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"handyhub/config"
	"handyhub/cron"
	"handyhub/database"
	"handyhub/database/repository"
	"handyhub/handlers"
	"handyhub/middleware"
	"handyhub/routes"
	"handyhub/services/availability"
	"handyhub/services/booking"
	"handyhub/services/offering"
	"handyhub/services/tasks"
	"handyhub/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	redisClient := utils.GetCacheClient()
	db := database.DB()
	cfg := config.AppConfig

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, redisClient, database.MongoClient)

	// repositories.
	profileRepo := repository.NewMongoAvailabilityRepo(db)
	offeringRepo := repository.NewMongoOfferingRepo(db)
	catalogRepo := repository.NewMongoCatalogRepo(db)
	bookingRepo := repository.NewMongoBookingRepo(db)
	for name, ensure := range map[string]func() error{
		"availability": profileRepo.EnsureIndexes,
		"offering":     offeringRepo.EnsureIndexes,
		"booking":      bookingRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Warn("failed to ensure indexes", zap.String("collection", name), zap.Error(err))
		}
	}

	metrics := utils.NewMetrics()
	validate := utils.NewValidator()
	clock := utils.SystemClock{}

	queueClient := asynq.NewClient(cron.QueueRedisOpt())
	defer queueClient.Close()

	// services.
	availabilityService := &availability.DefaultAvailabilityService{
		Profiles:  profileRepo,
		Offerings: offeringRepo,
		Catalog:   catalogRepo,
		Bookings:  bookingRepo,
		Clock:     clock,
		Settings: availability.Settings{
			MinLeadMinutes:     cfg.MinLeadMinutes,
			DefaultStepMinutes: cfg.DefaultSlotStepMinutes,
			MaxResolveDays:     cfg.MaxResolveDays,
			DefaultTimezone:    cfg.DefaultTimezone,
		},
		Logger:   logger,
		Metrics:  metrics,
		Validate: validate,
	}

	bookingService := &booking.DefaultBookingService{
		Bookings:     bookingRepo,
		Catalog:      catalogRepo,
		Offerings:    offeringRepo,
		Availability: availabilityService,
		Locker:       utils.NewRedisLocker(redisClient),
		Scheduler:    tasks.NewAsynqScheduler(queueClient),
		Clock:        clock,
		Settings: booking.Settings{
			EmergencySurchargeRate: cfg.EmergencySurchargeRate,
			CancellationRequestTTL: time.Duration(cfg.CancellationRequestTTLHours) * time.Hour,
			LockTTL:                time.Duration(cfg.BookingLockTTLSeconds) * time.Second,
		},
		Logger:   logger,
		Metrics:  metrics,
		Validate: validate,
	}

	offeringService := &offering.DefaultOfferingService{
		Offerings:                   offeringRepo,
		Catalog:                     catalogRepo,
		Profiles:                    profileRepo,
		Clock:                       clock,
		DefaultTimezone:             cfg.DefaultTimezone,
		DefaultEmergencyLeadMinutes: cfg.DefaultEmergencyLeadMinutes,
		Logger:                      logger,
		Validate:                    validate,
	}

	worker := cron.InitCancellationWorker(bookingService)

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	offeringHandler := handlers.NewOfferingHandler(offeringService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		ResolveAvailabilityHandler: availabilityHandler.ResolveHandler,
		GetAvailabilityHandler:     availabilityHandler.GetProfileHandler,
		SaveAvailabilityHandler:    availabilityHandler.SaveProfileHandler,

		CreateBookingHandler:       bookingHandler.CreateBookingHandler,
		GetBookingHandler:          bookingHandler.GetBookingHandler,
		ListBookingsHandler:        bookingHandler.ListBookingsHandler,
		UpdateBookingStatusHandler: bookingHandler.UpdateStatusHandler,
		RequestCancellationHandler: bookingHandler.RequestCancellationHandler,
		RespondCancellationHandler: bookingHandler.RespondCancellationHandler,

		ListProviderOfferingsHandler: offeringHandler.ListProviderOfferingsHandler,
		UpdateOfferingHandler:        offeringHandler.UpdateOfferingHandler,
		PublishOfferingHandler:       offeringHandler.PublishOfferingHandler,
		DeleteOfferingHandler:        offeringHandler.DeleteOfferingHandler,
		DeactivateMonthHandler:       offeringHandler.DeactivateMonthHandler,
		ActivateMonthHandler:         offeringHandler.ActivateMonthHandler,

		HealthHandler:  handlers.HealthHandler,
		MetricsHandler: metrics.Handler(),
	}

	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.AccessLog(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))
	routes.RegisterRoutes(router, handlerBundle)

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
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
	logger.Sugar().Info("main: server is shutting down...")

	stop()
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if err := database.MongoClient.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
