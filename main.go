package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"venuebook/config"
	"venuebook/cron"
	"venuebook/database"
	bookingRepoPkg "venuebook/database/repository/booking"
	transactionRepoPkg "venuebook/database/repository/transaction"
	userRepoPkg "venuebook/database/repository/user"
	venueRepoPkg "venuebook/database/repository/venue"
	"venuebook/handlers"
	"venuebook/middleware"
	"venuebook/routes"
	"venuebook/services/booking"
	"venuebook/services/notification"
	"venuebook/services/payment"
	"venuebook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	transactionRepo := transactionRepoPkg.NewMongoTransactionRepo()
	venueRepo := venueRepoPkg.NewMongoVenueRepo(utils.GetCacheClient())
	userRepo := userRepoPkg.NewMongoUserRepo()

	// Task queue client shared by notifications and the payment sweep.
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer taskClient.Close()

	notificationService, err := notification.NewAsynqNotificationService(taskClient, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize notification service: %v", err)
	}

	gateway := payment.NewHTTPGateway(
		config.AppConfig.GatewayBaseURL,
		config.AppConfig.GatewayProductCode,
		time.Duration(config.AppConfig.GatewayTimeoutSecs)*time.Second,
		logger,
	)

	bookingService := booking.NewDefaultBookingService(
		bookingRepo,
		transactionRepo,
		venueRepo,
		gateway,
		notificationService,
		taskClient,
		time.Duration(config.AppConfig.PaymentSweepDelayMins)*time.Minute,
		logger,
	)

	// Background worker: notification fan-out + payment reconciliation sweep.
	cron.InitWorker(userRepo, bookingService, logger)

	// Recover sweeps lost across a restart.
	if err := bookingService.RequeueStaleSweeps(context.Background()); err != nil {
		logger.Warn("failed to requeue stale payment sweeps", zap.Error(err))
	}

	handlerBundle := &routes.HandlerBundle{
		UserRepo: userRepo,
		Booking:  handlers.NewBookingHandler(bookingService, logger),
		Payment:  handlers.NewPaymentHandler(bookingService, logger),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
