package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"

	"github.com/openride/rideshare-backend/internal/config"
	"github.com/openride/rideshare-backend/internal/database"
	"github.com/openride/rideshare-backend/internal/handlers"
	"github.com/openride/rideshare-backend/internal/middleware"
	"github.com/openride/rideshare-backend/internal/services"
	"github.com/openride/rideshare-backend/pkg/dispatch"
	"github.com/openride/rideshare-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting OpenRide Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	userRepo := database.NewUserRepository(db)
	rideRepo := database.NewRideRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	paymentRepo := database.NewPaymentRepository(db)
	walletRepo := database.NewWalletRepository(db)
	feedbackRepo := database.NewFeedbackRepository(db)
	notificationRepo := database.NewNotificationRepository(db)
	safetyRepo := database.NewSafetyCheckRepository(db)
	documentRepo := database.NewDriverDocumentRepository(db)
	vehicleRepo := database.NewVehicleRepository(db)
	scheduleRepo := database.NewRideScheduleRepository(db)

	// Optional message broker for notification fan-out
	var publisher dispatch.Publisher
	if cfg.AMQP.URL != "" {
		amqpPublisher, err := dispatch.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.WithError(err).Warn("Broker unavailable, notifications are stored only")
		} else {
			publisher = amqpPublisher
			defer amqpPublisher.Close()
			logger.Info("Notification broker connected")
		}
	}

	// Initialize services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	pricingService := services.NewPricingService(cfg.Pricing.DefaultSpeedKmh)
	notificationService := services.NewNotificationService(notificationRepo, safetyRepo, publisher, logger)
	rideService := services.NewRideService(
		rideRepo, bookingRepo, documentRepo, vehicleRepo, safetyRepo, notificationService, logger,
	)
	bookingService := services.NewBookingService(
		bookingRepo, rideRepo, pricingService, notificationService, logger,
	)
	scheduleService := services.NewScheduleService(scheduleRepo, rideRepo, logger)

	cronService := services.NewCronService(scheduleService, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, feedbackRepo, jwtService, logger)
	rideHandler := handlers.NewRideHandler(rideService, pricingService, scheduleRepo, logger)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	paymentHandler := handlers.NewPaymentHandler(paymentRepo, walletRepo, bookingRepo)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, bookingRepo, rideRepo, userRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	driverHandler := handlers.NewDriverHandler(documentRepo, vehicleRepo, scheduleService)
	adminHandler := handlers.NewAdminHandler(documentRepo, vehicleRepo, userRepo, notificationService, logger)

	// Set up router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "ok"
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unreachable"
		}
		c.JSON(status, gin.H{
			"status":   "ok",
			"version":  version,
			"database": dbStatus,
		})
	})

	api := router.Group("/api")
	{
		// Public auth routes; /me requires a token
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthMiddleware(jwtService), authHandler.Me)
			auth.PUT("/me", middleware.AuthMiddleware(jwtService), authHandler.UpdateProfile)
		}

		// Public ride and feedback reads
		publicRides := api.Group("/rides")
		{
			publicRides.GET("/search", rideHandler.Search)
			publicRides.GET("/estimate", rideHandler.Estimate)
			publicRides.GET("/eta", rideHandler.ETA)
			publicRides.GET("/:id", rideHandler.Get)
			publicRides.GET("/:id/waypoints", rideHandler.ListWaypoints)
			publicRides.GET("/:id/feedback", feedbackHandler.ListByRide)
		}
		publicFeedback := api.Group("/feedback")
		{
			publicFeedback.GET("/:id", feedbackHandler.ListByRide)
			publicFeedback.GET("/user/:id", feedbackHandler.ListByUser)
		}

		// Authenticated routes
		authed := api.Group("")
		authed.Use(middleware.AuthMiddleware(jwtService))
		{
			authed.PUT("/users/me/location", authHandler.UpdateLocation)

			rides := authed.Group("/rides")
			rides.Use(middleware.RequireDriver())
			{
				rides.POST("/create", rideHandler.Create)
				rides.GET("/my-rides", rideHandler.MyRides)
				rides.PUT("/:id", rideHandler.Update)
				rides.PUT("/:id/status", rideHandler.UpdateStatus)
				rides.POST("/:id/waypoints", rideHandler.AddWaypoint)
				rides.GET("/:id/bookings", bookingHandler.ListByRide)
				rides.POST("/schedule", driverHandler.CreateSchedule)
				rides.GET("/schedule/my", driverHandler.MySchedules)
				rides.PUT("/schedule/:id", driverHandler.SetScheduleActive)
			}

			bookings := authed.Group("/bookings")
			{
				bookings.POST("", bookingHandler.Create)
				bookings.GET("/mine", bookingHandler.MyBookings)
				bookings.GET("/:id", bookingHandler.Get)
				bookings.PUT("/:id/cancel", bookingHandler.Cancel)
				bookings.GET("/:id/payment", paymentHandler.GetByBooking)

				driverOnly := bookings.Group("")
				driverOnly.Use(middleware.RequireDriver())
				{
					driverOnly.PUT("/:id/confirm", bookingHandler.Confirm)
					driverOnly.PUT("/:id/status", bookingHandler.UpdateStatus)
				}
			}

			payments := authed.Group("/payments")
			{
				payments.POST("", paymentHandler.Create)
				payments.GET("", paymentHandler.History)
			}

			wallet := authed.Group("/wallet")
			{
				wallet.GET("", paymentHandler.Wallet)
				wallet.POST("/topup", paymentHandler.TopUp)
				wallet.GET("/transactions", paymentHandler.Transactions)
			}

			feedback := authed.Group("/feedback")
			{
				feedback.POST("/add", feedbackHandler.Create)
				feedback.GET("/mine", feedbackHandler.MyFeedback)
				feedback.GET("/driver/my", middleware.RequireDriver(), feedbackHandler.ReceivedFeedback)
			}
			authed.GET("/drivers/:id/rating", feedbackHandler.DriverRating)

			notifications := authed.Group("/notifications")
			{
				notifications.GET("", notificationHandler.List)
				notifications.GET("/unread-count", notificationHandler.UnreadCount)
				notifications.PUT("/mark-all-read", notificationHandler.MarkAllRead)
				notifications.PUT("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/:id/ack-safety", notificationHandler.AckSafety)
			}

			driver := authed.Group("/driver")
			driver.Use(middleware.RequireDriver())
			{
				driver.POST("/documents", driverHandler.UploadDocument)
				driver.GET("/documents", driverHandler.MyDocuments)
				driver.POST("/vehicles", driverHandler.RegisterVehicle)
				driver.GET("/vehicles", driverHandler.MyVehicles)
			}

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireAdmin())
			{
				admin.GET("/documents/pending", adminHandler.PendingDocuments)
				admin.GET("/documents/driver/:id", adminHandler.DriverDocuments)
				admin.PUT("/documents/:id/approve", adminHandler.ReviewDocument)
				admin.GET("/vehicles/pending", adminHandler.PendingVehicles)
				admin.PUT("/vehicles/:id/approve", adminHandler.ReviewVehicle)
				admin.GET("/drivers", adminHandler.ListDrivers)
				admin.POST("/broadcast", adminHandler.Broadcast)
				admin.GET("/notifications", notificationHandler.List)
				admin.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
			}
		}
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Infof("Server listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}
	logger.Info("Server stopped")
}

// requestLogger logs each request with latency and client platform info
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ua := user_agent.New(c.Request.UserAgent())
		browser, _ := ua.Browser()

		logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"ip":       c.ClientIP(),
			"platform": ua.Platform(),
			"browser":  browser,
			"mobile":   ua.Mobile(),
		}).Info("Request handled")
	}
}
