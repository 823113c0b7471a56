// File: nexusschedule/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nexusschedule/config"
	"nexusschedule/cron"
	"nexusschedule/database"
	appointmentRepoPkg "nexusschedule/database/repository/appointment"
	notificationRepoPkg "nexusschedule/database/repository/notification"
	providerRepoPkg "nexusschedule/database/repository/provider"
	userRepoPkg "nexusschedule/database/repository/user"
	"nexusschedule/handlers"
	"nexusschedule/middleware"
	"nexusschedule/routes"
	"nexusschedule/services/intent"
	"nexusschedule/services/notification"
	"nexusschedule/services/realtime"
	"nexusschedule/services/scheduling"
	"nexusschedule/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	// repositories.
	apptRepo := appointmentRepoPkg.NewMongoAppointmentRepo()
	provRepo := providerRepoPkg.NewMongoProviderRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()
	notifRepo := notificationRepoPkg.NewMongoNotificationRepo()

	// realtime hub.
	hub := realtime.NewHub(logger)

	// notification fanout.
	var push notification.PushSender
	if config.AppConfig.FirebaseCredentialsFile != "" {
		push = notification.FCMSender{}
	}
	var sms notification.SMSSender = notification.NoopSMSSender{}
	if config.AppConfig.SMSWebhookURL != "" {
		sms = notification.NewWebhookSMSSender(config.AppConfig.SMSWebhookURL, config.AppConfig.SMSToken)
	}
	fanout := notification.NewDefaultFanout(
		notifRepo,
		userRepo,
		hub,
		notification.NewSMTPSender(config.AppConfig.SMTPHost, config.AppConfig.SMTPPort, config.AppConfig.SMTPFrom),
		sms,
		push,
		logger,
	)

	// scheduling engine.
	index := &scheduling.SlotIndex{Repo: apptRepo}
	machine := &scheduling.StateMachine{Repo: apptRepo, Logger: logger}
	planner := &scheduling.Planner{
		Index:         index,
		Providers:     provRepo,
		MaxCandidates: config.AppConfig.PlannerCandidates,
		HorizonDays:   config.AppConfig.PlannerHorizonDays,
		Timeout:       time.Duration(config.AppConfig.PlannerTimeoutMS) * time.Millisecond,
		Logger:        logger,
	}
	resolver := &scheduling.ConflictResolver{
		Machine:   machine,
		Planner:   planner,
		Providers: provRepo,
		Policy: scheduling.Policy{
			AutoConfirmHighUrgency:           config.AppConfig.AutoConfirmHighUrgency,
			AutoSelectHighUrgencyAlternative: config.AppConfig.AutoSelectHighUrgencyAlternative,
			MaxAttempts:                      config.AppConfig.BookingRetryAttempts,
			RetryBackoff:                     time.Duration(config.AppConfig.BookingRetryBackoffMS) * time.Millisecond,
		},
		Notifier: fanout,
		Logger:   logger,
	}

	// intent extraction: model-backed when a key is configured, keyword
	// fallback otherwise.
	var intentSvc intent.Service = &intent.KeywordExtractor{}
	if config.AppConfig.GeminiAPIKey != "" {
		extractor, err := intent.NewGeminiExtractor(config.AppConfig.GeminiAPIKey, logger)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize intent extractor: %v", err)
		}
		intentSvc = extractor
	}

	// reminder machinery.
	dispatch, err := cron.NewReminderDispatcher()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize reminder dispatcher: %v", err)
	}
	sweeper := &notification.Sweeper{
		Appointments: apptRepo,
		Marker:       &notification.RedisMarker{Client: utils.GetCacheClient()},
		Dispatch:     dispatch,
		WindowHours:  config.AppConfig.ReminderWindowHours,
		Logger:       logger,
	}
	cron.InitReminderWorker(apptRepo, fanout, sweeper, logger)
	cron.InitReminderScheduler(logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Appointments:  apptRepo,
		Providers:     provRepo,
		Notifications: notifRepo,
		Resolver:      resolver,
		Machine:       machine,
		Index:         index,
		Fanout:        fanout,
		Hub:           hub,
		Intent:        intentSvc,
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
