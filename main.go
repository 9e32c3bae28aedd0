package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"junkbutler/config"
	"junkbutler/cron"
	"junkbutler/database"
	bookingRepo "junkbutler/database/repository/bookings"
	listingRepo "junkbutler/database/repository/listings"
	"junkbutler/handlers"
	"junkbutler/middleware"
	"junkbutler/models"
	"junkbutler/routes"
	"junkbutler/services/booking"
	"junkbutler/services/estimate"
	ai "junkbutler/services/intelligence"
	"junkbutler/services/marketplace"
	"junkbutler/services/notification"
	"junkbutler/services/storage"
	"junkbutler/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()
	cfg := config.AppConfig
	loc := config.Location()

	if err := database.InitDB(); err != nil {
		logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
	}
	sessionCache, err := utils.GetSessionCacheClient()
	if err != nil {
		logger.Fatal("main: failed to connect to Redis", zap.Error(err))
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()
	utils.StartHealthMonitor(rootCtx, 30*time.Second, sessionCache, database.MongoClient)

	photoStore, err := storage.NewPhotoStore(cfg)
	if err != nil {
		logger.Fatal("main: failed to initialize photo storage", zap.Error(err))
	}
	if ms, ok := photoStore.(*storage.MinioStore); ok {
		if err := ms.EnsureBucket(rootCtx); err != nil {
			logger.Warn("main: photo bucket unavailable", zap.Error(err))
		}
	}
	logger.Info("main: photo storage ready", zap.String("store", photoStore.Name()))

	// repositories.
	bookings := bookingRepo.NewMongoBookingRepo()
	listings := listingRepo.NewMongoListingRepo()

	// background tasks.
	queue := asynq.NewClient(cron.QueueRedisOpt())
	defer queue.Close()

	// services.
	var submitter booking.Submitter = &booking.MockSubmitter{Delay: 1500 * time.Millisecond, Logger: logger}
	if cfg.WorkizEnabled {
		workiz, err := booking.NewWorkizSubmitter(cfg.WorkizAPIURL, cfg.WorkizAPIKey, nil)
		if err != nil {
			logger.Fatal("main: Workiz is enabled but not configured", zap.Error(err))
		}
		submitter = workiz
	}
	bookingService := booking.NewBookingService(submitter, bookings, queue,
		booking.ServiceArea{Prefixes: cfg.ServiceAreaPrefixes}, loc, logger.Named("booking"))

	marketplaceService := marketplace.NewMarketplaceService(listings, logger.Named("marketplace"))

	streamer := ai.NewStreamer(rootCtx, ai.ProviderConfig{
		Provider:     cfg.AIProvider,
		XAIAPIKey:    cfg.XAIAPIKey,
		XAIBaseURL:   cfg.XAIBaseURL,
		XAIModel:     cfg.XAIModel,
		GeminiAPIKey: cfg.GeminiAPIKey,
		GeminiModel:  cfg.GeminiModel,
	}, logger.Named("ai"))

	estimateLogger := logger.Named("estimate")
	bridge := estimate.NewBridge(handoff(estimateLogger), estimateLogger,
		estimate.WithGuidedPrice(cfg.GuidedPrice),
		estimate.WithLocation(loc),
	)
	guided := estimate.NewGuidedEngine(bridge, estimate.DefaultDelays)
	conversation := estimate.NewConversation(streamer, bridge, guided, estimateLogger,
		estimate.WithMaxTurns(cfg.AIMaxTurns),
	)
	estimateService := estimate.NewEstimateService(
		estimate.NewRedisStore(sessionCache, config.EstimateTTL()), guided, conversation, estimateLogger)

	stopWorker := cron.InitWorker(&cron.Handlers{
		Bookings:    bookings,
		Mailer:      notification.NewMailer(cfg, logger.Named("mail")),
		Marketplace: marketplaceService,
		Now:         time.Now,
		Logger:      logger,
	})
	defer stopWorker()

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewEstimateHandler(estimateService, photoStore),
		handlers.NewBookingHandler(bookingService),
		handlers.NewMarketplaceHandler(marketplaceService),
		handlers.NewAdminHandler(bookingService, cfg.AdminEmail, cfg.AdminPasswordHash),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	stop()
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: MongoDB disconnect failed", zap.Error(err))
	}
	_ = sessionCache.Close()

	logger.Sugar().Info("main: server stopped gracefully")
}

// handoff logs the booking draft each completed estimate produces.
func handoff(logger *zap.Logger) estimate.CompletionFunc {
	return func(ctx context.Context, est models.CompletedEstimate) error {
		draft := booking.DraftFromEstimate(est)
		logger.Info("estimate: ready for booking",
			zap.String("session", est.SessionID),
			zap.String("source", est.Source),
			zap.String("date", draft.Date),
			zap.String("timeSlot", draft.TimeSlot),
			zap.String("zip", draft.ZipCode))
		return nil
	}
}
