package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"mindnest/config"
	"mindnest/cron"
	"mindnest/database"
	bookingRepo "mindnest/database/repository/bookings"
	directoryRepo "mindnest/database/repository/directory"
	profileRepo "mindnest/database/repository/profile"
	"mindnest/handlers"
	"mindnest/middleware"
	"mindnest/routes"
	"mindnest/services/admin"
	"mindnest/services/booking"
	"mindnest/services/calendar"
	"mindnest/services/directory"
	"mindnest/services/identity"
	"mindnest/services/payment"
	"mindnest/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	logger := utils.InitializeLogger(cfg.IsProduction(), cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("main: database unavailable", zap.Error(err))
	}
	db := mongoClient.Database(cfg.DatabaseName)

	sessionCache, err := utils.NewRedisClient(ctx, utils.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisSessionDB,
	})
	if err != nil {
		logger.Fatal("main: redis unavailable", zap.Error(err))
	}
	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}

	// repositories.
	profiles, err := profileRepo.NewMongoProfileRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: profile repository", zap.Error(err))
	}
	bookings, err := bookingRepo.NewMongoBookingRepo(ctx, db)
	if err != nil {
		logger.Fatal("main: booking repository", zap.Error(err))
	}
	var psychologists directoryRepo.DirectoryRepository
	switch cfg.DirectoryBackend {
	case "memory":
		psychologists = directoryRepo.NewMemoryDirectoryRepo(directoryRepo.SeedPsychologists()...)
	default:
		psychologists, err = directoryRepo.NewMongoDirectoryRepo(ctx, db)
		if err != nil {
			logger.Fatal("main: directory repository", zap.Error(err))
		}
	}

	// external services, built once and shared.
	orderService := payment.NewOrderService(payment.NewStripeGateway(cfg.StripeSecretKey, logger), cfg.DefaultCurrency, logger)
	if !orderService.Configured() {
		logger.Warn("STRIPE_SECRET_KEY is not set; order creation will report a configuration error")
	}
	meetings := newMeetingScheduler(ctx, cfg, logger)

	provider, err := newIdentityProvider(ctx, cfg, sessionCache, profiles, logger)
	if err != nil {
		logger.Fatal("main: identity provider", zap.Error(err))
	}

	// services.
	queue := cron.NewScheduleQueue(queueOpts, logger)
	directoryService := directory.NewService(psychologists, logger)
	bookingService := booking.NewBookingService(bookings, orderService, psychologists, meetings, queue, logger).
		WithCurrency(cfg.DefaultCurrency)
	adminService := admin.NewAdminService(bookings, profiles, logger)

	worker := cron.NewWorker(queueOpts, bookingService, logger)
	worker.Start()

	router := gin.New()
	if err := middleware.TrustProxies(router, cfg.Proxies()); err != nil {
		logger.Fatal("main: trusted proxies", zap.Error(err))
	}
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))
	router.Use(middleware.AccessGuard(provider, profiles, middleware.DefaultAuthorizationTable(), logger))

	handlerBundle := &handlers.HandlerBundle{
		Payment:   handlers.NewPaymentHandler(orderService),
		Directory: handlers.NewDirectoryHandler(directoryService),
		Auth:      handlers.NewAuthHandler(provider),
		Booking:   handlers.NewBookingHandler(bookingService),
		Admin:     handlers.NewAdminHandler(adminService),
		Pages:     handlers.NewPagesHandler(adminService, directoryService, cfg.IdentityProvider),
		Health:    handlers.NewHealthHandler(&utils.HealthChecker{Mongo: mongoClient, Redis: sessionCache}),
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.Origins())

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := queue.Close(); err != nil {
		logger.Warn("main: closing queue client", zap.Error(err))
	}
	if err := sessionCache.Close(); err != nil {
		logger.Warn("main: closing redis", zap.Error(err))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Warn("main: closing mongo", zap.Error(err))
	}
	logger.Info("main: server stopped gracefully")
}

// newMeetingScheduler returns nil when calendar credentials are absent; bookings
// are then recorded as scheduling_failed until an admin recovers them.
func newMeetingScheduler(ctx context.Context, cfg *config.Config, logger *zap.Logger) calendar.MeetingScheduler {
	if cfg.GoogleCredentialsFile == "" {
		logger.Warn("GOOGLE_CREDENTIALS_FILE is not set; sessions cannot be scheduled")
		return nil
	}
	svc, err := calendar.NewClient(ctx, calendar.ClientOptions{
		CredentialsFile:  cfg.GoogleCredentialsFile,
		ImpersonateEmail: cfg.GoogleImpersonateEmail,
	})
	if err != nil {
		logger.Error("Calendar client unavailable", zap.Error(err))
		return nil
	}
	return calendar.NewScheduler(svc, cfg.GoogleCalendarID, cfg.CalendarTimezone, logger)
}

func newIdentityProvider(ctx context.Context, cfg *config.Config, cache *redis.Client, profiles profileRepo.ProfileRepository, logger *zap.Logger) (identity.Provider, error) {
	switch cfg.IdentityProvider {
	case "firebase":
		client, err := identity.NewFirebaseAuthClient(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			return nil, err
		}
		return identity.NewFirebaseProvider(client, cfg.SessionCookieSecure, logger), nil
	default:
		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			logger.Warn("JWT_SECRET is not set; using a random secret, sessions end on restart")
		}
		signer := utils.NewTokenSigner(secret)
		return identity.NewLocalProvider(signer, identity.NewRedisRefreshStore(cache), profiles, cfg.SessionCookieSecure, logger), nil
	}
}
