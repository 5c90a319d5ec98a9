package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"venuebook/internal/config"
	"venuebook/internal/database"
	"venuebook/internal/logging"
	"venuebook/internal/middleware"
	"venuebook/internal/modules/agent"
	"venuebook/internal/modules/availability"
	"venuebook/internal/modules/booking"
	"venuebook/internal/modules/inquiry"
	"venuebook/internal/modules/modification"
	"venuebook/internal/modules/notification"
	jwtsvc "venuebook/internal/pkg/jwt"
	"venuebook/internal/realtime"
	"venuebook/internal/repository"
)

const completionSweepInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	venueRepo := repository.NewVenueRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	modificationRepo := repository.NewModificationRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	hub := realtime.NewHub(log)

	notificationService := notification.NewService(notificationRepo, log)
	gate := availability.NewGate(bookingRepo, venueRepo)

	bookingService := booking.NewService(
		bookingRepo,
		venueRepo,
		gate,
		notificationService,
		inquiryRepo,
		hub,
		log,
	)
	modificationService := modification.NewService(
		modificationRepo,
		bookingRepo,
		venueRepo,
		notificationService,
		hub,
		log,
	)
	inquiryService := inquiry.NewService(inquiryRepo, venueRepo, notificationService, log)

	llm := agent.NewOpenAICompleter(cfg.OpenAIAPIKey)
	agentService := agent.NewService(
		conversationRepo,
		venueRepo,
		gate,
		bookingService,
		modificationService,
		llm,
		cfg.OpenAIModel,
		log,
	)

	bookingHandler := booking.NewHandler(bookingService)
	modificationHandler := modification.NewHandler(modificationService)
	availabilityHandler := availability.NewHandler(gate, venueRepo)
	inquiryHandler := inquiry.NewHandler(inquiryService)
	notificationHandler := notification.NewHandler(notificationService)
	agentHandler := agent.NewHandler(agentService)
	topicAccess := realtime.NewTopicAccess(bookingRepo, venueRepo, conversationRepo)
	wsHandler := realtime.NewWSHandler(hub, j, topicAccess)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", wsHandler.HandleWebSocket)

	v1 := r.Group("/api/v1")
	{
		// public
		availabilityHandler.RegisterRoutes(v1)
		inquiryHandler.RegisterRoutes(v1)

		// optional auth: the agent serves anonymous visitors, and the
		// confirmation page reads a booking by verification token
		optional := v1.Group("/")
		optional.Use(middleware.OptionalAuth(j))
		bookingHandler.RegisterPublicRoutes(optional)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected, limiter.Middleware())
			modificationHandler.RegisterRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}

		agentHandler.RegisterRoutes(optional, protected, limiter.Middleware())
	}

	go completionSweep(bookingService, log)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
	hub.Close()
}

// completionSweep periodically advances accepted bookings whose event date
// has passed into the completed state.
func completionSweep(bookings *booking.Service, log zerolog.Logger) {
	ticker := time.NewTicker(completionSweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := bookings.CompletePastBookings(ctx, time.Now())
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("completion sweep failed")
			continue
		}
		if n > 0 {
			log.Info().Int64("completed", n).Msg("bookings completed")
		}
	}
}
