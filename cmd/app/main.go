package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/staybooking/api"
	"github.com/Domenick1991/staybooking/config"
	"github.com/Domenick1991/staybooking/internal/bootstrap"
	"github.com/Domenick1991/staybooking/internal/cache"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/Domenick1991/staybooking/internal/service/booking"
	"github.com/Domenick1991/staybooking/internal/service/comments"
	"github.com/Domenick1991/staybooking/internal/service/places"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	bookingRepo := repository.NewBookingRepository(pool)
	placeRepo := repository.NewPlaceRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	healthChecks := []api.HealthCheck{{Name: "postgres", Check: pool.Ping}}

	// Interfaces stay nil without Redis so the services skip caching and request locks.
	var (
		bookingCache booking.Cache
		placeCache   places.Cache
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.AvailabilityCacheTTL())
		defer redisCache.Close()
		bookingCache, placeCache = redisCache, redisCache
		healthChecks = append(healthChecks, api.HealthCheck{Name: "redis", Check: redisCache.Ping})
	} else {
		log.Warn("redis not configured, availability cache and request lock disabled")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.WithError(err).Warn("kafka unreachable, events will be dropped until it recovers")
	}

	bookingService := booking.NewBookingService(
		bookingRepo,
		placeRepo,
		userRepo,
		bookingCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithCancellationWindow(cfg.Booking.CancellationWindow()),
		booking.WithRequestLockTTL(cfg.Booking.RequestLockTTL()),
		booking.WithMaxPageSize(cfg.Booking.MaxPageSize),
		booking.WithLocation(cfg.Booking.Location()),
		booking.WithLogger(log.WithField("service", "booking")),
	)
	placeService := places.NewPlaceService(placeRepo, bookingRepo, commentRepo, placeCache,
		places.WithLogger(log.WithField("service", "places")))
	commentService := comments.NewCommentService(commentRepo, bookingRepo, placeRepo, userRepo, producer,
		cfg.Kafka.NotificationsTopic, comments.WithLogger(log.WithField("service", "comments")))

	router := api.NewRouter(api.RouterConfig{
		Bookings:                  bookingService,
		Places:                    placeService,
		Comments:                  commentService,
		JWTSecret:                 cfg.Auth.JWTSecret,
		StrictAuthorizationStatus: cfg.HTTP.StrictAuthorizationStatus,
		RequestTimeout:            time.Duration(cfg.HTTP.RequestTimeoutSeconds) * time.Second,
		SwaggerDir:                cfg.HTTP.SwaggerDir,
		HealthChecks:              healthChecks,
		Log:                       log,
	})

	if err := bootstrap.Run(ctx, cfg, router, log); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
