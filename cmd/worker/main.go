package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/staybooking/config"
	"github.com/Domenick1991/staybooking/internal/cache"
	"github.com/Domenick1991/staybooking/internal/email"
	"github.com/Domenick1991/staybooking/internal/kafka"
	"github.com/Domenick1991/staybooking/internal/logger"
	"github.com/Domenick1991/staybooking/internal/repository"
	"github.com/Domenick1991/staybooking/internal/service/booking"
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
	log := logger.New(cfg.Log).WithField("component", "worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	var bookingCache booking.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.AvailabilityCacheTTL())
		defer redisCache.Close()
		bookingCache = redisCache
	}

	bookingService := booking.NewBookingService(
		repository.NewBookingRepository(pool),
		repository.NewPlaceRepository(pool),
		repository.NewUserRepository(pool),
		bookingCache,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLocation(cfg.Booking.Location()),
		booking.WithLogger(log),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := email.NewSender(email.LogTransport{Log: log.WithField("transport", "log")}, log)

	go func() {
		if err := consumer.Consume(ctx, sender.Send); err != nil {
			log.WithError(err).Error("consumer stopped")
		}
	}()

	sweep := time.NewTicker(time.Duration(cfg.Worker.CompletionSweepMinutes) * time.Minute)
	defer sweep.Stop()

	log.WithField("every_minutes", cfg.Worker.CompletionSweepMinutes).Info("completion sweep scheduled")
	for {
		select {
		case <-sweep.C:
			if _, err := bookingService.CompleteElapsedBookings(ctx); err != nil {
				log.WithError(err).Error("complete elapsed bookings")
			}
		case <-ctx.Done():
			log.Info("shutting down")
			return
		}
	}
}
