package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/concert-ticket-booking/internal/booking"
	"github.com/iliyamo/concert-ticket-booking/internal/cache"
	"github.com/iliyamo/concert-ticket-booking/internal/config"
	"github.com/iliyamo/concert-ticket-booking/internal/handler"
	"github.com/iliyamo/concert-ticket-booking/internal/middleware"
	"github.com/iliyamo/concert-ticket-booking/internal/repository"
	"github.com/iliyamo/concert-ticket-booking/internal/router"
)

func main() {
	cfg := config.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	if cfg.Env == "dev" {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Core: explicitly constructed engine with injected directory,
	// lock registry and payment step.
	directory := booking.NewDirectory()
	locks := booking.NewLockRegistry()
	payment := booking.NewGatewaySimulator(cfg.PaymentFailureRate, time.Now().UnixNano())
	engine := booking.NewEngine(directory, locks, payment, logger)

	users := repository.NewUserStore(cfg.BcryptCost)
	if cfg.AdminEmail != "" && cfg.AdminPass != "" {
		if _, err := users.Create(cfg.AdminEmail, cfg.AdminPass, "ADMIN"); err != nil {
			log.Fatalf("failed to bootstrap admin account: %v", err)
		}
	}

	// Redis is optional; a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logger.Warn("redis unavailable, seat cache and rate limiting disabled")
	}
	seatCache := cache.NewSeatCache(rdb, cfg.SeatCacheTTL)

	authH := handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin)
	adminH := handler.NewAdminHandler(directory)
	publicH := handler.NewPublicHandler(directory, seatCache)
	bookingH := handler.NewBookingHandler(engine, directory, seatCache, cfg.MaxHold)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, authH, publicH)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)
	router.RegisterBooking(e, bookingH, authH, cfg.JWTSecret, middleware.NewRateLimit(cfg.RateLimit, rdb))

	addr := ":" + cfg.Port
	logger.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
