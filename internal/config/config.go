// Package config loads application configuration from environment
// variables.  A .env file is honoured when present so local runs do
// not need an exported environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Only the port and JWT secret
// are required; everything else has a sensible default so the service
// boots with an empty environment apart from those two.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
	AdminEmail   string // bootstrap admin account email (empty disables)
	AdminPass    string // bootstrap admin account password

	PaymentFailureRate float64       // fraction of charges the simulator rejects
	MaxHold            time.Duration // upper bound on the hold_ms booking parameter

	SeatCacheTTL time.Duration // TTL for cached seat-availability responses
	RateLimit    RateLimitConfig
}

// RateLimitConfig drives the Redis fixed-window limiter on the booking
// endpoint.  When Redis is unavailable the limiter disables itself.
type RateLimitConfig struct {
	Enabled bool
	Limit   int           // requests allowed per window
	Window  time.Duration // window length
	Prefix  string        // key namespace in Redis
}

// Load reads configuration values from the environment and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Env:          getenv("APP_ENV", "dev"),
		Port:         must("APP_PORT"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: atoi(getenv("ACCESS_TOKEN_TTL_MIN", "30")),
		BcryptCost:   atoi(getenv("BCRYPT_COST", "10")),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),
		AdminPass:    os.Getenv("ADMIN_PASSWORD"),

		PaymentFailureRate: atof(getenv("PAYMENT_FAILURE_RATE", "0.05")),
		MaxHold:            parseDur(getenv("BOOKING_MAX_HOLD", "10s")),

		SeatCacheTTL: parseDur(getenv("SEAT_CACHE_TTL", "2s")),
		RateLimit: RateLimitConfig{
			Enabled: getenv("RATELIMIT_ENABLED", "true") == "true",
			Limit:   atoi(getenv("RATELIMIT_LIMIT", "20")),
			Window:  parseDur(getenv("RATELIMIT_WINDOW", "1s")),
			Prefix:  getenv("RATELIMIT_PREFIX", "rl"),
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and
// exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
