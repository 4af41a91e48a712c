// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the server needs at startup. Values come from
// the environment, with a .env file loaded first when present.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string

	JWTSecret string
	JWTTTL    time.Duration

	MaxImageMB     int
	AllowedOrigins []string

	RateLimit       int
	RateLimitWindow time.Duration

	SweepInterval time.Duration

	AdminEmail    string
	AdminPassword string
	AdminName     string

	Production bool
}

// LoadConfig reads the environment into a Config and validates it.
func LoadConfig() (Config, error) {
	// Missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:            envOr("PORT", "5000"),
		MongoURI:        envOr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   envOr("MONGODB_DATABASE", "krushivarsa"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          envDuration("JWT_EXPIRE", 30*24*time.Hour),
		MaxImageMB:      envInt("MAX_IMAGE_MB", 5),
		RateLimit:       envInt("RATE_LIMIT", 100),
		RateLimitWindow: envDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
		SweepInterval:   envDuration("SWEEP_INTERVAL", time.Hour),
		AdminEmail:      os.Getenv("ADMIN_EMAIL"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		AdminName:       envOr("ADMIN_NAME", "System Admin"),
		Production:      envOr("GO_ENV", "development") == "production",
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"*"}
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations that cannot serve.
func (c Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.MongoURI == "" {
		return errors.New("MONGODB_URI must be set")
	}
	if c.MaxImageMB <= 0 {
		return fmt.Errorf("MAX_IMAGE_MB must be positive, got %d", c.MaxImageMB)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT must be positive, got %d", c.RateLimit)
	}
	if c.SweepInterval <= 0 {
		return errors.New("SWEEP_INTERVAL must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
