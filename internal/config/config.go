package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DSN       string
	JWTSecret string
	AppPort   string
	LogMode   string

	BasePath       string
	BaseURL        string
	AllowedOrigins []string
	SessionTTL     time.Duration
	SecureCookie   bool

	RatingThreshold  float64
	CentralThreshold float64

	Seed          bool
	AdminEmail    string
	AdminPassword string
}

func Load() Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ .env file not found, using system environment variables")
	} else {
		log.Println("✅ .env file loaded successfully!")
	}

	cfg, err := FromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	return cfg
}

// FromEnv builds a Config from getenv, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		DBDriver:      strings.ToLower(get("DB_DRIVER", "mysql")),
		DSN:           get("DB_DSN", getenv("MYSQL_DSN")),
		JWTSecret:     get("JWT_SECRET", "dev-secret-only"),
		AppPort:       get("APP_PORT", "8080"),
		LogMode:       get("LOG_MODE", "dev"),
		BasePath:      "/" + strings.Trim(get("API_BASE_PATH", "/api"), "/"),
		BaseURL:       strings.TrimRight(get("PUBLIC_BASE_URL", "http://localhost"), "/"),
		AdminEmail:    get("SEED_ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: get("SEED_ADMIN_PASSWORD", "admin12345"),
	}
	if cfg.BasePath == "/" {
		cfg.BasePath = ""
	}
	if cfg.DSN == "" {
		return Config{}, errors.New("DB_DSN not set in environment")
	}

	for _, o := range strings.Split(get("CORS_ALLOWED_ORIGINS", "http://localhost"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(get("SESSION_TTL", "168h")); err != nil {
		return Config{}, fmt.Errorf("SESSION_TTL: %w", err)
	}
	if cfg.SecureCookie, err = strconv.ParseBool(get("SECURE_COOKIE", "false")); err != nil {
		return Config{}, fmt.Errorf("SECURE_COOKIE: %w", err)
	}
	if cfg.Seed, err = strconv.ParseBool(get("SEED", "false")); err != nil {
		return Config{}, fmt.Errorf("SEED: %w", err)
	}
	if cfg.RatingThreshold, err = strconv.ParseFloat(get("RANKING_RATING_THRESHOLD", "2.5"), 64); err != nil {
		return Config{}, fmt.Errorf("RANKING_RATING_THRESHOLD: %w", err)
	}
	if cfg.CentralThreshold, err = strconv.ParseFloat(get("RANKING_CENTRAL_THRESHOLD", "50"), 64); err != nil {
		return Config{}, fmt.Errorf("RANKING_CENTRAL_THRESHOLD: %w", err)
	}

	return cfg, nil
}
