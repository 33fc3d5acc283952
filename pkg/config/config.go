package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration, loaded from the environment.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Maps          MapsConfig
	Gemini        GeminiConfig
	Seed          SeedConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	RateLimitPerSecond int
	RateLimitBurst     int
	AllowedOrigins     []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
}

type MapsConfig struct {
	APIKey string
}

type GeminiConfig struct {
	APIKey string
}

// SeedConfig controls the per-admin throttle on the seeding endpoint. Seeding
// fans out into paid remote API calls, so the defaults are deliberately tight.
type SeedConfig struct {
	RateLimitWindow time.Duration
	RateLimitMax    int
}

type ObservabilityConfig struct {
	MetricsEnabled bool
	LogLevel       string
}

// Load reads configuration from the environment, consulting .env when present.
func Load() (*Config, error) {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Addr:               envOr("SERVER_ADDR", ":8080"),
			ReadTimeout:        envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:       envDuration("SERVER_WRITE_TIMEOUT", 120*time.Second),
			IdleTimeout:        envDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RateLimitPerSecond: envInt("SERVER_RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     envInt("SERVER_RATE_LIMIT_BURST", 100),
			AllowedOrigins:     []string{envOr("CORS_ALLOWED_ORIGIN", "http://localhost:3000")},
		},
		Database: DatabaseConfig{
			Host:     envOr("DB_HOST", "localhost"),
			Port:     envOr("DB_PORT", "5432"),
			User:     envOr("DB_USER", "postgres"),
			Password: envOr("DB_PASSWORD", "postgres"),
			Name:     envOr("DB_NAME", "tripgennie"),
			SSLMode:  envOr("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Maps: MapsConfig{
			APIKey: os.Getenv("GOOGLE_MAPS_API_KEY"),
		},
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
		},
		Seed: SeedConfig{
			RateLimitWindow: envDuration("SEED_RATE_LIMIT_WINDOW", 5*time.Minute),
			RateLimitMax:    envInt("SEED_RATE_LIMIT_MAX", 1),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: envBool("METRICS_ENABLED", true),
			LogLevel:       envOr("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
