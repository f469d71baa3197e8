// Package config loads the service configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every deployment-tunable setting
type Config struct {
	Addr        string
	DBPath      string
	LogLevel    string
	JWTSecret   string
	LockTimeout time.Duration
}

// Load reads an optional .env file and returns the resulting configuration
func Load() *Config {
	// A missing .env is fine in production; real env vars take precedence.
	_ = godotenv.Load()

	return &Config{
		Addr:        getEnv("HTTP_ADDR", ":8080"),
		DBPath:      getEnv("DB_PATH", "./data"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		LockTimeout: getDuration("LOCK_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
