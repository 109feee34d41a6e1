package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// AppName is used for the XDG config directory.
const AppName = "connect4"

type Config struct {
	Port            string
	AllowedOrigins  []string
	FrontendURL     string
	RedisURL        string
	RedisPassword   string
	SessionIdleTTL  time.Duration
	FinishedTTL     time.Duration
	CleanupInterval time.Duration
	LogLevel        string
}

// LoadEnvFiles loads .env from the working directory (or its parent) and
// then $XDG_CONFIG_HOME/connect4/config.env. Variables already present in
// the environment are never overwritten.
func LoadEnvFiles() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			logrus.Debug("No .env file found")
		}
	}

	if path, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.env")); err == nil {
		if err := godotenv.Load(path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("Failed to load config file")
		} else {
			logrus.WithField("path", path).Debug("Loaded config file")
		}
	}
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:8080")
	allowedOriginsStr := GetEnv("ALLOWED_ORIGINS", "")

	// Build allowed origins list (Frontend URL + Localhost + CSV values)
	allowedOrigins := []string{
		frontendURL,
		"http://localhost:5173", // Local development
	}
	if allowedOriginsStr != "" {
		extras := strings.Split(allowedOriginsStr, ",")
		for _, origin := range extras {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	return &Config{
		Port:            port,
		AllowedOrigins:  allowedOrigins,
		FrontendURL:     frontendURL,
		RedisURL:        GetEnv("REDIS_URL", ""),
		RedisPassword:   GetEnv("REDIS_PASSWORD", ""),
		SessionIdleTTL:  GetEnvAsDuration("SESSION_IDLE_TTL_MINUTES", 24*60, time.Minute),
		FinishedTTL:     GetEnvAsDuration("SESSION_FINISHED_TTL_MINUTES", 60, time.Minute),
		CleanupInterval: GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10, time.Minute),
		LogLevel:        GetEnv("LOG_LEVEL", "info"),
	}
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logrus.Warnf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit. Non-positive values fall
// back to the default.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	value := GetEnvAsInt(key, defaultValue)
	if value <= 0 {
		logrus.Warnf("Non-positive value for %s: %d, using default: %d", key, value, defaultValue)
		value = defaultValue
	}
	return time.Duration(value) * unit
}
