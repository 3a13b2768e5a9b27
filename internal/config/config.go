package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port            string
	DBConn          string
	LogLevel        string
	JWTSecret       string
	ScanSecret      string
	ShareLinkTTL    time.Duration
	ShareBaseURL    string
	OverdueScanCron string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DBConn:          getEnv("DB_CONN", "host=localhost port=5432 user=loan password=loan dbname=loan sslmode=disable"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		ScanSecret:      getEnv("SCAN_SECRET", ""),
		ShareBaseURL:    getEnv("SHARE_BASE_URL", "http://localhost:8080"),
		OverdueScanCron: getEnv("OVERDUE_SCAN_CRON", "0 6 * * *"),
	}

	ttlHours, err := strconv.Atoi(getEnv("SHARE_LINK_TTL_HOURS", "3"))
	if err != nil || ttlHours <= 0 {
		ttlHours = 3
	}
	cfg.ShareLinkTTL = time.Duration(ttlHours) * time.Hour

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.ScanSecret == "" {
		return nil, fmt.Errorf("SCAN_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
