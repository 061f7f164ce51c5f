package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                  string
	DatabaseURL           string
	Environment           string
	RunMigrations         bool
	IntaSendBaseURL       string
	IntaSendSecretKey     string
	IntaSendWebhookSecret string
	IntaSendTimeout       time.Duration
	IntaSendSimulate      bool
	PayslipDir            string
	Currency              string
	MetricsEnabled        bool
}

func Load() Config {
	return Config{
		Addr:                  getEnv("APP_ADDR", ":8080"),
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Environment:           getEnv("APP_ENV", "development"),
		RunMigrations:         getEnvBool("RUN_MIGRATIONS", true),
		IntaSendBaseURL:       getEnv("INTASEND_BASE_URL", "https://payment.intasend.com/api"),
		IntaSendSecretKey:     getEnv("INTASEND_SECRET_KEY", ""),
		IntaSendWebhookSecret: getEnv("INTASEND_WEBHOOK_SECRET", ""),
		IntaSendTimeout:       getEnvDuration("INTASEND_TIMEOUT", 30*time.Second),
		IntaSendSimulate:      getEnvBool("INTASEND_SIMULATE", false),
		PayslipDir:            getEnv("PAYSLIP_DIR", "storage/payslips"),
		Currency:              getEnv("PAYROLL_CURRENCY", "KES"),
		MetricsEnabled:        getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.IntaSendSecretKey) == "" && !c.IntaSendSimulate {
			return fmt.Errorf("INTASEND_SECRET_KEY must be set in production unless INTASEND_SIMULATE is enabled")
		}
		if c.IntaSendSimulate {
			return fmt.Errorf("INTASEND_SIMULATE must be disabled in production")
		}
	}
	if c.IntaSendTimeout <= 0 {
		return fmt.Errorf("INTASEND_TIMEOUT must be positive")
	}
	return nil
}
