package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Config struct {
	Addr                   string
	DatabaseURL            string
	JWTSecret              string
	DataEncryptionKey      string
	Environment            string
	LogLevel               string
	SeedTenantName         string
	RunMigrations          bool
	RunSeed                bool
	MigrationsDir          string
	MaxBodyBytes           int64
	RateLimitPerMinute     int
	MetricsEnabled         bool
	DBConnectTimeout       time.Duration
	AttritionRecalcCron    string
	AnalyticsRulesFile     string
	SalaryWarningThreshold float64
	KafkaBrokers           []string
	KafkaRiskTopic         string
	ReportsDir             string
	EmailEnabled           bool
	EmailFrom              string
	SMTPHost               string
	SMTPPort               int
	SMTPUser               string
	SMTPPassword           string
	SMTPUseTLS             bool
}

func Load() Config {
	return Config{
		Addr:                   getEnv("APP_ADDR", ":8080"),
		DatabaseURL:            getEnv("DATABASE_URL", ""),
		JWTSecret:              getEnv("JWT_SECRET", ""),
		DataEncryptionKey:      getEnv("DATA_ENCRYPTION_KEY", ""),
		Environment:            getEnv("APP_ENV", "development"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		SeedTenantName:         getEnv("SEED_TENANT_NAME", "Default Tenant"),
		RunMigrations:          getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:                getEnvBool("RUN_SEED", true),
		MigrationsDir:          getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:           int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:     getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:         getEnvBool("METRICS_ENABLED", true),
		DBConnectTimeout:       getEnvDuration("DB_CONNECT_TIMEOUT", 30*time.Second),
		AttritionRecalcCron:    getEnv("ATTRITION_RECALC_CRON", ""),
		AnalyticsRulesFile:     getEnv("ANALYTICS_RULES_FILE", ""),
		SalaryWarningThreshold: getEnvFloat("SALARY_WARNING_THRESHOLD", 20),
		KafkaBrokers:           getEnvList("KAFKA_BROKERS"),
		KafkaRiskTopic:         getEnv("KAFKA_RISK_TOPIC", "hr.attrition.risk"),
		ReportsDir:             getEnv("REPORTS_DIR", "storage/reports"),
		EmailEnabled:           getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:              getEnv("EMAIL_FROM", "no-reply@example.com"),
		SMTPHost:               getEnv("SMTP_HOST", ""),
		SMTPPort:               getEnvInt("SMTP_PORT", 587),
		SMTPUser:               getEnv("SMTP_USER", ""),
		SMTPPassword:           getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:             getEnvBool("SMTP_USE_TLS", true),
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

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
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

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.DataEncryptionKey) == "" {
		return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production to read encrypted salaries")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.SalaryWarningThreshold <= 0 || c.SalaryWarningThreshold > 100 {
		return fmt.Errorf("SALARY_WARNING_THRESHOLD must be in (0, 100]")
	}
	if c.AttritionRecalcCron != "" {
		if _, err := cron.ParseStandard(c.AttritionRecalcCron); err != nil {
			return fmt.Errorf("ATTRITION_RECALC_CRON is invalid: %w", err)
		}
	}
	if len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaRiskTopic) == "" {
		return fmt.Errorf("KAFKA_RISK_TOPIC must be set when KAFKA_BROKERS is set")
	}
	if c.EmailEnabled && strings.TrimSpace(c.SMTPHost) == "" {
		return fmt.Errorf("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}
