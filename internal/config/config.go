package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Payroll    PayrollConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// AttendanceConfig holds shop-wide attendance policy defaults. Per-shop
// operating hours override the open/close defaults; the grace and overtime
// windows apply everywhere.
type AttendanceConfig struct {
	DefaultOpenTime       string // "HH:MM", used when the shop has no hours row for the weekday
	DefaultCloseTime      string
	DefaultTimezone       string
	EarlyGraceMinutes     int // how early a check-in may happen before opening
	OvertimeWindowMinutes int // overtime check-in tolerance around the planned start
}

// PayrollConfig holds payroll policy knobs.
type PayrollConfig struct {
	// FinalizeCoverageThreshold is the minimum fraction of working weekdays
	// that must have attendance records before payroll can be generated.
	// The 0.80 default mirrors the legacy system and is pending product
	// confirmation.
	FinalizeCoverageThreshold float64
	// OvertimePremium is the multiplier applied to overtime hours inside the
	// monthly payroll run. Standalone overtime requests pay 1.5x/2.0x
	// instead; the two rates intentionally stay separate knobs.
	OvertimePremium string
}

func Load() (*Config, error) {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "shop_erp"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance policy
	graceMinutes, err := strconv.Atoi(getEnv("ATTENDANCE_EARLY_GRACE_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_EARLY_GRACE_MINUTES: %w", err)
	}
	overtimeWindow, err := strconv.Atoi(getEnv("OVERTIME_WINDOW_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_WINDOW_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		DefaultOpenTime:       getEnv("ATTENDANCE_DEFAULT_OPEN", "08:00"),
		DefaultCloseTime:      getEnv("ATTENDANCE_DEFAULT_CLOSE", "17:00"),
		DefaultTimezone:       getEnv("ATTENDANCE_DEFAULT_TIMEZONE", "Asia/Manila"),
		EarlyGraceMinutes:     graceMinutes,
		OvertimeWindowMinutes: overtimeWindow,
	}

	// Payroll policy
	coverage, err := strconv.ParseFloat(getEnv("PAYROLL_FINALIZE_COVERAGE", "0.80"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_FINALIZE_COVERAGE: %w", err)
	}

	config.Payroll = PayrollConfig{
		FinalizeCoverageThreshold: coverage,
		OvertimePremium:           getEnv("PAYROLL_OVERTIME_PREMIUM", "1.25"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Payroll.FinalizeCoverageThreshold <= 0 || c.Payroll.FinalizeCoverageThreshold > 1 {
		return fmt.Errorf("PAYROLL_FINALIZE_COVERAGE must be in (0, 1]")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
