package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Storage   StorageConfig
	Import    ImportConfig
	Detection DetectionConfig
	Report    ReportConfig
	RateLimit RateLimitConfig
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
	Secret            string
	AccessExpiration  time.Duration
	RefreshExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

type StorageConfig struct {
	Type     string
	BasePath string
}

// ImportConfig caps the size of uploaded attendance CSV files.
type ImportConfig struct {
	MaxBytes int64
	MaxRows  int
}

// DetectionConfig holds the system default thresholds.
type DetectionConfig struct {
	BreakMinutesOver6h      int
	BreakMinutesOver8h      int
	DailyHoursOvertimeAlert int
	NightStartHour          int
	NightEndHour            int
}

type ReportConfig struct {
	// FontPath is a UTF-8 TrueType font for Japanese PDF reports
	FontPath        string
	ArchiveInterval time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}
	var errs []string
	intVar := func(key string, fallback int) int {
		v, err := getEnvInt(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationVar := func(key string, fallback time.Duration) time.Duration {
		v, err := getEnvDuration(key, fallback)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     intVar("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "kintai"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	config.App = AppConfig{
		Port:           intVar("APP_PORT", 8080),
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration:  durationVar("JWT_ACCESS_EXPIRATION_TIME", time.Hour),
		RefreshExpiration: durationVar("JWT_REFRESH_EXPIRATION_TIME", 168*time.Hour),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./storage"),
	}

	config.Import = ImportConfig{
		MaxBytes: int64(intVar("IMPORT_MAX_BYTES", 5*1024*1024)),
		MaxRows:  intVar("IMPORT_MAX_ROWS", 10000),
	}

	config.Detection = DetectionConfig{
		BreakMinutesOver6h:      intVar("DETECTION_DEFAULT_BREAK_MINUTES_6H", 45),
		BreakMinutesOver8h:      intVar("DETECTION_DEFAULT_BREAK_MINUTES_8H", 60),
		DailyHoursOvertimeAlert: intVar("DETECTION_DEFAULT_DAILY_WORK_HOURS_ALERT", 10),
		NightStartHour:          intVar("DETECTION_DEFAULT_NIGHT_START_HOUR", 22),
		NightEndHour:            intVar("DETECTION_DEFAULT_NIGHT_END_HOUR", 5),
	}

	config.Report = ReportConfig{
		FontPath:        getEnv("REPORT_FONT_PATH", ""),
		ArchiveInterval: durationVar("REPORT_ARCHIVE_INTERVAL", 24*time.Hour),
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RATE_LIMIT_RPS: %v", err))
	}
	config.RateLimit = RateLimitConfig{
		RPS:   rps,
		Burst: intVar("RATE_LIMIT_BURST", 10),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration parsing failed: %s", strings.Join(errs, "; "))
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
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return fmt.Errorf("JWT expiration times must be positive")
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported STORAGE_TYPE %q", c.Storage.Type)
	}
	if c.Import.MaxBytes <= 0 || c.Import.MaxRows <= 0 {
		return fmt.Errorf("import limits must be positive")
	}

	d := c.Detection
	if d.BreakMinutesOver6h < 0 || d.BreakMinutesOver6h > 120 || d.BreakMinutesOver8h < 0 || d.BreakMinutesOver8h > 120 {
		return fmt.Errorf("default break minutes must be between 0 and 120")
	}
	if d.DailyHoursOvertimeAlert < 1 || d.DailyHoursOvertimeAlert > 24 {
		return fmt.Errorf("default daily work hours alert must be between 1 and 24")
	}
	if d.NightStartHour < 0 || d.NightStartHour > 23 || d.NightEndHour < 0 || d.NightEndHour > 23 {
		return fmt.Errorf("default night hours must be between 0 and 23")
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
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

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
