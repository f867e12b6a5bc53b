package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Redis      RedisConfig
	Attendance AttendanceConfig
	CORS       CORSConfig
	Store      StoreConfig
	Site       SiteConfig
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
	Name     string
	Version  string
	Port     int
	Env      string
	LogLevel string
}

// RedisConfig is optional; an empty Host disables the shared scan gate.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type AttendanceConfig struct {
	GraceMinutes           int
	OvertimeThresholdHours int
	DetectorInterval       time.Duration
	CompletionInterval     time.Duration
	LocationTimeout        time.Duration
	ScanThrottle           time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

const (
	StoreTypePostgres = "postgres"
	StoreTypeMemory   = "memory"
)

type StoreConfig struct {
	Type string
}

// SiteConfig describes the optional geofence around the work site.
type SiteConfig struct {
	Latitude     *float64
	Longitude    *float64
	RadiusMeters float64
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

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
		Name:     getEnv("DB_NAME", "shift_attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Redis configuration
	redisPort, err := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     redisPort,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       redisDB,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Name:     getEnv("APP_NAME", "shift-attendance"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Attendance configuration
	graceMinutes, err := strconv.Atoi(getEnv("GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid GRACE_MINUTES: %w", err)
	}
	overtimeHours, err := strconv.Atoi(getEnv("OVERTIME_THRESHOLD_HOURS", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid OVERTIME_THRESHOLD_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		GraceMinutes:           graceMinutes,
		OvertimeThresholdHours: overtimeHours,
	}
	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{"DETECTOR_INTERVAL", "30s", &config.Attendance.DetectorInterval},
		{"COMPLETION_INTERVAL", "5m", &config.Attendance.CompletionInterval},
		{"LOCATION_TIMEOUT", "10s", &config.Attendance.LocationTimeout},
		{"SCAN_THROTTLE", "15s", &config.Attendance.ScanThrottle},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.Store = StoreConfig{
		Type: strings.ToLower(getEnv("STORE_TYPE", StoreTypePostgres)),
	}

	// Site geofence
	config.Site = SiteConfig{}
	if config.Site.Latitude, err = getEnvFloat("SITE_LATITUDE"); err != nil {
		return nil, err
	}
	if config.Site.Longitude, err = getEnvFloat("SITE_LONGITUDE"); err != nil {
		return nil, err
	}
	radius, err := getEnvFloat("SITE_RADIUS_METERS")
	if err != nil {
		return nil, err
	}
	if radius != nil {
		config.Site.RadiusMeters = *radius
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Type {
	case StoreTypePostgres:
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required"))
		}
	case StoreTypeMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_TYPE must be %q or %q, got %q", StoreTypePostgres, StoreTypeMemory, c.Store.Type))
	}

	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		errs = append(errs, fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is invalid: %w", err))
	}

	if c.Attendance.GraceMinutes < 0 {
		errs = append(errs, errors.New("GRACE_MINUTES must not be negative"))
	}
	if c.Attendance.OvertimeThresholdHours <= 0 {
		errs = append(errs, errors.New("OVERTIME_THRESHOLD_HOURS must be positive"))
	}
	if c.Attendance.DetectorInterval <= 0 {
		errs = append(errs, errors.New("DETECTOR_INTERVAL must be positive"))
	}
	if c.Attendance.CompletionInterval <= 0 {
		errs = append(errs, errors.New("COMPLETION_INTERVAL must be positive"))
	}
	if c.Attendance.LocationTimeout <= 0 {
		errs = append(errs, errors.New("LOCATION_TIMEOUT must be positive"))
	}
	if c.Attendance.ScanThrottle < 0 {
		errs = append(errs, errors.New("SCAN_THROTTLE must not be negative"))
	}

	if (c.Site.Latitude == nil) != (c.Site.Longitude == nil) {
		errs = append(errs, errors.New("SITE_LATITUDE and SITE_LONGITUDE must be set together"))
	}
	if c.Site.Latitude != nil && c.Site.RadiusMeters <= 0 {
		errs = append(errs, errors.New("SITE_RADIUS_METERS must be positive when a site is configured"))
	}

	return errors.Join(errs...)
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

// RedisAddr returns host:port, or "" when redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (a AttendanceConfig) GracePeriod() time.Duration {
	return time.Duration(a.GraceMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback string) []string {
	value := getEnv(env, fallback)
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

func getEnvFloat(key string) (*float64, error) {
	value := getEnv(key, "")
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
