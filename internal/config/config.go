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
	Database       DatabaseConfig
	JWT            JWTConfig
	App            AppConfig
	Office         OfficeConfig
	AttendanceCode AttendanceCodeConfig
	Biometric      BiometricConfig
	Storage        StorageConfig
	SMTP           SMTPConfig
	OAuth2Google   OAuth2GoogleConfig
	Bootstrap      BootstrapConfig
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
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	FrontendURL        string
	CORSAllowedOrigins []string
}

// OfficeConfig describes the single office used for geofenced attendance.
type OfficeConfig struct {
	Latitude         float64
	Longitude        float64
	RadiusMeters     float64
	Timezone         string
	WorkStartTime    string // HH:MM, office local time
	LateGraceMinutes int
}

// Location returns the office time zone, falling back to UTC.
func (o OfficeConfig) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type AttendanceCodeConfig struct {
	Secret        string
	PeriodSeconds uint
}

type BiometricConfig struct {
	DeviceKey string
}

type StorageConfig struct {
	Type     string
	BasePath string
	BaseURL  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google sign-in is configured.
func (c OAuth2GoogleConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// BootstrapConfig seeds the first administrator account.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, reading configuration from environment")
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
		Name:     getEnv("DB_NAME", "hr_admin"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.CORSAllowedOrigins) == 0 {
		config.App.CORSAllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Office / geofence configuration
	officeLat, err := getEnvFloat("OFFICE_LATITUDE", 11.603722)
	if err != nil {
		return nil, err
	}
	officeLon, err := getEnvFloat("OFFICE_LONGITUDE", 76.209250)
	if err != nil {
		return nil, err
	}
	officeRadius, err := getEnvFloat("OFFICE_RADIUS_METERS", 100)
	if err != nil {
		return nil, err
	}
	graceMinutes, err := strconv.Atoi(getEnv("LATE_GRACE_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_GRACE_MINUTES: %w", err)
	}

	config.Office = OfficeConfig{
		Latitude:         officeLat,
		Longitude:        officeLon,
		RadiusMeters:     officeRadius,
		Timezone:         getEnv("OFFICE_TIMEZONE", "Asia/Kolkata"),
		WorkStartTime:    getEnv("WORK_START_TIME", "09:00"),
		LateGraceMinutes: graceMinutes,
	}

	qrPeriod, err := strconv.Atoi(getEnv("ATTENDANCE_QR_PERIOD_SECONDS", "30"))
	if err != nil || qrPeriod <= 0 {
		return nil, fmt.Errorf("invalid ATTENDANCE_QR_PERIOD_SECONDS: %q", getEnv("ATTENDANCE_QR_PERIOD_SECONDS", ""))
	}
	config.AttendanceCode = AttendanceCodeConfig{
		Secret:        getEnv("ATTENDANCE_QR_SECRET", ""),
		PeriodSeconds: uint(qrPeriod),
	}

	config.Biometric = BiometricConfig{
		DeviceKey: getEnv("BIOMETRIC_DEVICE_KEY", ""),
	}

	config.Storage = StorageConfig{
		Type:     getEnv("STORAGE_TYPE", "local"),
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "HR Admin"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	config.Bootstrap = BootstrapConfig{
		AdminEmail:    getEnv("ADMIN_EMAIL", ""),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
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
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := time.ParseDuration(c.JWT.RefreshExpiration); err != nil {
		return fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_TIME: %w", err)
	}
	if c.Office.Latitude < -90 || c.Office.Latitude > 90 {
		return fmt.Errorf("OFFICE_LATITUDE must be between -90 and 90")
	}
	if c.Office.Longitude < -180 || c.Office.Longitude > 180 {
		return fmt.Errorf("OFFICE_LONGITUDE must be between -180 and 180")
	}
	if c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}
	if _, err := time.Parse("15:04", c.Office.WorkStartTime); err != nil {
		return fmt.Errorf("WORK_START_TIME must be in HH:MM format")
	}
	if c.Office.LateGraceMinutes < 0 {
		return fmt.Errorf("LATE_GRACE_MINUTES must not be negative")
	}
	if c.OAuth2Google.Enabled() {
		if c.OAuth2Google.RedirectURL == "" {
			return fmt.Errorf("REDIRECT_URL is required when CLIENT_ID is set")
		}
		if len(c.OAuth2Google.Scopes) == 0 {
			return fmt.Errorf("SCOPES is required when CLIENT_ID is set")
		}
	}
	if (c.Bootstrap.AdminEmail == "") != (c.Bootstrap.AdminPassword == "") {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
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

// SlogLevel maps LOG_LEVEL to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
