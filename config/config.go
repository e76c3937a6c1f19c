package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"mlb-streak-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
	Auth     AuthConfig     `json:"auth"`
	Provider ProviderConfig `json:"provider"`
	Game     GameConfig     `json:"game"`
	Email    EmailConfig    `json:"email"`
	Jobs     JobsConfig     `json:"jobs"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds MongoDB configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string `json:"jwt_secret"`
}

// ProviderConfig holds odds provider and stats page configuration
type ProviderConfig struct {
	APIKey       string        `json:"api_key"`
	BaseURL      string        `json:"base_url"`
	Sport        string        `json:"sport"`
	Regions      string        `json:"regions"`
	Markets      string        `json:"markets"`
	Bookmakers   string        `json:"bookmakers"`
	Timeout      time.Duration `json:"timeout"`
	StatsBaseURL string        `json:"stats_base_url"`
}

// GameConfig holds pick-window and reconciliation policy
type GameConfig struct {
	LockMargin   time.Duration `json:"lock_margin"`
	OpenTime     string        `json:"open_time"` // HH:MM, reference-tz local
	Timezone     string        `json:"timezone"`
	LookbackDays int           `json:"lookback_days"`
}

// EmailConfig holds SMTP configuration for daily announcements
type EmailConfig struct {
	SMTPHost     string   `json:"smtp_host"`
	SMTPPort     string   `json:"smtp_port"`
	SMTPUsername string   `json:"smtp_username"`
	SMTPPassword string   `json:"smtp_password"`
	FromEmail    string   `json:"from_email"`
	FromName     string   `json:"from_name"`
	Recipients   []string `json:"recipients"`
}

// JobsConfig holds the daily trigger times (HH:MM, reference-tz local)
type JobsConfig struct {
	Enabled       bool   `json:"enabled"`
	IngestTime    string `json:"ingest_time"`
	AnnounceTime  string `json:"announce_time"`
	ReconcileTime string `json:"reconcile_time"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", "streakapp"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mlb_streak"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "debug"),
			Prefix:      getEnv("LOG_PREFIX", "mlb-streak"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		},
		Provider: ProviderConfig{
			APIKey:       getEnv("ODDS_API_KEY", ""),
			BaseURL:      getEnv("ODDS_API_BASE_URL", "https://api.the-odds-api.com"),
			Sport:        getEnv("ODDS_SPORT", "baseball_mlb"),
			Regions:      getEnv("ODDS_REGIONS", "us,us2"),
			Markets:      getEnv("ODDS_MARKETS", "h2h,spreads,totals"),
			Bookmakers:   getEnv("ODDS_BOOKMAKERS", "fanduel,draftkings"),
			Timeout:      getDurationEnv("ODDS_TIMEOUT", 10*time.Second),
			StatsBaseURL: getEnv("STATS_BASE_URL", "https://www.cbssports.com/mlb/players/"),
		},
		Game: GameConfig{
			LockMargin:   getDurationEnv("PICK_LOCK_MARGIN", 10*time.Minute),
			OpenTime:     getEnv("PICK_OPEN_TIME", "06:01"),
			Timezone:     getEnv("REFERENCE_TIMEZONE", "US/Eastern"),
			LookbackDays: getIntEnv("RESULT_LOOKBACK_DAYS", 1),
		},
		Email: EmailConfig{
			SMTPHost:     getEnv("SMTP_HOST", ""),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			FromEmail:    getEnv("FROM_EMAIL", ""),
			FromName:     getEnv("FROM_NAME", "MLB Streak"),
			Recipients:   getListEnv("ANNOUNCE_RECIPIENTS"),
		},
		Jobs: JobsConfig{
			Enabled:       getBoolEnv("DAILY_JOBS_ENABLED", true),
			IngestTime:    getEnv("INGEST_TIME", "06:00"),
			AnnounceTime:  getEnv("ANNOUNCE_TIME", "09:00"),
			ReconcileTime: getEnv("RECONCILE_TIME", "06:00"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && !c.IsDevelopment() {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.Game.LockMargin < 0 {
		return fmt.Errorf("pick lock margin must not be negative, got: %v", c.Game.LockMargin)
	}
	if c.Game.LookbackDays < 1 {
		return fmt.Errorf("result lookback must be at least 1 day, got: %d", c.Game.LookbackDays)
	}
	if _, err := time.LoadLocation(c.Game.Timezone); err != nil {
		return fmt.Errorf("invalid reference timezone %q: %w", c.Game.Timezone, err)
	}

	for _, clock := range []string{c.Game.OpenTime, c.Jobs.IngestTime, c.Jobs.AnnounceTime, c.Jobs.ReconcileTime} {
		if _, _, err := ParseClock(clock); err != nil {
			return err
		}
	}

	return nil
}

// ParseClock parses an HH:MM wall-clock string.
func ParseClock(value string) (hour, minute int, err error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock time %q, expected HH:MM", value)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid clock time %q, expected HH:MM", value)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid clock time %q, expected HH:MM", value)
	}
	return hour, minute, nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Server.Environment) == "development"
}

// IsEmailConfigured returns true if the announcement mailer is configured
func (c *Config) IsEmailConfigured() bool {
	return c.Email.SMTPHost != "" &&
		c.Email.SMTPUsername != "" &&
		c.Email.SMTPPassword != "" &&
		c.Email.FromEmail != "" &&
		len(c.Email.Recipients) > 0
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ReferenceLocation returns the configured reference timezone. Validate has
// already checked the name, so a load failure here falls back to UTC.
func (c *Config) ReferenceLocation() *time.Location {
	loc, err := time.LoadLocation(c.Game.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (Environment: %s)", c.GetServerAddress(), c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Provider: %s sport=%s bookmakers=%s (API key set: %t)",
		c.Provider.BaseURL, c.Provider.Sport, c.Provider.Bookmakers, c.Provider.APIKey != "")
	logging.Infof("Game: LockMargin=%v, OpenTime=%s, Timezone=%s, Lookback=%dd",
		c.Game.LockMargin, c.Game.OpenTime, c.Game.Timezone, c.Game.LookbackDays)
	logging.Infof("Jobs: Enabled=%t, Ingest=%s, Announce=%s, Reconcile=%s",
		c.Jobs.Enabled, c.Jobs.IngestTime, c.Jobs.AnnounceTime, c.Jobs.ReconcileTime)
	logging.Infof("Email: Configured=%t, Host=%s, Recipients=%d",
		c.IsEmailConfigured(), c.Email.SMTPHost, len(c.Email.Recipients))
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getListEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
