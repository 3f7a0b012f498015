package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Pomodoro  PomodoroConfig  `mapstructure:"pomodoro"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Security  SecurityConfig  `mapstructure:"security"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects the key-value backend of the local settings store
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	FilePath string `mapstructure:"file_path"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// FirestoreConfig holds Firestore configuration
type FirestoreConfig struct {
	ProjectID  string `mapstructure:"project_id"`
	Collection string `mapstructure:"collection"`
}

// RemoteConfig describes where the shared dataset lives
type RemoteConfig struct {
	APIBaseURL    string        `mapstructure:"api_base_url"`
	RawBaseURL    string        `mapstructure:"raw_base_url"`
	Branch        string        `mapstructure:"branch"`
	Path          string        `mapstructure:"path"`
	LocalSource   string        `mapstructure:"local_source"`
	CommitMessage string        `mapstructure:"commit_message"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// DashboardConfig holds presenter configuration
type DashboardConfig struct {
	Timezone     string        `mapstructure:"timezone"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
}

// PomodoroConfig holds default timer lengths in minutes
type PomodoroConfig struct {
	WorkMinutes  int `mapstructure:"work_minutes"`
	BreakMinutes int `mapstructure:"break_minutes"`
}

// AdminConfig holds admin panel authentication configuration
type AdminConfig struct {
	Password     string        `mapstructure:"password"`
	PasswordHash string        `mapstructure:"password_hash"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
	Issuer       string        `mapstructure:"issuer"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	Filename string `mapstructure:"filename"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	CORSAllowedOrigins string        `mapstructure:"cors_allowed_origins"`
	RateLimitRequests  int           `mapstructure:"rate_limit_requests"`
	RateLimitWindow    time.Duration `mapstructure:"rate_limit_window"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

const defaultJWTSecret = "change-me-classdash-secret"

var storageDrivers = map[string]bool{
	"memory":    true,
	"file":      true,
	"redis":     true,
	"postgres":  true,
	"firestore": true,
}

// Load loads configuration from various sources
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "classdash")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s") // SSE streams stay open
	v.SetDefault("server.idle_timeout", "120s")

	// Storage defaults
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.file_path", "classdash-store.json")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "classdash")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.conn_max_idle_time", "30s")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "classdash:")

	// Firestore defaults
	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.collection", "classdash_settings")

	// Remote defaults
	v.SetDefault("remote.api_base_url", "https://api.github.com")
	v.SetDefault("remote.raw_base_url", "https://raw.githubusercontent.com")
	v.SetDefault("remote.branch", "main")
	v.SetDefault("remote.path", "data.json")
	v.SetDefault("remote.local_source", "data.json")
	v.SetDefault("remote.commit_message", "Update data.json from Admin Dashboard")
	v.SetDefault("remote.timeout", "15s")

	// Dashboard defaults
	v.SetDefault("dashboard.timezone", "Asia/Tokyo")
	v.SetDefault("dashboard.tick_interval", "1s")

	// Pomodoro defaults
	v.SetDefault("pomodoro.work_minutes", 25)
	v.SetDefault("pomodoro.break_minutes", 5)

	// Admin defaults
	v.SetDefault("admin.password", "1234")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.jwt_secret", defaultJWTSecret)
	v.SetDefault("admin.token_ttl", "2h")
	v.SetDefault("admin.issuer", "classdash")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.filename", "")

	// Security defaults
	v.SetDefault("security.cors_allowed_origins", "*")
	v.SetDefault("security.rate_limit_requests", 300)
	v.SetDefault("security.rate_limit_window", "1m")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "APP_NAME")
	v.BindEnv("app.environment", "APP_ENVIRONMENT")
	v.BindEnv("app.debug", "APP_DEBUG")

	// Server
	v.BindEnv("server.port", "SERVER_PORT")
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.idle_timeout", "SERVER_IDLE_TIMEOUT")

	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.file_path", "STORAGE_FILE_PATH")

	// Database
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.name", "DB_NAME")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.ssl_mode", "DB_SSL_MODE")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("redis.db", "REDIS_DB")
	v.BindEnv("redis.key_prefix", "REDIS_KEY_PREFIX")

	// Firestore
	v.BindEnv("firestore.project_id", "GOOGLE_CLOUD_PROJECT")
	v.BindEnv("firestore.collection", "FIRESTORE_COLLECTION")

	// Remote
	v.BindEnv("remote.api_base_url", "GITHUB_API_URL")
	v.BindEnv("remote.raw_base_url", "GITHUB_RAW_URL")
	v.BindEnv("remote.branch", "GITHUB_BRANCH")
	v.BindEnv("remote.path", "DATASET_PATH")
	v.BindEnv("remote.local_source", "DATASET_LOCAL_SOURCE")
	v.BindEnv("remote.timeout", "REMOTE_TIMEOUT")

	// Dashboard
	v.BindEnv("dashboard.timezone", "DASHBOARD_TIMEZONE")
	v.BindEnv("dashboard.tick_interval", "DASHBOARD_TICK_INTERVAL")

	// Pomodoro
	v.BindEnv("pomodoro.work_minutes", "POMODORO_WORK_MINUTES")
	v.BindEnv("pomodoro.break_minutes", "POMODORO_BREAK_MINUTES")

	// Admin
	v.BindEnv("admin.password", "ADMIN_PASSWORD")
	v.BindEnv("admin.password_hash", "ADMIN_PASSWORD_HASH")
	v.BindEnv("admin.jwt_secret", "JWT_SECRET")
	v.BindEnv("admin.token_ttl", "ADMIN_TOKEN_TTL")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
	v.BindEnv("logger.output", "LOG_OUTPUT")
	v.BindEnv("logger.filename", "LOG_FILENAME")

	// Security
	v.BindEnv("security.cors_allowed_origins", "CORS_ALLOWED_ORIGINS")
	v.BindEnv("security.rate_limit_requests", "RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "RATE_LIMIT_WINDOW")

	// Metrics
	v.BindEnv("metrics.enabled", "ENABLE_METRICS")
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if !storageDrivers[cfg.Storage.Driver] {
		return fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.Driver == "firestore" && cfg.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore storage requires a project id")
	}

	if _, err := time.LoadLocation(cfg.Dashboard.Timezone); err != nil {
		return fmt.Errorf("invalid dashboard timezone %q: %w", cfg.Dashboard.Timezone, err)
	}

	if cfg.Dashboard.TickInterval <= 0 {
		return fmt.Errorf("dashboard tick interval must be positive")
	}

	if cfg.Pomodoro.WorkMinutes <= 0 || cfg.Pomodoro.BreakMinutes <= 0 {
		return fmt.Errorf("pomodoro durations must be positive")
	}

	if cfg.App.IsProduction() && (cfg.Admin.JWTSecret == "" || cfg.Admin.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT secret must be set and should not use default value")
	}

	return nil
}

// GetDSN returns the database connection string
func (cfg *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)
}

// GetAddr returns the Redis address
func (cfg *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// Location returns the dashboard time zone. Load already validated it.
func (cfg *DashboardConfig) Location() *time.Location {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsDevelopment returns true if the environment is development
func (cfg *AppConfig) IsDevelopment() bool {
	return cfg.Environment == "development"
}

// IsProduction returns true if the environment is production
func (cfg *AppConfig) IsProduction() bool {
	return cfg.Environment == "production"
}
