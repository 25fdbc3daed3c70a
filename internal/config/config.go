package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port        string `env:"PORT"      envDefault:"8080"`
	Environment string `env:"APP_ENV"   envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	DataDir        string `env:"DATA_DIR"        envDefault:"./data"`
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite3"`
	DatabaseURL    string `env:"DATABASE_URL"`

	JWTSecret            string        `env:"ADMIN_JWT_SECRET,required"`
	SessionTTL           time.Duration `env:"ADMIN_SESSION_TTL"          envDefault:"168h"`
	AdminDefaultPassword string        `env:"ADMIN_DEFAULT_PASSWORD"`
	SitewideCode         string        `env:"SITEWIDE_CODE"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	AttemptLimit  int           `env:"AUTH_ATTEMPT_LIMIT"  envDefault:"5"`
	AttemptWindow time.Duration `env:"AUTH_ATTEMPT_WINDOW" envDefault:"10m"`

	IPLimitPerMin int `env:"API_RATE_LIMIT_PER_MIN" envDefault:"120"`

	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	MaxUploadBytes int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"30s"`
	AnalyticsTTL   time.Duration `env:"ANALYTICS_CACHE_TTL" envDefault:"10m"`
	TopN           int           `env:"TOP_ACTIVITIES_LIMIT" envDefault:"10"`

	CompressionMinBytes int `env:"COMPRESSION_MIN_BYTES" envDefault:"1024"`

	RefreshInterval     time.Duration `env:"SNAPSHOT_REFRESH_INTERVAL" envDefault:"1m"`
	HealthCheckInterval time.Duration `env:"HEALTH_CHECK_INTERVAL"     envDefault:"30s"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT"          envDefault:"30s"`
	EnableProfiling     bool          `env:"ENABLE_PROFILING"`
}

// Load reads an optional .env file and then parses the environment into a Config.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
	return Parse()
}

// Parse reads the current environment without touching .env files.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("ADMIN_JWT_SECRET must be at least 16 characters")
	}
	if c.AttemptLimit <= 0 || c.AttemptWindow <= 0 {
		return fmt.Errorf("AUTH_ATTEMPT_LIMIT and AUTH_ATTEMPT_WINDOW must be positive")
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
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
