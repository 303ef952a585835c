package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret signs tokens outside production when JWT_SECRET is unset.
const DevJWTSecret = "change-me-in-production-please-this-is-not-a-secret"

// Config holds application configuration loaded from environment variables or config files.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=development staging production test"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"required"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error dpanic panic fatal"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseURL       string        `mapstructure:"DATABASE_URL" validate:"required,url|uri"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=1,lte=1000"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0,lte=1000"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME"`
	AutoMigrate       bool          `mapstructure:"AUTO_MIGRATE"`

	JWTSecret string        `mapstructure:"JWT_SECRET" validate:"required_if=AppEnv production,omitempty,min=32"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER" validate:"required"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL" validate:"required"`

	PasswordHasher string `mapstructure:"PASSWORD_HASHER" validate:"required,oneof=bcrypt argon2id"`
	BcryptCost     int    `mapstructure:"BCRYPT_COST" validate:"gte=4,lte=31"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS" validate:"gt=0"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST" validate:"gte=1"`

	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that sets them.
	TrustProxy bool `mapstructure:"TRUST_PROXY"`

	GoMaxProcs int `mapstructure:"GOMAXPROCS" validate:"gte=0,lte=4096"`
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

// UsesDevSecret reports whether tokens are signed with DevJWTSecret.
func (c *Config) UsesDevSecret() bool { return c.JWTSecret == DevJWTSecret }

var (
	cfg      *Config
	validate = validator.New(validator.WithRequiredStructEnabled())

	keys = []string{
		"APP_ENV",
		"HTTP_ADDR",
		"SHUTDOWN_TIMEOUT",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"DATABASE_URL",
		"DB_MAX_OPEN_CONNS",
		"DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME",
		"AUTO_MIGRATE",
		"JWT_SECRET",
		"JWT_ISSUER",
		"JWT_TTL",
		"PASSWORD_HASHER",
		"BCRYPT_COST",
		"RATE_LIMIT_RPS",
		"RATE_LIMIT_BURST",
		"TRUST_PROXY",
		"GOMAXPROCS",
	}

	durationKeys = []string{"SHUTDOWN_TIMEOUT", "DB_CONN_MAX_LIFETIME", "JWT_TTL"}
)

// Load initializes configuration using Viper. It loads from .env if present,
// applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_ADDR", "0.0.0.0:8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 25)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("JWT_ISSUER", "userapi")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("PASSWORD_HASHER", "bcrypt")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("GOMAXPROCS", 0)

	// Optional config file
	_ = v.ReadInConfig()

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	// Durations may come as strings from env or yaml
	for _, key := range durationKeys {
		s := v.GetString(key)
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		switch key {
		case "SHUTDOWN_TIMEOUT":
			c.ShutdownTimeout = d
		case "DB_CONN_MAX_LIFETIME":
			c.DBConnMaxLifetime = d
		case "JWT_TTL":
			c.JWTTTL = d
		}
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if c.JWTSecret == "" {
		c.JWTSecret = DevJWTSecret
	}

	if c.GoMaxProcs > 0 {
		runtime.GOMAXPROCS(c.GoMaxProcs)
	}

	cfg = &c
	return cfg, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// Get returns the loaded configuration. Panics if not loaded.
func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call config.Load or config.MustLoad first")
	}
	return cfg
}
