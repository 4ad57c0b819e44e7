package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret    = "change-me-jwt-secret"
	defaultDatabaseURL  = "petsitter.db"
	defaultSearchRadius = 5000.0
)

const (
	SideEffectModeInline = "inline"
	SideEffectModeQueue  = "queue"
)

type Config struct {
	AppEnv   string `mapstructure:"APP_ENV"`
	HTTPPort string `mapstructure:"HTTP_PORT"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	DiscoveryCacheTTL time.Duration `mapstructure:"DISCOVERY_CACHE_TTL"`

	AMQPURL     string `mapstructure:"AMQP_URL"`
	EventsQueue string `mapstructure:"EVENTS_QUEUE"`

	SideEffectMode    string        `mapstructure:"SIDE_EFFECT_MODE"`
	SideEffectTimeout time.Duration `mapstructure:"SIDE_EFFECT_TIMEOUT"`

	CORSOrigins    string  `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`

	DefaultSearchRadiusM float64 `mapstructure:"DEFAULT_SEARCH_RADIUS_M"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("DISCOVERY_CACHE_TTL", "60s")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("EVENTS_QUEUE", "booking.events")
	v.SetDefault("SIDE_EFFECT_MODE", SideEffectModeInline)
	v.SetDefault("SIDE_EFFECT_TIMEOUT", "5s")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("DEFAULT_SEARCH_RADIUS_M", defaultSearchRadius)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.AppEnv = strings.ToLower(strings.TrimSpace(cfg.AppEnv))
	cfg.SideEffectMode = strings.ToLower(strings.TrimSpace(cfg.SideEffectMode))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SideEffectTimeout <= 0 {
		return fmt.Errorf("SIDE_EFFECT_TIMEOUT must be > 0")
	}
	if c.DiscoveryCacheTTL < 0 {
		return fmt.Errorf("DISCOVERY_CACHE_TTL must be >= 0")
	}
	if c.DefaultSearchRadiusM <= 0 {
		return fmt.Errorf("DEFAULT_SEARCH_RADIUS_M must be > 0")
	}
	if c.SideEffectMode != SideEffectModeInline && c.SideEffectMode != SideEffectModeQueue {
		return fmt.Errorf("SIDE_EFFECT_MODE must be one of: inline, queue")
	}
	if c.SideEffectMode == SideEffectModeQueue && c.RedisAddr == "" {
		return fmt.Errorf("SIDE_EFFECT_MODE=queue requires REDIS_ADDR")
	}
	if c.IsProduction() && isEmptyOrDefault(c.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

// AllowedOrigins splits CORS_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}
