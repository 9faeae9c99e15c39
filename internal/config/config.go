package config

import (
	"time"

	"github.com/georgemunganga/novashop/internal/core"
	pkgredis "github.com/georgemunganga/novashop/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every configurable parameter of the API server,
// sourced from environment variables (loaded from .env for local runs).
type Config struct {
	Env            string `envconfig:"APP_ENV" default:"development"`
	Port           string `envconfig:"APP_PORT" default:"8080"`
	DatabaseURL    string `envconfig:"DATABASE_URL" required:"true"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"migrations"`

	Redis pkgredis.Config

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"24h"`

	PaymentProvider string `envconfig:"PAYMENT_PROVIDER" default:"sandbox"` // stripe | sandbox
	StripeSecretKey string `envconfig:"STRIPE_SECRET_KEY"`

	PublicBaseURL       string `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	DefaultProductImage string `envconfig:"DEFAULT_PRODUCT_IMAGE" default:"/assets/products/product-1.jpg"`

	ShopSessionIdleTimeout time.Duration `envconfig:"SHOP_SESSION_IDLE_TIMEOUT" default:"30m"`
	ShopMaxSessions        int           `envconfig:"SHOP_MAX_SESSIONS" default:"10000"`

	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads .env when present and processes the environment into a Config.
// The returned bool reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load() == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, loaded, err
	}
	return &cfg, loaded, nil
}

func (c *Config) Environment() core.Environment {
	return core.ParseEnvironment(c.Env)
}
