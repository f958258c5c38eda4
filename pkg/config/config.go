package config

import (
	"errors"
	"os"
	"time"

	env "github.com/caarlos0/env/v7"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        int    `env:"HTTP_PORT" envDefault:"8080"`
	BackendURL      string `env:"BACKEND_URL"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	TabCookieSecret string `env:"TAB_COOKIE_SECRET"`

	// CORSAllowedOrigins lists the frontend origins allowed to send
	// credentialed cross-origin requests. Empty means same-origin only.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// RedisAddr empty means the in-memory tab store is used.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	Gateway GatewayConfig
}

type GatewayConfig struct {
	Timeout       time.Duration `env:"GATEWAY_TIMEOUT" envDefault:"10s"`
	RetryAttempts int           `env:"GATEWAY_RETRY_ATTEMPTS" envDefault:"2"`
}

func New(envPath string) (Config, error) {
	var c Config

	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	err = env.Parse(&c)
	if err != nil {
		return Config{}, err
	}

	if c.BackendURL == "" {
		return Config{}, errors.New("BACKEND_URL is required")
	}

	if c.TabCookieSecret == "" {
		return Config{}, errors.New("TAB_COOKIE_SECRET is required")
	}

	return c, nil
}
