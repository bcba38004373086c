package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"SubSlayer"`
		Port int    `envconfig:"PORT" default:"8080"`

		// User the TUI operates as; the API derives the user from the token.
		User string `envconfig:"TUI_USER" default:"local"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"subslayer"`
	}

	Cache struct {
		// SQLite file backing the local notification cache tier.
		Path string `envconfig:"CACHE_PATH" default:"subslayer-cache.db"`
	}

	Server struct {
		Timeout       time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigin string        `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:5173"`
	}

	Auth struct {
		JWTSecret string `envconfig:"AUTH_JWT_SECRET"`
	}

	Email struct {
		RelayURL string `envconfig:"EMAIL_RELAY_URL"`
		APIKey   string `envconfig:"EMAIL_API_KEY"`
		Sender   string `envconfig:"EMAIL_SENDER" default:"reminders@subslayer.app"`
	}

	Push struct {
		GatewayURL string `envconfig:"PUSH_GATEWAY_URL"`
	}

	Assistant struct {
		Endpoint string `envconfig:"ASSISTANT_ENDPOINT"`
	}

	Scheduler struct {
		SweepSchedule  string `envconfig:"SWEEP_SCHEDULE" default:"@every 5m"`
		DigestSchedule string `envconfig:"DIGEST_SCHEDULE" default:"0 9 * * 1"`
		ReportSchedule string `envconfig:"REPORT_SCHEDULE" default:"0 9 1 * *"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
