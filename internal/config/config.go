// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	Database struct {
		Driver string `env:"DB_DRIVER" env-default:"sqlite"`
		Path   string `env:"DB_PATH" env-default:"data/app.db"`
		DSN    string `env:"DB_DSN"`
	}
	JWT struct {
		Secret       string        `env:"JWT_SECRET" env-default:"ai4local-dev-secret"`
		ExpiryPeriod time.Duration `env:"JWT_EXPIRY" env-default:"168h"`
	}
	Server struct {
		Port         string        `env:"SERVER_PORT" env-default:"5000"`
		ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s"`
		WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"60s"`
		StaticDir    string        `env:"STATIC_DIR" env-default:"static"`
		CORSOrigins  []string      `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
	}
	AI struct {
		ServiceURL     string        `env:"AI_SERVICE_URL" env-default:"http://localhost:8000"`
		Timeout        time.Duration `env:"AI_TIMEOUT" env-default:"30s"`
		HealthTimeout  time.Duration `env:"AI_HEALTH_TIMEOUT" env-default:"5s"`
		Port           string        `env:"PORT" env-default:"8000"`
		GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
		TextModel      string        `env:"GEMINI_TEXT_MODEL" env-default:"gemini-2.5-flash-lite"`
		EmbeddingModel string        `env:"GEMINI_EMBEDDING_MODEL" env-default:"gemini-embedding-001"`
	}
	Redis struct {
		URL string `env:"REDIS_URL"`
	}
	RateLimit struct {
		Requests int           `env:"AI_RATE_LIMIT" env-default:"60"`
		Window   time.Duration `env:"AI_RATE_WINDOW" env-default:"1m"`
	}
	Email struct {
		// Provider is "sendgrid", "smtp" or empty to disable outgoing mail.
		Provider string `env:"EMAIL_PROVIDER"`
		FromName string `env:"EMAIL_FROM_NAME" env-default:"AI4Local"`
	}
	Sendgrid struct {
		APIKey string `env:"SENDGRID_API_KEY"`
		From   string `env:"SENDGRID_FROM" env-default:"no-reply@ai4local.mg"`
		Host   string `env:"SENDGRID_HOST"`
	}
	SMTP struct {
		Host     string `env:"SMTP_HOST"`
		Port     int    `env:"SMTP_PORT" env-default:"587"`
		Username string `env:"SMTP_USERNAME"`
		Password string `env:"SMTP_PASSWORD"`
		From     string `env:"SMTP_FROM" env-default:"no-reply@ai4local.mg"`
	}
	BaseURL string `env:"BASE_URL" env-default:"http://localhost:5000"`
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return cfg, nil
}
