// Package config は環境変数と .env ファイルから設定を読み込みます。
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config はアプリケーション全体の設定です。
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	DBDriver string `env:"DB_DRIVER" envDefault:"mysql"`
	DBUser   string `env:"DB_USER"`
	DBPass   string `env:"DB_PASS"`
	DBHost   string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort   string `env:"DB_PORT" envDefault:"3306"`
	DBName   string `env:"DB_NAME"`
	DBPath   string `env:"DB_PATH" envDefault:"data/tasks.db"`

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	GitHub GitHubConfig

	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`

	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"15m"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// GitHubConfig はOAuthプロバイダーの設定です。URLが空の場合は github.com を使います。
type GitHubConfig struct {
	ClientID     string `env:"GITHUB_CLIENT_ID"`
	ClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	AuthURL      string `env:"GITHUB_AUTH_URL"`
	TokenURL     string `env:"GITHUB_TOKEN_URL"`
	APIURL       string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
}

// Load は .env を読み込んだ後、環境変数から Config を構築します。
// .env が存在しない場合は環境変数だけを使います。
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は値の組み合わせを検証します。
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	return nil
}

// Addr は gin の Run に渡すリッスンアドレスです。
func (c *Config) Addr() string {
	return ":" + c.Port
}
