// Package config は環境変数から設定を読み込む。
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/storage"
)

// Config は学生APIスタブの設定を保持する。
type Config struct {
	// サーバー設定
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":5000"`
	BasePath   string `envconfig:"STUB_BASE_PATH" default:"/api"`
	GinMode    string `envconfig:"GIN_MODE" default:"release"`

	// 保存先（"memory" or "sqlite"）
	Storage    string `envconfig:"STUB_STORAGE" default:"memory"`
	SQLitePath string `envconfig:"STUB_SQLITE_PATH" default:"students.db"`

	// トークン設定
	JWTSecret string        `envconfig:"STUB_JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"STUB_TOKEN_TTL" default:"1h"`

	// ログ設定
	LogLevel     string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskEmail bool   `envconfig:"LOG_MASK_EMAIL" default:"true"`
}

// Load は環境変数から設定を読み込む。
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	return &cfg, nil
}

// SlogLevel はLOG_LEVELをslog.Levelに変換する。
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c *Config) validate() error {
	switch c.Storage {
	case storage.BackendMemory:
	case storage.BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("STUB_SQLITE_PATH must not be empty when STUB_STORAGE=sqlite")
		}
	default:
		return fmt.Errorf("STUB_STORAGE must be %q or %q", storage.BackendMemory, storage.BackendSQLite)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("STUB_JWT_SECRET must not be blank")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("STUB_TOKEN_TTL must be positive")
	}
	return nil
}
