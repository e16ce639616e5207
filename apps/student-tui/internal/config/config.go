package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// セッションストアの種別
const (
	SessionBackendValkey = "valkey"
	SessionBackendMemory = "memory"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// 学生API設定
	APIURL     string        `envconfig:"STUDENT_API_URL" default:"http://localhost:5000/api"`
	APITimeout time.Duration `envconfig:"STUDENT_API_TIMEOUT" default:"10s"`

	// セッションストア設定
	SessionBackend   string `envconfig:"SESSION_BACKEND" default:"valkey"`
	SessionKeyPrefix string `envconfig:"SESSION_KEY_PREFIX"`

	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
	RedisPass string `envconfig:"REDIS_PASS"`
	// REDIS_URL を指定した場合はHOST/PORT/PASSより優先する
	RedisURL string `envconfig:"REDIS_URL"`

	// 一覧表示設定
	PageSize int `envconfig:"PAGE_SIZE" default:"10"`

	// ログ設定
	LogLevel     string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogFile      string `envconfig:"LOG_FILE" default:"student-tui.log"`
	LogMaskEmail bool   `envconfig:"LOG_MASK_EMAIL" default:"true"`

	// 監査ログの操作者名
	AuditUser string `envconfig:"AUDIT_USER" default:"admin"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

// ValkeyAddr はValkey接続アドレスを "host:port" 形式で返す
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// ValkeyTarget は接続先の表示用文字列を返す。URLの認証情報は含めない。
func (c *Config) ValkeyTarget() string {
	if c.RedisURL != "" {
		if u, err := url.Parse(c.RedisURL); err == nil && u.Host != "" {
			return u.Host
		}
	}
	return c.ValkeyAddr()
}

// SlogLevel はLOG_LEVELをslog.Levelに変換する
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// validate は設定値のバリデーションを行う
func (c *Config) validate() error {
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("STUDENT_API_URL must start with http:// or https://")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("STUDENT_API_TIMEOUT must be positive")
	}
	switch c.SessionBackend {
	case SessionBackendValkey, SessionBackendMemory:
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q", SessionBackendValkey, SessionBackendMemory)
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return fmt.Errorf("REDIS_URL must start with redis:// or rediss://")
	}
	if c.PageSize < MinPageSize || c.PageSize > MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between %d and %d", MinPageSize, MaxPageSize)
	}
	if strings.TrimSpace(c.LogFile) == "" {
		return fmt.Errorf("LOG_FILE must not be empty")
	}
	return nil
}
