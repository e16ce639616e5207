// Package main は学生APIスタブのエントリーポイント。
// student-tuiの開発・結合確認用に、学生APIと同じ契約をローカルで提供する。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/config"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/handler"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/server"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/storage"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
	"github.com/oyaguma3/student-records/pkg/logging"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("app", "student-api-stub")
	slog.SetDefault(logger)

	slog.Info("starting student-api-stub",
		"listen_addr", cfg.ListenAddr,
		"base_path", cfg.BasePath,
		"storage", cfg.Storage,
	)

	// 3. ストア
	store, err := openStore(cfg)
	if err != nil {
		slog.Error("failed to open storage",
			logging.WithEventID("STUB_STORAGE_ERR"),
			logging.WithError(err),
		)
		os.Exit(1)
	}
	defer store.Close()

	// 4. ハンドラー
	issuer := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	h := handler.New(store, issuer, logging.NewCommonFields(logging.NewMasker(cfg.LogMaskEmail)))

	// 5. サーバー起動
	srv := server.New(cfg, h, issuer)

	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 6. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

func openStore(cfg *config.Config) (storage.Store, error) {
	if cfg.Storage == storage.BackendSQLite {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return storage.NewSQLiteStore(ctx, cfg.SQLitePath)
	}
	return storage.NewMemoryStore(), nil
}
