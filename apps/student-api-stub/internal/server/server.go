// Package server はHTTPサーバーの管理を提供する。
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/config"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/handler"
	"github.com/oyaguma3/student-records/apps/student-api-stub/internal/token"
)

// Server はHTTPサーバーを管理する。
type Server struct {
	engine *gin.Engine
	server *http.Server
	cfg    *config.Config
}

// New は新しいServerを生成する。
func New(cfg *config.Config, h *handler.Handler, issuer *token.Issuer) *Server {
	engine := NewEngine(cfg.GinMode, cfg.BasePath, h, issuer)

	return &Server{
		engine: engine,
		server: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: engine,
		},
		cfg: cfg,
	}
}

// NewEngine はミドルウェアとルーティングを設定したgin.Engineを生成する。
func NewEngine(ginMode, basePath string, h *handler.Handler, issuer *token.Issuer) *gin.Engine {
	gin.SetMode(ginMode)

	engine := gin.New()
	engine.Use(TraceIDMiddleware())
	engine.Use(LoggingMiddleware())
	engine.Use(RecoveryMiddleware())

	SetupRouter(engine, basePath, h, issuer)
	return engine
}

// Run はサーバーを起動する。
func (s *Server) Run() error {
	slog.Info("starting server", "addr", s.cfg.ListenAddr, "base_path", s.cfg.BasePath)
	return s.server.ListenAndServe()
}

// Shutdown はサーバーをシャットダウンする。
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
