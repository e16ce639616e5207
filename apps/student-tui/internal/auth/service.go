// Package auth はログイン・利用者登録・ログアウトを提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/session"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
)

// APIパス
const (
	pathLogin    = "/auth/login"
	pathRegister = "/auth/register"
)

// API は認証に必要なHTTPクライアントの機能
type API interface {
	Post(ctx context.Context, path string, body, out any) error
}

// Invalidator は利用者が切り替わったときに破棄するキャッシュ
type Invalidator interface {
	Invalidate(resource string) int
}

// Service は認証操作の実装
type Service struct {
	api      API
	sessions session.Store
	caches   []cacheScope
	fields   *logging.CommonFields
}

type cacheScope struct {
	inv      Invalidator
	resource string
}

// NewService は新しいServiceを生成する。
func NewService(api API, sessions session.Store, fields *logging.CommonFields) *Service {
	if fields == nil {
		fields = logging.NewCommonFields(nil)
	}
	return &Service{api: api, sessions: sessions, fields: fields}
}

// InvalidateOnSwitch はログイン・ログアウト時に無効化するキャッシュを登録する。
func (s *Service) InvalidateOnSwitch(inv Invalidator, resource string) {
	s.caches = append(s.caches, cacheScope{inv: inv, resource: resource})
}

// Login は資格情報を送信し、成功したらセッションを保存する。
func (s *Service) Login(ctx context.Context, email, password string) (*model.Session, error) {
	req := model.LoginRequest{Email: strings.TrimSpace(email), Password: password}

	var resp model.LoginResponse
	if err := s.api.Post(ctx, pathLogin, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("login response has no token")
	}
	if resp.Email == "" {
		resp.Email = req.Email
	}

	if err := s.sessions.Save(ctx, resp.Email, resp.Token); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	s.invalidate()

	slog.Info("login succeeded", s.fields.SessionLogFields("AUTH_LOGIN", resp.Email)...)
	return model.NewSession(resp.Email, resp.Token), nil
}

// Register は利用者を登録する。登録後のログインは行わない。
func (s *Service) Register(ctx context.Context, name, email, password string) error {
	req := model.RegisterRequest{
		Name:     strings.TrimSpace(name),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.api.Post(ctx, pathRegister, req, nil); err != nil {
		return err
	}
	slog.Info("user registered", s.fields.SessionLogFields("AUTH_REGISTER", req.Email)...)
	return nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context) error {
	// 読み取りに失敗しても破棄は続ける
	sess, err := s.sessions.Current(ctx)
	if err != nil {
		slog.Warn("session read failed on logout",
			logging.WithEventID("AUTH_LOGOUT_READ_ERR"),
			logging.WithError(err),
		)
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.invalidate()

	email := ""
	if sess != nil {
		email = sess.Email
	}
	slog.Info("logout", s.fields.SessionLogFields("AUTH_LOGOUT", email)...)
	return nil
}

// Current は現在のセッションを返す（未ログイン時はnil）。
func (s *Service) Current(ctx context.Context) (*model.Session, error) {
	return s.sessions.Current(ctx)
}

func (s *Service) invalidate() {
	for _, c := range s.caches {
		c.inv.Invalidate(c.resource)
	}
}
