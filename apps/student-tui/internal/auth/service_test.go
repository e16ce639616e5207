package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/config"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/mocks"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/session"
	"github.com/oyaguma3/student-records/pkg/model"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			var req model.LoginRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Email != "ana@escola.br" || req.Password != "senha123" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Credenciais inválidas"}`))
				return
			}
			json.NewEncoder(w).Encode(model.LoginResponse{Token: "jwt-abc", Email: req.Email})
		case "/auth/register":
			var req model.RegisterRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Email == "ana@escola.br" {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"Email já cadastrado"}`))
				return
			}
			if req.Name != "Bruno" {
				t.Errorf("name = %q, want trimmed %q", req.Name, "Bruno")
			}
			w.WriteHeader(http.StatusCreated)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(url string, store session.Store) *apiclient.Client {
	return apiclient.NewClient(&config.Config{APIURL: url, APITimeout: 2 * time.Second}, store)
}

type countingInvalidator struct{ calls []string }

func (c *countingInvalidator) Invalidate(resource string) int {
	c.calls = append(c.calls, resource)
	return 0
}

func TestLoginSavesSession(t *testing.T) {
	server := newAuthServer(t)
	store := session.NewMemoryStore()
	inv := &countingInvalidator{}

	svc := NewService(newClient(server.URL, store), store, nil)
	svc.InvalidateOnSwitch(inv, "students")

	sess, err := svc.Login(context.Background(), " ana@escola.br ", "senha123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Token != "jwt-abc" || sess.Email != "ana@escola.br" {
		t.Errorf("Login() = %+v", sess)
	}

	stored, _ := store.Current(context.Background())
	if stored == nil || stored.Token != "jwt-abc" {
		t.Errorf("stored session = %+v", stored)
	}
	if len(inv.calls) != 1 || inv.calls[0] != "students" {
		t.Errorf("invalidations = %v", inv.calls)
	}
}

func TestLoginRejected(t *testing.T) {
	server := newAuthServer(t)
	store := session.NewMemoryStore()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	nav := mocks.NewMockNavigator(ctrl)
	nav.EXPECT().CurrentPage().Return(apiclient.PageLogin)

	client := newClient(server.URL, store)
	client.SetNavigator(nav)
	svc := NewService(client, store, nil)

	_, err := svc.Login(context.Background(), "ana@escola.br", "errada")
	if apiclient.KindOf(err) != apiclient.KindAuthenticationRejected {
		t.Fatalf("KindOf() = %v, want AuthenticationRejected (err=%v)", apiclient.KindOf(err), err)
	}
	if msg := apiclient.UserMessage(err, "Erro ao fazer login"); msg != "Credenciais inválidas" {
		t.Errorf("UserMessage() = %q", msg)
	}
	if sess, _ := store.Current(context.Background()); sess != nil {
		t.Errorf("session should not be saved, got %+v", sess)
	}
}

func TestLoginSaveFailure(t *testing.T) {
	server := newAuthServer(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Current(gomock.Any()).Return(nil, nil)
	store.EXPECT().Save(gomock.Any(), "ana@escola.br", "jwt-abc").Return(errors.New("valkey down"))

	svc := NewService(newClient(server.URL, store), store, nil)
	if _, err := svc.Login(context.Background(), "ana@escola.br", "senha123"); err == nil {
		t.Error("Login() should fail when the session cannot be saved")
	}
}

func TestRegister(t *testing.T) {
	server := newAuthServer(t)
	store := session.NewMemoryStore()
	svc := NewService(newClient(server.URL, store), store, nil)

	if err := svc.Register(context.Background(), "  Bruno ", "bruno@escola.br", "senha123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	err := svc.Register(context.Background(), "Bruno", "ana@escola.br", "senha123")
	if apiclient.KindOf(err) != apiclient.KindValidationFailed {
		t.Errorf("KindOf() = %v, want ValidationFailed", apiclient.KindOf(err))
	}
	if msg := apiclient.UserMessage(err, ""); msg != "Email já cadastrado" {
		t.Errorf("UserMessage() = %q", msg)
	}

	// 登録ではログインしない
	if sess, _ := store.Current(context.Background()); sess != nil {
		t.Errorf("session = %+v, want nil", sess)
	}
}

func TestLogout(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Save(context.Background(), "ana@escola.br", "jwt-abc")
	inv := &countingInvalidator{}

	svc := NewService(nil, store, nil)
	svc.InvalidateOnSwitch(inv, "students")

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if sess, _ := svc.Current(context.Background()); sess != nil {
		t.Errorf("Current() = %+v, want nil", sess)
	}
	if len(inv.calls) != 1 {
		t.Errorf("invalidations = %v", inv.calls)
	}

	// 未ログインでも成功する
	if err := svc.Logout(context.Background()); err != nil {
		t.Errorf("second Logout() error = %v", err)
	}
}

func TestLogoutClearsEvenWhenSessionReadFails(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Current(gomock.Any()).Return(nil, errors.New("valkey down"))
	store.EXPECT().Clear(gomock.Any()).Return(nil)
	inv := &countingInvalidator{}

	svc := NewService(nil, store, nil)
	svc.InvalidateOnSwitch(inv, "students")

	if err := svc.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if len(inv.calls) != 1 {
		t.Errorf("invalidations = %v", inv.calls)
	}
	out := logs.String()
	if !strings.Contains(out, "AUTH_LOGOUT_READ_ERR") || !strings.Contains(out, "valkey down") {
		t.Errorf("read failure not logged: %s", out)
	}
}
