// Student TUI - 学生名簿管理コンソール
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/audit"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/auth"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/config"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/querycache"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/session"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/students"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui/login"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui/register"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui/student"
	"github.com/oyaguma3/student-records/pkg/logging"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/valkey"
	"github.com/redis/go-redis/v9"
)

const (
	pageStartupError = "startup-error"
	pageHelp         = "help"
)

// Application はアプリケーション全体を管理する。
type Application struct {
	app         *ui.App
	cfg         *config.Config
	fields      *logging.CommonFields
	auditLogger *audit.Logger
	redisClient *redis.Client

	sessions       session.Store
	apiClient      *apiclient.Client
	studentService *students.Service
	authService    *auth.Service

	loginScreen    *login.Screen
	registerScreen *register.Screen
	listScreen     *student.ListScreen
	formScreen     *student.FormScreen

	currentEmail string
}

func main() {
	// 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// 端末はtviewが使うため、ログはファイルへ出す
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	logger := slog.New(slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("app", "student-tui")
	slog.SetDefault(logger)

	masker := logging.NewMasker(cfg.LogMaskEmail)

	application := &Application{
		app:         ui.NewApp(apiclient.PageLogin),
		cfg:         cfg,
		fields:      logging.NewCommonFields(masker),
		auditLogger: audit.NewLogger(logFile, cfg.AuditUser, masker),
	}
	application.app.GetStatusBar().SetDuration(config.StatusMessageDuration)

	slog.Info("student-tui起動",
		"api_url", cfg.APIURL,
		"session_backend", cfg.SessionBackend,
		"page_size", cfg.PageSize,
	)

	// セッションストア接続
	if err := application.connectSessionStore(); err != nil {
		slog.Error("セッションストア接続失敗",
			logging.WithEventID("SESSION_STORE_CONN_ERR"),
			logging.WithError(err),
		)
		application.showStartupError(err.Error())
	} else {
		application.start()
	}

	application.setupGlobalKeyBindings()

	// アプリケーション実行
	if err := application.app.Run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
	application.cleanup()
}

func (a *Application) connectSessionStore() error {
	if a.cfg.SessionBackend == config.SessionBackendMemory {
		a.sessions = session.NewMemoryStore()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ValkeyConnectTimeout)
	defer cancel()

	opts := valkey.DefaultOptions().
		WithAddr(a.cfg.ValkeyAddr()).
		WithPassword(a.cfg.RedisPass).
		WithTimeouts(config.ValkeyConnectTimeout, config.ValkeyCommandTimeout, config.ValkeyCommandTimeout)

	var client *redis.Client
	var err error
	if a.cfg.RedisURL != "" {
		client, err = valkey.NewClientFromURL(ctx, a.cfg.RedisURL, opts)
	} else {
		client, err = valkey.NewClient(ctx, opts)
	}
	if err != nil {
		return err
	}

	a.redisClient = client
	a.sessions = session.NewValkeyStore(client, a.cfg.SessionKeyPrefix, a.fields)
	return nil
}

// start はサービスと画面を組み立て、保存済みセッションに応じた画面を表示する。
func (a *Application) start() {
	a.buildServices()
	a.buildScreens()
	a.restoreSession()
}

func (a *Application) buildServices() {
	a.apiClient = apiclient.NewClient(a.cfg, a.sessions)
	a.apiClient.SetNavigator(a.app)

	cache := querycache.New[*model.Page[model.Student]]()
	a.studentService = students.NewService(a.apiClient, cache)

	a.authService = auth.NewService(a.apiClient, a.sessions, a.fields)
	a.authService.InvalidateOnSwitch(cache, students.Resource)

	a.app.SetOnSessionExpired(a.handleSessionExpired)
}

func (a *Application) buildScreens() {
	a.loginScreen = login.NewScreen(a.app, a.authService, a.auditLogger)
	a.loginScreen.SetOnSuccess(func(sess *model.Session) {
		a.currentEmail = sess.Email
		a.listScreen.FirstPage()
		a.showStudentList()
	})
	a.loginScreen.SetOnRegister(a.showRegister)

	a.registerScreen = register.NewScreen(a.app, a.authService, a.auditLogger)
	a.registerScreen.SetOnDone(a.showLogin)
	a.registerScreen.SetOnCancel(func() {
		a.showLogin("")
	})

	a.listScreen = student.NewListScreen(a.app, a.studentService, a.auditLogger, a.cfg.PageSize)
	a.listScreen.SetOnCreate(a.showStudentForm)
	a.listScreen.SetOnLogout(a.logout)

	a.formScreen = student.NewFormScreen(a.app, a.studentService, a.auditLogger)
	a.formScreen.SetOnSave(func(*model.Student) {
		a.listScreen.FirstPage()
		a.showStudentList()
	})
	a.formScreen.SetOnCancel(a.showStudentList)
}

func (a *Application) restoreSession() {
	sess, err := a.authService.Current(context.Background())
	if err != nil {
		eventID := "SESSION_RESTORE_ERR"
		if valkey.IsConnectionError(err) {
			eventID = "SESSION_STORE_UNREACHABLE"
		}
		slog.Warn("セッション復元失敗",
			logging.WithEventID(eventID),
			logging.WithError(err),
		)
	}

	if sess.IsAuthenticated() {
		a.currentEmail = sess.Email
		a.auditLogger.SetActor(sess.Email)
		slog.Info("セッション復元", a.fields.SessionLogFields("SESSION_RESTORE", sess.Email)...)
		a.showStudentList()
		return
	}
	a.showLogin("")
}

func (a *Application) showStartupError(errorMessage string) {
	modal := ui.NewStartupErrorModal(
		a.cfg.ValkeyTarget(),
		errorMessage,
		func() {
			if err := a.connectSessionStore(); err != nil {
				a.app.GetStatusBar().ShowError("Connection failed: " + err.Error())
				return
			}
			a.app.CloseOverlay(pageStartupError, nil)
			a.start()
		},
		a.app.Stop,
	)

	a.app.AddPage(pageStartupError, modal, true, true)
	a.app.SetFocus(modal)
}

func (a *Application) showLogin(email string) {
	a.loginScreen.Reset(email)
	a.app.GetStatusBar().SetDefaultText(" Tab:Next field | Enter:Submit | Ctrl+Q:Exit")
	a.app.Navigate(apiclient.PageLogin, a.loginScreen.Primitive())
}

func (a *Application) showRegister() {
	a.registerScreen.Reset()
	a.app.GetStatusBar().SetDefaultText(ui.FormatKeyBindingHint(ui.GetFormKeyBindings()))
	a.app.Navigate(apiclient.PageRegister, a.registerScreen.Primitive())
}

func (a *Application) showStudentList() {
	a.app.Navigate(student.PageList, a.listScreen.GetTable())
	a.listScreen.Load()
}

func (a *Application) showStudentForm() {
	a.formScreen.SetupCreate()
	a.app.Navigate(student.PageForm, a.formScreen.GetForm())
}

// handleSessionExpired は401でセッションが破棄された後にUIゴルーチンで呼ばれる。
func (a *Application) handleSessionExpired() {
	email := a.currentEmail
	a.currentEmail = ""
	a.auditLogger.LogLogout(email, true)
	a.auditLogger.SetActor(a.cfg.AuditUser)

	a.showLogin(email)
	a.app.GetStatusBar().ShowWarning(ui.MsgSessionExpired)
}

func (a *Application) logout() {
	email := a.currentEmail
	go func() {
		err := a.authService.Logout(context.Background())
		a.app.QueueUpdateDraw(func() {
			if err != nil {
				a.app.GetStatusBar().ShowError(fmt.Sprintf("Logout failed: %v", err))
				return
			}
			a.currentEmail = ""
			a.auditLogger.LogLogout(email, false)
			a.auditLogger.SetActor(a.cfg.AuditUser)
			a.showLogin("")
			a.app.GetStatusBar().ShowSuccess("Signed out")
		})
	}()
}

func (a *Application) setupGlobalKeyBindings() {
	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Ctrl+Q で終了
		if event.Key() == ui.KeyQuit {
			a.app.Stop()
			return nil
		}

		// 一覧画面でのみ ? をヘルプに割り当てる（入力欄では文字として扱う）
		if event.Rune() == ui.RuneHelp && a.app.CurrentPage() == student.PageList {
			a.showHelp()
			return nil
		}

		return event
	})
}

func (a *Application) showHelp() {
	modal := ui.NewHelpModal(ui.GetDefaultHelpSections(), func() {
		a.app.CloseOverlay(pageHelp, a.listScreen.GetTable())
	})
	a.app.AddPage(pageHelp, modal, true, true)
	a.app.SetFocus(modal)
}

func (a *Application) cleanup() {
	if a.redisClient != nil {
		_ = a.redisClient.Close()
	}
	slog.Info("student-tui終了")
}
