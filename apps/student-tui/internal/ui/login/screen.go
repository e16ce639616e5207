// Package login はログイン画面を提供する。
package login

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/audit"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/auth"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/validation"
	"github.com/rivo/tview"
)

const (
	labelEmail    = "Email"
	labelPassword = "Password"
)

// Screen はログイン画面を表す。
type Screen struct {
	form        *tview.Form
	app         *ui.App
	authService *auth.Service
	auditLogger *audit.Logger
	submitting  bool
	onSuccess   func(sess *model.Session)
	onRegister  func()
}

// NewScreen は新しいログイン画面を生成する。
func NewScreen(app *ui.App, authService *auth.Service, auditLogger *audit.Logger) *Screen {
	form := tview.NewForm()
	form.SetBorder(true).
		SetTitle(" Student Records - Sign in ").
		SetTitleAlign(tview.AlignCenter).
		SetBorderColor(tcell.ColorBlue)

	s := &Screen{
		form:        form,
		app:         app,
		authService: authService,
		auditLogger: auditLogger,
	}

	form.AddInputField(labelEmail, "", 40, nil, nil)
	form.AddPasswordField(labelPassword, "", 40, '*', nil)
	form.AddButton("Sign in", s.handleSubmit)
	form.AddButton("Create account", s.handleRegister)

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			s.Reset("")
			return nil
		}
		return event
	})

	return s
}

// SetOnSuccess はログイン成功時のコールバックを設定する。
func (s *Screen) SetOnSuccess(handler func(sess *model.Session)) {
	s.onSuccess = handler
}

// SetOnRegister は利用者登録画面への遷移コールバックを設定する。
func (s *Screen) SetOnRegister(handler func()) {
	s.onRegister = handler
}

// Primitive は画面のルート要素を返す。
func (s *Screen) Primitive() tview.Primitive {
	return ui.Centered(s.form, 60, 9)
}

// Reset は入力内容をクリアする。emailが指定されていれば初期値にする。
func (s *Screen) Reset(email string) {
	s.inputField(labelEmail).SetText(email)
	s.inputField(labelPassword).SetText("")
	s.form.SetFocus(0)
	if email != "" {
		s.form.SetFocus(1)
	}
}

func (s *Screen) inputField(label string) *tview.InputField {
	return s.form.GetFormItemByLabel(label).(*tview.InputField)
}

func (s *Screen) handleSubmit() {
	if s.submitting {
		return
	}

	req := model.LoginRequest{
		Email:    strings.TrimSpace(s.inputField(labelEmail).GetText()),
		Password: s.inputField(labelPassword).GetText(),
	}
	if err := validation.ValidateLogin(req); err != nil {
		s.app.GetStatusBar().ShowError(ui.Describe(err, "Invalid input"))
		return
	}

	s.submitting = true
	s.app.GetStatusBar().ShowPersistent(ui.StatusInfo, "Signing in...")

	go func() {
		sess, err := s.authService.Login(context.Background(), req.Email, req.Password)
		s.app.QueueUpdateDraw(func() {
			s.submitting = false
			if err != nil {
				s.app.GetStatusBar().ShowError(describeLoginError(err))
				s.inputField(labelPassword).SetText("")
				return
			}

			s.auditLogger.LogLogin(sess.Email)
			s.app.GetStatusBar().ShowSuccess("Signed in as " + sess.Email)
			s.inputField(labelPassword).SetText("")
			if s.onSuccess != nil {
				s.onSuccess(sess)
			}
		})
	}()
}

// describeLoginError はログイン失敗時のメッセージを返す。
// ログイン画面での401はセッション切れではなく資格情報の誤り。
func describeLoginError(err error) string {
	if apiclient.KindOf(err) == apiclient.KindAuthenticationRejected {
		return apiclient.UserMessage(err, "Invalid email or password")
	}
	return ui.Describe(err, "Sign in failed")
}

func (s *Screen) handleRegister() {
	if s.onRegister != nil {
		s.onRegister()
	}
}
