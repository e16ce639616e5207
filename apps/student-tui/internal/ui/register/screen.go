// Package register は利用者登録画面を提供する。
package register

import (
	"context"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/audit"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/auth"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/validation"
	"github.com/rivo/tview"
)

const (
	labelName     = "Name"
	labelEmail    = "Email"
	labelPassword = "Password"
	labelConfirm  = "Confirm password"
)

// Screen は利用者登録画面を表す。
type Screen struct {
	form        *tview.Form
	app         *ui.App
	authService *auth.Service
	auditLogger *audit.Logger
	submitting  bool
	onDone      func(email string)
	onCancel    func()
}

// NewScreen は新しい利用者登録画面を生成する。
func NewScreen(app *ui.App, authService *auth.Service, auditLogger *audit.Logger) *Screen {
	form := tview.NewForm()
	form.SetBorder(true).
		SetTitle(" Create Account ").
		SetTitleAlign(tview.AlignCenter).
		SetBorderColor(tcell.ColorBlue)

	s := &Screen{
		form:        form,
		app:         app,
		authService: authService,
		auditLogger: auditLogger,
	}

	form.AddInputField(labelName, "", 40, nil, nil)
	form.AddInputField(labelEmail, "", 40, nil, nil)
	form.AddPasswordField(labelPassword, "", 40, '*', nil)
	form.AddPasswordField(labelConfirm, "", 40, '*', nil)
	form.AddButton("Register", s.handleSubmit)
	form.AddButton("Back", s.handleCancel)

	form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc {
			s.handleCancel()
			return nil
		}
		return event
	})

	return s
}

// SetOnDone は登録完了時のコールバックを設定する。
func (s *Screen) SetOnDone(handler func(email string)) {
	s.onDone = handler
}

// SetOnCancel はキャンセル時のコールバックを設定する。
func (s *Screen) SetOnCancel(handler func()) {
	s.onCancel = handler
}

// Primitive は画面のルート要素を返す。
func (s *Screen) Primitive() tview.Primitive {
	return ui.Centered(s.form, 64, 13)
}

// Reset は入力内容をクリアする。
func (s *Screen) Reset() {
	for _, label := range []string{labelName, labelEmail, labelPassword, labelConfirm} {
		s.inputField(label).SetText("")
	}
	s.form.SetFocus(0)
}

func (s *Screen) inputField(label string) *tview.InputField {
	return s.form.GetFormItemByLabel(label).(*tview.InputField)
}

func (s *Screen) handleSubmit() {
	if s.submitting {
		return
	}

	req := model.RegisterRequest{
		Name:     strings.TrimSpace(s.inputField(labelName).GetText()),
		Email:    strings.TrimSpace(s.inputField(labelEmail).GetText()),
		Password: s.inputField(labelPassword).GetText(),
	}
	if err := validation.ValidateRegister(req); err != nil {
		s.app.GetStatusBar().ShowError(ui.Describe(err, "Invalid input"))
		return
	}
	if req.Password != s.inputField(labelConfirm).GetText() {
		s.app.GetStatusBar().ShowError("Passwords do not match")
		return
	}

	s.submitting = true
	s.app.GetStatusBar().ShowPersistent(ui.StatusInfo, "Creating account...")

	go func() {
		err := s.authService.Register(context.Background(), req.Name, req.Email, req.Password)
		s.app.QueueUpdateDraw(func() {
			s.submitting = false
			if err != nil {
				s.app.GetStatusBar().ShowError(ui.Describe(err, "Registration failed"))
				return
			}

			s.auditLogger.LogRegister(req.Email)
			s.app.GetStatusBar().ShowSuccess("Account created. Please sign in.")
			s.Reset()
			if s.onDone != nil {
				s.onDone(req.Email)
			}
		})
	}()
}

func (s *Screen) handleCancel() {
	if s.onCancel != nil {
		s.onCancel()
	}
}
