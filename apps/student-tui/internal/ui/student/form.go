package student

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/audit"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/students"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/oyaguma3/student-records/pkg/validation"
	"github.com/rivo/tview"
)

const (
	labelName  = "Name"
	labelEmail = "Email"
	labelGrade = "Grade"
)

// MsgCreated は登録成功時の通知
const MsgCreated = "Student created"

// FormScreen は学生登録画面を表す。
type FormScreen struct {
	form        *tview.Form
	app         *ui.App
	service     *students.Service
	auditLogger *audit.Logger
	saving      bool
	onSave      func(created *model.Student)
	onCancel    func()
}

// NewFormScreen は新しいFormScreenを生成する。
func NewFormScreen(app *ui.App, service *students.Service, auditLogger *audit.Logger) *FormScreen {
	form := tview.NewForm()

	form.SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	return &FormScreen{
		form:        form,
		app:         app,
		service:     service,
		auditLogger: auditLogger,
	}
}

// SetOnSave は保存時のコールバックを設定する。
func (s *FormScreen) SetOnSave(handler func(created *model.Student)) {
	s.onSave = handler
}

// SetOnCancel はキャンセル時のコールバックを設定する。
func (s *FormScreen) SetOnCancel(handler func()) {
	s.onCancel = handler
}

// GetForm は内部のtview.Formを返す。
func (s *FormScreen) GetForm() *tview.Form {
	return s.form
}

// SetupCreate は新規作成モードでフォームをセットアップする。
func (s *FormScreen) SetupCreate() {
	s.saving = false

	s.form.Clear(true)
	s.form.SetTitle(" New Student ")

	s.form.AddInputField(labelName, "", 40, nil, nil)
	s.form.AddInputField(labelEmail, "", 40, nil, nil)
	s.form.AddInputField(labelGrade, "", 20, nil, nil)

	s.form.AddButton("Save", s.handleSave)
	s.form.AddButton("Cancel", s.handleCancel)

	s.setupKeyBindings()
	s.app.GetStatusBar().SetDefaultText(ui.FormatKeyBindingHint(ui.GetFormKeyBindings()))
}

func (s *FormScreen) text(label string) string {
	return s.form.GetFormItemByLabel(label).(*tview.InputField).GetText()
}

func (s *FormScreen) handleSave() {
	if s.saving {
		return
	}

	req := model.NewCreateStudentRequest(s.text(labelName), s.text(labelEmail), s.text(labelGrade))
	if err := validation.ValidateStudent(req); err != nil {
		s.app.GetStatusBar().ShowError("Validation error: " + ui.Describe(err, "invalid input"))
		return
	}

	s.saving = true
	s.app.GetStatusBar().ShowPersistent(ui.StatusInfo, "Saving...")

	go func() {
		created, err := s.service.Create(context.Background(), req.Nome, req.Email, req.Serie)
		s.app.QueueUpdateDraw(func() {
			s.saving = false
			if err != nil {
				switch {
				case apiclient.KindOf(err) == apiclient.KindAuthenticationRejected:
				case students.IsValidation(err):
					s.app.GetStatusBar().ShowWarning(ui.Describe(err, "Invalid input"))
				default:
					s.app.GetStatusBar().ShowError(ui.Describe(err, "Failed to create student"))
				}
				return
			}

			s.auditLogger.LogStudentCreate(created.ID)
			s.app.GetStatusBar().ShowSuccess(MsgCreated)
			if s.onSave != nil {
				s.onSave(created)
			}
		})
	}()
}

func (s *FormScreen) handleCancel() {
	if s.onCancel != nil {
		s.onCancel()
	}
}

func (s *FormScreen) setupKeyBindings() {
	s.form.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == ui.KeyEscape {
			s.handleCancel()
			return nil
		}
		return event
	})
}
