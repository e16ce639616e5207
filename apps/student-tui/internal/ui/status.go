package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// StatusType はステータスメッセージの種類を表す。
type StatusType int

const (
	// StatusInfo は情報メッセージ
	StatusInfo StatusType = iota
	// StatusSuccess は成功メッセージ
	StatusSuccess
	// StatusWarning は警告メッセージ
	StatusWarning
	// StatusError はエラーメッセージ
	StatusError
)

// DefaultStatusDuration は通知が消えるまでの時間
const DefaultStatusDuration = 3 * time.Second

// StatusBar は画面下部の通知領域を管理する。
type StatusBar struct {
	view        *tview.TextView
	app         *tview.Application
	clearTimer  *time.Timer
	duration    time.Duration
	defaultText string
}

// NewStatusBar は新しいStatusBarを生成する。
func NewStatusBar() *StatusBar {
	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	view.SetBackgroundColor(tcell.ColorDarkBlue)
	view.SetTextColor(tcell.ColorWhite)

	return &StatusBar{
		view:        view,
		duration:    DefaultStatusDuration,
		defaultText: " ?:Help | Ctrl+Q:Exit",
	}
}

// SetApp はtview.Applicationへの参照を設定する。
func (s *StatusBar) SetApp(app *tview.Application) {
	s.app = app
	s.ShowDefault()
}

// SetDuration は通知の表示時間を設定する。
func (s *StatusBar) SetDuration(d time.Duration) {
	s.duration = d
}

// ShowDefault はデフォルトのステータスメッセージを表示する。
func (s *StatusBar) ShowDefault() {
	s.view.SetText(s.defaultText)
}

// SetDefaultText は画面ごとのキー操作ヒントを設定して表示する。
func (s *StatusBar) SetDefaultText(text string) {
	s.defaultText = text
	s.ShowDefault()
}

// Show はステータスメッセージを表示する。
func (s *StatusBar) Show(statusType StatusType, message string) {
	s.ShowWithDuration(statusType, message, s.duration)
}

// ShowWithDuration は指定された時間後にデフォルトに戻るステータスメッセージを表示する。
func (s *StatusBar) ShowWithDuration(statusType StatusType, message string, duration time.Duration) {
	if s.clearTimer != nil {
		s.clearTimer.Stop()
	}

	s.view.SetText(formatStatus(statusType, message))

	if duration > 0 {
		s.clearTimer = time.AfterFunc(duration, func() {
			if s.app != nil {
				s.app.QueueUpdateDraw(s.ShowDefault)
			}
		})
	}
}

// ShowInfo は情報メッセージを表示する。
func (s *StatusBar) ShowInfo(message string) {
	s.Show(StatusInfo, message)
}

// ShowSuccess は成功メッセージを表示する。
func (s *StatusBar) ShowSuccess(message string) {
	s.Show(StatusSuccess, message)
}

// ShowWarning は警告メッセージを表示する。
func (s *StatusBar) ShowWarning(message string) {
	s.Show(StatusWarning, message)
}

// ShowError はエラーメッセージを表示する。
func (s *StatusBar) ShowError(message string) {
	s.Show(StatusError, message)
}

// ShowPersistent は自動的に消えないメッセージを表示する。
func (s *StatusBar) ShowPersistent(statusType StatusType, message string) {
	s.ShowWithDuration(statusType, message, 0)
}

// Text は表示中のテキストを返す。
func (s *StatusBar) Text() string {
	return s.view.GetText(false)
}

func formatStatus(statusType StatusType, message string) string {
	message = tview.Escape(message)
	switch statusType {
	case StatusSuccess:
		return "[green::b] ✓ " + message + " [-::-]"
	case StatusWarning:
		return "[yellow::b] ⚠ " + message + " [-::-]"
	case StatusError:
		return "[red::b] ✗ " + message + " [-::-]"
	default:
		return "[cyan] ℹ " + message + " [-]"
	}
}
