package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// ボタンラベル
const (
	ButtonYes   = "Yes"
	ButtonNo    = "No"
	ButtonOK    = "OK"
	ButtonRetry = "Retry"
	ButtonExit  = "Exit"
)

// ConfirmDialog は確認ダイアログを表示する。
type ConfirmDialog struct {
	modal *tview.Modal
}

// NewConfirmDialog は新しいConfirmDialogを生成する。
// 初期フォーカスは安全側の "No" に置く。
func NewConfirmDialog(title, message string, onConfirm, onCancel func()) *ConfirmDialog {
	modal := tview.NewModal().
		SetText(message).
		AddButtons([]string{ButtonYes, ButtonNo}).
		SetFocus(1).
		SetDoneFunc(func(_ int, buttonLabel string) {
			if buttonLabel == ButtonYes {
				if onConfirm != nil {
					onConfirm()
				}
				return
			}
			if onCancel != nil {
				onCancel()
			}
		})

	modal.SetTitle(" " + title + " ").
		SetBorder(true).
		SetBorderColor(tcell.ColorYellow)

	return &ConfirmDialog{modal: modal}
}

// GetModal は内部のtview.Modalを返す。
func (d *ConfirmDialog) GetModal() *tview.Modal {
	return d.modal
}

// MessageDialog は閉じるだけのダイアログ（情報・エラー）を表す。
type MessageDialog struct {
	modal *tview.Modal
}

func newMessageDialog(title, text string, border tcell.Color, onClose func()) *MessageDialog {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{ButtonOK}).
		SetDoneFunc(func(int, string) {
			if onClose != nil {
				onClose()
			}
		})

	modal.SetTitle(" " + title + " ").
		SetBorder(true).
		SetBorderColor(border)

	return &MessageDialog{modal: modal}
}

// NewInfoDialog は情報ダイアログを生成する。
func NewInfoDialog(title, message string, onClose func()) *MessageDialog {
	return newMessageDialog(title, message, tcell.ColorTeal, onClose)
}

// NewErrorDialog はエラーダイアログを生成する。
func NewErrorDialog(title, message string, onClose func()) *MessageDialog {
	return newMessageDialog(title, "✗ ERROR\n\n"+message, tcell.ColorRed, onClose)
}

// GetModal は内部のtview.Modalを返す。
func (d *MessageDialog) GetModal() *tview.Modal {
	return d.modal
}
