package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// NewStartupErrorModal はセッションストアに接続できない場合の起動エラー画面を生成する。
func NewStartupErrorModal(addr, errorMessage string, onRetry, onExit func()) *tview.Modal {
	modal := tview.NewModal().
		SetText("Failed to connect to the session store:\n\n" + errorMessage +
			"\n\nPlease check:\n- Valkey is running on " + addr +
			"\n- REDIS_PASS is set correctly\n- or set SESSION_BACKEND=memory").
		AddButtons([]string{ButtonRetry, ButtonExit}).
		SetDoneFunc(func(_ int, buttonLabel string) {
			if buttonLabel == ButtonRetry {
				if onRetry != nil {
					onRetry()
				}
				return
			}
			if onExit != nil {
				onExit()
			}
		})

	modal.SetTitle(" Connection Error ").
		SetBorder(true).
		SetBorderColor(tcell.ColorRed)
	modal.SetBackgroundColor(tcell.ColorBlack)

	return modal
}
