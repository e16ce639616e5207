// Package ui はTUIアプリケーションのUI層を提供する。
package ui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// App はTUIアプリケーションを管理する。
// apiclient.Navigatorを実装し、401応答時のログイン画面への遷移を受け付ける。
type App struct {
	app       *tview.Application
	pages     *tview.Pages
	statusBar *StatusBar
	layout    *tview.Flex

	mu               sync.RWMutex
	current          string
	loginPage        string
	onSessionExpired func()
}

// NewApp は新しいAppを生成する。
func NewApp(loginPage string) *App {
	app := tview.NewApplication()
	pages := tview.NewPages()
	statusBar := NewStatusBar()

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(pages, 0, 1, true).
		AddItem(statusBar.view, 1, 0, false)

	return &App{
		app:       app,
		pages:     pages,
		statusBar: statusBar,
		layout:    layout,
		loginPage: loginPage,
	}
}

// Run はアプリケーションを実行する。
func (a *App) Run() error {
	a.statusBar.SetApp(a.app)
	return a.app.SetRoot(a.layout, true).EnableMouse(false).Run()
}

// Stop はアプリケーションを停止する。
func (a *App) Stop() {
	a.app.Stop()
}

// GetStatusBar はステータスバーを返す。
func (a *App) GetStatusBar() *StatusBar {
	return a.statusBar
}

// AddPage はページを追加する。ダイアログ等のオーバーレイもこれで重ねる。
func (a *App) AddPage(name string, page tview.Primitive, resize, visible bool) {
	a.pages.AddPage(name, page, resize, visible)
}

// Navigate は画面を切り替え、現在の画面名を記録する。
func (a *App) Navigate(name string, page tview.Primitive) {
	a.pages.AddAndSwitchToPage(name, page, true)
	a.app.SetFocus(page)

	a.mu.Lock()
	a.current = name
	a.mu.Unlock()
}

// HidePage は指定されたページを非表示にする。
func (a *App) HidePage(name string) {
	a.pages.HidePage(name)
}

// RemovePage はページを削除する。
func (a *App) RemovePage(name string) {
	a.pages.RemovePage(name)
}

// CloseOverlay はオーバーレイページを閉じ、フォーカスを戻す。
func (a *App) CloseOverlay(name string, focus tview.Primitive) {
	a.pages.HidePage(name)
	a.pages.RemovePage(name)
	if focus != nil {
		a.app.SetFocus(focus)
	}
}

// SetFocus はフォーカスを設定する。
func (a *App) SetFocus(p tview.Primitive) {
	a.app.SetFocus(p)
}

// QueueUpdateDraw はUIの更新をキューに追加する。
// ゴルーチンから画面を更新する場合は必ずこれを使う。
func (a *App) QueueUpdateDraw(f func()) {
	a.app.QueueUpdateDraw(f)
}

// SetInputCapture はグローバルなキー入力ハンドラを設定する。
func (a *App) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	a.app.SetInputCapture(capture)
}

// SetOnSessionExpired は401応答でセッションが破棄されたときのハンドラを設定する。
// ハンドラはUIゴルーチン上で実行される。
func (a *App) SetOnSessionExpired(handler func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSessionExpired = handler
}

// CurrentPage は現在表示中の画面名を返す。
func (a *App) CurrentPage() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// RedirectToLogin はログイン画面への遷移を要求する。
// 任意のゴルーチンから呼び出せる。
func (a *App) RedirectToLogin() {
	a.mu.RLock()
	handler := a.onSessionExpired
	a.mu.RUnlock()
	if handler == nil {
		return
	}

	a.app.QueueUpdateDraw(func() {
		// キューで待つ間に既にログイン画面へ移っている場合がある
		if a.CurrentPage() == a.loginPage {
			return
		}
		handler()
	})
}

// Centered はコンポーネントを中央に配置する。
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
