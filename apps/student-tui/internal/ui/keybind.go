package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// キーバインド定義
var (
	KeyPageUp   = tcell.KeyPgUp
	KeyPageDown = tcell.KeyPgDn
	KeyTab      = tcell.KeyTab
	KeyBacktab  = tcell.KeyBacktab
	KeyEnter    = tcell.KeyEnter
	KeyEscape   = tcell.KeyEsc
	KeyQuit     = tcell.KeyCtrlQ
)

// Rune keys
const (
	RuneCreate  = 'n'
	RuneDelete  = 'd'
	RuneRefresh = 'r'
	RuneLogout  = 'l'
	RuneHelp    = '?'
)

// KeyBinding はキーバインドの情報を表す。
type KeyBinding struct {
	Key         tcell.Key
	Rune        rune
	Description string
}

// GetListKeyBindings は一覧画面のキーバインドを返す。
// ページ送りは複数ページある場合のみ含める。
func GetListKeyBindings(paged bool) []KeyBinding {
	bindings := []KeyBinding{
		{0, RuneCreate, "New"},
		{0, RuneDelete, "Delete"},
		{0, RuneRefresh, "Refresh"},
	}
	if paged {
		bindings = append(bindings,
			KeyBinding{KeyPageUp, 0, "Prev"},
			KeyBinding{KeyPageDown, 0, "Next"},
		)
	}
	return append(bindings,
		KeyBinding{0, RuneLogout, "Logout"},
		KeyBinding{KeyQuit, 0, "Exit"},
	)
}

// GetFormKeyBindings はフォーム画面のキーバインドを返す。
func GetFormKeyBindings() []KeyBinding {
	return []KeyBinding{
		{KeyTab, 0, "Next field"},
		{KeyEnter, 0, "Submit"},
		{KeyEscape, 0, "Cancel"},
		{KeyQuit, 0, "Exit"},
	}
}

// FormatKeyBindingHint はキーバインドのヒント文字列を生成する。
func FormatKeyBindingHint(bindings []KeyBinding) string {
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		hints = append(hints, bindingLabel(b)+":"+b.Description)
	}
	return " " + strings.Join(hints, " | ")
}

func bindingLabel(b KeyBinding) string {
	if b.Key == 0 {
		return string(b.Rune)
	}
	return keyToString(b.Key)
}

// keyToString はキーコードを文字列に変換する。
func keyToString(key tcell.Key) string {
	switch key {
	case tcell.KeyPgUp:
		return "PgUp"
	case tcell.KeyPgDn:
		return "PgDn"
	case tcell.KeyTab:
		return "Tab"
	case tcell.KeyBacktab:
		return "Shift+Tab"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEsc:
		return "Esc"
	case tcell.KeyCtrlQ:
		return "Ctrl+Q"
	default:
		return tcell.KeyNames[key]
	}
}
