package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// HelpSection はヘルプのセクションを表す。
type HelpSection struct {
	Title    string
	Bindings []KeyBinding
}

// NewHelpModal はヘルプモーダルを生成する。
func NewHelpModal(sections []HelpSection, onClose func()) *tview.Modal {
	modal := tview.NewModal().
		SetText(formatHelp(sections)).
		AddButtons([]string{"Close"}).
		SetDoneFunc(func(int, string) {
			if onClose != nil {
				onClose()
			}
		})

	modal.SetTitle(" Help ").
		SetBorder(true).
		SetBorderColor(tcell.ColorTeal)

	return modal
}

// GetDefaultHelpSections はデフォルトのヘルプセクションを返す。
func GetDefaultHelpSections() []HelpSection {
	return []HelpSection{
		{Title: "Student List", Bindings: GetListKeyBindings(true)},
		{Title: "Forms", Bindings: GetFormKeyBindings()},
	}
}

func formatHelp(sections []HelpSection) string {
	var b strings.Builder
	for i, section := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("[::b]" + section.Title + "[::-]\n")
		for _, kb := range section.Bindings {
			b.WriteString("  " + tview.Escape(bindingLabel(kb)) + "  " + kb.Description + "\n")
		}
	}
	return b.String()
}
