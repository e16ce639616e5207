// Package student は学生一覧・登録画面を提供する。
package student

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/apiclient"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/audit"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/querycache"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/students"
	"github.com/oyaguma3/student-records/apps/student-tui/internal/ui"
	"github.com/oyaguma3/student-records/pkg/model"
	"github.com/rivo/tview"
)

// 画面名
const (
	PageList          = "students"
	PageForm          = "student-form"
	pageConfirmDelete = "confirm-delete"
)

// 通知メッセージ
const (
	MsgDeleted         = "Student deleted"
	MsgNotFoundRefresh = "Student not found. The list was refreshed."
	MsgLoadFailed      = "Failed to load students"
	MsgDeleteFailed    = "Failed to delete student"
)

// ListScreen は学生一覧画面を表す。
type ListScreen struct {
	table       *tview.Table
	app         *ui.App
	service     *students.Service
	auditLogger *audit.Logger
	pagination  *ui.Pagination
	items       []model.Student
	loadErr     error
	loadSeq     uint64
	onCreate    func()
	onLogout    func()
}

// NewListScreen は新しいListScreenを生成する。
func NewListScreen(app *ui.App, service *students.Service, auditLogger *audit.Logger, pageSize int) *ListScreen {
	table := tview.NewTable().
		SetBorders(false).
		SetSelectable(true, false).
		SetFixed(1, 0)

	table.SetTitle(" Students ").
		SetTitleAlign(tview.AlignCenter).
		SetBorder(true).
		SetBorderColor(tcell.ColorBlue)

	screen := &ListScreen{
		table:       table,
		app:         app,
		service:     service,
		auditLogger: auditLogger,
		pagination:  ui.NewPagination(pageSize),
	}

	screen.setupKeyBindings()
	return screen
}

// SetOnCreate は新規作成時のコールバックを設定する。
func (s *ListScreen) SetOnCreate(handler func()) {
	s.onCreate = handler
}

// SetOnLogout はログアウト要求時のコールバックを設定する。
func (s *ListScreen) SetOnLogout(handler func()) {
	s.onLogout = handler
}

// GetTable は内部のtview.Tableを返す。
func (s *ListScreen) GetTable() *tview.Table {
	return s.table
}

// FirstPage は1ページ目に戻す。
func (s *ListScreen) FirstPage() {
	s.pagination.FirstPage()
}

// Load は現在のページを読み込む。UIゴルーチンから呼ぶ。
// キャッシュが新しければリクエストは発生しない。
func (s *ListScreen) Load() {
	s.load(false)
}

// Refetch はキャッシュの状態に関わらず現在のページを取り直す。
func (s *ListScreen) Refetch() {
	s.load(true)
}

func (s *ListScreen) load(refetch bool) {
	page, size := s.pagination.CurrentPage, s.pagination.PageSize
	s.loadSeq++
	seq := s.loadSeq

	// 無効化済みのページは古い内容を残したまま取り直す
	if entry, ok := s.service.Cached(page, size); ok && entry.Stale {
		s.table.SetTitle(" Students [gray](refreshing...)[-] ")
	} else {
		s.table.SetTitle(" Students [gray](loading...)[-] ")
	}

	var opts []querycache.GetOption
	if refetch {
		opts = append(opts, querycache.WithRefetch())
	}

	go func() {
		result, err := s.service.List(context.Background(), page, size, opts...)
		s.app.QueueUpdateDraw(func() {
			// 後から発行した読み込みがあれば古い結果は捨てる
			if seq != s.loadSeq {
				return
			}
			s.applyResult(result, err)
		})
	}()
}

func (s *ListScreen) applyResult(result *model.Page[model.Student], err error) {
	if err != nil {
		s.loadErr = err
		s.items = nil
		s.render()
		// 401はログイン画面へ遷移するため通知しない
		if apiclient.KindOf(err) != apiclient.KindAuthenticationRejected {
			s.app.GetStatusBar().ShowError(ui.Describe(err, MsgLoadFailed) + " (r: retry)")
		}
		return
	}

	s.loadErr = nil
	s.pagination.Update(result.TotalItems, result.TotalPages)
	if len(result.Items) == 0 && s.pagination.ClampToLast() {
		s.Load()
		return
	}
	s.items = result.Items
	s.render()
}

// GetSelected は選択されている学生を返す。
func (s *ListScreen) GetSelected() (model.Student, bool) {
	row, _ := s.table.GetSelection()
	idx := row - 1
	if idx < 0 || idx >= len(s.items) {
		return model.Student{}, false
	}
	return s.items[idx], true
}

func (s *ListScreen) render() {
	s.table.Clear()

	headers := []string{"ID", "Name", "Email", "Grade"}
	for col, header := range headers {
		cell := tview.NewTableCell(header).
			SetTextColor(tcell.ColorYellow).
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(1)
		if col == 0 {
			cell.SetExpansion(0)
		}
		s.table.SetCell(0, col, cell)
	}

	switch {
	case s.loadErr != nil:
		s.table.SetCell(1, 1, tview.NewTableCell(ui.Describe(s.loadErr, MsgLoadFailed)+". Press r to retry.").
			SetTextColor(tcell.ColorRed).
			SetSelectable(false))
	case len(s.items) == 0:
		s.table.SetCell(1, 1, tview.NewTableCell("No students yet. Press n to add one.").
			SetTextColor(tcell.ColorGray).
			SetSelectable(false))
	}

	for i, st := range s.items {
		row := i + 1
		s.table.SetCell(row, 0, tview.NewTableCell(strconv.FormatInt(st.ID, 10)).
			SetTextColor(tcell.ColorGray).
			SetAlign(tview.AlignRight))
		s.table.SetCell(row, 1, tview.NewTableCell(tview.Escape(st.Nome)).
			SetTextColor(tcell.ColorWhite).
			SetExpansion(1))
		s.table.SetCell(row, 2, tview.NewTableCell(tview.Escape(st.Email)).
			SetTextColor(tcell.ColorWhite).
			SetExpansion(1))
		s.table.SetCell(row, 3, tview.NewTableCell(tview.Escape(st.Serie)).
			SetTextColor(tcell.ColorWhite).
			SetExpansion(1))
	}

	s.table.SetTitle(" Students [gray]" + s.pagination.FormatPageInfo() + "[-] ")
	s.app.GetStatusBar().SetDefaultText(ui.FormatKeyBindingHint(ui.GetListKeyBindings(s.pagination.ShowControls())))

	if len(s.items) > 0 {
		s.table.Select(1, 0)
	}
}

func (s *ListScreen) setupKeyBindings() {
	s.table.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case ui.KeyPageUp:
			if s.pagination.PrevPage() {
				s.Load()
			}
			return nil
		case ui.KeyPageDown:
			if s.pagination.NextPage() {
				s.Load()
			}
			return nil
		}

		switch event.Rune() {
		case ui.RuneCreate:
			if s.onCreate != nil {
				s.onCreate()
			}
			return nil
		case ui.RuneDelete:
			if st, ok := s.GetSelected(); ok {
				s.confirmDelete(st)
			}
			return nil
		case ui.RuneRefresh:
			s.Refetch()
			return nil
		case ui.RuneLogout:
			if s.onLogout != nil {
				s.onLogout()
			}
			return nil
		}

		return event
	})
}

func (s *ListScreen) confirmDelete(st model.Student) {
	dialog := ui.NewConfirmDialog(
		"Delete Student",
		confirmDeleteMessage(st),
		func() {
			s.app.CloseOverlay(pageConfirmDelete, s.table)
			s.delete(st)
		},
		func() {
			s.app.CloseOverlay(pageConfirmDelete, s.table)
		},
	)

	s.app.AddPage(pageConfirmDelete, dialog.GetModal(), true, true)
	s.app.SetFocus(dialog.GetModal())
}

func (s *ListScreen) delete(st model.Student) {
	go func() {
		result, err := s.service.Delete(context.Background(), st.ID)
		s.app.QueueUpdateDraw(func() {
			if err != nil {
				if apiclient.KindOf(err) != apiclient.KindAuthenticationRejected {
					s.app.GetStatusBar().ShowError(ui.Describe(err, MsgDeleteFailed))
				}
				return
			}

			s.auditLogger.LogStudentDelete(st.ID, result.AlreadyGone)
			if result.AlreadyGone {
				s.app.GetStatusBar().ShowWarning(MsgNotFoundRefresh)
			} else {
				s.app.GetStatusBar().ShowSuccess(MsgDeleted)
			}
			s.Load()
		})
	}()
}

// confirmDeleteMessage は削除確認ダイアログの本文を返す。
func confirmDeleteMessage(st model.Student) string {
	return fmt.Sprintf("Delete student %q (%s)?\n\nThis action cannot be undone.", st.Nome, st.Email)
}
