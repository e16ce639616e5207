package ui

import "fmt"

// Pagination はサーバー側ページングの状態を管理する。
// 総件数と総ページ数はサーバーの応答で更新する。
type Pagination struct {
	CurrentPage int
	PageSize    int
	TotalItems  int
	TotalPages  int
}

// NewPagination は新しいPaginationを生成する。
func NewPagination(pageSize int) *Pagination {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Pagination{
		CurrentPage: 1,
		PageSize:    pageSize,
	}
}

// Update はサーバー応答の件数情報を反映する。
func (p *Pagination) Update(totalItems, totalPages int) {
	p.TotalItems = totalItems
	p.TotalPages = totalPages
}

// HasNextPage は次のページがあるかどうかを返す。
func (p *Pagination) HasNextPage() bool {
	return p.CurrentPage < p.TotalPages
}

// HasPrevPage は前のページがあるかどうかを返す。
func (p *Pagination) HasPrevPage() bool {
	return p.CurrentPage > 1
}

// NextPage は次のページに移動する。
func (p *Pagination) NextPage() bool {
	if p.HasNextPage() {
		p.CurrentPage++
		return true
	}
	return false
}

// PrevPage は前のページに移動する。
func (p *Pagination) PrevPage() bool {
	if p.HasPrevPage() {
		p.CurrentPage--
		return true
	}
	return false
}

// FirstPage は最初のページに移動する。
func (p *Pagination) FirstPage() {
	p.CurrentPage = 1
}

// ClampToLast は削除等で現在ページが範囲外になった場合に最終ページへ寄せる。
// ページが変わった場合はtrueを返す。
func (p *Pagination) ClampToLast() bool {
	last := p.TotalPages
	if last < 1 {
		last = 1
	}
	if p.CurrentPage > last {
		p.CurrentPage = last
		return true
	}
	return false
}

// ShowControls はページ切り替え操作を表示するかどうかを返す。
func (p *Pagination) ShowControls() bool {
	return p.TotalPages > 1
}

// FormatPageInfo はページ情報の文字列を生成する。
func (p *Pagination) FormatPageInfo() string {
	if p.TotalItems == 0 {
		return "No students"
	}
	if !p.ShowControls() {
		return fmt.Sprintf("%d total", p.TotalItems)
	}
	return fmt.Sprintf("Page %d of %d (%d total)", p.CurrentPage, p.TotalPages, p.TotalItems)
}
