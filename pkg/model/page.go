package model

import "fmt"

// Page はページ単位の一覧レスポンスを表す。
// JSON上の要素配列のキーは "data"。
type Page[T any] struct {
	Items      []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPage はitemsと総件数からPageを生成する。
func NewPage[T any](items []T, page, pageSize, totalItems int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: TotalPages(totalItems, pageSize),
	}
}

// TotalPages は総件数とページサイズから総ページ数を計算する。
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Validate はページの整合性を検証する。
func (p *Page[T]) Validate() error {
	if p.PageSize < 1 {
		return fmt.Errorf("pageSize must be >= 1, got %d", p.PageSize)
	}
	if p.TotalItems < 0 {
		return fmt.Errorf("totalItems must be >= 0, got %d", p.TotalItems)
	}
	// 空の一覧を1ページとして返すサーバーもある
	emptyAsOnePage := p.TotalItems == 0 && p.TotalPages == 1
	if want := TotalPages(p.TotalItems, p.PageSize); p.TotalPages != want && !emptyAsOnePage {
		return fmt.Errorf("totalPages=%d inconsistent with totalItems=%d pageSize=%d", p.TotalPages, p.TotalItems, p.PageSize)
	}
	if len(p.Items) > p.PageSize {
		return fmt.Errorf("page holds %d items, exceeds pageSize %d", len(p.Items), p.PageSize)
	}
	return nil
}

// HasNext は次ページが存在するかを返す。
func (p *Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev は前ページが存在するかを返す。
func (p *Page[T]) HasPrev() bool {
	return p.Page > 1
}
