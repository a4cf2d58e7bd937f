// Copyright 2022 The alliance Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pagination holds the value types for paged list endpoints: a
// Pageable request window and the Page returned for it.
package pagination

// Pageable selects one window of a paged collection. When attached to
// a route its fields are sent as the query parameters size and page.
type Pageable struct {
	Size int `json:"size"`
	Page int `json:"page"`
}

// Of returns a Pageable for the given size and zero-based page index.
func Of(size, page int) *Pageable {
	return &Pageable{Size: size, Page: page}
}

// Next returns the Pageable for the following page.
func (p Pageable) Next() *Pageable {
	return &Pageable{Size: p.Size, Page: p.Page + 1}
}

// Page is one window of a paged collection as returned by the server.
type Page[T any] struct {
	TotalElements  int `json:"totalElements"`
	TotalPages     int `json:"totalPages"`
	Amount         int `json:"amount"`
	ActivePage     int `json:"activePage"`
	ActivePageSize int `json:"activePageSize"`
	Elements       []T `json:"elements"`
}

// NewPage builds a Page, deriving TotalPages from totalElements and
// activePageSize. TotalPages is zero when activePageSize is not
// positive.
func NewPage[T any](totalElements, activePage, activePageSize, amount int, elements []T) *Page[T] {
	return &Page[T]{
		TotalElements:  totalElements,
		TotalPages:     totalPages(totalElements, activePageSize),
		Amount:         amount,
		ActivePage:     activePage,
		ActivePageSize: activePageSize,
		Elements:       elements,
	}
}

// HasNext reports whether a page follows the active one.
func (p *Page[T]) HasNext() bool {
	return p.ActivePage+1 < p.TotalPages
}

func totalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
