package pkg

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultPageSize 所有列表页共用的每页条数
const DefaultPageSize = 10

// Window 描述某一页在有序序列里的位置
type Window struct {
	Number   int
	NumPages int
	Count    int64
	Offset   int
	Limit    int
}

// Page 一页数据 + 元信息
type Page[T any] struct {
	Items       []T   `json:"object_list"`
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	Count       int64 `json:"count"`
	HasPrevious bool  `json:"has_previous"`
	HasNext     bool  `json:"has_next"`
}

// NewWindow resolves the requested page against count items.
// Missing, non-numeric and non-positive pages fall back to 1; pages past
// the end are clamped to the last one. There is always at least one page.
func NewWindow(count int64, perPage int, raw string) Window {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}
	if count < 0 {
		count = 0
	}
	numPages := int((count + int64(perPage) - 1) / int64(perPage))
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(raw)
	var numErr *strconv.NumError
	switch {
	case errors.As(err, &numErr) && numErr.Err == strconv.ErrRange && !strings.HasPrefix(raw, "-"):
		// 超出 int 范围的正数同样算越界
		number = numPages
	case err != nil || number < 1:
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Window{
		Number:   number,
		NumPages: numPages,
		Count:    count,
		Offset:   (number - 1) * perPage,
		Limit:    perPage,
	}
}

func (w Window) HasPrevious() bool { return w.Number > 1 }

func (w Window) HasNext() bool { return w.Number < w.NumPages }

// NewPage wraps already fetched items of window w.
func NewPage[T any](w Window, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items:       items,
		Number:      w.Number,
		NumPages:    w.NumPages,
		Count:       w.Count,
		HasPrevious: w.HasPrevious(),
		HasNext:     w.HasNext(),
	}
}

// Slice paginates an in-memory ordered sequence.
func Slice[T any](items []T, perPage int, raw string) Page[T] {
	w := NewWindow(int64(len(items)), perPage, raw)
	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	start := w.Offset
	if start > end {
		start = end
	}
	return NewPage(w, items[start:end])
}
