// Package paging turns raw page/size query values into a store window and
// summarizes a result set for list responses.
package paging

import "math"

const (
	DefaultSize = 10
	MaxSize     = 100
	// MaxPage keeps (page-1)*size within int for any accepted size.
	MaxPage = math.MaxInt / MaxSize
)

// Window is a normalized page request. Page is 1-based.
type Window struct {
	Page int
	Size int
}

// Normalize never fails: non-positive page becomes 1 and non-positive size
// becomes DefaultSize, so list endpoints always have an answer. Page and
// size are capped at MaxPage and MaxSize.
func Normalize(page, size int) Window {
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return Window{Page: page, Size: size}
}

func (w Window) Offset() int {
	return (w.Page - 1) * w.Size
}

func (w Window) Limit() int {
	return w.Size
}

type Summary struct {
	CurrentPage   int `json:"currentPage"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
}

// Summarize rounds the page count up and keeps the requested page as the
// current one, even past the last page.
func Summarize(page, size, totalElements int) Summary {
	w := Normalize(page, size)
	if totalElements < 0 {
		totalElements = 0
	}
	return Summary{
		CurrentPage:   w.Page,
		PageSize:      w.Size,
		TotalElements: totalElements,
		TotalPages:    (totalElements + w.Size - 1) / w.Size,
	}
}

func (w Window) Summarize(totalElements int) Summary {
	return Summarize(w.Page, w.Size, totalElements)
}
