package paging_test

import (
	"math"
	"testing"

	"github.com/Astemirdum/school-library/pkg/paging"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		page, size int
		want       paging.Window
		offset     int
	}{
		{name: "zero defaults", page: 0, size: 0, want: paging.Window{Page: 1, Size: 10}, offset: 0},
		{name: "negative defaults", page: -3, size: -1, want: paging.Window{Page: 1, Size: 10}, offset: 0},
		{name: "third page", page: 3, size: 20, want: paging.Window{Page: 3, Size: 20}, offset: 40},
		{name: "size capped", page: 2, size: 1000, want: paging.Window{Page: 2, Size: paging.MaxSize}, offset: paging.MaxSize},
		{
			name: "page capped", page: math.MaxInt / 50, size: 100,
			want:   paging.Window{Page: paging.MaxPage, Size: paging.MaxSize},
			offset: (paging.MaxPage - 1) * paging.MaxSize,
		},
		{
			name: "max int page", page: math.MaxInt, size: 1000,
			want:   paging.Window{Page: paging.MaxPage, Size: paging.MaxSize},
			offset: (paging.MaxPage - 1) * paging.MaxSize,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := paging.Normalize(tt.page, tt.size)
			require.Equal(t, tt.want, w)
			require.Equal(t, tt.offset, w.Offset())
			require.Equal(t, tt.want.Size, w.Limit())
			require.GreaterOrEqual(t, w.Offset(), 0)
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name              string
		page, size, total int
		want              paging.Summary
	}{
		{
			name: "rounds up", page: 1, size: 10, total: 25,
			want: paging.Summary{CurrentPage: 1, PageSize: 10, TotalElements: 25, TotalPages: 3},
		},
		{
			name: "exact pages", page: 2, size: 5, total: 10,
			want: paging.Summary{CurrentPage: 2, PageSize: 5, TotalElements: 10, TotalPages: 2},
		},
		{
			name: "empty keeps page", page: 3, size: 10, total: 0,
			want: paging.Summary{CurrentPage: 3, PageSize: 10, TotalElements: 0, TotalPages: 0},
		},
		{
			name: "size larger than total", page: 1, size: 50, total: 1,
			want: paging.Summary{CurrentPage: 1, PageSize: 50, TotalElements: 1, TotalPages: 1},
		},
		{
			name: "page past end is preserved", page: 7, size: 10, total: 11,
			want: paging.Summary{CurrentPage: 7, PageSize: 10, TotalElements: 11, TotalPages: 2},
		},
		{
			name: "raw zero input", page: 0, size: 0, total: 9,
			want: paging.Summary{CurrentPage: 1, PageSize: 10, TotalElements: 9, TotalPages: 1},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, paging.Summarize(tt.page, tt.size, tt.total))
		})
	}
}
