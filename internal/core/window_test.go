package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	tests := []struct {
		name string
		vp   Viewport
		want Range
	}{
		{
			name: "top of table",
			vp:   Viewport{TotalRows: 1000, RowHeight: 45, ViewportHeight: 450, ScrollOffset: 0, Overscan: 10},
			want: Range{Start: 0, End: 20},
		},
		{
			name: "bottom of table",
			vp:   Viewport{TotalRows: 1000, RowHeight: 45, ViewportHeight: 450, ScrollOffset: 44550, Overscan: 10},
			want: Range{Start: 980, End: 1000},
		},
		{
			name: "middle with partial row",
			vp:   Viewport{TotalRows: 1000, RowHeight: 45, ViewportHeight: 450, ScrollOffset: 4520, Overscan: 10},
			want: Range{Start: 90, End: 121},
		},
		{
			name: "no overscan",
			vp:   Viewport{TotalRows: 100, RowHeight: 10, ViewportHeight: 50, ScrollOffset: 100},
			want: Range{Start: 10, End: 15},
		},
		{
			name: "fewer rows than viewport",
			vp:   Viewport{TotalRows: 3, RowHeight: 45, ViewportHeight: 600, Overscan: 10},
			want: Range{Start: 0, End: 3},
		},
		{
			name: "scroll past shrunken table",
			vp:   Viewport{TotalRows: 5, RowHeight: 45, ViewportHeight: 450, ScrollOffset: 44550, Overscan: 10},
			want: Range{Start: 5, End: 5},
		},
		{
			name: "empty table",
			vp:   Viewport{TotalRows: 0, RowHeight: 45, ViewportHeight: 450, Overscan: 10},
			want: Range{},
		},
		{
			name: "zero row height",
			vp:   Viewport{TotalRows: 10, RowHeight: 0, ViewportHeight: 450},
			want: Range{},
		},
		{
			name: "negative scroll",
			vp:   Viewport{TotalRows: 100, RowHeight: 10, ViewportHeight: 50, ScrollOffset: -30, Overscan: 2},
			want: Range{Start: 0, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(tt.vp)
			if got != tt.want {
				t.Errorf("Window() = %+v, want %+v", got, tt.want)
			}
			if got.Start < 0 || got.Start > got.End || got.End > max(tt.vp.TotalRows, 0) {
				t.Errorf("Window() = %+v out of bounds for %d rows", got, tt.vp.TotalRows)
			}
		})
	}
}

// Every row that intersects the viewport is inside the window.
func TestWindowCoversViewport(t *testing.T) {
	const total, h, vp = 500, 45, 600
	for scroll := 0; scroll <= total*h; scroll += 17 {
		r := Window(Viewport{TotalRows: total, RowHeight: h, ViewportHeight: vp, ScrollOffset: scroll, Overscan: 3})
		first := scroll / h
		last := min(total-1, (scroll+vp-1)/h)
		if first < total && (r.Start > first || r.End <= last) {
			t.Fatalf("scroll %d: window %+v misses rows %d..%d", scroll, r, first, last)
		}
	}
}

func TestSliceWindow(t *testing.T) {
	rows := []int{0, 1, 2, 3, 4}

	assert.Equal(t, []int{1, 2}, SliceWindow(rows, Range{Start: 1, End: 3}))
	assert.Equal(t, []int{3, 4}, SliceWindow(rows, Range{Start: 3, End: 99}))
	assert.Empty(t, SliceWindow(rows, Range{Start: 9, End: 12}))
	assert.Empty(t, SliceWindow(rows, Range{Start: 3, End: 1}))
}

func TestSpacerAndOffset(t *testing.T) {
	assert.Equal(t, 45000, SpacerHeight(1000, 45))
	assert.Equal(t, 0, SpacerHeight(0, 45))
	assert.Equal(t, 450, Offset(10, 45))
	assert.Equal(t, 44550, MaxScrollOffset(1000, 45, 450))
	assert.Equal(t, 0, MaxScrollOffset(3, 45, 450))
}

func TestRange(t *testing.T) {
	r := Range{Start: 4, End: 9}
	assert.Equal(t, 5, r.Len())
	assert.False(t, r.Empty())
	assert.True(t, Range{Start: 3, End: 3}.Empty())
}
