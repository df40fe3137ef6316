package core

// Viewport describes the scroll state of a windowed table view. All lengths
// are in pixels.
type Viewport struct {
	TotalRows      int
	RowHeight      int
	ViewportHeight int
	ScrollOffset   int
	Overscan       int
}

// Range is a half-open row index range [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of rows in the range.
func (r Range) Len() int { return r.End - r.Start }

// Empty reports whether the range holds no rows.
func (r Range) Empty() bool { return r.End <= r.Start }

// Offset returns the absolute top position of row index i.
func Offset(i, rowHeight int) int { return i * rowHeight }

// SpacerHeight returns the height of the element that stands in for all rows,
// so the scrollbar reflects the full content size.
func SpacerHeight(totalRows, rowHeight int) int {
	if totalRows <= 0 || rowHeight <= 0 {
		return 0
	}
	return totalRows * rowHeight
}

// Window computes the rows that must be rendered for a viewport, including
// overscan on both sides. The result is always within [0, TotalRows] and never
// inverted, even when TotalRows shrank below the current scroll position.
func Window(v Viewport) Range {
	if v.TotalRows <= 0 || v.RowHeight <= 0 {
		return Range{}
	}
	scroll := max(v.ScrollOffset, 0)
	viewport := max(v.ViewportHeight, 0)
	overscan := max(v.Overscan, 0)

	start := max(0, scroll/v.RowHeight-overscan)
	end := min(v.TotalRows, ceilDiv(scroll+viewport, v.RowHeight)+overscan)
	start = min(start, end)
	return Range{Start: start, End: end}
}

// SliceWindow returns the rows inside r, clamped to the slice bounds.
func SliceWindow[T any](rows []T, r Range) []T {
	start := min(max(r.Start, 0), len(rows))
	end := min(max(r.End, start), len(rows))
	return rows[start:end]
}

// MaxScrollOffset is the largest scroll position that still shows content.
func MaxScrollOffset(totalRows, rowHeight, viewportHeight int) int {
	return max(0, SpacerHeight(totalRows, rowHeight)-max(viewportHeight, 0))
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
