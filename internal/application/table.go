package application

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/JonMunkholm/dgref/internal/core"
)

// tableView is a windowed terminal table: one line per row, so the row
// height handed to the windower is 1.
type tableView struct {
	table   *core.Table
	filters core.ColumnFilters
	sort    core.SortState
	rows    []core.Record

	column int // selected column
	cursor int // selected row, index into rows
	offset int // first visible row
	height int // visible rows
}

func newTableView(table *core.Table, height int) *tableView {
	tv := &tableView{table: table, filters: core.ColumnFilters{}, height: max(height, 1)}
	tv.requery()
	return tv
}

// requery reapplies filters and sort and clamps the cursor.
func (tv *tableView) requery() {
	tv.rows = tv.table.Query(tv.filters, tv.sort)
	tv.cursor = min(tv.cursor, max(len(tv.rows)-1, 0))
	tv.scrollTo(tv.cursor)
}

func (tv *tableView) columns() []core.Column { return tv.table.Info.Columns }

func (tv *tableView) selectedColumn() core.Column {
	cols := tv.columns()
	if len(cols) == 0 {
		return core.Column{}
	}
	return cols[tv.column]
}

func (tv *tableView) moveColumn(delta int) {
	n := len(tv.columns())
	if n == 0 {
		return
	}
	tv.column = ((tv.column+delta)%n + n) % n
}

// toggleSort flips the sort of the selected column.
func (tv *tableView) toggleSort() {
	tv.sort = tv.sort.Toggle(tv.selectedColumn().Key)
	tv.requery()
}

// setFilter replaces the filter of the selected column. An empty value
// clears it.
func (tv *tableView) setFilter(value string) {
	col := tv.selectedColumn().Key
	if strings.TrimSpace(value) == "" {
		delete(tv.filters, col)
	} else {
		tv.filters[col] = strings.TrimSpace(value)
	}
	tv.cursor = 0
	tv.requery()
}

func (tv *tableView) move(delta int) {
	if len(tv.rows) == 0 {
		return
	}
	tv.cursor = min(max(tv.cursor+delta, 0), len(tv.rows)-1)
	tv.scrollTo(tv.cursor)
}

func (tv *tableView) resize(height int) {
	tv.height = max(height, 1)
	tv.scrollTo(tv.cursor)
}

// scrollTo keeps row i inside the visible lines.
func (tv *tableView) scrollTo(i int) {
	if i < tv.offset {
		tv.offset = i
	}
	if i >= tv.offset+tv.height {
		tv.offset = i - tv.height + 1
	}
	tv.offset = min(tv.offset, core.MaxScrollOffset(len(tv.rows), 1, tv.height))
	tv.offset = max(tv.offset, 0)
}

// window is the slice of rows to render.
func (tv *tableView) window() core.Range {
	return core.Window(core.Viewport{
		TotalRows:      len(tv.rows),
		RowHeight:      1,
		ViewportHeight: tv.height,
		ScrollOffset:   tv.offset,
	})
}

func (tv *tableView) selected() (core.Record, bool) {
	if tv.cursor < 0 || tv.cursor >= len(tv.rows) {
		return core.Record{}, false
	}
	return tv.rows[tv.cursor], true
}

// status describes the position, sort and filters of the view.
func (tv *tableView) status() string {
	parts := []string{fmt.Sprintf("%d/%d rows", min(tv.cursor+1, len(tv.rows)), len(tv.rows))}
	if tv.sort.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", tv.sort.Column, tv.sort.Dir))
	}
	for _, c := range tv.columns() {
		if v := tv.filters[c.Key]; v != "" {
			parts = append(parts, fmt.Sprintf("%s~%q", c.Key, v))
		}
	}
	return strings.Join(parts, " · ")
}

// render draws the header and the visible rows, truncating columns that do
// not fit in width.
func (tv *tableView) render(width int) string {
	cols := tv.columns()
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = max(c.Width/10, len(c.Label), 3)
	}

	var b strings.Builder
	var header []string
	for i, c := range cols {
		label := c.Label
		if tv.sort.Column == c.Key {
			label += map[core.SortDir]string{core.SortAsc: "▲", core.SortDesc: "▼"}[tv.sort.Dir]
		}
		style := headerStyle
		if i == tv.column {
			style = selectedHeaderStyle
		}
		header = append(header, style.Render(fit(label, widths[i])))
	}
	b.WriteString(clip(strings.Join(header, " "), width))
	b.WriteByte('\n')

	w := tv.window()
	for i, rec := range core.SliceWindow(tv.rows, w) {
		var cells []string
		for j, c := range cols {
			cells = append(cells, fit(rec.Text(c.Key), widths[j]))
		}
		line := clip(strings.Join(cells, " "), width)
		if w.Start+i == tv.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// fit pads or truncates s to exactly n cells.
func fit(s string, n int) string {
	if lipgloss.Width(s) > n {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > n-1 {
			r = r[:len(r)-1]
		}
		return string(r) + "…"
	}
	return s + strings.Repeat(" ", n-lipgloss.Width(s))
}

func clip(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(s)
}
