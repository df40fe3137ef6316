package core

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortDir is a sort direction.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSortDir maps anything other than "desc" to ascending.
func ParseSortDir(s string) SortDir {
	if strings.EqualFold(strings.TrimSpace(s), string(SortDesc)) {
		return SortDesc
	}
	return SortAsc
}

// SortState is the active single-key sort of a table view. The zero value
// means "no sort applied" (rows stay in load order).
type SortState struct {
	Column string  `json:"column"`
	Dir    SortDir `json:"dir"`
}

// Active reports whether a sort column is set.
func (s SortState) Active() bool { return s.Column != "" }

// Toggle returns the state after the user clicks column: the same column flips
// direction, a different column starts ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		if s.Dir == SortAsc {
			return SortState{Column: column, Dir: SortDesc}
		}
		return SortState{Column: column, Dir: SortAsc}
	}
	return SortState{Column: column, Dir: SortAsc}
}

// ColumnFilters maps a column key to a free-text filter. Empty strings impose
// no constraint.
type ColumnFilters map[string]string

// Active returns a copy holding only the non-empty filters.
func (f ColumnFilters) Active() ColumnFilters {
	out := make(ColumnFilters)
	for k, v := range f {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// collators pools natural-order collators; a collate.Collator keeps internal
// buffers and must not be shared between goroutines.
var collators = sync.Pool{
	New: func() any {
		return collate.New(language.Und, collate.Numeric)
	},
}

// CompareNatural compares two strings with locale-aware collation that treats
// digit runs numerically ("PI 9" < "PI 10"). Strings that collate equal but
// differ are ordered bytewise.
func CompareNatural(a, b string) int {
	c := collators.Get().(*collate.Collator)
	r := c.CompareString(a, b)
	collators.Put(c)
	if r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

// FilterRows returns the rows that match every non-empty filter. A row matches
// a filter when its value for the column, lower-cased, contains the lower-cased
// filter text. Absent values count as the empty string.
func FilterRows(rows []Record, filters ColumnFilters) []Record {
	type needle struct {
		key  string
		text string
	}
	var needles []needle
	for key, text := range filters {
		if text == "" {
			continue
		}
		needles = append(needles, needle{key: key, text: strings.ToLower(text)})
	}

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		match := true
		for _, n := range needles {
			if !strings.Contains(strings.ToLower(row.Text(n.key)), n.text) {
				match = false
				break
			}
		}
		if match {
			out = append(out, row)
		}
	}
	return out
}

// SortRows returns a stably sorted copy of rows ordered by the state's column.
// An inactive state returns an unsorted copy.
func SortRows(rows []Record, state SortState) []Record {
	out := make([]Record, len(rows))
	copy(out, rows)
	if !state.Active() {
		return out
	}

	c := collators.Get().(*collate.Collator)
	defer collators.Put(c)

	desc := state.Dir == SortDesc
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Text(state.Column), out[j].Text(state.Column)
		r := c.CompareString(a, b)
		if r == 0 {
			r = strings.Compare(a, b)
		}
		if desc {
			return r > 0
		}
		return r < 0
	})
	return out
}

// Filter applies column filters to the table, ignoring keys that are not part
// of the table schema.
func (t *Table) Filter(filters ColumnFilters) []Record {
	return FilterRows(t.rows, t.knownFilters(filters))
}

// Query filters then sorts the table. Filter keys and a sort column outside
// the schema are ignored.
func (t *Table) Query(filters ColumnFilters, state SortState) []Record {
	rows := FilterRows(t.rows, t.knownFilters(filters))
	if state.Active() && !t.Info.HasColumn(state.Column) {
		return rows
	}
	return SortRows(rows, state)
}

func (t *Table) knownFilters(filters ColumnFilters) ColumnFilters {
	known := make(ColumnFilters, len(filters))
	for key, text := range filters {
		if text != "" && t.Info.HasColumn(key) {
			known[key] = text
		}
	}
	return known
}
