package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTable is returned when a dataset id has no registered definition.
var ErrUnknownTable = errors.New("unknown table")

// ErrNotFound is returned at the transport boundary when a lookup key has no
// record. Core lookups themselves return empty results instead.
var ErrNotFound = errors.New("reference not found")

// Dataset identifiers.
const (
	DatasetUNEntries           = "un-entries"
	DatasetPackingInstructions = "packing-instructions"
	DatasetSpecialProvisions   = "special-provisions"
	DatasetVariations          = "variations"
	DatasetGlossary            = "glossary"
	DatasetSegregation         = "segregation"
)

// Sentinel cell values used across datasets.
const (
	Forbidden     = "Forbidden"
	NotApplicable = "N/A"
)

// ValueKind tags the scalar held by a Value.
type ValueKind int

const (
	KindText ValueKind = iota
	KindBool
)

// Value is a single scalar cell. Sentinels such as "Forbidden" are text.
type Value struct {
	kind ValueKind
	text string
	flag bool
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Kind reports which scalar the value holds.
func (v Value) Kind() ValueKind { return v.kind }

// IsTrue reports whether the value is the boolean true.
func (v Value) IsTrue() bool { return v.kind == KindBool && v.flag }

// String coerces the value to its display string.
func (v Value) String() string {
	if v.kind == KindBool {
		if v.flag {
			return "true"
		}
		return "false"
	}
	return v.text
}

// MarshalJSON encodes text values as JSON strings and booleans as JSON booleans.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindBool {
		return json.Marshal(v.flag)
	}
	return json.Marshal(v.text)
}

// Record is an immutable column-keyed bag of scalars. The zero Record is empty.
type Record struct {
	fields map[string]Value
}

// NewRecord copies fields into a new Record.
func NewRecord(fields map[string]Value) Record {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Record{fields: copied}
}

// Get returns the value stored under key.
func (r Record) Get(key string) (Value, bool) {
	v, ok := r.fields[key]
	return v, ok
}

// Text returns the string form of the value under key, or "" when absent.
func (r Record) Text(key string) string {
	v, ok := r.fields[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Flag reports whether key holds the boolean true.
func (r Record) Flag(key string) bool {
	v, ok := r.fields[key]
	return ok && v.IsTrue()
}

// Keys returns the record's column keys in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.fields))
	for k := range r.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of columns held.
func (r Record) Len() int { return len(r.fields) }

// MarshalJSON encodes the record as a JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(r.fields)
}

// Column describes one column of a table for display and filtering.
type Column struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Width      int    `json:"width"`
	Filterable bool   `json:"filterable"`
}

// TableInfo contains display information about a table.
type TableInfo struct {
	Key       string   `json:"key"`       // Dataset id: "un-entries"
	Group     string   `json:"group"`     // Catalog group: "Lookups", "Reference"
	Label     string   `json:"label"`     // Display name: "UN Entries"
	Columns   []Column `json:"columns"`   // Ordered column metadata
	RowHeight int      `json:"rowHeight"` // Fixed row height in pixels for windowed views
	UniqueKey string   `json:"uniqueKey"` // Column that identifies a row; may repeat for un-entries
}

// HasColumn reports whether key is part of the table schema.
func (info TableInfo) HasColumn(key string) bool {
	for _, c := range info.Columns {
		if c.Key == key {
			return true
		}
	}
	return false
}

// ColumnKeys returns the column keys in display order.
func (info TableInfo) ColumnKeys() []string {
	keys := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		keys[i] = c.Key
	}
	return keys
}

// LoadFunc builds the full row set of a dataset. It must be deterministic and
// perform no external I/O.
type LoadFunc func() []Record

// TableDefinition contains everything needed to build a table.
type TableDefinition struct {
	Info TableInfo
	Load LoadFunc
}

// Table is a loaded, immutable dataset.
type Table struct {
	Info TableInfo
	rows []Record
}

// NewTable wraps rows in a Table. The slice is copied.
func NewTable(info TableInfo, rows []Record) *Table {
	copied := make([]Record, len(rows))
	copy(copied, rows)
	return &Table{Info: info, rows: copied}
}

// Len returns the row count.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the rows in load order. The returned slice is a copy; the
// records themselves are shared and immutable.
func (t *Table) Rows() []Record {
	out := make([]Record, len(t.rows))
	copy(out, t.rows)
	return out
}

// Row returns the row at index i.
func (t *Table) Row(i int) (Record, bool) {
	if i < 0 || i >= len(t.rows) {
		return Record{}, false
	}
	return t.rows[i], true
}

// Find returns the first row whose column key equals value exactly.
func (t *Table) Find(key, value string) (Record, bool) {
	for _, r := range t.rows {
		if r.Text(key) == value {
			return r, true
		}
	}
	return Record{}, false
}

// FindAll returns every row whose column key equals value exactly.
func (t *Table) FindAll(key, value string) []Record {
	var out []Record
	for _, r := range t.rows {
		if r.Text(key) == value {
			out = append(out, r)
		}
	}
	return out
}

// unknownTable wraps ErrUnknownTable with the offending key.
func unknownTable(key string) error {
	return fmt.Errorf("%w: %s", ErrUnknownTable, key)
}
