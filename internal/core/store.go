package core

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// DefaultRowHeight is the row height in pixels used when a table does not set one.
const DefaultRowHeight = 45

// Store holds the reference tables for the lifetime of the process. Each table
// is built at most once; later calls return the same *Table.
type Store struct {
	defs map[string]TableDefinition
	keys []string

	mu     sync.Mutex
	tables map[string]*tableOnce
}

type tableOnce struct {
	once  sync.Once
	table *Table
}

// NewStore creates a Store over the given definitions.
func NewStore(defs ...TableDefinition) *Store {
	s := &Store{
		defs:   make(map[string]TableDefinition, len(defs)),
		tables: make(map[string]*tableOnce, len(defs)),
	}
	for _, def := range defs {
		if _, dup := s.defs[def.Info.Key]; dup {
			panic(fmt.Sprintf("table already in store: %s", def.Info.Key))
		}
		if def.Info.RowHeight <= 0 {
			def.Info.RowHeight = DefaultRowHeight
		}
		s.defs[def.Info.Key] = def
		s.keys = append(s.keys, def.Info.Key)
	}
	return s
}

// NewRegistryStore creates a Store over every registered table definition.
func NewRegistryStore() *Store {
	return NewStore(Definitions()...)
}

// Keys returns the dataset ids held by the store, in definition order.
func (s *Store) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Info returns the table metadata for key without building the table.
func (s *Store) Info(key string) (TableInfo, bool) {
	def, ok := s.defs[key]
	return def.Info, ok
}

// LoadTable returns the table for a dataset id, building it on first use.
func (s *Store) LoadTable(key string) (*Table, error) {
	def, ok := s.defs[key]
	if !ok {
		return nil, unknownTable(key)
	}

	s.mu.Lock()
	slot, ok := s.tables[key]
	if !ok {
		slot = &tableOnce{}
		s.tables[key] = slot
	}
	s.mu.Unlock()

	slot.once.Do(func() {
		slot.table = NewTable(def.Info, def.Load())
	})
	return slot.table, nil
}

// MustTable is LoadTable for dataset ids known at compile time.
func (s *Store) MustTable(key string) *Table {
	t, err := s.LoadTable(key)
	if err != nil {
		panic(err)
	}
	return t
}

// Preload builds every table and returns the row count per dataset id.
func (s *Store) Preload() map[string]int {
	counts := make(map[string]int, len(s.keys))
	for _, key := range s.keys {
		t, _ := s.LoadTable(key)
		counts[key] = t.Len()
	}
	return counts
}

// EntriesByUN returns every un-entries row for a UN number. A number can
// appear once per packing group, so the result is a set. The number may be
// given with or without zero padding or a "UN" prefix.
func (s *Store) EntriesByUN(number string) []Record {
	t, err := s.LoadTable(DatasetUNEntries)
	if err != nil {
		return nil
	}
	return t.FindAll("un", NormalizeUN(number))
}

// NormalizeUN returns the zero-padded four digit form of a UN number.
// Input that is not numeric is returned unchanged apart from prefix removal.
func NormalizeUN(number string) string {
	n := number
	if len(n) >= 2 && (n[:2] == "UN" || n[:2] == "un") {
		n = n[2:]
	}
	for len(n) > 0 && n[0] == ' ' {
		n = n[1:]
	}
	i, err := strconv.Atoi(n)
	if err != nil || i < 0 {
		return n
	}
	return FormatUN(i)
}

// ParseUN validates user input naming a UN number and returns its four digit
// form. Anything that is not a number between 0 and 9999 is rejected.
func ParseUN(number string) (string, error) {
	n := NormalizeUN(strings.TrimSpace(number))
	if len(n) != 4 {
		return "", fmt.Errorf("invalid un number %q", number)
	}
	for _, c := range n {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("invalid un number %q", number)
		}
	}
	return n, nil
}

// FormatUN formats a UN number as a zero-padded four digit string.
func FormatUN(n int) string {
	return fmt.Sprintf("%04d", n)
}
