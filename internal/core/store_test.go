package core

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLoadTable(t *testing.T) {
	calls := 0
	store := NewStore(TableDefinition{
		Info: TableInfo{Key: "glossary", Columns: cols("term", "definition")},
		Load: func() []Record {
			calls++
			return []Record{rec("term", "CAO", "definition", "Cargo aircraft only")}
		},
	})

	first, err := store.LoadTable("glossary")
	require.NoError(t, err)
	second, err := store.LoadTable("glossary")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, DefaultRowHeight, first.Info.RowHeight)
}

func TestStoreUnknownTable(t *testing.T) {
	store := NewStore()
	_, err := store.LoadTable("hazmat")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownTable))
	assert.Equal(t, "unknown table: hazmat", err.Error())
}

func TestStoreConcurrentLoad(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	store := NewStore(TableDefinition{
		Info: TableInfo{Key: "t", Columns: cols("k")},
		Load: func() []Record {
			mu.Lock()
			calls++
			mu.Unlock()
			return []Record{rec("k", "v")}
		},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.LoadTable("t")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, calls)
}

func TestStoreDuplicatePanics(t *testing.T) {
	def := staticDef("t", cols("k"))
	assert.Panics(t, func() { NewStore(def, def) })
}

func TestStorePreload(t *testing.T) {
	counts := fixtureStore().Preload()
	assert.Equal(t, 3, counts[DatasetUNEntries])
	assert.Equal(t, 5, counts[DatasetPackingInstructions])
	assert.Equal(t, 2, counts[DatasetSegregation])
}

func TestEntriesByUN(t *testing.T) {
	store := NewStore(staticDef(DatasetUNEntries, cols("un", "pg"),
		rec("un", "1993", "pg", "I"),
		rec("un", "1993", "pg", "II"),
		rec("un", "1993", "pg", "III"),
		rec("un", "0012", "pg", ""),
	))

	assert.Len(t, store.EntriesByUN("1993"), 3)
	assert.Len(t, store.EntriesByUN("UN12"), 1)
	assert.Empty(t, store.EntriesByUN("9999"))
}

func TestNormalizeUN(t *testing.T) {
	tests := map[string]string{
		"1203":    "1203",
		"12":      "0012",
		"UN1203":  "1203",
		"un 0004": "0004",
		"abc":     "abc",
	}
	for in, want := range tests {
		if got := NormalizeUN(in); got != want {
			t.Errorf("NormalizeUN(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRecord(t *testing.T) {
	fields := map[string]Value{"un": Text("3480"), "filler": Bool(true)}
	r := NewRecord(fields)
	fields["un"] = Text("mutated")

	assert.Equal(t, "3480", r.Text("un"), "construction copies the input")
	assert.Equal(t, "true", r.Text("filler"))
	assert.True(t, r.Flag("filler"))
	assert.Equal(t, "", r.Text("missing"))
	assert.Equal(t, []string{"filler", "un"}, r.Keys())

	data, err := r.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"un":"3480","filler":true}`, string(data))
}

func TestTableRowsAreCopies(t *testing.T) {
	table := NewTable(TableInfo{Key: "t"}, []Record{rec("k", "a"), rec("k", "b")})
	rows := table.Rows()
	rows[0] = rec("k", "z")

	first, ok := table.Row(0)
	require.True(t, ok)
	assert.Equal(t, "a", first.Text("k"))

	_, ok = table.Row(5)
	assert.False(t, ok)
}

func TestParseUN(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"3480", "3480", false},
		{"12", "0012", false},
		{" UN 1203 ", "1203", false},
		{"un3480", "3480", false},
		{"", "", true},
		{"abc", "", true},
		{"12345", "", true},
		{"-1", "", true},
	}
	for _, tt := range tests {
		got, err := ParseUN(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			assert.Equal(t, "REF002", MapError(err).Code)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
