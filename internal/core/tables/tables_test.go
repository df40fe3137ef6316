package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/dgref/internal/core"
)

func TestClassBucketsCoverRange(t *testing.T) {
	for n := FirstUN; n <= LastUN; n++ {
		if classFor(n) == "" {
			t.Fatalf("UN %04d matches no class bucket", n)
		}
	}
}

func TestClassBucketsContiguous(t *testing.T) {
	for i := 1; i < len(classBuckets); i++ {
		if classBuckets[i].lower != classBuckets[i-1].upper {
			t.Errorf("bucket %d starts at %d, previous ends at %d", i, classBuckets[i].lower, classBuckets[i-1].upper)
		}
	}
	if classBuckets[0].lower > FirstUN {
		t.Errorf("first bucket starts at %d, want <= %d", classBuckets[0].lower, FirstUN)
	}
	if last := classBuckets[len(classBuckets)-1]; last.upper <= LastUN {
		t.Errorf("last bucket ends at %d, want > %d", last.upper, LastUN)
	}
}

func TestPackingGroupFor(t *testing.T) {
	tests := map[int]string{3: "III", 4: "I", 5: "II", 1204: "I", 3480: "III"}
	for n, want := range tests {
		if got := packingGroupFor(n); got != want {
			t.Errorf("packingGroupFor(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestDefaultsFor(t *testing.T) {
	tests := []struct {
		name      string
		class, pg string
		wantPax   string
		wantEQ    string
	}{
		{"class and packing group", "3", "II", "353", "E2"},
		{"class only fallback", "9", "I", "956", "E1"},
		{"forbidden fallback", "7", "II", core.Forbidden, "E0"},
		{"unknown packing group of known class", "4.1", "I", core.Forbidden, "E0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := defaultsFor(tt.class, tt.pg)
			if d.PaxPI != tt.wantPax {
				t.Errorf("PaxPI = %q, want %q", d.PaxPI, tt.wantPax)
			}
			if d.EQ != tt.wantEQ {
				t.Errorf("EQ = %q, want %q", d.EQ, tt.wantEQ)
			}
		})
	}
}

func TestFillerEntryForbidden(t *testing.T) {
	e := fillerEntry(2950)
	assert.Equal(t, "7", e.Class)
	assert.True(t, e.Filler)
	assert.Equal(t, core.Forbidden, e.LQPI)
	assert.Equal(t, core.Forbidden, e.PaxPI)
	assert.Equal(t, core.Forbidden, e.CaoPI)
	assert.Equal(t, "E0", e.EQ)
}

func testStore() *core.Store {
	return core.NewRegistryStore()
}

// Every UN number in range has at least one row, curated or filler.
func TestUNEntriesTotal(t *testing.T) {
	table, err := testStore().LoadTable(core.DatasetUNEntries)
	require.NoError(t, err)

	seen := make(map[string]bool, table.Len())
	for _, r := range table.Rows() {
		seen[r.Text("un")] = true
	}
	for n := FirstUN; n <= LastUN; n++ {
		if !seen[core.FormatUN(n)] {
			t.Fatalf("UN %s missing from un-entries", core.FormatUN(n))
		}
	}
}

func TestUNEntriesSortedAndFlagged(t *testing.T) {
	table, err := testStore().LoadTable(core.DatasetUNEntries)
	require.NoError(t, err)
	rows := table.Rows()

	for i := 1; i < len(rows); i++ {
		if core.CompareNatural(rows[i-1].Text("un"), rows[i].Text("un")) > 0 {
			t.Fatalf("rows %d and %d out of order: %s > %s", i-1, i, rows[i-1].Text("un"), rows[i].Text("un"))
		}
	}

	curated := decodeList[UNEntry]("un_entries.yaml")
	curatedNumbers := make(map[string]bool)
	for _, e := range curated {
		curatedNumbers[e.UN] = true
	}
	for _, r := range rows {
		if curatedNumbers[r.Text("un")] == r.Flag("filler") {
			t.Errorf("UN %s filler = %v, curated = %v", r.Text("un"), r.Flag("filler"), curatedNumbers[r.Text("un")])
		}
	}

	paint := table.FindAll("un", "1263")
	require.Len(t, paint, 3)
	assert.Equal(t, []string{"I", "II", "III"}, []string{paint[0].Text("pg"), paint[1].Text("pg"), paint[2].Text("pg")})
}

// Every resolvable packing instruction and special provision on a curated
// entry exists in its table.
func TestCuratedReferencesResolve(t *testing.T) {
	store := testStore()
	pis := store.MustTable(core.DatasetPackingInstructions)
	sps := store.MustTable(core.DatasetSpecialProvisions)

	for _, e := range decodeList[UNEntry]("un_entries.yaml") {
		for code := range core.PackingInstructionCodes(e.Record()) {
			if _, ok := pis.Find("code", code); !ok {
				t.Errorf("UN %s references unknown packing instruction %q", e.UN, code)
			}
		}
		for _, code := range strings.Fields(e.SP) {
			if _, ok := sps.Find("code", code); !ok {
				t.Errorf("UN %s references unknown special provision %q", e.UN, code)
			}
		}
	}
}

// Generated defaults only point at packing instructions that exist.
func TestDefaultReferencesResolve(t *testing.T) {
	pis := testStore().MustTable(core.DatasetPackingInstructions)
	for key, d := range defaultsByKey {
		for _, code := range []string{d.LQPI, d.PaxPI, d.CaoPI} {
			if code == core.Forbidden {
				continue
			}
			if _, ok := pis.Find("code", code); !ok {
				t.Errorf("defaults %q reference unknown packing instruction %q", key, code)
			}
		}
	}
}

func TestLithiumCrossReference(t *testing.T) {
	store := testStore()
	r := core.NewResolver(store)

	entries := store.EntriesByUN("3480")
	require.Len(t, entries, 1)
	ref := r.Resolve(entries[0])

	require.Len(t, ref.PackingInstructions, 1)
	assert.Equal(t, "965", ref.PackingInstructions[0].Text("code"))

	var byUN, byLithium bool
	for _, v := range ref.Variations {
		text := v.Text("text")
		if strings.Contains(text, "UN 3480") {
			byUN = true
		}
		if !strings.Contains(text, "3480") && strings.Contains(strings.ToLower(text), "lithium") {
			byLithium = true
		}
	}
	assert.True(t, byUN, "variation naming UN 3480")
	assert.True(t, byLithium, "variation matched by the class 9 lithium rule")
	assert.Nil(t, ref.Segregation)
}

func TestVariationsSortedByCode(t *testing.T) {
	store := testStore()
	table, err := store.LoadTable(core.DatasetVariations)
	require.NoError(t, err)

	rows := table.Rows()
	for i := 1; i < len(rows); i++ {
		if core.CompareNatural(rows[i-1].Text("code"), rows[i].Text("code")) > 0 {
			t.Fatalf("variations %d and %d out of order: %s > %s", i-1, i, rows[i-1].Text("code"), rows[i].Text("code"))
		}
	}

	entries := store.EntriesByUN("3480")
	require.Len(t, entries, 1)
	var codes []string
	for _, v := range core.NewResolver(store).Variations(entries[0]) {
		codes = append(codes, v.Text("code"))
	}
	assert.Equal(t, []string{"BA-01", "BRG-01", "EK-01", "HKG-01", "LH-01", "USG-01"}, codes)
}

func TestSeeReferenceExcluded(t *testing.T) {
	store := testStore()
	entries := store.EntriesByUN("2911")
	require.Len(t, entries, 1)

	got := core.NewResolver(store).PackingInstructions(entries[0])
	assert.Empty(t, got)
}

func TestSegregationTable(t *testing.T) {
	table := testStore().MustTable(core.DatasetSegregation)
	row, ok := table.Find("class", "3")
	require.True(t, ok)
	assert.Equal(t, "X", row.Text("5.1"))
	assert.Equal(t, "-", row.Text("8"))

	// the matrix is symmetric
	for _, r := range table.Rows() {
		for _, c := range SegregationClasses {
			other, ok := table.Find("class", c)
			if !ok {
				continue
			}
			if r.Text(c) != other.Text(r.Text("class")) {
				t.Errorf("segregation %s/%s is not symmetric", r.Text("class"), c)
			}
		}
	}
}

func TestManualChapters(t *testing.T) {
	chapters := loadManual()
	require.NotEmpty(t, chapters)

	store := testStore()
	for _, ch := range chapters {
		for _, sec := range ch.Sections {
			for _, b := range sec.Blocks {
				if ref, ok := b.(core.DatabaseRef); ok {
					if _, ok := store.Info(ref.Dataset); !ok {
						t.Errorf("section %s embeds unknown dataset %q", sec.ID, ref.Dataset)
					}
				}
			}
		}
	}

	m := core.NewManual(chapters)
	hits := m.Search("safety matches")
	require.Len(t, hits, 1)
	assert.Equal(t, "2", hits[0].ID)
}

func TestRegisteredTables(t *testing.T) {
	for _, key := range []string{
		core.DatasetUNEntries,
		core.DatasetPackingInstructions,
		core.DatasetSpecialProvisions,
		core.DatasetVariations,
		core.DatasetGlossary,
		core.DatasetSegregation,
	} {
		def, ok := core.Definition(key)
		if !ok {
			t.Errorf("dataset %s not registered", key)
			continue
		}
		if len(def.Load()) == 0 {
			t.Errorf("dataset %s loaded no rows", key)
		}
	}
	assert.Equal(t, 60, mustInfo(t, core.DatasetSpecialProvisions).RowHeight)
	assert.Equal(t, 80, mustInfo(t, core.DatasetVariations).RowHeight)
}

func mustInfo(t *testing.T, key string) core.TableInfo {
	t.Helper()
	def, ok := core.Definition(key)
	require.True(t, ok)
	return def.Info
}
