package core

import (
	"strings"
)

// Packing-instruction reference columns of a UN entry.
var packingColumns = []string{"pax_pi", "cao_pi", "lq_pi"}

// CrossReference holds every record related to one UN entry.
type CrossReference struct {
	Entry               Record   `json:"entry"`
	PackingInstructions []Record `json:"packingInstructions"`
	SpecialProvisions   []Record `json:"specialProvisions"`
	Variations          []Record `json:"variations"`
	Segregation         *Record  `json:"segregation,omitempty"`
}

// Resolver computes related records across tables for a selected UN entry.
// Lookups that find nothing return empty results, never errors.
type Resolver struct {
	store *Store
}

// NewResolver creates a Resolver over store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve gathers every cross reference of entry.
func (r *Resolver) Resolve(entry Record) CrossReference {
	ref := CrossReference{
		Entry:               entry,
		PackingInstructions: r.PackingInstructions(entry),
		SpecialProvisions:   r.SpecialProvisions(entry),
		Variations:          r.Variations(entry),
	}
	if seg, ok := r.Segregation(entry); ok {
		ref.Segregation = &seg
	}
	return ref
}

// PackingInstructionCodes returns the resolvable instruction codes declared by
// entry. Empty values, "Forbidden" and textual "see ..." references are
// skipped; duplicates collapse.
func PackingInstructionCodes(entry Record) map[string]bool {
	codes := make(map[string]bool, len(packingColumns))
	for _, col := range packingColumns {
		v := strings.TrimSpace(entry.Text(col))
		if v == "" || v == Forbidden {
			continue
		}
		if strings.Contains(strings.ToLower(v), "see") {
			continue
		}
		codes[v] = true
	}
	return codes
}

// PackingInstructions returns the packing-instruction records referenced by
// entry, in packing-instructions table order. Codes missing from the table
// are dropped.
func (r *Resolver) PackingInstructions(entry Record) []Record {
	codes := PackingInstructionCodes(entry)
	if len(codes) == 0 {
		return []Record{}
	}
	return r.selectByCode(DatasetPackingInstructions, codes)
}

// SpecialProvisions returns the special-provision records listed in the
// entry's "sp" column, in table order.
func (r *Resolver) SpecialProvisions(entry Record) []Record {
	fields := strings.FieldsFunc(entry.Text("sp"), func(c rune) bool {
		return c == ' ' || c == ',' || c == ';'
	})
	if len(fields) == 0 {
		return []Record{}
	}
	codes := make(map[string]bool, len(fields))
	for _, f := range fields {
		codes[f] = true
	}
	return r.selectByCode(DatasetSpecialProvisions, codes)
}

// Variations returns the state and operator variations that apply to entry.
// A variation applies when its text mentions "UN <number>", "UN<number>" or
// "Class <class>"; for class 9 it also applies when the text mentions lithium
// (or "baterias"), case-insensitively. This is plain substring matching, so
// "UN 3480" also hits inside a longer number.
func (r *Resolver) Variations(entry Record) []Record {
	table, err := r.store.LoadTable(DatasetVariations)
	if err != nil {
		return []Record{}
	}

	un := entry.Text("un")
	class := entry.Text("class")
	out := []Record{}
	for _, v := range table.rows {
		if VariationApplies(v.Text("text"), un, class) {
			out = append(out, v)
		}
	}
	return out
}

// VariationApplies is the variation matching rule for one variation text.
func VariationApplies(text, un, class string) bool {
	if un != "" && (strings.Contains(text, "UN "+un) || strings.Contains(text, "UN"+un)) {
		return true
	}
	if class != "" && strings.Contains(text, "Class "+class) {
		return true
	}
	if class == "9" {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "lithium") || strings.Contains(lower, "baterias") {
			return true
		}
	}
	return false
}

// Segregation returns the segregation-matrix row for the entry's class. A
// division such as "1.4S" falls back to its class number "1".
func (r *Resolver) Segregation(entry Record) (Record, bool) {
	table, err := r.store.LoadTable(DatasetSegregation)
	if err != nil {
		return Record{}, false
	}
	class := strings.TrimSpace(entry.Text("class"))
	if class == "" {
		return Record{}, false
	}
	if row, ok := table.Find("class", class); ok {
		return row, true
	}
	if i := strings.IndexByte(class, '.'); i > 0 {
		return table.Find("class", class[:i])
	}
	return Record{}, false
}

// selectByCode returns the rows of dataset whose "code" is in codes, in table
// order.
func (r *Resolver) selectByCode(dataset string, codes map[string]bool) []Record {
	table, err := r.store.LoadTable(dataset)
	if err != nil {
		return []Record{}
	}
	out := []Record{}
	for _, row := range table.rows {
		if codes[row.Text("code")] {
			out = append(out, row)
		}
	}
	return out
}
