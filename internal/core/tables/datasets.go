package tables

import (
	"sync"

	"github.com/JonMunkholm/dgref/internal/core"
)

// SegregationClasses are the matrix columns of the segregation table.
var SegregationClasses = []string{"1", "2.1", "2.2", "2.3", "3", "4.1", "4.2", "4.3", "5.1", "5.2", "8"}

func init() {
	registerUNEntries()
	registerPackingInstructions()
	registerSpecialProvisions()
	registerVariations()
	registerGlossary()
	registerSegregation()
	core.RegisterChapters(loadManual)
}

func registerUNEntries() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.DatasetUNEntries,
			Group: "Lookups",
			Label: "Dangerous Goods List",
			Columns: []core.Column{
				{Key: "un", Label: "UN", Width: 70, Filterable: true},
				{Key: "name", Label: "Proper Shipping Name", Width: 320, Filterable: true},
				{Key: "class", Label: "Class", Width: 70, Filterable: true},
				{Key: "sub_risk", Label: "Sub Risk", Width: 80, Filterable: true},
				{Key: "pg", Label: "PG", Width: 50, Filterable: true},
				{Key: "label", Label: "Hazard Label", Width: 160},
				{Key: "eq", Label: "EQ", Width: 50, Filterable: true},
				{Key: "lq_pi", Label: "LQ PI", Width: 90, Filterable: true},
				{Key: "lq_max", Label: "LQ Max", Width: 90},
				{Key: "pax_pi", Label: "PAX PI", Width: 90, Filterable: true},
				{Key: "pax_max", Label: "PAX Max", Width: 100},
				{Key: "cao_pi", Label: "CAO PI", Width: 90, Filterable: true},
				{Key: "cao_max", Label: "CAO Max", Width: 100},
				{Key: "sp", Label: "SP", Width: 200, Filterable: true},
				{Key: "erg", Label: "ERG", Width: 60, Filterable: true},
				{Key: "filler", Label: "Generated", Width: 80, Filterable: true},
			},
			RowHeight: 45,
			UniqueKey: "un",
		},
		Load: loadUNEntries,
	})
}

// loadUNEntries merges curated entries with filler for every uncovered UN
// number and sorts the result naturally by UN number. Curated order is kept
// among rows sharing a number.
func loadUNEntries() []core.Record {
	curated := decodeList[UNEntry]("un_entries.yaml")

	covered := make(map[string]bool, len(curated))
	for _, e := range curated {
		covered[e.UN] = true
	}
	filler := generateFiller(covered)

	rows := make([]core.Record, 0, len(curated)+len(filler))
	rows = append(rows, toRecords(curated)...)
	rows = append(rows, toRecords(filler)...)
	return core.SortRows(rows, core.SortState{Column: "un", Dir: core.SortAsc})
}

func registerPackingInstructions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.DatasetPackingInstructions,
			Group: "Lookups",
			Label: "Packing Instructions",
			Columns: []core.Column{
				{Key: "code", Label: "PI", Width: 80, Filterable: true},
				{Key: "title", Label: "Title", Width: 320, Filterable: true},
				{Key: "mode", Label: "Mode", Width: 140, Filterable: true},
				{Key: "classes", Label: "Classes", Width: 90, Filterable: true},
				{Key: "summary", Label: "Summary", Width: 480, Filterable: true},
			},
			RowHeight: 45,
		},
		Load: func() []core.Record {
			return toRecords(decodeList[PackingInstruction]("packing_instructions.yaml"))
		},
	})
}

func registerSpecialProvisions() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.DatasetSpecialProvisions,
			Group: "Lookups",
			Label: "Special Provisions",
			Columns: []core.Column{
				{Key: "code", Label: "Code", Width: 80, Filterable: true},
				{Key: "text", Label: "Provision", Width: 720, Filterable: true},
			},
			RowHeight: 60,
		},
		Load: func() []core.Record {
			return toRecords(decodeList[SpecialProvision]("special_provisions.yaml"))
		},
	})
}

func registerVariations() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.DatasetVariations,
			Group: "Lookups",
			Label: "State and Operator Variations",
			Columns: []core.Column{
				{Key: "code", Label: "Code", Width: 90, Filterable: true},
				{Key: "owner", Label: "Owner", Width: 180, Filterable: true},
				{Key: "owner_type", Label: "Type", Width: 90, Filterable: true},
				{Key: "text", Label: "Variation", Width: 600, Filterable: true},
			},
			RowHeight: 80,
		},
		Load: func() []core.Record {
			rows := toRecords(decodeList[Variation]("variations.yaml"))
			return core.SortRows(rows, core.SortState{Column: "code", Dir: core.SortAsc})
		},
	})
}

func registerGlossary() {
	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:   core.DatasetGlossary,
			Group: "Reference",
			Label: "Glossary",
			Columns: []core.Column{
				{Key: "term", Label: "Term", Width: 200, Filterable: true},
				{Key: "definition", Label: "Definition", Width: 600, Filterable: true},
			},
			RowHeight: 45,
		},
		Load: func() []core.Record {
			return toRecords(decodeList[GlossaryTerm]("glossary.yaml"))
		},
	})
}

func registerSegregation() {
	columns := []core.Column{{Key: "class", Label: "Class", Width: 70, Filterable: true}}
	for _, c := range SegregationClasses {
		columns = append(columns, core.Column{Key: c, Label: c, Width: 50})
	}

	core.Register(core.TableDefinition{
		Info: core.TableInfo{
			Key:       core.DatasetSegregation,
			Group:     "Reference",
			Label:     "Segregation Table",
			Columns:   columns,
			RowHeight: 45,
		},
		Load: func() []core.Record {
			return toRecords(decodeList[SegregationRow]("segregation.yaml"))
		},
	})
}

var (
	manualOnce     sync.Once
	manualChapters []core.Chapter
)

// loadManual parses the embedded manual once.
func loadManual() []core.Chapter {
	manualOnce.Do(func() {
		chapters, err := core.ParseChapters(readData("manual.yaml"))
		if err != nil {
			panic("tables: " + err.Error())
		}
		manualChapters = chapters
	})
	return manualChapters
}
