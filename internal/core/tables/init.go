// Package tables registers all dataset definitions and manual chapters with
// the core registry. Import this package to ensure all tables are registered.
//
// Curated records are embedded YAML under data/. The un-entries dataset is
// extended with generated filler records so that every UN number in
// [FirstUN, LastUN] resolves to at least one row.
package tables

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// readData returns an embedded data file. A missing file is a build defect.
func readData(name string) []byte {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		panic(fmt.Sprintf("tables: read %s: %v", name, err))
	}
	return data
}

// decodeList decodes an embedded YAML sequence into typed rows.
func decodeList[T any](name string) []T {
	var items []T
	if err := yaml.Unmarshal(readData(name), &items); err != nil {
		panic(fmt.Sprintf("tables: decode %s: %v", name, err))
	}
	return items
}
