package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	datasets   = make(map[string]TableDefinition)
	datasetsMu sync.RWMutex
)

// Register adds a dataset definition to the process-wide catalog. It panics on
// a duplicate dataset id, a missing loader, or a schema that repeats a column.
func Register(def TableDefinition) {
	if err := checkDefinition(def); err != nil {
		panic(err.Error())
	}

	datasetsMu.Lock()
	defer datasetsMu.Unlock()

	if _, exists := datasets[def.Info.Key]; exists {
		panic(fmt.Sprintf("dataset already registered: %s", def.Info.Key))
	}

	if def.Info.UniqueKey == "" && len(def.Info.Columns) > 0 {
		def.Info.UniqueKey = def.Info.Columns[0].Key
	}
	if def.Info.RowHeight <= 0 {
		def.Info.RowHeight = DefaultRowHeight
	}
	datasets[def.Info.Key] = def
}

func checkDefinition(def TableDefinition) error {
	if strings.TrimSpace(def.Info.Key) == "" {
		return fmt.Errorf("dataset has no id")
	}
	if def.Load == nil {
		return fmt.Errorf("dataset has no loader: %s", def.Info.Key)
	}
	seen := make(map[string]bool, len(def.Info.Columns))
	for _, c := range def.Info.Columns {
		if seen[c.Key] {
			return fmt.Errorf("dataset %s repeats column %q", def.Info.Key, c.Key)
		}
		seen[c.Key] = true
	}
	return nil
}

// Definition returns the registered dataset with the given id.
func Definition(key string) (TableDefinition, bool) {
	datasetsMu.RLock()
	defer datasetsMu.RUnlock()

	def, ok := datasets[key]
	return def, ok
}

// Definitions returns every registered dataset, ordered by group then id.
func Definitions() []TableDefinition {
	datasetsMu.RLock()
	defer datasetsMu.RUnlock()

	out := make([]TableDefinition, 0, len(datasets))
	for _, def := range datasets {
		out = append(out, def)
	}
	slices.SortFunc(out, func(a, b TableDefinition) int {
		if c := strings.Compare(a.Info.Group, b.Info.Group); c != 0 {
			return c
		}
		return strings.Compare(a.Info.Key, b.Info.Key)
	})
	return out
}

// swapDatasets replaces the registered datasets and returns the previous set.
func swapDatasets(next map[string]TableDefinition) map[string]TableDefinition {
	datasetsMu.Lock()
	defer datasetsMu.Unlock()

	prev := datasets
	datasets = next
	return prev
}
