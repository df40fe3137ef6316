// Package core provides the reference-data engine of the dangerous-goods
// browser.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web handlers, the terminal browser, the CLI and
// tests without modification.
//
// # Architecture
//
// The package is organized around four pieces, leaf first:
//
//   - Store: builds each registered dataset once and serves immutable
//     [Table] values for the lifetime of the process.
//   - Resolver: joins a selected UN entry to its packing instructions,
//     special provisions, variations and segregation row.
//   - Query engine: column filters, natural sort ([SortRows]) and the deep
//     search over manual chapters ([SearchChapters]).
//   - Windower: computes the visible row range of a scrolled table
//     ([Window]).
//
// # Table Registry
//
// Datasets are registered at init time using [Register]:
//
//	core.Register(TableDefinition{
//	    Info: TableInfo{Key: "glossary", Group: "Reference", Label: "Glossary",
//	        Columns: []Column{{Key: "term"}, {Key: "definition"}}},
//	    Load: loadGlossary,
//	})
//
// Load functions are deterministic and perform no I/O beyond reading
// embedded files.
//
// # Error Handling
//
// Lookups that find nothing return empty results. Errors that cross the
// transport boundary are mapped to user-friendly messages using [MapError]:
//
//   - TBL001-TBL002: Table errors
//   - REF001-REF002: Reference errors
//   - AI001-AI003: Assistant errors
//   - CFG001: Governance configuration errors
//
// # Consultation Journal
//
// Every assistant request is recorded through a [Journal], either the
// bounded [MemoryJournal] or the Postgres store in package database.
package core
