// Package sqlite provides a SQLite-based implementation of the record,
// report and run store ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements several store interfaces
// through a single database handle:
//
//   - RecordStore: Record persistence and bulk label updates
//   - ReportStore: Aggregate reporting queries over json_each
//   - RunStore: Classifier run history
//
// # Schema
//
// The base schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Derived-label columns are added separately through RecordStore.AddColumns.
//
// # SQL Functions
//
// The package registers stance_prob(x), which parses a stored score the same
// way the classifier does and returns NULL for anything unparseable.
//
// # Data Location
//
// By default, the database is stored at ~/.stance/data/records.db
package sqlite
