// Package storage provides persistence backends for the decision journal.
//
// Two backends are available:
//
//   - MemoryStorage: map-backed, for tests and ephemeral runs
//   - SQLiteStorage: durable single-file storage with WAL mode
//
// SQLiteStorage supports two drivers: the pure-Go modernc.org/sqlite
// ("sqlite", the default) and the cgo-based mattn/go-sqlite3 ("sqlite3").
// Both speak the same file format, so the choice is a build concern, not a
// data concern.
package storage
