// Package sqlite provides an SQLite-backed session result cache.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. The database lives in memory and is discarded on Close, so
// nothing is written to disk.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a NNN_name.up.sql file.
//
// # Thread Safety
//
// All operations are thread-safe. The pool holds a single connection so every
// caller sees the same in-memory database.
package sqlite
