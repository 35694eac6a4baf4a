// Package sqlite provides a SQLite-backed keyword ledger.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the migrations/
// directory. Each migration is a pair of .up.sql and .down.sql files, and applied
// versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.postcraft/data/postcraft.db
package sqlite
