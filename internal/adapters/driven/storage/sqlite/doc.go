// Package sqlite persists reports and chunks in SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Chunk embeddings are stored next to the text so a vector index can be
// rebuilt without calling the embedding provider again.
//
// # Schema
//
// Schema changes live in schema/NNN_name.sql and are applied in order on
// open. The applied version is tracked in PRAGMA user_version.
//
// # Data Location
//
// By default, the database is stored at ~/.reportrag/data/metadata.db
package sqlite
