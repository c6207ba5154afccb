// Package sqlite provides a persistent vector index. Each category
// owns one database file; vectors live in memory for search and are
// written to SQLite on Persist, read back on Restore.
package sqlite
