// Package persistence provides the GORM-backed record store: connection lifecycle,
// schema versioning with a key check, the field encryption plugin, and the company
// and user repositories. SQLite is the default backend; PostgreSQL is supported.
package persistence
