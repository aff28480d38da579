// Package database opens the persistent dedup cache store.
//
// The cache is a single table of previously-seen record hashes (see
// feature/dedup). The default backend is a local SQLite file, matching the
// single-writer access model of the pipeline; MySQL is available when the
// cache must live on a shared database server.
package database
