// Package storage provides SQLite-based persistence for registered
// documentation packages.
//
// The storage layer manages:
//   - Documents (package name, README)
//   - Modules and their source code
//   - Module-level symbols with rendered signatures
//   - Imports and whether they matched a file of the package
//   - Every path type occurrence and its resolution
//   - A full-text search index over symbols
//
// # Database Schema
//
// Tables:
//   - documents: One row per package, keyed by name
//   - modules: WGSL modules of a document
//   - symbols: Imports, constants, bindings, structures and functions
//   - imports: Import directives with their registered flag
//   - type_refs: Path types with origin undefined, this or named
//   - symbols_fts: FTS5 index over symbol name, docs and signature
//
// Child rows cascade from documents, so ReplaceDocument deletes the previous
// version of a package and inserts the new one in a single transaction.
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage(".wgsldoc/index.db")
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if _, err := store.ReplaceDocument(ctx, registered); err != nil {
//	    return err
//	}
//	results, err := store.SearchSymbols(ctx, "shaders", "camera", 10, nil)
//
// # Search
//
// Query terms are quoted before they reach FTS5, so operators typed by a
// user are matched as words. All terms must match; "cam*" matches by prefix.
// Results are ordered by BM25 and scores are normalized to (0, 1].
//
// # Build Modes
//
// The default build uses modernc.org/sqlite. Building with
//
//	go build -tags "sqlite_cgo sqlite_fts5" ./...
//
// switches to github.com/mattn/go-sqlite3. Both drivers must provide FTS5.
//
// # Schema Migrations
//
// Migrations are versioned with semantic versions and applied in order by
// NewSQLiteStorage. SchemaVersion reports the highest applied version.
package storage
