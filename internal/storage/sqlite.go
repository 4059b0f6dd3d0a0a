package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/wgsldoc/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
	// ErrEmptyQuery is returned when a search query has no searchable terms
	ErrEmptyQuery = errors.New("empty search query")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Document operations

// ReplaceDocument stores src, replacing every row of a previous document with the same name.
// The replacement is a single transaction.
func (s *SQLiteStorage) ReplaceDocument(ctx context.Context, src Source) (*Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, src.Name()); err != nil {
		return nil, fmt.Errorf("failed to delete previous document: %w", err)
	}

	readme, _ := src.Readme()
	modules := src.Modules()
	doc := &Document{Name: src.Name(), Readme: readme, ModuleCount: len(modules), IndexedAt: time.Now()}
	result, err := tx.ExecContext(ctx,
		`INSERT INTO documents (name, readme, module_count, indexed_at) VALUES (?, ?, ?, ?)`,
		doc.Name, doc.Readme, doc.ModuleCount, doc.IndexedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	if doc.ID, err = result.LastInsertId(); err != nil {
		return nil, err
	}

	for _, m := range modules {
		if err := insertModule(ctx, tx, doc.ID, m); err != nil {
			return nil, fmt.Errorf("failed to store module %s: %w", m.ModuleName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return doc, nil
}

func insertModule(ctx context.Context, q querier, documentID int64, m *types.Wgsl) error {
	result, err := q.ExecContext(ctx,
		`INSERT INTO modules (document_id, name, global_docs, source_code) VALUES (?, ?, ?, ?)`,
		documentID, m.ModuleName, m.GlobalDocs, m.SourceCode)
	if err != nil {
		return err
	}
	moduleID, err := result.LastInsertId()
	if err != nil {
		return err
	}

	for _, sym := range symbolsOf(m) {
		_, err := q.ExecContext(ctx,
			`INSERT INTO symbols (module_id, kind, name, docs, signature, ordinal) VALUES (?, ?, ?, ?, ?, ?)`,
			moduleID, string(sym.Kind), sym.Name, sym.Docs, sym.Signature, sym.Ordinal)
		if err != nil {
			return fmt.Errorf("failed to insert symbol: %w", err)
		}
	}

	for _, imp := range m.Imports {
		_, err := q.ExecContext(ctx,
			`INSERT INTO imports (module_id, alias, import_path, module_name, registered, docs) VALUES (?, ?, ?, ?, ?, ?)`,
			moduleID, imp.Name, imp.Path, imp.ModuleName, imp.Registered(), imp.Docs)
		if err != nil {
			return fmt.Errorf("failed to insert import: %w", err)
		}
	}

	for _, ref := range typeRefsOf(m) {
		_, err := q.ExecContext(ctx,
			`INSERT INTO type_refs (module_id, owner, qualifier, name, origin, alias) VALUES (?, ?, ?, ?, ?, ?)`,
			moduleID, ref.Owner, ref.Qualifier, ref.Name, ref.Origin.String(), ref.Alias)
		if err != nil {
			return fmt.Errorf("failed to insert type reference: %w", err)
		}
	}
	return nil
}

// GetDocument retrieves a document by name
func (s *SQLiteStorage) GetDocument(ctx context.Context, name string) (*Document, error) {
	query := `
		SELECT id, name, readme, module_count, indexed_at
		FROM documents
		WHERE name = ?
	`
	var doc Document
	var readme sql.NullString
	var indexedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, name).Scan(&doc.ID, &doc.Name, &readme, &doc.ModuleCount, &indexedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	doc.Readme = readme.String
	if indexedAt.Valid {
		doc.IndexedAt = indexedAt.Time
	}
	return &doc, nil
}

// Module operations

const moduleColumns = `
	m.id, m.document_id, m.name, m.global_docs, m.source_code,
	(SELECT COUNT(*) FROM symbols s WHERE s.module_id = m.id)
`

func scanModule(row interface{ Scan(...any) error }) (*Module, error) {
	var m Module
	var docs sql.NullString
	if err := row.Scan(&m.ID, &m.DocumentID, &m.Name, &docs, &m.SourceCode, &m.SymbolCount); err != nil {
		return nil, err
	}
	m.GlobalDocs = docs.String
	return &m, nil
}

// ListModules lists the modules of a document in insertion order
func (s *SQLiteStorage) ListModules(ctx context.Context, document string) ([]*Module, error) {
	query := `SELECT ` + moduleColumns + `
		FROM modules m
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ?
		ORDER BY m.id
	`
	rows, err := s.db.QueryContext(ctx, query, document)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	modules := make([]*Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

// GetModule retrieves one module of a document
func (s *SQLiteStorage) GetModule(ctx context.Context, document, module string) (*Module, error) {
	query := `SELECT ` + moduleColumns + `
		FROM modules m
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ? AND m.name = ?
	`
	m, err := scanModule(s.db.QueryRowContext(ctx, query, document, module))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return m, err
}

// ListImports lists the imports of a module in declaration order
func (s *SQLiteStorage) ListImports(ctx context.Context, document, module string) ([]*Import, error) {
	query := `
		SELECT i.id, i.module_id, i.alias, i.import_path, i.module_name, i.registered, i.docs
		FROM imports i
		JOIN modules m ON m.id = i.module_id
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ? AND m.name = ?
		ORDER BY i.id
	`
	rows, err := s.db.QueryContext(ctx, query, document, module)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	imports := make([]*Import, 0)
	for rows.Next() {
		var imp Import
		var docs sql.NullString
		if err := rows.Scan(&imp.ID, &imp.ModuleID, &imp.Alias, &imp.Path, &imp.ModuleName, &imp.Registered, &docs); err != nil {
			return nil, err
		}
		imp.Docs = docs.String
		imports = append(imports, &imp)
	}
	return imports, rows.Err()
}

// Symbol operations

const symbolColumns = `s.id, s.module_id, m.name, s.kind, s.name, s.docs, s.signature, s.ordinal`

func scanSymbol(row interface{ Scan(...any) error }) (*Symbol, error) {
	var sym Symbol
	var kind string
	var docs, signature sql.NullString
	if err := row.Scan(&sym.ID, &sym.ModuleID, &sym.Module, &kind, &sym.Name, &docs, &signature, &sym.Ordinal); err != nil {
		return nil, err
	}
	sym.Kind = types.SymbolKind(kind)
	sym.Docs = docs.String
	sym.Signature = signature.String
	return &sym, nil
}

// ListSymbols lists every symbol of a module, grouped by kind in declaration order
func (s *SQLiteStorage) ListSymbols(ctx context.Context, document, module string) ([]*Symbol, error) {
	query := `SELECT ` + symbolColumns + `
		FROM symbols s
		JOIN modules m ON m.id = s.module_id
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ? AND m.name = ?
		ORDER BY s.id
	`
	rows, err := s.db.QueryContext(ctx, query, document, module)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	symbols := make([]*Symbol, 0)
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, err
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// GetSymbol retrieves one symbol by module, kind and name
func (s *SQLiteStorage) GetSymbol(ctx context.Context, document, module string, kind types.SymbolKind, name string) (*Symbol, error) {
	if err := types.ValidateKind(kind); err != nil {
		return nil, err
	}
	query := `SELECT ` + symbolColumns + `
		FROM symbols s
		JOIN modules m ON m.id = s.module_id
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ? AND m.name = ? AND s.kind = ? AND s.name = ?
	`
	sym, err := scanSymbol(s.db.QueryRowContext(ctx, query, document, module, string(kind), name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sym, err
}

// SearchSymbols runs a full-text search over symbol names, docs and signatures.
// Every query term must match; a trailing * makes a term a prefix.
func (s *SQLiteStorage) SearchSymbols(ctx context.Context, document, query string, limit int, filters *SearchFilters) ([]types.SearchResult, error) {
	match := ftsMatchQuery(query)
	if match == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 10
	}

	// Note: bm25() is negative; lower values are better matches.
	sqlQuery := `
		SELECT s.id, m.name, s.kind, s.name, s.docs,
		       snippet(symbols_fts, 1, '[', ']', '...', 12),
		       bm25(symbols_fts) AS score
		FROM symbols_fts
		JOIN symbols s ON s.id = symbols_fts.rowid
		JOIN modules m ON m.id = s.module_id
		JOIN documents d ON d.id = m.document_id
		WHERE symbols_fts MATCH ? AND d.name = ?
	`
	args := []any{match, document}
	sqlQuery, args = applySymbolFilters(sqlQuery, args, filters)
	sqlQuery += " ORDER BY score LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute FTS search: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := make([]types.SearchResult, 0)
	for rows.Next() {
		var r types.SearchResult
		var kind string
		var docs, snippet sql.NullString
		var score float64
		if err := rows.Scan(&r.SymbolID, &r.Module, &kind, &r.Name, &docs, &snippet, &score); err != nil {
			return nil, err
		}
		r.Kind = types.SymbolKind(kind)
		r.Docs = docs.String
		r.Snippet = snippet.String
		r.RelevanceScore = normalizeBM25(score)

		if filters != nil && filters.MinRelevance > 0 && r.RelevanceScore < filters.MinRelevance {
			continue
		}
		r.Rank = len(results) + 1
		results = append(results, r)
	}
	return results, rows.Err()
}

func applySymbolFilters(query string, args []any, filters *SearchFilters) (string, []any) {
	if filters == nil {
		return query, args
	}
	if len(filters.Kinds) > 0 {
		query += " AND s.kind IN (" + placeholders(len(filters.Kinds)) + ")"
		for _, k := range filters.Kinds {
			args = append(args, string(k))
		}
	}
	if len(filters.Modules) > 0 {
		query += " AND m.name IN (" + placeholders(len(filters.Modules)) + ")"
		for _, m := range filters.Modules {
			args = append(args, m)
		}
	}
	return query, args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// Type reference operations

// UnresolvedTypes lists the path types still Undefined after registration.
// An empty module lists them for the whole document.
func (s *SQLiteStorage) UnresolvedTypes(ctx context.Context, document, module string) ([]*TypeRef, error) {
	query := `
		SELECT t.id, t.module_id, m.name, t.owner, t.qualifier, t.name, t.alias
		FROM type_refs t
		JOIN modules m ON m.id = t.module_id
		JOIN documents d ON d.id = m.document_id
		WHERE d.name = ? AND t.origin = ?
	`
	args := []any{document, types.OriginUndefined.String()}
	if module != "" {
		query += " AND m.name = ?"
		args = append(args, module)
	}
	query += " ORDER BY t.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	refs := make([]*TypeRef, 0)
	for rows.Next() {
		ref := TypeRef{Origin: types.OriginUndefined}
		var qualifier, alias sql.NullString
		if err := rows.Scan(&ref.ID, &ref.ModuleID, &ref.Module, &ref.Owner, &qualifier, &ref.Name, &alias); err != nil {
			return nil, err
		}
		ref.Qualifier = qualifier.String
		ref.Alias = alias.String
		refs = append(refs, &ref)
	}
	return refs, rows.Err()
}

// Status operations

// GetStatus returns statistics about a stored document
func (s *SQLiteStorage) GetStatus(ctx context.Context, document string) (*DocumentStatus, error) {
	doc, err := s.GetDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	status := &DocumentStatus{Document: doc}

	counts := []struct {
		dest  *int
		query string
		args  []any
	}{
		{&status.SymbolsCount, `SELECT COUNT(*) FROM symbols s JOIN modules m ON m.id = s.module_id WHERE m.document_id = ?`, []any{doc.ID}},
		{&status.ImportsCount, `SELECT COUNT(*) FROM imports i JOIN modules m ON m.id = i.module_id WHERE m.document_id = ?`, []any{doc.ID}},
		{&status.TypeRefsCount, `SELECT COUNT(*) FROM type_refs t JOIN modules m ON m.id = t.module_id WHERE m.document_id = ?`, []any{doc.ID}},
		{&status.UnresolvedCount, `SELECT COUNT(*) FROM type_refs t JOIN modules m ON m.id = t.module_id WHERE m.document_id = ? AND t.origin = ?`, []any{doc.ID, types.OriginUndefined.String()}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("failed to count: %w", err)
		}
	}

	version, err := SchemaVersion(ctx, s.db)
	if err != nil {
		return nil, err
	}
	status.SchemaVersion = version.String()

	status.Health.DatabaseAccessible = s.db.PingContext(ctx) == nil
	var ftsName string
	err = s.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='symbols_fts'").Scan(&ftsName)
	status.Health.FTSIndexesBuilt = err == nil
	return status, nil
}

var _ Storage = (*SQLiteStorage)(nil)
