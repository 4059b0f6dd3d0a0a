package storage

import (
	"context"
	"time"

	"github.com/dshills/wgsldoc/pkg/types"
)

// Storage persists registered documents and answers symbol queries over them
type Storage interface {
	// Document operations
	ReplaceDocument(ctx context.Context, src Source) (*Document, error)
	GetDocument(ctx context.Context, name string) (*Document, error)

	// Module operations
	ListModules(ctx context.Context, document string) ([]*Module, error)
	GetModule(ctx context.Context, document, module string) (*Module, error)
	ListImports(ctx context.Context, document, module string) ([]*Import, error)

	// Symbol operations
	ListSymbols(ctx context.Context, document, module string) ([]*Symbol, error)
	GetSymbol(ctx context.Context, document, module string, kind types.SymbolKind, name string) (*Symbol, error)
	SearchSymbols(ctx context.Context, document, query string, limit int, filters *SearchFilters) ([]types.SearchResult, error)

	// Type reference operations
	UnresolvedTypes(ctx context.Context, document, module string) ([]*TypeRef, error)

	// Status operations
	GetStatus(ctx context.Context, document string) (*DocumentStatus, error)

	// Database operations
	Close() error
}

// Source is a resolved package, as produced by document registration
type Source interface {
	Name() string
	Readme() (string, bool)
	Modules() []*types.Wgsl
}

// Document represents a stored documentation package
type Document struct {
	ID          int64
	Name        string
	Readme      string
	ModuleCount int
	IndexedAt   time.Time
}

// Module represents a stored WGSL module
type Module struct {
	ID          int64
	DocumentID  int64
	Name        string
	GlobalDocs  string
	SourceCode  string
	SymbolCount int
}

// Symbol represents a module-level declaration
type Symbol struct {
	ID        int64
	ModuleID  int64
	Module    string
	Kind      types.SymbolKind
	Name      string
	Docs      string
	Signature string
	Ordinal   int // Declaration order within its kind
}

// Import represents an import of a stored module
type Import struct {
	ID         int64
	ModuleID   int64
	Alias      string
	Path       string
	ModuleName string
	Registered bool
	Docs       string
}

// TypeRef is one path type occurrence and its resolution
type TypeRef struct {
	ID        int64
	ModuleID  int64
	Module    string
	Owner     string // Declaration that holds the reference, e.g. "Scene.camera"
	Qualifier string
	Name      string
	Origin    types.OriginKind
	Alias     string
}

// SearchFilters contains filters for narrowing search results
type SearchFilters struct {
	Kinds        []types.SymbolKind
	Modules      []string
	MinRelevance float64
}

// DocumentStatus contains statistics about a stored document
type DocumentStatus struct {
	Document        *Document
	SymbolsCount    int
	ImportsCount    int
	TypeRefsCount   int
	UnresolvedCount int
	SchemaVersion   string
	Health          HealthStatus
}

// HealthStatus represents the health of the index
type HealthStatus struct {
	DatabaseAccessible bool
	FTSIndexesBuilt    bool
}
