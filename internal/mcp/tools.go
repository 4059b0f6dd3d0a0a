package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/wgsldoc/internal/storage"
	"github.com/dshills/wgsldoc/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeModuleNotFound  = -32001 // No module with that name in the document
	ErrorCodeSymbolNotFound  = -32002 // No declaration with that name in the module
	ErrorCodeNotIndexed      = -32003 // Document not stored yet
	ErrorCodeEmptyQuery      = -32004 // Query parameter is empty
	ErrorCodeReloadDisabled  = -32005 // Server started without a reload source
	ErrorCodeReloadMalformed = -32006 // Reload produced an invalid document
)

// symbolSearchOrder is the order get_symbol tries kinds in when none is given
var symbolSearchOrder = []types.SymbolKind{
	types.KindStructure,
	types.KindFunction,
	types.KindConstant,
	types.KindBinding,
	types.KindImport,
}

// handleListModules handles the list_modules tool invocation
func (s *Server) handleListModules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modules, err := s.storage.ListModules(ctx, s.document)
	if err != nil {
		return nil, s.storageError("failed to list modules", err)
	}

	list := make([]map[string]interface{}, 0, len(modules))
	for _, m := range modules {
		list = append(list, map[string]interface{}{
			"name":         m.Name,
			"docs":         m.GlobalDocs,
			"symbol_count": m.SymbolCount,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"document": s.document,
		"modules":  list,
	})), nil
}

// handleGetModule handles the get_module tool invocation
func (s *Server) handleGetModule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argumentsOf(request)
	name, err := requireString(args, "module")
	if err != nil {
		return nil, err
	}

	module, err := s.storage.GetModule(ctx, s.document, name)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeModuleNotFound, "module not found", map[string]interface{}{
			"module": name,
		})
	}
	if err != nil {
		return nil, s.storageError("failed to get module", err)
	}

	imports, err := s.storage.ListImports(ctx, s.document, name)
	if err != nil {
		return nil, s.storageError("failed to list imports", err)
	}
	symbols, err := s.storage.ListSymbols(ctx, s.document, name)
	if err != nil {
		return nil, s.storageError("failed to list symbols", err)
	}

	importList := make([]map[string]interface{}, 0, len(imports))
	for _, imp := range imports {
		importList = append(importList, map[string]interface{}{
			"alias":       imp.Alias,
			"path":        imp.Path,
			"module_name": imp.ModuleName,
			"registered":  imp.Registered,
			"docs":        imp.Docs,
		})
	}

	grouped := map[string][]map[string]interface{}{}
	for _, sym := range symbols {
		key := string(sym.Kind)
		grouped[key] = append(grouped[key], symbolView(sym))
	}

	response := map[string]interface{}{
		"name":         module.Name,
		"docs":         module.GlobalDocs,
		"symbol_count": module.SymbolCount,
		"imports":      importList,
		"symbols":      grouped,
	}
	if getBoolDefault(args, "include_source", false) {
		response["source"] = module.SourceCode
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetSymbol handles the get_symbol tool invocation
func (s *Server) handleGetSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argumentsOf(request)
	module, err := requireString(args, "module")
	if err != nil {
		return nil, err
	}
	name, err := requireString(args, "name")
	if err != nil {
		return nil, err
	}

	kinds := symbolSearchOrder
	if k := getStringDefault(args, "kind", ""); k != "" {
		kind := types.SymbolKind(k)
		if err := types.ValidateKind(kind); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
				"param":   "kind",
				"value":   k,
				"allowed": symbolKinds,
			})
		}
		kinds = []types.SymbolKind{kind}
	}

	if _, err := s.storage.GetModule(ctx, s.document, module); errors.Is(err, storage.ErrNotFound) {
		return nil, newMCPError(ErrorCodeModuleNotFound, "module not found", map[string]interface{}{
			"module": module,
		})
	} else if err != nil {
		return nil, s.storageError("failed to get module", err)
	}

	for _, kind := range kinds {
		sym, err := s.storage.GetSymbol(ctx, s.document, module, kind, name)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, s.storageError("failed to get symbol", err)
		}
		return mcp.NewToolResultText(formatJSON(symbolView(sym))), nil
	}

	return nil, newMCPError(ErrorCodeSymbolNotFound, "symbol not found", map[string]interface{}{
		"module": module,
		"name":   name,
	})
}

// handleSearchSymbols handles the search_symbols tool invocation
func (s *Server) handleSearchSymbols(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argumentsOf(request)
	query := getStringDefault(args, "query", "")
	if query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	filters := &storage.SearchFilters{
		Modules:      getStringSlice(args, "modules"),
		MinRelevance: getFloatDefault(args, "min_relevance", 0),
	}
	for _, k := range getStringSlice(args, "kinds") {
		kind := types.SymbolKind(k)
		if err := types.ValidateKind(kind); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid kind", map[string]interface{}{
				"param":   "kinds",
				"value":   k,
				"allowed": symbolKinds,
			})
		}
		filters.Kinds = append(filters.Kinds, kind)
	}

	results, err := s.storage.SearchSymbols(ctx, s.document, query, limit, filters)
	if errors.Is(err, storage.ErrEmptyQuery) {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query has no searchable terms", map[string]interface{}{
			"query": query,
		})
	}
	if err != nil {
		return nil, s.storageError("search failed", err)
	}

	hits := make([]map[string]interface{}, 0, len(results))
	for _, r := range results {
		hits = append(hits, map[string]interface{}{
			"rank":            r.Rank,
			"relevance_score": r.RelevanceScore,
			"module":          r.Module,
			"kind":            r.Kind,
			"name":            r.Name,
			"snippet":         r.Snippet,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"count":   len(hits),
		"results": hits,
	})), nil
}

// handleFindUnresolved handles the find_unresolved tool invocation
func (s *Server) handleFindUnresolved(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	module := getStringDefault(argumentsOf(request), "module", "")
	if module != "" {
		if _, err := s.storage.GetModule(ctx, s.document, module); errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeModuleNotFound, "module not found", map[string]interface{}{
				"module": module,
			})
		} else if err != nil {
			return nil, s.storageError("failed to get module", err)
		}
	}

	refs, err := s.storage.UnresolvedTypes(ctx, s.document, module)
	if err != nil {
		return nil, s.storageError("failed to list unresolved types", err)
	}

	list := make([]map[string]interface{}, 0, len(refs))
	for _, ref := range refs {
		typeName := ref.Name
		if ref.Qualifier != "" {
			typeName = ref.Qualifier + "::" + ref.Name
		}
		list = append(list, map[string]interface{}{
			"module": ref.Module,
			"owner":  ref.Owner,
			"type":   typeName,
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"count":      len(list),
		"unresolved": list,
	})), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.storage.GetStatus(ctx, s.document)
	if errors.Is(err, storage.ErrNotFound) {
		response := map[string]interface{}{
			"indexed":  false,
			"document": s.document,
			"message":  "Document not indexed. Use the reload tool or `wgsldoc index` to index it.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, s.storageError("failed to get status", err)
	}

	response := map[string]interface{}{
		"indexed": true,
		"document": map[string]interface{}{
			"name":       status.Document.Name,
			"modules":    status.Document.ModuleCount,
			"indexed_at": status.Document.IndexedAt.Format("2006-01-02T15:04:05Z07:00"),
		},
		"statistics": map[string]interface{}{
			"symbols_count":    status.SymbolsCount,
			"imports_count":    status.ImportsCount,
			"type_refs_count":  status.TypeRefsCount,
			"unresolved_count": status.UnresolvedCount,
		},
		"schema_version": status.SchemaVersion,
		"health": map[string]interface{}{
			"database_accessible": status.Health.DatabaseAccessible,
			"fts_indexes_built":   status.Health.FTSIndexesBuilt,
		},
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleReload handles the reload tool invocation
func (s *Server) handleReload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.reload == nil {
		return nil, newMCPError(ErrorCodeReloadDisabled, "reload is not available on this server", nil)
	}

	src, err := s.reload(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "reload failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if src.Name() != s.document {
		return nil, newMCPError(ErrorCodeReloadMalformed, "reloaded document has a different name", map[string]interface{}{
			"expected": s.document,
			"got":      src.Name(),
		})
	}

	doc, err := s.storage.ReplaceDocument(ctx, src)
	if err != nil {
		return nil, s.storageError("failed to store document", err)
	}
	s.logger.Info("document reloaded", "document", doc.Name, "modules", doc.ModuleCount)

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"reloaded": true,
		"document": doc.Name,
		"modules":  doc.ModuleCount,
	})), nil
}

// Helper functions

func symbolView(sym *storage.Symbol) map[string]interface{} {
	return map[string]interface{}{
		"module":    sym.Module,
		"kind":      sym.Kind,
		"name":      sym.Name,
		"signature": sym.Signature,
		"docs":      sym.Docs,
	}
}

// storageError maps storage failures to MCP errors, treating a missing document as not indexed
func (s *Server) storageError(message string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return newMCPError(ErrorCodeNotIndexed, "document not indexed", map[string]interface{}{
			"document": s.document,
		})
	}
	s.logger.Error(message, "error", err)
	return newMCPError(ErrorCodeInternalError, message, map[string]interface{}{
		"error": err.Error(),
	})
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// argumentsOf returns the call arguments, or an empty map when none were sent
func argumentsOf(request mcp.CallToolRequest) map[string]interface{} {
	if args, ok := request.Params.Arguments.(map[string]interface{}); ok {
		return args
	}
	return map[string]interface{}{}
}

func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

func getFloatDefault(args map[string]interface{}, key string, defaultValue float64) float64 {
	switch val := args[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringSlice accepts both decoded JSON arrays and native string slices
func getStringSlice(args map[string]interface{}, key string) []string {
	switch val := args[key].(type) {
	case []string:
		return val
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, v := range val {
			if s, ok := v.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
