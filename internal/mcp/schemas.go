package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/wgsldoc/pkg/types"
)

var symbolKinds = []string{
	string(types.KindImport),
	string(types.KindConstant),
	string(types.KindBinding),
	string(types.KindStructure),
	string(types.KindFunction),
}

// listModulesTool returns the tool definition for list_modules
func listModulesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_modules",
		Description: "List the WGSL modules of the documented shader package",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// getModuleTool returns the tool definition for get_module
func getModuleTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_module",
		Description: "Show a module's documentation, imports and declarations",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module name (file stem of the .wgsl file)",
				},
				"include_source": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, include the module source code",
					"default":     false,
				},
			},
			Required: []string{"module"},
		},
	}
}

// getSymbolTool returns the tool definition for get_symbol
func getSymbolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_symbol",
		Description: "Show the signature and documentation of one declaration",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Module declaring the symbol",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Declaration name (import alias for imports)",
				},
				"kind": map[string]interface{}{
					"type":        "string",
					"description": "Symbol kind; every kind is tried in declaration order when omitted",
					"enum":        symbolKinds,
				},
			},
			Required: []string{"module", "name"},
		},
	}
}

// searchSymbolsTool returns the tool definition for search_symbols
func searchSymbolsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_symbols",
		Description: "Full-text search over symbol names, signatures and documentation",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search terms; a trailing * matches a prefix",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of results to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Filter by symbol kind",
					"items": map[string]interface{}{
						"type": "string",
						"enum": symbolKinds,
					},
				},
				"modules": map[string]interface{}{
					"type":        "array",
					"description": "Filter by module name",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"min_relevance": map[string]interface{}{
					"type":        "number",
					"description": "Minimum relevance score threshold (0.0-1.0)",
					"minimum":     0.0,
					"maximum":     1.0,
				},
			},
			Required: []string{"query"},
		},
	}
}

// findUnresolvedTool returns the tool definition for find_unresolved
func findUnresolvedTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_unresolved",
		Description: "List type references that resolved to neither an import nor a local structure",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"module": map[string]interface{}{
					"type":        "string",
					"description": "Restrict to one module; all modules when omitted",
				},
			},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query index statistics and health",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// reloadTool returns the tool definition for reload
func reloadTool() mcp.Tool {
	return mcp.Tool{
		Name:        "reload",
		Description: "Re-parse the shader directory and replace the stored document",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
