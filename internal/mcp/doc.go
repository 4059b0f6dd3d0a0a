// Package mcp implements the Model Context Protocol (MCP) server for wgsldoc.
//
// The server exposes a stored shader document to AI coding assistants:
//   - list_modules: List the modules of the document
//   - get_module: Module docs, imports and declarations grouped by kind
//   - get_symbol: Signature and docs of one declaration
//   - search_symbols: Full-text search over names, signatures and docs
//   - find_unresolved: Type references that resolved to nothing
//   - get_status: Index statistics and health
//   - reload: Re-parse the shader directory and replace the stored document
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// Start it with:
//
//	wgsldoc serve -N shaders --db .wgsldoc/index.db
//
// # Tool: get_symbol
//
//	Request:
//	{
//	  "name": "get_symbol",
//	  "arguments": {"module": "lighting", "name": "attenuate"}
//	}
//
//	Response:
//	{
//	  "docs": "Attenuates a light over distance.",
//	  "kind": "function",
//	  "module": "lighting",
//	  "name": "attenuate",
//	  "signature": "fn attenuate(light: Light, d: f32) -> f32"
//	}
//
// # Error Handling
//
// Handlers return *MCPError values which the framework encodes as JSON-RPC errors:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, reload)
//   - -32001: Module not found
//   - -32002: Symbol not found
//   - -32003: Document not indexed
//   - -32004: Empty query
//   - -32005: Reload not available
//   - -32006: Reload produced a document with another name
//
// # Logging
//
// The server logs through the *slog.Logger passed in Options. Stdout is reserved
// for the protocol, so the CLI writes logs to stderr.
package mcp
