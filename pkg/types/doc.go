// Package types provides the shared WGSL documentation model.
//
// A parsed module is a Wgsl value holding its imports, functions, structures,
// constants and resource bindings in source order, plus the module-level docs:
//
//	module := &types.Wgsl{
//	    ModuleName: "lighting",
//	    GlobalDocs: "Lighting helpers.",
//	    Structures: []types.Structure{{Name: "Light"}},
//	}
//
// # Type Variants
//
// Type and FunctionType are closed sums expressed as sealed interfaces.
// Consumers switch over every variant:
//
//	switch t := field.Type.(type) {
//	case types.Primitive:
//	case types.Vector:
//	case *types.PathType:
//	}
//
// FunctionType additionally admits FunctionPointer, which only occurs in
// function argument position.
//
// # Resolution
//
// A PathType starts Undefined. ResolveNamed and ResolveThis move it to
// Named(alias) or This exactly once; later calls are no-ops:
//
//	p := types.NewPathType("Utils", "Camera")
//	p.ResolveNamed("Utils") // true
//	p.ResolveThis()         // false, already resolved
//
// Import.MarkRegistered is likewise monotonic.
//
// # Diagnostics
//
// Duplicate declarations, unregistered imports and dangling doc comments are
// not errors. They are collected as Diagnostics next to the parse result so
// callers decide how to report them.
package types
