// Package parser builds the documentation model of WGSL modules.
//
// The grammar package matches the source; this package walks the resulting
// rule tree and materializes imports, constants, bindings, structures and
// functions as pkg/types values.
//
// # Basic Usage
//
//	p := parser.New()
//	result, err := p.ParseFile("/path/to/lighting.wgsl")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, fn := range result.Module.Functions {
//	    fmt.Printf("fn %s: %s\n", fn.Name, fn.Docs)
//	}
//
// # Documentation Comments
//
// Consecutive doc lines are joined with "\n". A block with no text is no
// documentation at all. `//!` lines anywhere in the module accumulate into
// Wgsl.GlobalDocs.
//
// # Duplicates
//
// Names are unique per declaration kind within a module, per field within a
// structure and per parameter within a function. The first declaration wins;
// later ones are dropped and reported:
//
//	for _, d := range result.Diagnostics.ByCode(types.CodeDuplicateDeclaration) {
//	    fmt.Println(d)
//	}
//
// # Error Handling
//
// Parsing is all-or-nothing. A syntax error anywhere returns an error that
// matches types.ErrSyntax and no module. Malformed @group/@binding numbers
// are not errors; they become 0.
//
// # Caching
//
// A Cache keyed by the SHA-256 of module name and source can be shared
// between parsers. Cached results are deep-copied on the way in and out.
package parser
