// Package generator lays out a documentation site and defines the
// boundary to the page renderers.
//
// Write walks a resolved package and asks a Generator for each page:
//
//	gen := generator.NewJSONGenerator("https://docs.example.com")
//	stats, err := generator.Write(ctx, registered, gen, "./docs")
//
// RenderType decides how a type reference is displayed. Types resolved
// to the current module link to the structure page of that module,
// types reached through a registered import link to the imported
// module, and unresolved types are plain text.
package generator
