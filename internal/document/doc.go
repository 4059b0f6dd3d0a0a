// Package document assembles WGSL modules, a README and a favicon into a
// documentation package and resolves the type references between them.
//
// Loading and resolution are separate phases:
//
//	doc, err := document.Open(ctx, "shaders", "./src", &document.Config{Recursive: true})
//	if err != nil {
//	    return err
//	}
//	reg, err := doc.Register()
//
// New and Open parse every module concurrently and fail as a whole when any
// module fails. Register runs only on the complete set, so an import can
// refer to a module that appears later in the input. A Document can be
// registered once.
//
// Hidden sources (file stem starting with ".") are added to the file
// registry, making them valid import targets, but are never parsed or
// documented themselves.
package document
