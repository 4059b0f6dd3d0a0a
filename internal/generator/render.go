package generator

import (
	"fmt"
	"path"

	"github.com/dshills/wgsldoc/pkg/types"
)

// RenderedType is a type prepared for display: its text and where it links to
type RenderedType struct {
	Name              string `json:"name"`
	Module            string `json:"module,omitempty"` // Declaring module for imported types
	Import            string `json:"import,omitempty"` // Import path for imported types
	IsThis            bool   `json:"is_this,omitempty"`
	IsFunctionPointer bool   `json:"is_function_pointer,omitempty"`
	Link              string `json:"link,omitempty"` // Site-root relative, empty for plain text
}

// StructurePath returns the site-root relative page of a structure
func StructurePath(module, name, ext string) string {
	return path.Join("modules", module, "struct."+name+ext)
}

// FunctionPath returns the site-root relative page of a function
func FunctionPath(module, name, ext string) string {
	return path.Join("modules", module, "fn."+name+ext)
}

// ModulePath returns the site-root relative index page of a module
func ModulePath(module, ext string) string {
	return path.Join("modules", module, "index"+ext)
}

// SourcePath returns the site-root relative source page of a module
func SourcePath(module, ext string) string {
	return path.Join("source", module+ext)
}

// RenderType prepares t, declared in module with the given imports.
// Resolved path types link to their structure page; unresolved ones are plain text.
func RenderType(t types.Type, module string, imports []types.Import, ext string) RenderedType {
	switch v := t.(type) {
	case nil:
		return RenderedType{}
	case types.Primitive, types.Vector:
		return RenderedType{Name: v.String()}
	case *types.PathType:
		return renderPath(v, module, imports, ext)
	default:
		panic(fmt.Sprintf("generator: unhandled Type variant %T", t))
	}
}

// RenderFunctionType prepares an argument type, looking through function pointers
func RenderFunctionType(t types.FunctionType, module string, imports []types.Import, ext string) RenderedType {
	switch v := t.(type) {
	case nil:
		return RenderedType{}
	case types.FunctionPointer:
		r := RenderType(v.Elem, module, imports, ext)
		r.IsFunctionPointer = true
		return r
	case types.Primitive, types.Vector:
		return RenderedType{Name: v.String()}
	case *types.PathType:
		return renderPath(v, module, imports, ext)
	default:
		panic(fmt.Sprintf("generator: unhandled FunctionType variant %T", t))
	}
}

func renderPath(p *types.PathType, module string, imports []types.Import, ext string) RenderedType {
	origin := p.Resolution()
	switch origin.Kind() {
	case types.OriginThis:
		return RenderedType{
			Name:   p.Name,
			IsThis: true,
			Link:   StructurePath(module, p.Name, ext),
		}
	case types.OriginNamed:
		alias, _ := origin.Alias()
		for _, imp := range imports {
			if imp.Name == alias {
				return RenderedType{
					Name:   p.String(),
					Module: imp.ModuleName,
					Import: imp.Path,
					Link:   StructurePath(imp.ModuleName, p.Name, ext),
				}
			}
		}
	}
	return RenderedType{Name: p.String()}
}
