package generator

import (
	"encoding/json"
	"strings"

	"github.com/dshills/wgsldoc/internal/summary"
	"github.com/dshills/wgsldoc/pkg/types"
)

// JSONGenerator writes every page as a JSON document. Links are prefixed
// with BaseURL, so the output can be served from any location.
type JSONGenerator struct {
	BaseURL string

	md *summary.Renderer
}

// NewJSONGenerator creates a JSON generator
func NewJSONGenerator(baseURL string) *JSONGenerator {
	return &JSONGenerator{BaseURL: baseURL, md: summary.New()}
}

// IndexPage is the landing page
type IndexPage struct {
	Package string `json:"package"`
	Readme  string `json:"readme,omitempty"` // Rendered HTML
	Modules string `json:"modules"`
}

// ModulesIndexPage lists every module with its summary
type ModulesIndexPage struct {
	Package string                  `json:"package"`
	Modules []summary.ComponentInfo `json:"modules"`
}

// ImportView is an import as listed on a module page
type ImportView struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Module     string `json:"module"`
	Registered bool   `json:"registered"`
	Docs       string `json:"docs,omitempty"`
	Link       string `json:"link,omitempty"`
}

// ConstantView is a constant as listed on a module page
type ConstantView struct {
	Name  string        `json:"name"`
	Type  *RenderedType `json:"type,omitempty"`
	Value string        `json:"value"`
	Docs  string        `json:"docs,omitempty"`
}

// BindingView is a resource binding as listed on a module page
type BindingView struct {
	Name         string       `json:"name"`
	Group        uint16       `json:"group"`
	Binding      uint16       `json:"binding"`
	AddressSpace string       `json:"address_space,omitempty"`
	AccessMode   string       `json:"access_mode,omitempty"`
	Type         RenderedType `json:"type"`
	Docs         string       `json:"docs,omitempty"`
}

// ModulePage describes one module
type ModulePage struct {
	Package    string                  `json:"package"`
	Module     string                  `json:"module"`
	Docs       string                  `json:"docs,omitempty"`
	Source     string                  `json:"source"`
	Imports    []ImportView            `json:"imports"`
	Functions  []summary.ComponentInfo `json:"functions"`
	Structures []summary.ComponentInfo `json:"structures"`
	Constants  []ConstantView          `json:"constants"`
	Bindings   []BindingView           `json:"bindings"`
}

// ArgFieldView is a function argument or structure field
type ArgFieldView struct {
	Name string       `json:"name"`
	Type RenderedType `json:"type"`
	Docs string       `json:"docs,omitempty"`
}

// FunctionPage describes one function
type FunctionPage struct {
	Package string         `json:"package"`
	Module  string         `json:"module"`
	Name    string         `json:"name"`
	Stage   string         `json:"stage,omitempty"`
	Docs    string         `json:"docs,omitempty"`
	Args    []ArgFieldView `json:"args"`
	Return  *RenderedType  `json:"return,omitempty"`
}

// StructurePage describes one structure
type StructurePage struct {
	Package string         `json:"package"`
	Module  string         `json:"module"`
	Name    string         `json:"name"`
	Docs    string         `json:"docs,omitempty"`
	Fields  []ArgFieldView `json:"fields"`
}

// SourcePageView carries the raw source of a module
type SourcePageView struct {
	Package string `json:"package"`
	Module  string `json:"module"`
	Source  string `json:"source"`
}

// Extension implements Generator
func (g *JSONGenerator) Extension() string { return ".json" }

// Index implements Generator
func (g *JSONGenerator) Index(site Site) ([]byte, error) {
	page := IndexPage{Package: site.Name(), Modules: g.link("modules/index" + g.Extension())}
	if readme, ok := site.Readme(); ok {
		h, err := g.renderer().HTML(readme)
		if err != nil {
			return nil, err
		}
		page.Readme = h
	}
	return marshal(page)
}

// ModulesIndex implements Generator
func (g *JSONGenerator) ModulesIndex(site Site, modules []summary.ComponentInfo) ([]byte, error) {
	return marshal(ModulesIndexPage{Package: site.Name(), Modules: modules})
}

// Module implements Generator
func (g *JSONGenerator) Module(site Site, m *types.Wgsl) ([]byte, error) {
	md := g.renderer()
	docs, err := md.HTML(m.GlobalDocs)
	if err != nil {
		return nil, err
	}
	page := ModulePage{
		Package:    site.Name(),
		Module:     m.ModuleName,
		Docs:       docs,
		Source:     g.link(SourcePath(m.ModuleName, g.Extension())),
		Imports:    []ImportView{},
		Functions:  md.Functions(m.Functions),
		Structures: md.Structures(m.Structures),
		Constants:  []ConstantView{},
		Bindings:   []BindingView{},
	}

	for _, imp := range m.Imports {
		docs, err := md.HTML(imp.Docs)
		if err != nil {
			return nil, err
		}
		view := ImportView{
			Name:       imp.Name,
			Path:       imp.Path,
			Module:     imp.ModuleName,
			Registered: imp.Registered(),
			Docs:       docs,
		}
		if imp.Registered() {
			view.Link = g.link(ModulePath(imp.ModuleName, g.Extension()))
		}
		page.Imports = append(page.Imports, view)
	}

	for _, c := range m.Constants {
		docs, err := md.HTML(c.Docs)
		if err != nil {
			return nil, err
		}
		view := ConstantView{Name: c.Name, Value: c.Value, Docs: docs}
		if c.Type != nil {
			t := g.render(c.Type, m)
			view.Type = &t
		}
		page.Constants = append(page.Constants, view)
	}

	for _, b := range m.Bindings {
		docs, err := md.HTML(b.Docs)
		if err != nil {
			return nil, err
		}
		page.Bindings = append(page.Bindings, BindingView{
			Name:         b.Name,
			Group:        b.AttrGroup,
			Binding:      b.AttrBinding,
			AddressSpace: b.AddressSpace,
			AccessMode:   b.AccessMode,
			Type:         g.render(b.Type, m),
			Docs:         docs,
		})
	}
	return marshal(page)
}

// Function implements Generator
func (g *JSONGenerator) Function(site Site, m *types.Wgsl, fn *types.Function) ([]byte, error) {
	md := g.renderer()
	docs, err := md.HTML(fn.Docs)
	if err != nil {
		return nil, err
	}
	page := FunctionPage{
		Package: site.Name(),
		Module:  m.ModuleName,
		Name:    fn.Name,
		Stage:   fn.Stage,
		Docs:    docs,
		Args:    []ArgFieldView{},
	}
	for _, a := range fn.Args {
		docs, err := md.HTML(a.Docs)
		if err != nil {
			return nil, err
		}
		t := g.withBase(RenderFunctionType(a.Type, m.ModuleName, m.Imports, g.Extension()))
		page.Args = append(page.Args, ArgFieldView{Name: a.Name, Type: t, Docs: docs})
	}
	if fn.Return != nil {
		t := g.render(fn.Return, m)
		page.Return = &t
	}
	return marshal(page)
}

// Structure implements Generator
func (g *JSONGenerator) Structure(site Site, m *types.Wgsl, st *types.Structure) ([]byte, error) {
	md := g.renderer()
	docs, err := md.HTML(st.Docs)
	if err != nil {
		return nil, err
	}
	page := StructurePage{
		Package: site.Name(),
		Module:  m.ModuleName,
		Name:    st.Name,
		Docs:    docs,
		Fields:  []ArgFieldView{},
	}
	for _, f := range st.Fields {
		docs, err := md.HTML(f.Docs)
		if err != nil {
			return nil, err
		}
		page.Fields = append(page.Fields, ArgFieldView{Name: f.Name, Type: g.render(f.Type, m), Docs: docs})
	}
	return marshal(page)
}

// Source implements Generator
func (g *JSONGenerator) Source(site Site, m *types.Wgsl) ([]byte, error) {
	return marshal(SourcePageView{Package: site.Name(), Module: m.ModuleName, Source: m.SourceCode})
}

func (g *JSONGenerator) renderer() *summary.Renderer {
	if g.md == nil {
		g.md = summary.New()
	}
	return g.md
}

func (g *JSONGenerator) render(t types.Type, m *types.Wgsl) RenderedType {
	return g.withBase(RenderType(t, m.ModuleName, m.Imports, g.Extension()))
}

func (g *JSONGenerator) withBase(r RenderedType) RenderedType {
	if r.Link != "" {
		r.Link = g.link(r.Link)
	}
	return r
}

func (g *JSONGenerator) link(rel string) string {
	if g.BaseURL == "" {
		return rel
	}
	return strings.TrimRight(g.BaseURL, "/") + "/" + rel
}

func marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
