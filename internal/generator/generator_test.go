package generator

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/internal/resolver"
	"github.com/dshills/wgsldoc/internal/summary"
	"github.com/dshills/wgsldoc/pkg/types"
)

type testSite struct {
	name    string
	readme  string
	favicon []byte
	modules []*types.Wgsl
}

func (s *testSite) Name() string           { return s.name }
func (s *testSite) Readme() (string, bool) { return s.readme, s.readme != "" }
func (s *testSite) Favicon() []byte        { return s.favicon }
func (s *testSite) Modules() []*types.Wgsl { return s.modules }

type allRegistered struct{}

func (allRegistered) HasSuffix(string) bool { return true }

func resolvedModule(t *testing.T, name, src string) *types.Wgsl {
	t.Helper()
	res, err := parser.New().Parse(name, src)
	require.NoError(t, err)
	resolver.Resolve(res.Module, allRegistered{})
	return res.Module
}

const sceneSource = `//! Scene *module*.
#import utils.wgsl as Utils

/// The scene.
struct Scene {
    /// Active camera.
    camera: Utils::Camera,
    light: Light,
    data: array<f32, 4>,
}

struct Light { color: vec3<f32> }

@group(1) @binding(2) var<storage, read> lights: Light;
const MAX: u32 = 8u;

/// Shades a fragment.
@fragment
fn shade(s: ptr<function, Scene>, k: f32) -> Utils::Color {}
`

func TestPagePaths(t *testing.T) {
	assert.Equal(t, "modules/scene/index.json", ModulePath("scene", ".json"))
	assert.Equal(t, "modules/scene/fn.shade.json", FunctionPath("scene", "shade", ".json"))
	assert.Equal(t, "modules/scene/struct.Light.html", StructurePath("scene", "Light", ".html"))
	assert.Equal(t, "source/scene.json", SourcePath("scene", ".json"))
}

func TestRenderType(t *testing.T) {
	m := resolvedModule(t, "scene", sceneSource)
	st, _ := m.Structure("Scene")

	imported := RenderType(st.Fields[0].Type, m.ModuleName, m.Imports, ".html")
	assert.Equal(t, RenderedType{
		Name:   "Utils::Camera",
		Module: "utils",
		Import: "utils.wgsl",
		Link:   "modules/utils/struct.Camera.html",
	}, imported)

	local := RenderType(st.Fields[1].Type, m.ModuleName, m.Imports, ".html")
	assert.Equal(t, RenderedType{Name: "Light", IsThis: true, Link: "modules/scene/struct.Light.html"}, local)

	plain := RenderType(st.Fields[2].Type, m.ModuleName, m.Imports, ".html")
	assert.Equal(t, RenderedType{Name: "array"}, plain)

	assert.Equal(t, RenderedType{Name: "vec3<f32>"}, RenderType(types.Vector{Dimension: types.D3, Component: types.Float32}, "m", nil, ".html"))
	assert.Equal(t, RenderedType{}, RenderType(nil, "m", nil, ".html"))

	fn, _ := m.Function("shade")
	ptr := RenderFunctionType(fn.Args[0].Type, m.ModuleName, m.Imports, ".html")
	assert.True(t, ptr.IsFunctionPointer)
	assert.True(t, ptr.IsThis)
	assert.Equal(t, "Scene", ptr.Name)

	assert.Equal(t, RenderedType{Name: "f32"}, RenderFunctionType(fn.Args[1].Type, m.ModuleName, m.Imports, ".html"))
}

func TestRenderType_Unresolved(t *testing.T) {
	res, err := parser.New().Parse("m", "#import u.wgsl as U\nstruct S { a: U::T, b: S }")
	require.NoError(t, err)
	fields := res.Module.Structures[0].Fields

	assert.Equal(t, RenderedType{Name: "U::T"}, RenderType(fields[0].Type, "m", res.Module.Imports, ".html"))
	assert.Equal(t, RenderedType{Name: "S"}, RenderType(fields[1].Type, "m", res.Module.Imports, ".html"))
}

func TestWrite_Layout(t *testing.T) {
	site := &testSite{
		name:    "shaders",
		readme:  "# Hello",
		favicon: []byte("png"),
		modules: []*types.Wgsl{
			resolvedModule(t, "scene", sceneSource),
			resolvedModule(t, "utils", "struct Camera {}\nstruct Color {}"),
		},
	}
	dir := filepath.Join(t.TempDir(), "docs")

	stats, err := Write(context.Background(), site, NewJSONGenerator(""), dir)
	require.NoError(t, err)

	want := []string{
		"favicon.png",
		"index.json",
		"modules/index.json",
		"modules/scene/index.json",
		"modules/scene/fn.shade.json",
		"modules/scene/struct.Scene.json",
		"modules/scene/struct.Light.json",
		"modules/utils/index.json",
		"modules/utils/struct.Camera.json",
		"modules/utils/struct.Color.json",
		"source/scene.json",
		"source/utils.json",
	}
	for _, rel := range want {
		assert.FileExists(t, filepath.Join(dir, filepath.FromSlash(rel)))
	}
	assert.Equal(t, len(want)-1, stats.Pages)
	assert.Positive(t, stats.Bytes)
}

func TestWrite_NoFavicon(t *testing.T) {
	dir := t.TempDir()
	site := &testSite{name: "p", modules: []*types.Wgsl{resolvedModule(t, "m", "fn f() {}")}}

	_, err := Write(context.Background(), site, NewJSONGenerator(""), dir)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "favicon.png"))
}

func TestWrite_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	site := &testSite{name: "p", modules: []*types.Wgsl{resolvedModule(t, "m", "fn f() {}")}}

	_, err := Write(ctx, site, NewJSONGenerator(""), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestJSONGenerator_Pages(t *testing.T) {
	site := &testSite{
		name:    "shaders",
		readme:  "Read *me*",
		modules: []*types.Wgsl{resolvedModule(t, "scene", sceneSource)},
	}
	dir := t.TempDir()
	_, err := Write(context.Background(), site, NewJSONGenerator("https://docs.example.com/"), dir)
	require.NoError(t, err)

	var index IndexPage
	readJSON(t, filepath.Join(dir, "index.json"), &index)
	assert.Equal(t, "shaders", index.Package)
	assert.Equal(t, "<p>Read <em>me</em></p>\n", index.Readme)
	assert.Equal(t, "https://docs.example.com/modules/index.json", index.Modules)

	var modules ModulesIndexPage
	readJSON(t, filepath.Join(dir, "modules", "index.json"), &modules)
	require.Len(t, modules.Modules, 1)
	assert.Equal(t, "Scene module.", modules.Modules[0].Summary)

	var module ModulePage
	readJSON(t, filepath.Join(dir, "modules", "scene", "index.json"), &module)
	require.Len(t, module.Imports, 1)
	assert.True(t, module.Imports[0].Registered)
	assert.Equal(t, "https://docs.example.com/modules/utils/index.json", module.Imports[0].Link)
	require.Len(t, module.Bindings, 1)
	assert.Equal(t, uint16(1), module.Bindings[0].Group)
	assert.Equal(t, uint16(2), module.Bindings[0].Binding)
	assert.Equal(t, "storage", module.Bindings[0].AddressSpace)
	assert.Equal(t, "read", module.Bindings[0].AccessMode)
	require.Len(t, module.Constants, 1)
	assert.Equal(t, "8u", module.Constants[0].Value)
	assert.Equal(t, []string{"shade"}, componentNames(module.Functions))
	assert.Equal(t, []string{"Scene", "Light"}, componentNames(module.Structures))

	var fn FunctionPage
	readJSON(t, filepath.Join(dir, "modules", "scene", "fn.shade.json"), &fn)
	assert.Equal(t, "fragment", fn.Stage)
	require.Len(t, fn.Args, 2)
	assert.Equal(t, "https://docs.example.com/modules/scene/struct.Scene.json", fn.Args[0].Type.Link)
	require.NotNil(t, fn.Return)
	assert.Equal(t, "utils", fn.Return.Module)

	var st StructurePage
	readJSON(t, filepath.Join(dir, "modules", "scene", "struct.Scene.json"), &st)
	require.Len(t, st.Fields, 3)
	assert.Equal(t, "<p>Active camera.</p>\n", st.Fields[0].Docs)

	var src SourcePageView
	readJSON(t, filepath.Join(dir, "source", "scene.json"), &src)
	assert.Equal(t, sceneSource, src.Source)
}

func componentNames(infos []summary.ComponentInfo) []string {
	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	return names
}
