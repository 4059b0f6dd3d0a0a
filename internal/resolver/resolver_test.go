package resolver

import (
	"strings"
	"testing"

	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// suffixRegistry matches on plain string suffixes
type suffixRegistry []string

func (r suffixRegistry) HasSuffix(importPath string) bool {
	for _, p := range r {
		if strings.HasSuffix(p, importPath) {
			return true
		}
	}
	return false
}

func parseModule(t *testing.T, name, src string) *types.Wgsl {
	t.Helper()
	res, err := parser.New().Parse(name, src)
	require.NoError(t, err)
	return res.Module
}

func TestResolve_ImportedType(t *testing.T) {
	b := parseModule(t, "b", `#import a.wgsl as Utils
struct Scene {
    camera: Utils::Camera,
}`)

	diags := Resolve(b, suffixRegistry{"/project/a.wgsl", "/project/b.wgsl"})
	assert.Empty(t, diags)

	require.True(t, b.Imports[0].Registered())
	field := types.PathOf(b.Structures[0].Fields[0].Type)
	alias, ok := field.Resolution().Alias()
	assert.True(t, ok)
	assert.Equal(t, "Utils", alias)
	assert.Equal(t, types.Named("Utils"), field.Resolution())
}

func TestResolve_SameModuleStructure(t *testing.T) {
	m := parseModule(t, "geom", `struct Point { x: f32, y: f32, }
fn length(p: Point) -> f32 { return 0.0; }`)

	Resolve(m, suffixRegistry{})
	arg := types.FunctionPathOf(m.Functions[0].Args[0].Type)
	assert.Equal(t, types.This(), arg.Resolution())
}

func TestResolve_UnknownStaysUndefined(t *testing.T) {
	m := parseModule(t, "m", `fn f(t: texture_2d<f32>, x: invalid_type) -> Missing {}
const C: Other::Thing = Thing();`)

	diags := Resolve(m, suffixRegistry{"m.wgsl"})
	assert.Empty(t, diags)
	for _, p := range m.PathTypes() {
		assert.True(t, p.Resolution().IsUndefined(), p.String())
	}
}

func TestResolve_UnregisteredImport(t *testing.T) {
	m := parseModule(t, "m", `#import missing.wgsl as Gone
var<uniform> u: Gone::Uniforms;`)

	diags := Resolve(m, suffixRegistry{"m.wgsl"})
	require.Len(t, diags, 1)
	assert.Equal(t, types.CodeUnregisteredImport, diags[0].Code)
	assert.Contains(t, diags[0].Message, "missing.wgsl")

	assert.False(t, m.Imports[0].Registered())
	assert.True(t, types.PathOf(m.Bindings[0].Type).Resolution().IsUndefined())
}

func TestResolve_NamedCheckedBeforeThis(t *testing.T) {
	m := parseModule(t, "m", `#import other.wgsl as O
struct Light {}
struct Scene { a: O::Light, b: Light }`)

	Resolve(m, suffixRegistry{"other.wgsl"})
	fields := m.Structures[1].Fields
	assert.Equal(t, types.Named("O"), types.PathOf(fields[0].Type).Resolution())
	assert.Equal(t, types.This(), types.PathOf(fields[1].Type).Resolution())
}

func TestResolve_OnlyStructuresResolveThis(t *testing.T) {
	m := parseModule(t, "m", `const Scale = 1.0;
fn Helper() {}
var<private> State: f32;
fn f(a: Scale, b: Helper, c: State) {}`)

	Resolve(m, suffixRegistry{})
	for _, a := range m.Functions[1].Args {
		assert.True(t, types.FunctionPathOf(a.Type).Resolution().IsUndefined(), a.Name)
	}
}

func TestResolve_AllDeclarationKinds(t *testing.T) {
	m := parseModule(t, "m", `struct S {}
@group(0) @binding(0) var<uniform> u: S;
const K: S = S();
struct T { s: S }
fn f(p: ptr<function, S>, q: S) -> S {}`)

	Resolve(m, suffixRegistry{})
	paths := m.PathTypes()
	require.Len(t, paths, 6)
	for _, p := range paths {
		assert.Equal(t, types.OriginThis, p.Resolution().Kind())
	}
}

func TestResolve_Idempotent(t *testing.T) {
	m := parseModule(t, "m", "struct P {}\nfn f(p: P) {}")
	Resolve(m, suffixRegistry{})
	Resolve(m, suffixRegistry{})
	assert.Equal(t, types.This(), types.FunctionPathOf(m.Functions[0].Args[0].Type).Resolution())
}

func TestResolvePath_SkipsResolved(t *testing.T) {
	p := types.NewPathType("U", "Camera")
	p.ResolveThis()

	imp := types.NewImport("", "u.wgsl", "U")
	imp.MarkRegistered()
	ResolvePath(p, []types.Import{imp}, Roster{})

	assert.Equal(t, types.This(), p.Resolution())
}

func TestRegisterImports_Monotonic(t *testing.T) {
	m := parseModule(t, "m", "#import u.wgsl as U")
	RegisterImports(m, suffixRegistry{"u.wgsl"})
	require.True(t, m.Imports[0].Registered())

	diags := RegisterImports(m, suffixRegistry{})
	assert.Empty(t, diags)
	assert.True(t, m.Imports[0].Registered())
}

func TestNewRoster(t *testing.T) {
	m := parseModule(t, "m", "struct A {}\nstruct B {}\nfn C() {}")
	r := NewRoster(m)
	assert.True(t, r.Contains("A"))
	assert.True(t, r.Contains("B"))
	assert.False(t, r.Contains("C"))
}
