package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleModule() *Wgsl {
	return &Wgsl{
		ModuleName: "scene",
		Imports:    []Import{NewImport("", "lib/utils.wgsl", "Utils")},
		Bindings: []Binding{
			{Name: "camera", Type: NewPathType("Utils", "Camera")},
			{Name: "time", Type: Float32},
		},
		Constants: []Constant{
			{Name: "LIMIT", Value: "4u"},
			{Name: "ORIGIN", Type: NewPathType("", "Point"), Value: "Point()"},
		},
		Structures: []Structure{
			{Name: "Point", Fields: []Field{{Name: "x", Type: Float32}, {Name: "next", Type: NewPathType("", "Point")}}},
		},
		Functions: []Function{
			{
				Name:   "walk",
				Args:   []Arg{{Name: "p", Type: FunctionPointer{Elem: NewPathType("", "Point")}}},
				Return: NewPathType("", "Point"),
			},
		},
	}
}

func TestModuleNameOf(t *testing.T) {
	assert.Equal(t, "utils", ModuleNameOf("lib/utils.wgsl"))
	assert.Equal(t, "utils", ModuleNameOf(`lib\utils.wgsl`))
	assert.Equal(t, "a.b", ModuleNameOf("./a.b.wgsl"))
	assert.Equal(t, ".hidden", ModuleNameOf(".hidden"))
}

func TestImport_Registered(t *testing.T) {
	imp := NewImport("docs", "lib/utils.wgsl", "Utils")
	assert.Equal(t, "utils", imp.ModuleName)
	assert.False(t, imp.Registered())

	imp.MarkRegistered()
	imp.MarkRegistered()
	assert.True(t, imp.Registered())
}

func TestValidateKind(t *testing.T) {
	assert.NoError(t, ValidateKind(KindStructure))
	assert.ErrorIs(t, ValidateKind("interface"), ErrInvalidSymbolKind)
}

func TestWgsl_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Wgsl{}).Validate(), ErrNoModuleName)
	assert.NoError(t, sampleModule().Validate())
}

func TestWgsl_IsEmpty(t *testing.T) {
	assert.True(t, (&Wgsl{ModuleName: "m", GlobalDocs: "only docs"}).IsEmpty())
	assert.False(t, sampleModule().IsEmpty())
}

func TestWgsl_Lookups(t *testing.T) {
	m := sampleModule()

	fn, ok := m.Function("walk")
	require.True(t, ok)
	assert.Equal(t, "walk", fn.Name)

	_, ok = m.Function("run")
	assert.False(t, ok)

	st, ok := m.Structure("Point")
	require.True(t, ok)
	assert.Len(t, st.Fields, 2)

	imp, ok := m.Import("Utils")
	require.True(t, ok)
	imp.MarkRegistered()
	assert.True(t, m.Imports[0].Registered())
}

func TestWgsl_PathTypes(t *testing.T) {
	var got []string
	for _, p := range sampleModule().PathTypes() {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"Utils::Camera", "Point", "Point", "Point", "Point"}, got)
}

func TestWgsl_Clone(t *testing.T) {
	m := sampleModule()
	cp := m.Clone()
	require.Equal(t, m, cp)

	for _, p := range cp.PathTypes() {
		p.ResolveThis()
	}
	cp.Imports[0].MarkRegistered()
	cp.Structures[0].Fields[0].Name = "y"

	for _, p := range m.PathTypes() {
		assert.True(t, p.Resolution().IsUndefined(), p.String())
	}
	assert.False(t, m.Imports[0].Registered())
	assert.Equal(t, "x", m.Structures[0].Fields[0].Name)
}

func TestWgsl_CloneKeepsNil(t *testing.T) {
	m := &Wgsl{ModuleName: "m"}
	assert.Equal(t, m, m.Clone())
}

func TestDiagnostics(t *testing.T) {
	var ds Diagnostics
	assert.False(t, ds.HasWarnings())

	ds.Add("m", 3, 1, CodeDuplicateDeclaration, "duplicate %s `%s`", KindFunction, "f")
	ds.Add("m", 0, 0, CodeUnregisteredImport, "import `%s`", "U")

	assert.True(t, ds.HasWarnings())
	assert.Len(t, ds.ByCode(CodeUnregisteredImport), 1)
	assert.Empty(t, ds.ByCode(CodeDanglingDocs))
	assert.Equal(t, "m:3:1: duplicate-declaration: duplicate function `f`", ds[0].String())
	assert.Equal(t, "m: unregistered-import: import `U`", ds[1].String())
}

func TestSignatures(t *testing.T) {
	m := sampleModule()
	m.Functions[0].Stage = "compute"
	m.Bindings[0].AddressSpace = "uniform"
	m.Bindings[0].AttrGroup = 1

	assert.Equal(t, "@compute fn walk(p: ptr<function, Point>) -> Point", m.Functions[0].Signature())
	assert.Equal(t, "fn f()", (&Function{Name: "f"}).Signature())
	assert.Equal(t, "struct Point { x: f32, next: Point }", m.Structures[0].Signature())
	assert.Equal(t, "struct Empty {}", (&Structure{Name: "Empty"}).Signature())
	assert.Equal(t, "const LIMIT = 4u", m.Constants[0].Signature())
	assert.Equal(t, "const ORIGIN: Point = Point()", m.Constants[1].Signature())
	assert.Equal(t, "@group(1) @binding(0) var<uniform> camera: Utils::Camera", m.Bindings[0].Signature())
	assert.Equal(t, "@group(0) @binding(0) var time: f32", m.Bindings[1].Signature())
	assert.Equal(t, "#import lib/utils.wgsl as Utils", m.Imports[0].Signature())
}
