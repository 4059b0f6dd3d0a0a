package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrimitive(t *testing.T) {
	for kw, want := range map[string]Primitive{
		"bool": Bool, "f32": Float32, "f64": Float64,
		"u8": Uint8, "u16": Uint16, "u32": Uint32, "u64": Uint64,
		"i8": Sint8, "i16": Sint16, "i32": Sint32, "i64": Sint64,
	} {
		got, err := ParsePrimitive(kw)
		require.NoError(t, err, kw)
		assert.Equal(t, want, got)
		assert.Equal(t, kw, got.String())
	}

	_, err := ParsePrimitive("f16")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPrimitive))

	var lit *InvalidLiteralError
	require.ErrorAs(t, err, &lit)
	assert.Equal(t, "f16", lit.Literal)
}

func TestParseDimension(t *testing.T) {
	d, err := ParseDimension("3")
	require.NoError(t, err)
	assert.Equal(t, D3, d)

	_, err = ParseDimension("5")
	assert.ErrorIs(t, err, ErrInvalidVector)
}

func TestDefaultType(t *testing.T) {
	assert.Equal(t, Sint32, DefaultType())
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		name string
		typ  FunctionType
		want string
	}{
		{"primitive", Uint32, "u32"},
		{"vector", Vector{Dimension: D4, Component: Float32}, "vec4<f32>"},
		{"path", NewPathType("", "Light"), "Light"},
		{"qualified path", NewPathType("Utils", "Camera"), "Utils::Camera"},
		{"function pointer", FunctionPointer{Elem: NewPathType("", "S")}, "ptr<function, S>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestPathType_Resolution(t *testing.T) {
	t.Run("starts undefined", func(t *testing.T) {
		p := NewPathType("U", "Camera")
		assert.True(t, p.Resolution().IsUndefined())
		assert.Equal(t, "undefined", p.Resolution().String())
	})

	t.Run("named is final", func(t *testing.T) {
		p := NewPathType("U", "Camera")
		assert.True(t, p.ResolveNamed("U"))
		assert.False(t, p.ResolveThis())
		assert.False(t, p.ResolveNamed("V"))

		alias, ok := p.Resolution().Alias()
		assert.True(t, ok)
		assert.Equal(t, "U", alias)
		assert.Equal(t, "named(U)", p.Resolution().String())
	})

	t.Run("this is final", func(t *testing.T) {
		p := NewPathType("", "Light")
		assert.True(t, p.ResolveThis())
		assert.False(t, p.ResolveNamed("U"))
		assert.Equal(t, OriginThis, p.Resolution().Kind())

		_, ok := p.Resolution().Alias()
		assert.False(t, ok)
	})
}

func TestImportOrigin_MarshalText(t *testing.T) {
	text, err := Named("Utils").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "named(Utils)", string(text))

	text, err = ImportOrigin{}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "undefined", string(text))
}

func TestPathOf(t *testing.T) {
	p := NewPathType("", "S")
	assert.Same(t, p, PathOf(p))
	assert.Nil(t, PathOf(Float32))
	assert.Nil(t, PathOf(Vector{Dimension: D2, Component: Bool}))
	assert.Nil(t, PathOf(nil))

	assert.Same(t, p, FunctionPathOf(FunctionPointer{Elem: p}))
	assert.Nil(t, FunctionPathOf(FunctionPointer{Elem: Uint32}))
}

func TestCloneType_Independent(t *testing.T) {
	p := NewPathType("", "S")
	cp := CloneType(p)
	PathOf(cp).ResolveThis()
	assert.True(t, p.Resolution().IsUndefined())

	fp := FunctionPointer{Elem: p}
	fcp := CloneFunctionType(fp)
	FunctionPathOf(fcp).ResolveNamed("X")
	assert.True(t, p.Resolution().IsUndefined())

	assert.Equal(t, Float32, CloneType(Float32))
}
