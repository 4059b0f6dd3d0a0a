package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wgsldoc/internal/grammar"
	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/pkg/types"
)

const utilsSource = `//! Shared helpers.

/// A pinhole camera.
struct Camera {
    /// World space position.
    position: vec3<f32>,
}
`

const sceneSource = `//! Scene rendering.

/// Camera helpers.
#import utils.wgsl as Utils

/// Scene state.
struct Scene {
    camera: Utils::Camera,
    light: Light,
}

struct Light {
    color: vec3<f32>,
}

@group(0) @binding(0) var<uniform> scene: Scene;

fn shade(s: ptr<function, Scene>, l: Light) -> Utils::Camera {}
`

// writeFiles creates files under dir and returns their paths in the given order
func writeFiles(t *testing.T, dir string, files ...string) []string {
	t.Helper()
	var paths []string
	for i := 0; i < len(files); i += 2 {
		p := filepath.Join(dir, files[i])
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(files[i+1]), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func TestNew_ClassifiesFiles(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir,
		"scene.wgsl", sceneSource,
		"utils.wgsl", utilsSource,
		".private.wgsl", "this is not wgsl",
		"README.md", "# Shaders",
		"favicon.png", "\x89PNG",
		"notes.txt", "ignored",
	)

	doc, err := New(context.Background(), "shaders", paths, nil)
	require.NoError(t, err)

	assert.Equal(t, "shaders", doc.Name())
	require.Len(t, doc.Shaders(), 2)
	assert.Equal(t, "scene", doc.Shaders()[0].ModuleName)
	assert.Equal(t, "utils", doc.Shaders()[1].ModuleName)

	assert.Equal(t, 3, doc.Registry().Len())
	stats := doc.Stats()
	assert.Equal(t, 6, stats.FilesSeen)
	assert.Equal(t, 2, stats.ModulesParsed)
	assert.Equal(t, 1, stats.HiddenSkipped)
	assert.Equal(t, 1, stats.Ignored)

	reg, err := doc.Register()
	require.NoError(t, err)
	readme, ok := reg.Readme()
	assert.True(t, ok)
	assert.Equal(t, "# Shaders", readme)
	assert.Equal(t, []byte("\x89PNG"), reg.Favicon())
	assert.Len(t, reg.Modules(), 2)
}

func TestNew_ExtensionIsCaseSensitive(t *testing.T) {
	paths := writeFiles(t, t.TempDir(),
		"utils.wgsl", utilsSource,
		"UPPER.WGSL", "not parsed",
		"Mixed.Wgsl", "not parsed",
	)

	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)
	require.Len(t, doc.Shaders(), 1)
	assert.Equal(t, "utils", doc.Shaders()[0].ModuleName)
	assert.Equal(t, 1, doc.Registry().Len())
	assert.Equal(t, 2, doc.Stats().Ignored)
}

func TestDocument_NotRenderableBeforeRegister(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource, "README.md", "# r")
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)

	type site interface {
		Name() string
		Readme() (string, bool)
		Modules() []*types.Wgsl
	}
	var unresolved any = doc
	_, ok := unresolved.(site)
	assert.False(t, ok, "*Document must not satisfy the render/store boundary")

	reg, err := doc.Register()
	require.NoError(t, err)
	var resolved any = reg
	_, ok = resolved.(site)
	assert.True(t, ok)
}

func TestNew_NoAssets(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource)

	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)

	reg, err := doc.Register()
	require.NoError(t, err)
	_, ok := reg.Readme()
	assert.False(t, ok)
	assert.Nil(t, reg.Favicon())
}

func TestNew_LeavesPathTypesUndefined(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "scene.wgsl", sceneSource, "utils.wgsl", utilsSource)

	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)
	for _, m := range doc.Shaders() {
		for _, p := range m.PathTypes() {
			assert.True(t, p.Resolution().IsUndefined())
		}
		for _, imp := range m.Imports {
			assert.False(t, imp.Registered())
		}
	}
}

func TestNew_FailsOnFirstBadModule(t *testing.T) {
	paths := writeFiles(t, t.TempDir(),
		"good.wgsl", utilsSource,
		"first.wgsl", "struct {",
		"second.wgsl", "fn (",
	)

	for i := 0; i < 5; i++ {
		doc, err := New(context.Background(), "p", paths, &Config{Workers: 3})
		require.Error(t, err)
		assert.Nil(t, doc)
		assert.ErrorIs(t, err, types.ErrSyntax)
		assert.Contains(t, err.Error(), "first.wgsl")

		var syn *grammar.SyntaxError
		assert.True(t, errors.As(err, &syn))
	}
}

func TestNew_MissingFile(t *testing.T) {
	_, err := New(context.Background(), "p", []string{filepath.Join(t.TempDir(), "gone.wgsl")}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNew_Cancelled(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(ctx, "p", paths, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_DuplicateAssets(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir,
		"README.md", "first",
		"sub/README.md", "second",
		"a/utils.wgsl", utilsSource,
		"b/utils.wgsl", utilsSource,
	)

	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)

	assert.Len(t, doc.Shaders(), 1)
	assert.Len(t, doc.Diagnostics().ByCode(types.CodeDuplicateAsset), 2)

	reg, err := doc.Register()
	require.NoError(t, err)
	readme, _ := reg.Readme()
	assert.Equal(t, "first", readme)
}

func TestNew_UsesCache(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource)
	cache := parser.NewCache(8)
	cfg := &Config{Cache: cache}

	_, err := New(context.Background(), "p", paths, cfg)
	require.NoError(t, err)
	doc, err := New(context.Background(), "p", paths, cfg)
	require.NoError(t, err)

	assert.Equal(t, int64(1), doc.Stats().CacheHits)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"scene.wgsl", sceneSource,
		"utils.wgsl", utilsSource,
		"nested/extra.wgsl", "struct Extra {}",
		".git/hooks.wgsl", "not parsed",
	)

	t.Run("flat", func(t *testing.T) {
		doc, err := Open(context.Background(), "p", dir, nil)
		require.NoError(t, err)
		assert.Len(t, doc.Shaders(), 2)
	})

	t.Run("recursive", func(t *testing.T) {
		doc, err := Open(context.Background(), "p", dir, &Config{Recursive: true})
		require.NoError(t, err)
		assert.Len(t, doc.Shaders(), 3)
		_, ok := doc.Module("extra")
		assert.True(t, ok)
		assert.Equal(t, 3, doc.Registry().Len())
	})

	t.Run("missing dir", func(t *testing.T) {
		_, err := Open(context.Background(), "p", filepath.Join(dir, "nope"), nil)
		assert.Error(t, err)
	})
}

func TestRegister_ResolvesAcrossModules(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "scene.wgsl", sceneSource, "utils.wgsl", utilsSource)
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)

	reg, err := doc.Register()
	require.NoError(t, err)

	scene, ok := reg.Module("scene")
	require.True(t, ok)
	assert.True(t, scene.Imports[0].Registered())

	st, ok := scene.Structure("Scene")
	require.True(t, ok)
	assert.Equal(t, types.Named("Utils"), types.PathOf(st.Fields[0].Type).Resolution())
	assert.Equal(t, types.This(), types.PathOf(st.Fields[1].Type).Resolution())

	fn, ok := scene.Function("shade")
	require.True(t, ok)
	assert.Equal(t, types.This(), types.FunctionPathOf(fn.Args[0].Type).Resolution())
	assert.Equal(t, types.Named("Utils"), types.PathOf(fn.Return).Resolution())

	assert.Equal(t, types.This(), types.PathOf(scene.Bindings[0].Type).Resolution())
	assert.Empty(t, reg.Diagnostics().ByCode(types.CodeUnregisteredImport))
}

func TestRegister_ImportOfHiddenModule(t *testing.T) {
	paths := writeFiles(t, t.TempDir(),
		"main.wgsl", "#import .shared.wgsl as S\nstruct M { s: S::Thing }",
		".shared.wgsl", "unparsed",
	)
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)
	reg, err := doc.Register()
	require.NoError(t, err)

	m, _ := reg.Module("main")
	assert.True(t, m.Imports[0].Registered())
	assert.Equal(t, types.Named("S"), types.PathOf(m.Structures[0].Fields[0].Type).Resolution())
}

func TestRegister_UnregisteredImport(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "scene.wgsl", sceneSource)
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)
	reg, err := doc.Register()
	require.NoError(t, err)

	diags := reg.Diagnostics().ByCode(types.CodeUnregisteredImport)
	require.Len(t, diags, 1)
	assert.Equal(t, "scene", diags[0].Module)

	scene, _ := reg.Module("scene")
	st, _ := scene.Structure("Scene")
	assert.True(t, types.PathOf(st.Fields[0].Type).Resolution().IsUndefined())
}

func TestRegister_Once(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource)
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, results[i] = doc.Register()
		}()
	}
	wg.Wait()

	var ok, failed int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, types.ErrAlreadyRegistered)
			failed++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, failed)
	assert.True(t, doc.Registered())
}

func TestRegisteredDocument_Undocumented(t *testing.T) {
	paths := writeFiles(t, t.TempDir(), "utils.wgsl", utilsSource,
		"bare.wgsl", "#import utils.wgsl as U\nfn f(x: f32) {}\nstruct S { a: u32 }")
	doc, err := New(context.Background(), "p", paths, nil)
	require.NoError(t, err)
	reg, err := doc.Register()
	require.NoError(t, err)

	var got []string
	for _, u := range reg.Undocumented() {
		got = append(got, u.String())
	}
	assert.Equal(t, []string{
		"module bare has no documentation",
		"function f in module bare has no documentation",
		"argument x of f in module bare has no documentation",
		"structure S in module bare has no documentation",
		"field a of S in module bare has no documentation",
		"import U in module bare has no documentation",
	}, got)
}
