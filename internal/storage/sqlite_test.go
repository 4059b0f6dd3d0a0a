package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/internal/resolver"
	"github.com/dshills/wgsldoc/pkg/types"
)

type testSource struct {
	name    string
	readme  string
	modules []*types.Wgsl
}

func (s *testSource) Name() string           { return s.name }
func (s *testSource) Readme() (string, bool) { return s.readme, s.readme != "" }
func (s *testSource) Modules() []*types.Wgsl { return s.modules }

type onlyUtils struct{}

func (onlyUtils) HasSuffix(p string) bool { return p == "utils.wgsl" }

const sceneSource = `//! Scene rendering module.
/// Camera helpers.
#import utils.wgsl as Utils
#import missing.wgsl as Gone

/// Upper bound for lights.
const MAX_LIGHTS: u32 = 8u;

/// Per-frame uniforms.
@group(0) @binding(1) var<uniform> frame: Utils::Frame;

/// A point light with a falloff radius.
struct Light {
    color: vec3<f32>,
    radius: f32,
}

struct Scene {
    camera: Utils::Camera,
    lights: array<Light, 8>,
    fog: Gone::Fog,
    main: Light,
}

/// Shades one fragment using every light.
@fragment
fn shade_fragment(scene: ptr<function, Scene>, t: Unknown) -> vec4<f32> {}
`

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sceneDocument(t *testing.T) *testSource {
	t.Helper()
	res, err := parser.New().Parse("scene", sceneSource)
	require.NoError(t, err)
	resolver.Resolve(res.Module, onlyUtils{})

	utils, err := parser.New().Parse("utils", "/// Camera.\nstruct Camera {}\nstruct Frame {}")
	require.NoError(t, err)
	resolver.Resolve(utils.Module, onlyUtils{})

	return &testSource{name: "shaders", readme: "# Shaders", modules: []*types.Wgsl{res.Module, utils.Module}}
}

func TestNewSQLiteStorage(t *testing.T) {
	store := setupTestDB(t)
	assert.NotNil(t, store.db)

	version, err := SchemaVersion(context.Background(), store.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestMigrations_Rollback(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, RollbackMigration(ctx, store.db))
	version, err := SchemaVersion(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", version.String())

	require.NoError(t, ApplyMigrations(ctx, store.db))
	version, err = SchemaVersion(ctx, store.db)
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version.String())
}

func TestReplaceDocument(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()

	doc, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)
	assert.Positive(t, doc.ID)
	assert.Equal(t, 2, doc.ModuleCount)

	got, err := store.GetDocument(ctx, "shaders")
	require.NoError(t, err)
	assert.Equal(t, "# Shaders", got.Readme)
	assert.False(t, got.IndexedAt.IsZero())

	modules, err := store.ListModules(ctx, "shaders")
	require.NoError(t, err)
	require.Len(t, modules, 2)
	assert.Equal(t, "scene", modules[0].Name)
	assert.Equal(t, "Scene rendering module.", modules[0].GlobalDocs)
	assert.Equal(t, sceneSource, modules[0].SourceCode)
	assert.Equal(t, 7, modules[0].SymbolCount)

	t.Run("replace keeps one copy", func(t *testing.T) {
		_, err := store.ReplaceDocument(ctx, sceneDocument(t))
		require.NoError(t, err)

		modules, err := store.ListModules(ctx, "shaders")
		require.NoError(t, err)
		assert.Len(t, modules, 2)

		results, err := store.SearchSymbols(ctx, "shaders", "light", 10, nil)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})
}

func TestGetModule_NotFound(t *testing.T) {
	store := setupTestDB(t)
	_, err := store.GetModule(context.Background(), "shaders", "scene")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetDocument(context.Background(), "shaders")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListSymbols(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	symbols, err := store.ListSymbols(ctx, "shaders", "scene")
	require.NoError(t, err)

	var got []string
	for _, s := range symbols {
		got = append(got, string(s.Kind)+":"+s.Name)
	}
	assert.Equal(t, []string{
		"import:Utils", "import:Gone",
		"constant:MAX_LIGHTS",
		"binding:frame",
		"structure:Light", "structure:Scene",
		"function:shade_fragment",
	}, got)
}

func TestGetSymbol(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	fn, err := store.GetSymbol(ctx, "shaders", "scene", types.KindFunction, "shade_fragment")
	require.NoError(t, err)
	assert.Equal(t, "Shades one fragment using every light.", fn.Docs)
	assert.Equal(t, "@fragment fn shade_fragment(scene: ptr<function, Scene>, t: Unknown) -> vec4<f32>", fn.Signature)

	b, err := store.GetSymbol(ctx, "shaders", "scene", types.KindBinding, "frame")
	require.NoError(t, err)
	assert.Equal(t, "@group(0) @binding(1) var<uniform> frame: Utils::Frame", b.Signature)

	_, err = store.GetSymbol(ctx, "shaders", "scene", types.KindFunction, "Light")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetSymbol(ctx, "shaders", "scene", "method", "x")
	assert.ErrorIs(t, err, types.ErrInvalidSymbolKind)
}

func TestListImports(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	imports, err := store.ListImports(ctx, "shaders", "scene")
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, "Utils", imports[0].Alias)
	assert.Equal(t, "utils", imports[0].ModuleName)
	assert.True(t, imports[0].Registered)
	assert.Equal(t, "Camera helpers.", imports[0].Docs)
	assert.False(t, imports[1].Registered)
}

func TestSearchSymbols(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	t.Run("by docs", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "shaders", "falloff", 10, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		r := results[0]
		assert.Equal(t, "Light", r.Name)
		assert.Equal(t, types.KindStructure, r.Kind)
		assert.Equal(t, "scene", r.Module)
		assert.Equal(t, 1, r.Rank)
		assert.Contains(t, r.Snippet, "[falloff]")
		assert.NoError(t, r.Validate())
	})

	t.Run("prefix", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "shaders", "cam*", 10, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, results)
	})

	t.Run("kind filter", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "shaders", "light", 10, &SearchFilters{Kinds: []types.SymbolKind{types.KindFunction}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "shade_fragment", results[0].Name)
	})

	t.Run("module filter", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "shaders", "camera", 10, &SearchFilters{Modules: []string{"utils"}})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Camera", results[0].Name)
	})

	t.Run("operators are literal", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "shaders", `light OR "(`, 10, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := store.SearchSymbols(ctx, "shaders", "  ** ", 10, nil)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("other document", func(t *testing.T) {
		results, err := store.SearchSymbols(ctx, "other", "light", 10, nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestUnresolvedTypes(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	refs, err := store.UnresolvedTypes(ctx, "shaders", "scene")
	require.NoError(t, err)

	var got []string
	for _, r := range refs {
		got = append(got, r.Owner+"="+r.Name)
	}
	assert.Equal(t, []string{"Scene.lights=array", "Scene.fog=Fog", "shade_fragment(t)=Unknown"}, got)
	assert.Equal(t, "Gone", refs[1].Qualifier)

	all, err := store.UnresolvedTypes(ctx, "shaders", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGetStatus(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	_, err := store.ReplaceDocument(ctx, sceneDocument(t))
	require.NoError(t, err)

	status, err := store.GetStatus(ctx, "shaders")
	require.NoError(t, err)
	assert.Equal(t, 9, status.SymbolsCount)
	assert.Equal(t, 2, status.ImportsCount)
	assert.Equal(t, 7, status.TypeRefsCount)
	assert.Equal(t, 3, status.UnresolvedCount)
	assert.Equal(t, CurrentSchemaVersion, status.SchemaVersion)
	assert.True(t, status.Health.DatabaseAccessible)
	assert.True(t, status.Health.FTSIndexesBuilt)

	_, err = store.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFTSMatchQuery(t *testing.T) {
	assert.Equal(t, `"camera"`, ftsMatchQuery("camera"))
	assert.Equal(t, `"cam"*`, ftsMatchQuery("cam*"))
	assert.Equal(t, `"light" "OR" "fog"`, ftsMatchQuery("light OR fog"))
	assert.Equal(t, `"read_write"`, ftsMatchQuery(`"read_write"`))
	assert.Empty(t, ftsMatchQuery(" () ** "))
}
