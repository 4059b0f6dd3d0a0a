package document

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/internal/resolver"
	"github.com/dshills/wgsldoc/pkg/types"
)

const (
	shaderExt   = ".wgsl"
	readmeName  = "README.md"
	faviconName = "favicon.png"
)

// Config contains configuration for loading a document
type Config struct {
	Workers   int           // Number of concurrent parse/resolve workers (default: runtime.NumCPU())
	Cache     *parser.Cache // Optional parse cache shared across loads
	Logger    *slog.Logger  // Defaults to a discard logger
	Recursive bool          // Open walks subdirectories, skipping hidden ones
}

func (c *Config) withDefaults() Config {
	var cfg Config
	if c != nil {
		cfg = *c
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// Statistics contains statistics about a document load
type Statistics struct {
	FilesSeen     int
	ModulesParsed int
	HiddenSkipped int
	Ignored       int
	CacheHits     int64
	Duration      time.Duration
}

// content is the data shared by both document states
type content struct {
	name      string
	readme    string
	hasReadme bool
	favicon   []byte
	registry  *FileRegistry
	modules   []*types.Wgsl
	diags     types.Diagnostics
	stats     Statistics
}

// Name returns the package name
func (c *content) Name() string { return c.name }

// Registry returns the file registry
func (c *content) Registry() *FileRegistry { return c.registry }

// Module looks up a module by name
func (c *content) Module(name string) (*types.Wgsl, bool) {
	for _, m := range c.modules {
		if m.ModuleName == name {
			return m, true
		}
	}
	return nil, false
}

// Diagnostics returns every warning collected so far
func (c *content) Diagnostics() types.Diagnostics { return c.diags }

// Stats returns the load statistics
func (c *content) Stats() Statistics { return c.stats }

// Document is a loaded but unresolved set of modules.
// Every path type in it is still Undefined.
type Document struct {
	content
	cfg  Config
	once registerOnce
}

// Shaders returns the parsed modules in input order. Their path types are
// still Undefined; only a RegisteredDocument can be rendered or stored.
func (d *Document) Shaders() []*types.Wgsl { return d.modules }

// RegisteredDocument is a Document whose imports and path types have been resolved
type RegisteredDocument struct {
	content
}

// Readme returns the README text, if one was supplied
func (r *RegisteredDocument) Readme() (string, bool) { return r.readme, r.hasReadme }

// Favicon returns the favicon bytes, nil when absent
func (r *RegisteredDocument) Favicon() []byte { return r.favicon }

// Modules returns the resolved modules in input order
func (r *RegisteredDocument) Modules() []*types.Wgsl { return r.modules }

// New loads a document from an explicit list of paths. Files are classified
// by exact name: *.wgsl sources, README.md and favicon.png; anything else,
// including upper-case extensions such as .WGSL, is ignored.
// Sources whose stem starts with "." are registered but not parsed.
// The first module that fails to load, in input order, aborts the whole load.
func New(ctx context.Context, name string, paths []string, cfg *Config) (*Document, error) {
	c := cfg.withDefaults()
	start := time.Now()

	doc := &Document{
		content: content{name: name, registry: &FileRegistry{}},
		cfg:     c,
	}
	doc.stats.FilesSeen = len(paths)

	var sources []string
	for _, p := range paths {
		base := filepath.Base(p)
		switch {
		case filepath.Ext(base) == shaderExt:
			doc.registry.Add(p)
			if strings.HasPrefix(base, ".") {
				doc.stats.HiddenSkipped++
				c.Logger.Debug("skipping hidden module", "path", p)
				continue
			}
			sources = append(sources, p)
		case base == readmeName:
			if err := doc.loadReadme(p); err != nil {
				return nil, err
			}
		case base == faviconName:
			if err := doc.loadFavicon(p); err != nil {
				return nil, err
			}
		default:
			doc.stats.Ignored++
		}
	}

	var hitsBefore int64
	if c.Cache != nil {
		hitsBefore = c.Cache.Hits()
	}

	results, err := parseAll(ctx, sources, c)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(results))
	for i, res := range results {
		m := res.Module
		if first, dup := seen[m.ModuleName]; dup {
			doc.diags.Add(m.ModuleName, 0, 0, types.CodeDuplicateAsset,
				"module %s from %s ignored, already loaded from %s", m.ModuleName, sources[i], first)
			continue
		}
		seen[m.ModuleName] = sources[i]
		doc.modules = append(doc.modules, m)
		doc.diags = append(doc.diags, res.Diagnostics...)
	}

	doc.stats.ModulesParsed = len(doc.modules)
	if c.Cache != nil {
		doc.stats.CacheHits = c.Cache.Hits() - hitsBefore
	}
	doc.stats.Duration = time.Since(start)

	c.Logger.Info("document loaded",
		"name", name,
		"modules", doc.stats.ModulesParsed,
		"hidden", doc.stats.HiddenSkipped,
		"ignored", doc.stats.Ignored,
		"duration", doc.stats.Duration)
	return doc, nil
}

// parseAll parses every source concurrently. Results keep input order and
// the reported error is the first failure in input order.
func parseAll(ctx context.Context, sources []string, cfg Config) ([]*types.ParseResult, error) {
	var opts []parser.Option
	if cfg.Cache != nil {
		opts = append(opts, parser.WithCache(cfg.Cache))
	}
	p := parser.New(opts...)

	results := make([]*types.ParseResult, len(sources))
	errs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.ParseFile(src)
			if err != nil {
				errs[i] = err
				return nil
			}
			cfg.Logger.Debug("parsed module", "path", src, "module", res.Module.ModuleName)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (d *Document) loadReadme(p string) error {
	if d.hasReadme {
		d.diags.Add(readmeName, 0, 0, types.CodeDuplicateAsset, "%s ignored, a README was already loaded", p)
		return nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("failed to read readme: %w", err)
	}
	d.readme = string(data)
	d.hasReadme = true
	return nil
}

func (d *Document) loadFavicon(p string) error {
	if d.favicon != nil {
		d.diags.Add(faviconName, 0, 0, types.CodeDuplicateAsset, "%s ignored, a favicon was already loaded", p)
		return nil
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return fmt.Errorf("failed to read favicon: %w", err)
	}
	if data == nil {
		data = []byte{}
	}
	d.favicon = data
	return nil
}

// Open loads every file of dir. With cfg.Recursive set, subdirectories are
// walked too, skipping directories whose name starts with ".".
func Open(ctx context.Context, name, dir string, cfg *Config) (*Document, error) {
	paths, err := discoverFiles(dir, cfg != nil && cfg.Recursive)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	return New(ctx, name, paths, cfg)
}

func discoverFiles(dir string, recursive bool) ([]string, error) {
	if !recursive {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		return files, nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, p)
		return nil
	})
	return files, err
}

// Register resolves the imports and path types of every module against
// the complete file registry. It consumes the document: a second call
// returns ErrAlreadyRegistered.
func (d *Document) Register() (*RegisteredDocument, error) {
	if !d.once.TryClaim() {
		return nil, types.ErrAlreadyRegistered
	}

	perModule := make([]types.Diagnostics, len(d.modules))
	var g errgroup.Group
	g.SetLimit(d.cfg.Workers)
	for i, m := range d.modules {
		g.Go(func() error {
			perModule[i] = resolver.Resolve(m, d.registry)
			return nil
		})
	}
	_ = g.Wait()

	reg := &RegisteredDocument{content: d.content}
	reg.diags = append(types.Diagnostics(nil), d.diags...)
	for _, ds := range perModule {
		reg.diags = append(reg.diags, ds...)
	}

	d.content = content{name: d.name}

	d.cfg.Logger.Info("document registered",
		"name", reg.name,
		"modules", len(reg.modules),
		"diagnostics", len(reg.diags))
	return reg, nil
}

// Registered reports whether Register was already called
func (d *Document) Registered() bool {
	return d.once.Claimed()
}
