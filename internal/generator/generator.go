package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/wgsldoc/internal/summary"
	"github.com/dshills/wgsldoc/pkg/types"
)

// Site is the resolved package being documented
type Site interface {
	Name() string
	Readme() (string, bool)
	Favicon() []byte
	Modules() []*types.Wgsl
}

// Generator renders the pages of a documentation site. The bytes it
// returns are written verbatim by Write.
type Generator interface {
	// Extension is the page file extension, including the dot
	Extension() string

	Index(site Site) ([]byte, error)
	ModulesIndex(site Site, modules []summary.ComponentInfo) ([]byte, error)
	Module(site Site, module *types.Wgsl) ([]byte, error)
	Function(site Site, module *types.Wgsl, fn *types.Function) ([]byte, error)
	Structure(site Site, module *types.Wgsl, st *types.Structure) ([]byte, error)
	Source(site Site, module *types.Wgsl) ([]byte, error)
}

// WriteStats contains statistics about a site write
type WriteStats struct {
	Pages int
	Bytes int64
}

// Write renders every page of site with gen and lays them out under dir:
//
//	index, modules/index, modules/<m>/index, modules/<m>/fn.<f>,
//	modules/<m>/struct.<s>, source/<m> and favicon.png when present
func Write(ctx context.Context, site Site, gen Generator, dir string) (WriteStats, error) {
	w := &siteWriter{dir: dir}
	ext := gen.Extension()
	renderer := summary.New()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return w.stats, fmt.Errorf("failed to create target directory: %w", err)
	}
	if fav := site.Favicon(); fav != nil {
		if err := w.write("favicon.png", fav); err != nil {
			return w.stats, err
		}
	}

	if err := w.page("index"+ext, func() ([]byte, error) { return gen.Index(site) }); err != nil {
		return w.stats, err
	}
	modules := site.Modules()
	err := w.page(filepath.Join("modules", "index"+ext), func() ([]byte, error) {
		return gen.ModulesIndex(site, renderer.Modules(modules))
	})
	if err != nil {
		return w.stats, err
	}

	for _, m := range modules {
		if err := ctx.Err(); err != nil {
			return w.stats, err
		}
		if err := w.page(ModulePath(m.ModuleName, ext), func() ([]byte, error) { return gen.Module(site, m) }); err != nil {
			return w.stats, err
		}
		for i := range m.Functions {
			fn := &m.Functions[i]
			err := w.page(FunctionPath(m.ModuleName, fn.Name, ext), func() ([]byte, error) { return gen.Function(site, m, fn) })
			if err != nil {
				return w.stats, err
			}
		}
		for i := range m.Structures {
			st := &m.Structures[i]
			err := w.page(StructurePath(m.ModuleName, st.Name, ext), func() ([]byte, error) { return gen.Structure(site, m, st) })
			if err != nil {
				return w.stats, err
			}
		}
	}

	for _, m := range modules {
		if err := w.page(SourcePath(m.ModuleName, ext), func() ([]byte, error) { return gen.Source(site, m) }); err != nil {
			return w.stats, err
		}
	}
	return w.stats, nil
}

type siteWriter struct {
	dir   string
	stats WriteStats
}

func (w *siteWriter) page(rel string, render func() ([]byte, error)) error {
	data, err := render()
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", rel, err)
	}
	if err := w.write(rel, data); err != nil {
		return err
	}
	w.stats.Pages++
	return nil
}

func (w *siteWriter) write(rel string, data []byte) error {
	target := filepath.Join(w.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	w.stats.Bytes += int64(len(data))
	return nil
}
