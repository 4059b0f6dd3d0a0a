package document

import (
	"path"
	"path/filepath"
	"strings"
)

// FileRegistry holds every WGSL source path of a document, hidden files included.
// It is read-only once the document is loaded.
type FileRegistry struct {
	paths []string
}

// Add records a source path
func (r *FileRegistry) Add(p string) {
	r.paths = append(r.paths, p)
}

// Paths returns the registered paths in input order
func (r *FileRegistry) Paths() []string {
	return append([]string(nil), r.paths...)
}

// Len returns the number of registered paths
func (r *FileRegistry) Len() int {
	return len(r.paths)
}

// HasSuffix reports whether some registered path ends with importPath,
// comparing whole path components. Leading "./" components of the
// import path are ignored, so "./lib/utils.wgsl" matches "/src/lib/utils.wgsl"
// but "tils.wgsl" does not.
func (r *FileRegistry) HasSuffix(importPath string) bool {
	want := components(importPath)
	if len(want) == 0 {
		return false
	}
	for _, p := range r.paths {
		if hasComponentSuffix(components(p), want) {
			return true
		}
	}
	return false
}

func components(p string) []string {
	p = filepath.ToSlash(strings.ReplaceAll(p, "\\", "/"))
	var out []string
	for _, part := range strings.Split(path.Clean(p), "/") {
		if part == "" || part == "." {
			continue
		}
		out = append(out, part)
	}
	return out
}

func hasComponentSuffix(have, want []string) bool {
	if len(want) > len(have) {
		return false
	}
	tail := have[len(have)-len(want):]
	for i := range want {
		if tail[i] != want[i] {
			return false
		}
	}
	return true
}
