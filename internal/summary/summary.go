package summary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/wgsldoc/pkg/types"
)

// MaxLength is the rune limit of plain text summaries, excluding the ellipsis
const MaxLength = 256

// ComponentInfo is the name and summary of a module or declaration, as listed on overview pages
type ComponentInfo struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
}

// Renderer turns documentation Markdown into HTML and plain text summaries.
// It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New creates a renderer with GitHub flavoured Markdown. Raw HTML in docs is kept.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// HTML renders docs to HTML. Empty docs render to "".
func (r *Renderer) HTML(docs string) (string, error) {
	if docs == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(docs), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Text returns the text content of docs with Markdown syntax removed
// and whitespace collapsed to single spaces
func (r *Renderer) Text(docs string) string {
	if docs == "" {
		return ""
	}
	source := []byte(docs)
	root := r.md.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				sb.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Text:
			sb.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(v.Value)
		case *ast.AutoLink:
			sb.Write(v.Label(source))
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				sb.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock, *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(sb.String()), " ")
}

// PlainText summarizes docs as text truncated to MaxLength runes
func (r *Renderer) PlainText(name, docs string) ComponentInfo {
	return ComponentInfo{Name: name, Summary: Truncate(r.Text(docs), MaxLength)}
}

// RichText summarizes docs as rendered HTML
func (r *Renderer) RichText(name, docs string) (ComponentInfo, error) {
	h, err := r.HTML(docs)
	if err != nil {
		return ComponentInfo{}, err
	}
	return ComponentInfo{Name: name, Summary: h}, nil
}

// Truncate cuts s to limit runes and appends "..." when anything was cut
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i] + "..."
		}
		count++
	}
	return s
}

// Modules returns the plain text summary of every module's global docs
func (r *Renderer) Modules(modules []*types.Wgsl) []ComponentInfo {
	out := make([]ComponentInfo, 0, len(modules))
	for _, m := range modules {
		out = append(out, r.PlainText(m.ModuleName, m.GlobalDocs))
	}
	return out
}

// Functions returns the plain text summary of every function
func (r *Renderer) Functions(fns []types.Function) []ComponentInfo {
	out := make([]ComponentInfo, 0, len(fns))
	for _, fn := range fns {
		out = append(out, r.PlainText(fn.Name, fn.Docs))
	}
	return out
}

// Structures returns the plain text summary of every structure
func (r *Renderer) Structures(structs []types.Structure) []ComponentInfo {
	out := make([]ComponentInfo, 0, len(structs))
	for _, st := range structs {
		out = append(out, r.PlainText(st.Name, st.Docs))
	}
	return out
}
