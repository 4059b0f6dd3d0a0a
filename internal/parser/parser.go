package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/wgsldoc/internal/grammar"
	"github.com/dshills/wgsldoc/pkg/types"
)

// Parser builds the documentation model of WGSL modules
type Parser struct {
	cache *Cache
}

// Option configures a Parser
type Option func(*Parser)

// WithCache makes the parser reuse results for identical module name and source
func WithCache(c *Cache) Option {
	return func(p *Parser) {
		p.cache = c
	}
}

// New creates a new Parser instance
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseFile reads and parses a module; the module name is the file stem
func (p *Parser) ParseFile(filePath string) (*types.ParseResult, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	base := filepath.Base(filePath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	result, err := p.Parse(name, string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	return result, nil
}

// Parse builds one module from source. Any syntax error fails the whole
// module; duplicates and dangling docs are reported as diagnostics.
func (p *Parser) Parse(moduleName, source string) (*types.ParseResult, error) {
	if moduleName == "" {
		return nil, types.ErrNoModuleName
	}

	if p.cache != nil {
		if cached, ok := p.cache.Get(moduleName, source); ok {
			return cached, nil
		}
	}

	tree, err := grammar.Parse(source)
	if err != nil {
		return nil, err
	}

	b := &builder{module: moduleName}
	module, err := b.shader(tree)
	if err != nil {
		return nil, err
	}
	module.SourceCode = source

	result := &types.ParseResult{Module: module, Diagnostics: b.diags}
	if p.cache != nil {
		p.cache.Add(moduleName, source, result)
	}
	return result, nil
}
