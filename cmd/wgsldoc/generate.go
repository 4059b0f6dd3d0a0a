package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp/v3"
	"github.com/mattn/go-isatty"

	"github.com/dshills/wgsldoc/internal/config"
	"github.com/dshills/wgsldoc/internal/document"
	"github.com/dshills/wgsldoc/internal/generator"
)

const banner = `                    .__       .___
__  _  ______  _____|  |    __| _/____   ____
\ \/ \/ / ___\/  ___/  |   / __ |/  _ \_/ ___\
 \     / /_/  >___ \|  |__/ /_/ (  <_> )  \___
  \/\_/\___  /____  >____/\____ |\____/ \___  >
      /_____/     \/           \/           \/
`

// runGenerate is the root command: load, resolve and write the site,
// or one of the report modes selected by flags
func (a *app) runGenerate(ctx context.Context) error {
	if a.cfg.Credits {
		a.printCredits()
		return nil
	}

	reg, err := a.load(ctx)
	if err != nil {
		return err
	}
	if len(reg.Modules()) == 0 {
		a.logger.Warn("No WGSL shaders found in the specified files or directory")
		return nil
	}

	if a.cfg.ShowUndocumented {
		a.showUndocumented(reg)
		return nil
	}
	if a.cfg.AstOnly {
		a.printAST(reg)
		return nil
	}

	stats, err := generator.Write(ctx, reg, generator.NewJSONGenerator(a.cfg.BaseURL), a.cfg.TargetDir)
	if err != nil {
		return fmt.Errorf("failed to generate documentation: %w", err)
	}
	a.logger.Info("documentation generated",
		"dir", a.cfg.TargetDir,
		"pages", stats.Pages,
		"size", humanize.Bytes(uint64(stats.Bytes)))
	return nil
}

// load reads the configured inputs, or the working directory when none are
// given, and registers the result. Diagnostics are logged as warnings.
func (a *app) load(ctx context.Context) (*document.RegisteredDocument, error) {
	dcfg := &document.Config{
		Workers:   a.cfg.Workers,
		Cache:     a.cache,
		Logger:    a.logger,
		Recursive: a.cfg.Recursive,
	}

	var doc *document.Document
	var err error
	if len(a.cfg.Inputs) > 0 {
		doc, err = document.New(ctx, a.cfg.Name, a.cfg.Inputs, dcfg)
	} else {
		doc, err = document.Open(ctx, a.cfg.Name, config.WorkingDir(), dcfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load shaders: %w", err)
	}

	reg, err := doc.Register()
	if err != nil {
		return nil, err
	}
	for _, d := range reg.Diagnostics() {
		a.logger.Warn(d.Message, "module", d.Module, "line", d.Line, "code", d.Code)
	}
	return reg, nil
}

func (a *app) showUndocumented(reg *document.RegisteredDocument) {
	a.logger.Info("Entering undocumented mode, logging a warning for every undocumented item")
	items := reg.Undocumented()
	for _, u := range items {
		a.logger.Warn(u.String())
	}
	a.logger.Info("undocumented report finished", "items", len(items))
}

func (a *app) printAST(reg *document.RegisteredDocument) {
	a.logger.Info("AST-only mode enabled, printing the AST to stdout")
	p := pp.New()
	p.SetExportedOnly(true)
	colored := false
	if f, ok := a.out.(*os.File); ok {
		colored = isatty.IsTerminal(f.Fd())
	}
	p.SetColoringEnabled(colored)

	for _, m := range reg.Modules() {
		fmt.Fprintf(a.out, "%s => %s\n", m.ModuleName, p.Sprint(m))
	}
}

func (a *app) printCredits() {
	fmt.Fprint(a.out, banner)
	fmt.Fprintln(a.out, "wgsldoc - WGSL Documentation Generator")
	fmt.Fprintf(a.out, "Version %s\n", version)
}
