// Command wgsldoc generates documentation for WGSL shader modules.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dshills/wgsldoc/internal/config"
	"github.com/dshills/wgsldoc/internal/grammar"
	"github.com/dshills/wgsldoc/internal/parser"
	"github.com/dshills/wgsldoc/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  *parser.Cache
	out    io.Writer
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and reports a failure on its error stream
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(cmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err. Syntax errors also show the offending line with a caret.
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
	var syn *grammar.SyntaxError
	if errors.As(err, &syn) {
		fmt.Fprint(w, syn.FormatWithContext())
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "wgsldoc",
		Short: "Documentation generator for WGSL shaders",
		Long: "wgsldoc parses .wgsl files, extracts documentation comments and generates " +
			"a structured documentation site for browsing and reference.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd.Context())
		},
	}
	config.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newIndexCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cwd := config.WorkingDir()
	v, err := config.New(cmd.Flags(), cwd)
	if err != nil {
		return err
	}
	cfg, err := config.Load(v, cwd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	a.out = cmd.OutOrStdout()
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Verbose)
	a.cache = parser.NewCache(cfg.CacheSize)
	return nil
}

// newLogger writes colored logs when w is a terminal
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}))
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print wgsldoc version",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "wgsldoc %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "Build Mode: %s\n", storage.BuildMode)
			fmt.Fprintf(out, "SQLite Driver: %s\n", storage.DriverName)
		},
	}
}
