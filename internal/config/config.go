package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. WGSLDOC_TARGET_DIR
	EnvPrefix = "WGSLDOC"
	// FileName is the optional config file looked up in the working directory
	FileName = ".wgsldoc"

	defaultPackageName = "default"
)

// Keys shared by flags, environment variables and the config file
const (
	KeyName             = "name"
	KeyTargetDir        = "target-dir"
	KeyBaseURL          = "base-url"
	KeyAstOnly          = "ast-only"
	KeyInput            = "input"
	KeyShowUndocumented = "show-undocumented"
	KeyCredits          = "credits"
	KeyRecursive        = "recursive"
	KeyDB               = "db"
	KeyWorkers          = "workers"
	KeyCacheSize        = "cache-size"
	KeyVerbose          = "verbose"
)

var (
	ErrEmptyName      = errors.New("package name cannot be empty")
	ErrEmptyTargetDir = errors.New("target directory cannot be empty")
	ErrBadWorkers     = errors.New("workers cannot be negative")
	ErrBadBaseURL     = errors.New("base URL must be absolute")
)

// Config holds every setting of a wgsldoc run
type Config struct {
	Name             string   // Package name shown in the generated docs
	TargetDir        string   // Output directory
	BaseURL          string   // Prefix for generated links; empty uses relative links
	AstOnly          bool     // Dump the registered modules instead of generating
	Inputs           []string // Explicit input files; empty means the working directory
	ShowUndocumented bool     // Report undocumented items instead of generating
	Credits          bool     // Print the banner and exit
	Recursive        bool     // Walk subdirectories when no inputs are given
	DB               string   // SQLite index path used by index and serve
	Workers          int      // Parse/resolve workers, 0 means one per CPU
	CacheSize        int      // Parse cache entries
	Verbose          bool     // Debug logging
}

// RegisterFlags adds every setting to fs with the CLI's short names
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyName, "N", "", "Name of the package to generate documentation for (default: current directory name)")
	fs.StringP(KeyTargetDir, "D", "", "Target directory for the generated documentation (default: ./docs)")
	fs.StringP(KeyBaseURL, "U", "", "Base URL used to generate links in the documentation")
	fs.BoolP(KeyAstOnly, "A", false, "Print the registered AST to stdout instead of generating documentation")
	fs.StringSliceP(KeyInput, "I", nil, "Input files to process (default: .wgsl files in the current directory)")
	fs.BoolP(KeyShowUndocumented, "W", false, "Log a warning for every undocumented item")
	fs.BoolP(KeyCredits, "C", false, "Show credits")
	fs.BoolP(KeyRecursive, "r", false, "Look for shaders in subdirectories too")
	fs.String(KeyDB, "", "Path of the SQLite symbol index (default: .wgsldoc/index.db)")
	fs.Int(KeyWorkers, 0, "Number of parse workers (default: one per CPU)")
	fs.Int(KeyCacheSize, 512, "Number of parsed modules kept in memory")
	fs.BoolP(KeyVerbose, "v", false, "Enable debug logging")
}

// New creates a viper instance reading fs, WGSLDOC_* variables and an optional
// .wgsldoc.yaml in dir. Flags win over the environment, which wins over the file.
func New(fs *pflag.FlagSet, dir string) (*viper.Viper, error) {
	v := viper.New()
	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if dir != "" {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// Load materializes a Config from v, filling defaults relative to cwd
func Load(v *viper.Viper, cwd string) (*Config, error) {
	cfg := &Config{
		Name:             v.GetString(KeyName),
		TargetDir:        v.GetString(KeyTargetDir),
		BaseURL:          v.GetString(KeyBaseURL),
		AstOnly:          v.GetBool(KeyAstOnly),
		Inputs:           v.GetStringSlice(KeyInput),
		ShowUndocumented: v.GetBool(KeyShowUndocumented),
		Credits:          v.GetBool(KeyCredits),
		Recursive:        v.GetBool(KeyRecursive),
		DB:               v.GetString(KeyDB),
		Workers:          v.GetInt(KeyWorkers),
		CacheSize:        v.GetInt(KeyCacheSize),
		Verbose:          v.GetBool(KeyVerbose),
	}
	cfg.applyDefaults(cwd)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults(cwd string) {
	if c.Name == "" {
		c.Name = DefaultName(cwd)
	}
	if c.TargetDir == "" {
		c.TargetDir = filepath.Join(cwd, "docs")
	} else if !filepath.IsAbs(c.TargetDir) {
		c.TargetDir = filepath.Join(cwd, c.TargetDir)
	}
	if c.DB == "" {
		c.DB = filepath.Join(cwd, ".wgsldoc", "index.db")
	}
	if c.CacheSize <= 0 {
		c.CacheSize = 512
	}
}

// Validate checks the config for values no command can run with
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	if c.TargetDir == "" {
		return ErrEmptyTargetDir
	}
	if c.Workers < 0 {
		return ErrBadWorkers
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("%w: %q", ErrBadBaseURL, c.BaseURL)
		}
	}
	return nil
}

// DefaultName is the base name of dir, or "default" when it has none
func DefaultName(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return defaultPackageName
	}
	return base
}

// WorkingDir returns the current directory, falling back to "."
func WorkingDir() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}
