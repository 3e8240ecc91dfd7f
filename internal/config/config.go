package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-nb2md/internal/fileutil"
	"github.com/alnah/go-nb2md/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// AppDirName is the directory under the user config dir searched for
// named configs.
const AppDirName = "go-nb2md"

// Limits checked by Validate.
const (
	MaxWorkers = 64
	MaxScale   = 50
)

// Defaults for the site layout and the mermaid renderer.
const (
	DefaultInputDir    = "_notebooks"
	DefaultOutputDir   = "_posts"
	DefaultSuffix      = "_IPYNB_2_.md"
	DefaultCacheDir    = "assets/mermaid"
	DefaultRenderer    = "mmdc"
	DefaultScale       = 10
	DefaultImagePrefix = "../../../../"
	DefaultHTMLOutputs = "raw"
)

// Config holds all configuration for a conversion run.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Mermaid MermaidConfig `yaml:"mermaid"`
	Export  ExportConfig  `yaml:"export"`
	Workers int           `yaml:"workers"` // 0 = GOMAXPROCS
}

// InputConfig defines where notebooks are discovered.
type InputConfig struct {
	Dir string `yaml:"dir"`
}

// OutputConfig defines where pages are written.
type OutputConfig struct {
	Dir    string `yaml:"dir"`
	Suffix string `yaml:"suffix"` // replaces .ipynb, must end with .md
}

// MermaidConfig defines diagram rendering options.
type MermaidConfig struct {
	CacheDir    string `yaml:"cacheDir"`
	Renderer    string `yaml:"renderer"` // executable name or path
	Scale       int    `yaml:"scale"`
	ImagePrefix string `yaml:"imagePrefix"` // prepended to cache paths in image references
}

// ExportConfig defines markdown export options.
type ExportConfig struct {
	HTMLOutputs string `yaml:"htmlOutputs"` // "raw" or "markdown"
}

// DefaultConfig returns the configuration matching the site layout.
func DefaultConfig() *Config {
	return &Config{
		Input:  InputConfig{Dir: DefaultInputDir},
		Output: OutputConfig{Dir: DefaultOutputDir, Suffix: DefaultSuffix},
		Mermaid: MermaidConfig{
			CacheDir:    DefaultCacheDir,
			Renderer:    DefaultRenderer,
			Scale:       DefaultScale,
			ImagePrefix: DefaultImagePrefix,
		},
		Export: ExportConfig{HTMLOutputs: DefaultHTMLOutputs},
	}
}

// Validate checks value ranges and enums.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if c.Mermaid.Scale < 1 || c.Mermaid.Scale > MaxScale {
		return fmt.Errorf("%w: mermaid.scale must be between 1 and %d, got %d", ErrInvalidConfig, MaxScale, c.Mermaid.Scale)
	}
	if !strings.HasSuffix(c.Output.Suffix, ".md") {
		return fmt.Errorf("%w: output.suffix must end with .md, got %q", ErrInvalidConfig, c.Output.Suffix)
	}
	if strings.ContainsAny(c.Output.Suffix, "/\\") {
		return fmt.Errorf("%w: output.suffix cannot contain a path separator", ErrInvalidConfig)
	}
	switch c.Export.HTMLOutputs {
	case "raw", "markdown":
	default:
		return fmt.Errorf("%w: export.htmlOutputs must be raw or markdown, got %q", ErrInvalidConfig, c.Export.HTMLOutputs)
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be between 0 and %d, got %d", ErrInvalidConfig, MaxWorkers, c.Workers)
	}
	if strings.TrimSpace(c.Mermaid.Renderer) == "" {
		return fmt.Errorf("%w: mermaid.renderer cannot be empty", ErrInvalidConfig)
	}
	if c.Input.Dir == "" || c.Output.Dir == "" || c.Mermaid.CacheDir == "" {
		return fmt.Errorf("%w: input.dir, output.dir and mermaid.cacheDir cannot be empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Fields missing from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files resolveConfigPath tries for name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath searches for a config file by name in standard locations:
// the current directory, then the user config directory.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
