package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-nb2md/internal/config"
)

// envPrefix namespaces every environment variable read by the CLI.
const envPrefix = "NB2MD_"

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string // NB2MD_CONFIG: config file name or path
	InputDir   string // NB2MD_INPUT_DIR: notebook directory
	OutputDir  string // NB2MD_OUTPUT_DIR: page directory
	CacheDir   string // NB2MD_CACHE_DIR: mermaid image cache
	Renderer   string // NB2MD_RENDERER: mermaid renderer executable
	Workers    int    // NB2MD_WORKERS: parallel workers
}

// knownEnvVars lists valid NB2MD_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"NB2MD_CONFIG":     true,
	"NB2MD_INPUT_DIR":  true,
	"NB2MD_OUTPUT_DIR": true,
	"NB2MD_CACHE_DIR":  true,
	"NB2MD_RENDERER":   true,
	"NB2MD_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid NB2MD_WORKERS values are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("NB2MD_CONFIG"),
		InputDir:   os.Getenv("NB2MD_INPUT_DIR"),
		OutputDir:  os.Getenv("NB2MD_OUTPUT_DIR"),
		CacheDir:   os.Getenv("NB2MD_CACHE_DIR"),
		Renderer:   os.Getenv("NB2MD_RENDERER"),
	}

	if workers := os.Getenv("NB2MD_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars writes a warning for each unrecognized NB2MD_* variable.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" {
		cfg.Input.Dir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.CacheDir != "" {
		cfg.Mermaid.CacheDir = env.CacheDir
	}
	if env.Renderer != "" {
		cfg.Mermaid.Renderer = env.Renderer
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
