package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	nb2md "github.com/alnah/go-nb2md"
	"github.com/alnah/go-nb2md/internal/config"
	"github.com/alnah/go-nb2md/internal/hints"
	"github.com/alnah/go-nb2md/internal/mermaid"
	"github.com/alnah/go-nb2md/internal/pipeline"
)

// Sentinel errors for CLI operations.
var (
	ErrTooManyArgs      = errors.New("expected at most one notebook path")
	ErrNotebookNotFound = errors.New("notebook not found")
	ErrNoInput          = errors.New("input directory not found")
)

// fileConverter is the part of the library used by the CLI.
type fileConverter interface {
	ConvertFile(ctx context.Context, src string) (*nb2md.FileResult, error)
}

// Compile-time interface implementation check.
var _ fileConverter = (*nb2md.Converter)(nil)

// runConvert resolves configuration and converts either the notebook named
// by the positional argument or every notebook in the input directory.
func runConvert(ctx context.Context, positionalArgs []string, flags *cliFlags, env *Environment) error {
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w, got %d", ErrTooManyArgs, len(positionalArgs))
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(flags.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}

	// Precedence: flags > env > config > defaults
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, flags.quiet, flags.verbose)
	conv := buildConverter(cfg, logger, env, flags.quiet)

	if len(positionalArgs) == 1 {
		return convertSingle(ctx, conv, positionalArgs[0], flags, env)
	}
	return convertAll(ctx, conv, cfg, flags, env)
}

// loadConfig loads the config named by the flag, falling back to
// NB2MD_CONFIG. Without either, defaults are used.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. Only flags given on the
// command line override config values.
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.changed("input-dir") {
		cfg.Input.Dir = flags.inputDir
	}
	if flags.changed("output-dir") {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.changed("cache-dir") {
		cfg.Mermaid.CacheDir = flags.cacheDir
	}
	if flags.changed("image-prefix") {
		cfg.Mermaid.ImagePrefix = flags.imagePrefix
	}
	if flags.changed("renderer") {
		cfg.Mermaid.Renderer = flags.renderer
	}
	if flags.changed("scale") {
		cfg.Mermaid.Scale = flags.scale
	}
	if flags.changed("html-outputs") {
		cfg.Export.HTMLOutputs = flags.htmlOutputs
	}
	if flags.changed("workers") {
		cfg.Workers = flags.workers
	}
}

// newLogger returns the diagnostics logger: Debug with --verbose, Warn
// otherwise, nothing with --quiet.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	if quiet {
		return slog.New(slog.DiscardHandler)
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// buildConverter wires the library converter from the resolved config.
func buildConverter(cfg *config.Config, logger *slog.Logger, env *Environment, quiet bool) *nb2md.Converter {
	renderer := mermaid.New(
		mermaid.WithCacheDir(cfg.Mermaid.CacheDir),
		mermaid.WithRenderer(cfg.Mermaid.Renderer),
		mermaid.WithScale(cfg.Mermaid.Scale),
		mermaid.WithLogger(logger),
	)

	return nb2md.NewConverter(
		nb2md.WithExporter(pipeline.NewMarkdownExporter(pipeline.HTMLOutputMode(cfg.Export.HTMLOutputs))),
		nb2md.WithRasterizer(newDiagramRasterizer(renderer, logger, env.Stderr, quiet)),
		nb2md.WithLogger(logger),
		nb2md.WithImagePrefix(cfg.Mermaid.ImagePrefix),
		nb2md.WithDestination(nb2md.Destination{
			InputRoot:  cfg.Input.Dir,
			OutputRoot: cfg.Output.Dir,
			Suffix:     cfg.Output.Suffix,
		}),
	)
}

// convertSingle converts one notebook. Any failure is returned, so the
// process exits non-zero.
func convertSingle(ctx context.Context, conv fileConverter, path string, flags *cliFlags, env *Environment) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotebookNotFound, path)
	}

	if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Converting %s\n", path)
	}

	start := env.Now()
	fr, err := conv.ConvertFile(ctx, path)
	if err != nil {
		return conversionError(path, fr, err)
	}

	if flags.verbose {
		fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", path, fr.Destination, env.Now().Sub(start).Round(time.Millisecond))
	} else if !flags.quiet {
		fmt.Fprintf(env.Stdout, "Created %s\n", fr.Destination)
	}
	return nil
}

// conversionError decorates a single-notebook failure with a hint and
// the removed destination, if any.
func conversionError(path string, fr *nb2md.FileResult, err error) error {
	var hint string
	switch {
	case errors.Is(err, nb2md.ErrFrontMatterParse):
		hint = hints.ForFrontMatter()
	case errors.Is(err, nb2md.ErrWriteOutput):
		hint = hints.ForOutputDirectory()
	}

	if fr != nil && fr.Cleaned {
		return fmt.Errorf("converting %s: %w (removed %s)%s", path, err, fr.Destination, hint)
	}
	return fmt.Errorf("converting %s: %w%s", path, err, hint)
}

// convertAll converts every notebook under the input directory.
// Per-notebook failures are reported but do not fail the run.
func convertAll(ctx context.Context, conv fileConverter, cfg *config.Config, flags *cliFlags, env *Environment) error {
	files, err := discoverNotebooks(cfg.Input.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, ErrNoInput) {
			return fmt.Errorf("%w: %s%s", ErrNoInput, cfg.Input.Dir, hints.ForInputDirectory())
		}
		return fmt.Errorf("discovering notebooks: %w", err)
	}

	if len(files) == 0 {
		if !flags.quiet {
			fmt.Fprintf(env.Stdout, "No notebooks found in %s\n", cfg.Input.Dir)
		}
		return nil
	}

	workers := resolvePoolSize(cfg.Workers)
	if flags.verbose {
		fmt.Fprintf(env.Stderr, "Converting %d notebook(s) with %d worker(s)\n", len(files), workers)
	}

	results := convertBatch(ctx, conv, files, workers, env.Now)
	printResultsWithWriter(results, flags.quiet, flags.verbose, env)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch interrupted: %w", err)
	}
	return nil
}
