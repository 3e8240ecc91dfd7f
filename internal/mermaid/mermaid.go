// Package mermaid rasterizes mermaid diagram cells into PNG files through the
// mermaid CLI (mmdc), caching images by the SHA-256 of the diagram text.
//
// The cache is shared by every worker and every process that converts
// notebooks: an image at the content-addressed path is never regenerated,
// and new images are renamed into place so readers never see partial files.
package mermaid

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/alnah/go-nb2md/internal/fileutil"
	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/process"
)

// Defaults match the site layout the converter writes into.
const (
	DefaultRenderer = "mmdc"
	DefaultScale    = 10
	DefaultCacheDir = "assets/mermaid"
)

const (
	fenceOpen  = "~~~mermaid"
	fenceClose = "~~~"
	imageExt   = "png"
)

// Sentinel errors for rasterization.
var (
	ErrRasterize        = errors.New("diagram rasterization failed")
	ErrRendererNotFound = errors.New("diagram renderer not found")
	ErrEmptyDiagram     = errors.New("diagram source is empty")
)

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin, name string, args ...string) (stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
// The child runs in its own process group, killed as a whole on cancellation.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- renderer comes from config
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Stdout = io.Discard

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	process.Isolate(cmd)
	cmd.Cancel = func() error {
		process.KillProcessGroup(cmd.Process.Pid)
		return nil
	}

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) {
		return stderr.String(), fmt.Errorf("%w: %s", ErrRendererNotFound, name)
	}
	return stderr.String(), err
}

// Rasterizer renders diagrams into the cache directory.
// It is safe for concurrent use.
type Rasterizer struct {
	cacheDir string
	renderer string
	scale    int
	runner   CommandRunner
	logger   *slog.Logger
	inflight singleflight.Group
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithCacheDir sets the directory images are written to.
func WithCacheDir(dir string) Option {
	return func(r *Rasterizer) { r.cacheDir = dir }
}

// WithRenderer sets the renderer executable name or path.
func WithRenderer(name string) Option {
	return func(r *Rasterizer) { r.renderer = name }
}

// WithScale sets the renderer scale factor.
// Panics if scale <= 0 (programmer error; config validation rejects it first).
func WithScale(scale int) Option {
	if scale <= 0 {
		panic("mermaid: WithScale scale must be positive")
	}
	return func(r *Rasterizer) { r.scale = scale }
}

// WithRunner replaces the subprocess runner.
func WithRunner(runner CommandRunner) Option {
	return func(r *Rasterizer) { r.runner = runner }
}

// WithLogger sets the logger used for rasterization failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rasterizer) { r.logger = logger }
}

// New creates a Rasterizer with defaults for the site layout.
func New(opts ...Option) *Rasterizer {
	r := &Rasterizer{
		cacheDir: DefaultCacheDir,
		renderer: DefaultRenderer,
		scale:    DefaultScale,
		runner:   ExecRunner{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CachePath returns the content-addressed image path for a diagram.
func (r *Rasterizer) CachePath(diagram string) string {
	return filepath.Join(r.cacheDir, hashDiagram(diagram)+"."+imageExt)
}

// Render returns the image path for diagram, invoking the renderer only
// when no image exists yet. Concurrent calls for the same diagram share
// one renderer process.
func (r *Rasterizer) Render(ctx context.Context, diagram string) (string, error) {
	if strings.TrimSpace(diagram) == "" {
		return "", ErrEmptyDiagram
	}

	path := r.CachePath(diagram)
	if fileutil.FileExists(path) {
		return path, nil
	}

	_, err, _ := r.inflight.Do(path, func() (any, error) {
		if fileutil.FileExists(path) {
			return nil, nil
		}
		return nil, r.render(ctx, diagram, path)
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// Rasterize is Render for callers that fall back to the diagram text:
// failures are logged and reported as ok=false.
func (r *Rasterizer) Rasterize(ctx context.Context, diagram string) (path string, ok bool) {
	path, err := r.Render(ctx, diagram)
	if err != nil {
		r.logger.WarnContext(ctx, "diagram left as text",
			slog.String("hash", hashDiagram(diagram)),
			slog.Any("err", err))
		return "", false
	}
	return path, true
}

func (r *Rasterizer) render(ctx context.Context, diagram, path string) error {
	if err := os.MkdirAll(r.cacheDir, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: creating cache directory: %v", ErrRasterize, err)
	}

	tmp, cleanup, err := fileutil.ReserveTempFile(r.cacheDir, hashDiagram(diagram), imageExt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	defer cleanup()

	stderr, err := r.runner.Run(ctx, diagram, r.renderer, "-i", "-", "-o", tmp, "-s", strconv.Itoa(r.scale))
	if err != nil {
		if errors.Is(err, ErrRendererNotFound) {
			return err
		}
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("%w: %s: %v", ErrRasterize, msg, err)
		}
		return fmt.Errorf("%w: %v", ErrRasterize, err)
	}

	info, err := os.Stat(tmp)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: %s produced no image", ErrRasterize, r.renderer)
	}

	if err := os.Rename(tmp, path); err != nil {
		// Another process won the race; its image has identical content.
		if fileutil.FileExists(path) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRasterize, err)
	}
	return nil
}

func hashDiagram(diagram string) string {
	sum := sha256.Sum256([]byte(diagram))
	return hex.EncodeToString(sum[:])
}

// IsDiagramCell reports whether c is a markdown cell holding a ~~~mermaid block.
func IsDiagramCell(c *notebook.Cell) bool {
	return c != nil && c.Type == notebook.CellMarkdown && strings.HasPrefix(c.Source, fenceOpen)
}

// DiagramSource strips the fence markers from a diagram cell's source.
func DiagramSource(source string) string {
	source = strings.ReplaceAll(source, fenceOpen, "")
	source = strings.ReplaceAll(source, fenceClose, "")
	return strings.TrimSpace(source)
}
