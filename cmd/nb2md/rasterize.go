package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	nb2md "github.com/alnah/go-nb2md"
	"github.com/alnah/go-nb2md/internal/hints"
	"github.com/alnah/go-nb2md/internal/mermaid"
)

// diagramRenderer renders one diagram to an image path.
type diagramRenderer interface {
	Render(ctx context.Context, diagram string) (string, error)
}

// Compile-time interface implementation checks.
var (
	_ diagramRenderer  = (*mermaid.Rasterizer)(nil)
	_ nb2md.Rasterizer = (*diagramRasterizer)(nil)
)

// diagramRasterizer logs render failures and prints each kind of hint at
// most once per run, however many diagrams fail.
type diagramRasterizer struct {
	renderer diagramRenderer
	logger   *slog.Logger
	stderr   io.Writer
	quiet    bool
	hintOnce sync.Once
	failOnce sync.Once
}

func newDiagramRasterizer(r diagramRenderer, logger *slog.Logger, stderr io.Writer, quiet bool) *diagramRasterizer {
	return &diagramRasterizer{renderer: r, logger: logger, stderr: stderr, quiet: quiet}
}

// Rasterize implements nb2md.Rasterizer. A failed diagram is left as text.
func (r *diagramRasterizer) Rasterize(ctx context.Context, diagram string) (string, bool) {
	path, err := r.renderer.Render(ctx, diagram)
	if err == nil {
		return path, true
	}

	r.logger.WarnContext(ctx, "diagram left as text", slog.Any("err", err))
	if r.quiet {
		return "", false
	}
	if errors.Is(err, mermaid.ErrRendererNotFound) {
		r.hintOnce.Do(func() {
			fmt.Fprintf(r.stderr, "warning: %v%s\n", err, hints.ForRendererNotFound())
		})
		return "", false
	}
	r.failOnce.Do(func() {
		fmt.Fprintf(r.stderr, "warning: %v%s\n", err, hints.ForRasterize())
	})
	return "", false
}
