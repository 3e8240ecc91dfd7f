package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-nb2md/internal/mermaid"
)

// fakeRenderer returns path or err for every diagram.
type fakeRenderer struct {
	path string
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (string, error) {
	return f.path, f.err
}

// ---------------------------------------------------------------------------
// TestDiagramRasterizer - Failure reporting and hints
// ---------------------------------------------------------------------------

func TestDiagramRasterizer(t *testing.T) {
	t.Parallel()

	t.Run("rendered diagram", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		r := newDiagramRasterizer(&fakeRenderer{path: "assets/mermaid/abc.png"}, slog.New(slog.DiscardHandler), &stderr, false)

		path, ok := r.Rasterize(context.Background(), "graph TD; A-->B")
		if !ok || path != "assets/mermaid/abc.png" {
			t.Errorf("Rasterize() = %q, %v", path, ok)
		}
		if stderr.Len() != 0 {
			t.Errorf("stderr = %q, want empty", stderr.String())
		}
	})

	t.Run("missing renderer hints once", func(t *testing.T) {
		t.Parallel()

		var stderr, logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))
		err := fmt.Errorf("%w: mmdc", mermaid.ErrRendererNotFound)
		r := newDiagramRasterizer(&fakeRenderer{err: err}, logger, &stderr, false)

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok := r.Rasterize(context.Background(), "graph TD; A-->B"); ok {
					t.Error("Rasterize() ok = true, want false")
				}
			}()
		}
		wg.Wait()

		if n := strings.Count(stderr.String(), "hint:"); n == 0 {
			t.Errorf("stderr should contain a hint, got %q", stderr.String())
		}
		if n := strings.Count(stderr.String(), "warning:"); n != 1 {
			t.Errorf("warning printed %d times, want 1: %q", n, stderr.String())
		}
		if n := strings.Count(logs.String(), "diagram left as text"); n != 4 {
			t.Errorf("logged %d failures, want 4", n)
		}
	})

	t.Run("quiet suppresses hint", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		err := fmt.Errorf("%w: mmdc", mermaid.ErrRendererNotFound)
		r := newDiagramRasterizer(&fakeRenderer{err: err}, slog.New(slog.DiscardHandler), &stderr, true)

		r.Rasterize(context.Background(), "graph TD; A-->B")
		if stderr.Len() != 0 {
			t.Errorf("stderr = %q, want empty", stderr.String())
		}
	})

	t.Run("render failure points at verbose output", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		err := fmt.Errorf("%w: exit status 1", mermaid.ErrRasterize)
		r := newDiagramRasterizer(&fakeRenderer{err: err}, slog.New(slog.DiscardHandler), &stderr, false)

		for i := 0; i < 2; i++ {
			if _, ok := r.Rasterize(context.Background(), "graph TD; A-->"); ok {
				t.Error("Rasterize() ok = true, want false")
			}
		}
		if n := strings.Count(stderr.String(), "--verbose"); n != 1 {
			t.Errorf("hint printed %d times, want 1: %q", n, stderr.String())
		}
		if strings.Contains(stderr.String(), "mermaid-cli") {
			t.Errorf("install hint is for a missing renderer only, got %q", stderr.String())
		}
	})
}
