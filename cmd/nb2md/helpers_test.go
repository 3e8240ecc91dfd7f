package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	nb2md "github.com/alnah/go-nb2md"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Notebook fixtures and fakes
// ---------------------------------------------------------------------------

// writeNotebook writes cells as an nbformat 4 document.
func writeNotebook(t *testing.T, path string, cells ...map[string]any) {
	t.Helper()
	doc := map[string]any{
		"nbformat":       4,
		"nbformat_minor": 5,
		"metadata":       map[string]any{"language_info": map[string]any{"name": "python"}},
		"cells":          cells,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal notebook: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write notebook: %v", err)
	}
}

func markdownCell(source string) map[string]any {
	return map[string]any{"cell_type": "markdown", "metadata": map[string]any{}, "source": source}
}

func codeCell(source string) map[string]any {
	return map[string]any{
		"cell_type":       "code",
		"metadata":        map[string]any{},
		"source":          source,
		"outputs":         []any{},
		"execution_count": nil,
	}
}

// lessonNotebook writes a notebook with front matter and one runner cell.
func lessonNotebook(t *testing.T, path string) {
	t.Helper()
	writeNotebook(t, path,
		markdownCell("---\ntitle: FRQ 3\npermalink: /csa/frqs/2019/3\n---"),
		codeCell("# CODE_RUNNER: Reverse the list\nprint('hi')"),
	)
}

// testEnv returns an Environment writing to buffers.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{Now: time.Now, Stdout: &stdout, Stderr: &stderr}, &stdout, &stderr
}

// fakeConverter records ConvertFile calls and fails for paths in fail.
type fakeConverter struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
	delay time.Duration
}

func (f *fakeConverter) ConvertFile(ctx context.Context, src string) (*nb2md.FileResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, src)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return &nb2md.FileResult{Source: src}, ctx.Err()
		}
	}

	dst := src + ".md"
	if err := f.fail[src]; err != nil {
		return &nb2md.FileResult{Source: src, Destination: dst, Cleaned: true}, err
	}
	return &nb2md.FileResult{Source: src, Destination: dst}, nil
}

func (f *fakeConverter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
