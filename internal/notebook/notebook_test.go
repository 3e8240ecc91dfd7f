package notebook_test

// Notes:
// - Decode is tested with inline JSON documents shaped like Jupyter output;
//   nbformat schema validation beyond the fields the converter reads is out of scope.
// - ReadFile open errors are covered with a missing path only.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-nb2md/internal/notebook"
)

const sampleNotebook = `{
  "cells": [
    {"cell_type": "raw", "metadata": {}, "source": ["---\n", "title: Lesson\n", "---"]},
    {"cell_type": "markdown", "metadata": {}, "source": "## Intro"},
    {
      "cell_type": "code",
      "execution_count": 3,
      "metadata": {"vscode": {"languageId": "python"}},
      "outputs": [
        {"output_type": "stream", "name": "stdout", "text": ["hello\n", "world\n"]},
        {"output_type": "execute_result", "execution_count": 3, "data": {"text/plain": ["42"]}, "metadata": {}}
      ],
      "source": ["print('hello')\n", "print('world')"]
    }
  ],
  "metadata": {
    "kernelspec": {"display_name": "Python 3", "language": "python", "name": "python3"},
    "language_info": {"name": "python", "file_extension": ".py"}
  },
  "nbformat": 4,
  "nbformat_minor": 5
}`

// ---------------------------------------------------------------------------
// TestDecode - nbformat 4 decoding
// ---------------------------------------------------------------------------

func TestDecode(t *testing.T) {
	t.Parallel()

	nb, err := notebook.Decode(strings.NewReader(sampleNotebook))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(nb.Cells) != 3 {
		t.Fatalf("len(Cells) = %d, want 3", len(nb.Cells))
	}
	if nb.Cells[0].Type != notebook.CellRaw {
		t.Errorf("Cells[0].Type = %q, want raw", nb.Cells[0].Type)
	}
	if got := nb.Cells[0].Source; got != "---\ntitle: Lesson\n---" {
		t.Errorf("multiline source joined = %q", got)
	}

	code := nb.Cells[2]
	if !code.IsCode() {
		t.Fatal("Cells[2] should be code")
	}
	if code.ExecutionCount == nil || *code.ExecutionCount != 3 {
		t.Errorf("ExecutionCount = %v, want 3", code.ExecutionCount)
	}
	if len(code.Outputs) != 2 {
		t.Fatalf("len(Outputs) = %d, want 2", len(code.Outputs))
	}
	if code.Outputs[0].Text != "hello\nworld\n" {
		t.Errorf("stream text = %q", code.Outputs[0].Text)
	}
	if txt, ok := code.Outputs[1].DataText("text/plain"); !ok || txt != "42" {
		t.Errorf("DataText(text/plain) = %q, %v", txt, ok)
	}
	if _, ok := code.Outputs[1].DataText("image/png"); ok {
		t.Error("DataText(image/png) should be absent")
	}

	if got := nb.Metadata.Language(); got != "python" {
		t.Errorf("Language() = %q, want python", got)
	}
	if got := len(nb.CodeCells()); got != 1 {
		t.Errorf("len(CodeCells()) = %d, want 1", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "invalid json", input: `{"cells": [`, wantErr: notebook.ErrDecode},
		{name: "nbformat 3", input: `{"nbformat": 3, "worksheets": []}`, wantErr: notebook.ErrUnsupportedFormat},
		{name: "no cells", input: `{"nbformat": 4, "cells": []}`, wantErr: notebook.ErrNoCells},
		{
			name:    "unknown cell type",
			input:   `{"nbformat": 4, "cells": [{"cell_type": "heading", "source": "x"}]}`,
			wantErr: notebook.ErrDecode,
		},
		{
			name:    "source of wrong type",
			input:   `{"nbformat": 4, "cells": [{"cell_type": "code", "source": 7}]}`,
			wantErr: notebook.ErrDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := notebook.Decode(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecode_KernelSpecFallback(t *testing.T) {
	t.Parallel()

	nb, err := notebook.Decode(strings.NewReader(`{
		"nbformat": 4,
		"metadata": {"kernelspec": {"name": "java", "language": "java"}},
		"cells": [{"cell_type": "code", "source": "int x = 1;", "outputs": []}]
	}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := nb.Metadata.Language(); got != "java" {
		t.Errorf("Language() = %q, want java", got)
	}
	if nb.Cells[0].Metadata == nil {
		t.Error("missing metadata should decode to an empty map")
	}
}

// ---------------------------------------------------------------------------
// TestReadFile - Reading from disk
// ---------------------------------------------------------------------------

func TestReadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.ipynb")
	if err := os.WriteFile(path, []byte(sampleNotebook), 0o644); err != nil {
		t.Fatal(err)
	}

	nb, err := notebook.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nb.Cells) != 3 {
		t.Errorf("len(Cells) = %d, want 3", len(nb.Cells))
	}

	_, err = notebook.ReadFile(filepath.Join(dir, "missing.ipynb"))
	if !errors.Is(err, notebook.ErrReadNotebook) {
		t.Errorf("missing file error = %v, want ErrReadNotebook", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error should wrap os.ErrNotExist: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestClearOutputs - Runner cells drop stale outputs
// ---------------------------------------------------------------------------

func TestClearOutputs(t *testing.T) {
	t.Parallel()

	n := 4
	c := &notebook.Cell{
		Type:           notebook.CellCode,
		Outputs:        []notebook.Output{{OutputType: "stream", Text: "old"}},
		ExecutionCount: &n,
	}
	c.ClearOutputs()
	if c.Outputs != nil || c.ExecutionCount != nil {
		t.Errorf("ClearOutputs left %v / %v", c.Outputs, c.ExecutionCount)
	}
}
