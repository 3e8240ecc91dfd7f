package main

// Notes:
// - runMain: we test exit codes and user-facing output for help, version,
//   flag errors, single-notebook mode and batch mode. Notebooks contain no
//   diagrams, so the mermaid renderer is never invoked.
// - Batch mode exits 0 when individual notebooks fail; single mode does not.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunMain - Exit codes and informational flags
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		args         []string
		wantCode     int
		wantInStdout []string
		wantInStderr []string
	}{
		{
			name:         "help flag",
			args:         []string{"nb2md", "--help"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: nb2md", "--renderer", "NB2MD_WORKERS"},
		},
		{
			name:         "help shorthand",
			args:         []string{"nb2md", "-h"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"Usage: nb2md"},
		},
		{
			name:         "version flag",
			args:         []string{"nb2md", "--version"},
			wantCode:     ExitSuccess,
			wantInStdout: []string{"nb2md dev"},
		},
		{
			name:         "unknown flag exits with ExitUsage",
			args:         []string{"nb2md", "--bogus"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"bogus", "nb2md --help"},
		},
		{
			name:         "too many arguments",
			args:         []string{"nb2md", "a.ipynb", "b.ipynb"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"at most one notebook"},
		},
		{
			name:         "missing notebook exits with ExitIO",
			args:         []string{"nb2md", filepath.Join(t.TempDir(), "missing.ipynb")},
			wantCode:     ExitIO,
			wantInStderr: []string{"notebook not found"},
		},
		{
			name:         "missing input directory exits with ExitIO",
			args:         []string{"nb2md", "--input-dir", filepath.Join(t.TempDir(), "nope")},
			wantCode:     ExitIO,
			wantInStderr: []string{"input directory not found", "hint:"},
		},
		{
			name:         "missing config exits with ExitUsage",
			args:         []string{"nb2md", "--config", "/nonexistent/nb2md.yaml"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"config file not found"},
		},
		{
			name:         "invalid scale exits with ExitUsage",
			args:         []string{"nb2md", "--scale", "500"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"mermaid.scale"},
		},
		{
			name:         "invalid html outputs exits with ExitUsage",
			args:         []string{"nb2md", "--html-outputs", "pdf"},
			wantCode:     ExitUsage,
			wantInStderr: []string{"export.htmlOutputs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := runMain(tt.args, env)

			if code != tt.wantCode {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			for _, want := range tt.wantInStdout {
				if !strings.Contains(stdout.String(), want) {
					t.Errorf("stdout should contain %q, got %q", want, stdout.String())
				}
			}
			for _, want := range tt.wantInStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr should contain %q, got %q", want, stderr.String())
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_SingleNotebook - Single-notebook mode
// ---------------------------------------------------------------------------

func TestRunMain_SingleNotebook(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	in := filepath.Join(root, "_notebooks")
	out := filepath.Join(root, "_posts")
	src := filepath.Join(in, "CSA", "2019-frq-3.ipynb")
	lessonNotebook(t, src)

	env, stdout, stderr := testEnv()
	code := runMain([]string{"nb2md", "--input-dir", in, "--output-dir", out, src}, env)

	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d\nstderr: %s", code, ExitSuccess, stderr.String())
	}

	dst := filepath.Join(out, "CSA", "2019-frq-3_IPYNB_2_.md")
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	page := string(data)

	for _, want := range []string{
		"permalink: /csa/frqs/2019/3",
		`{% include code-runner.html runner_id="csa-frqs-2019-3-0"`,
		"Reverse the list",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page should contain %q, got:\n%s", want, page)
		}
	}
	if !strings.Contains(stdout.String(), "Created "+dst) {
		t.Errorf("stdout should report %s, got %q", dst, stdout.String())
	}
}

func TestRunMain_SingleNotebookMalformedFrontMatter(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	in := filepath.Join(root, "_notebooks")
	out := filepath.Join(root, "_posts")
	src := filepath.Join(in, "broken.ipynb")
	writeNotebook(t, src, markdownCell("---\ntitle: \"unterminated\n---"))

	env, _, stderr := testEnv()
	code := runMain([]string{"nb2md", "--input-dir", in, "--output-dir", out, src}, env)

	if code != ExitUsage {
		t.Errorf("runMain() = %d, want %d\nstderr: %s", code, ExitUsage, stderr.String())
	}
	if !strings.Contains(stderr.String(), "hint:") {
		t.Errorf("stderr should contain a front matter hint, got %q", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(out, "broken_IPYNB_2_.md")); !os.IsNotExist(err) {
		t.Errorf("no output should be written, stat err = %v", err)
	}
}

func TestRunMain_QuietSingleNotebook(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	in := filepath.Join(root, "_notebooks")
	src := filepath.Join(in, "lesson.ipynb")
	lessonNotebook(t, src)

	env, stdout, _ := testEnv()
	code := runMain([]string{"nb2md", "-q", "--input-dir", in, "--output-dir", filepath.Join(root, "_posts"), src}, env)

	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d", code, ExitSuccess)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet run should print nothing, got %q", stdout.String())
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Batch - Batch mode over the input directory
// ---------------------------------------------------------------------------

func TestRunMain_Batch(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	in := filepath.Join(root, "_notebooks")
	out := filepath.Join(root, "_posts")
	lessonNotebook(t, filepath.Join(in, "a.ipynb"))
	lessonNotebook(t, filepath.Join(in, "sub", "b.ipynb"))
	writeNotebook(t, filepath.Join(in, "bad.ipynb"), markdownCell("---\ntitle: \"unterminated\n---"))

	env, stdout, stderr := testEnv()
	code := runMain([]string{"nb2md", "-w", "2", "--input-dir", in, "--output-dir", out}, env)

	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, want %d (batch tolerates failures)\nstderr: %s", code, ExitSuccess, stderr.String())
	}
	if !strings.Contains(stderr.String(), "FAILED "+filepath.Join(in, "bad.ipynb")) {
		t.Errorf("stderr should report the failed notebook, got %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "2 succeeded, 1 failed") {
		t.Errorf("stdout should contain summary, got %q", stdout.String())
	}
	for _, rel := range []string{"a_IPYNB_2_.md", filepath.Join("sub", "b_IPYNB_2_.md")} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("expected output %s: %v", rel, err)
		}
	}
}

func TestRunMain_BatchEmptyDirectory(t *testing.T) {
	t.Parallel()

	in := t.TempDir()
	env, stdout, _ := testEnv()
	code := runMain([]string{"nb2md", "--input-dir", in}, env)

	if code != ExitSuccess {
		t.Errorf("runMain() = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stdout.String(), "No notebooks found") {
		t.Errorf("stdout = %q, want no-notebooks message", stdout.String())
	}
}
