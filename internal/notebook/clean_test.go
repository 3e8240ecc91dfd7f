package notebook_test

import (
	"testing"

	"github.com/alnah/go-nb2md/internal/notebook"
)

// ---------------------------------------------------------------------------
// TestCleanCode - Runner code extraction
// ---------------------------------------------------------------------------

func TestCleanCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		lang   notebook.Language
		want   string
	}{
		{
			name:   "python marker removed",
			source: "# CODE_RUNNER: Sum\nprint(sum([1, 2]))\n",
			lang:   notebook.Python,
			want:   "print(sum([1, 2]))",
		},
		{
			name:   "js magic and marker removed",
			source: "%%js\n// CODE_RUNNER: Log\nconsole.log('hi');",
			lang:   notebook.JavaScript,
			want:   "console.log('hi');",
		},
		{
			name:   "js magic removed in any position",
			source: "let a = 1;\n%%js\nlet b = 2;",
			lang:   notebook.JavaScript,
			want:   "let a = 1;\nlet b = 2;",
		},
		{
			name:   "other magics removed",
			source: "%%time\nx = 1\n%%capture\ny = 2",
			lang:   notebook.Python,
			want:   "x = 1\ny = 2",
		},
		{
			name:   "java trailing main removed",
			source: "// CODE_RUNNER: Print a greeting\npublic class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello\");\n    }\n}\nMain.main(null);\n",
			lang:   notebook.Java,
			want:   "public class Main {\n    public static void main(String[] args) {\n        System.out.println(\"Hello\");\n    }\n}",
		},
		{
			name:   "java main in the middle kept",
			source: "Main.main(null);\nSystem.out.println(1);",
			lang:   notebook.Java,
			want:   "Main.main(null);\nSystem.out.println(1);",
		},
		{
			name:   "java main kept for python",
			source: "Main.main(null);",
			lang:   notebook.Python,
			want:   "Main.main(null);",
		},
		{
			name:   "java run of trailing mains removed",
			source: "class A {}\nA.main(null);\nB.main(null);",
			lang:   notebook.Java,
			want:   "class A {}",
		},
		{
			name:   "leading blank lines dropped",
			source: "\n   \n# CODE_RUNNER: x\n\n    indented = True\n",
			lang:   notebook.Python,
			want:   "    indented = True",
		},
		{
			name:   "inner blank lines kept",
			source: "a = 1\n\nb = 2",
			lang:   notebook.Python,
			want:   "a = 1\n\nb = 2",
		},
		{
			name:   "crlf normalized",
			source: "# CODE_RUNNER: x\r\nprint(1)\r\n",
			lang:   notebook.Python,
			want:   "print(1)",
		},
		{
			name:   "only removable lines",
			source: "%%js\n// CODE_RUNNER: nothing",
			lang:   notebook.JavaScript,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := notebook.CleanCode(tt.source, tt.lang); got != tt.want {
				t.Errorf("CleanCode() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestCleanCode_FixedPoint - Cleaning cleaned code changes nothing
// ---------------------------------------------------------------------------

func TestCleanCode_FixedPoint(t *testing.T) {
	t.Parallel()

	sources := []string{
		"",
		"print(1)",
		"# CODE_RUNNER: a\n%%time\nx = 1\n\n",
		"%%js\n// CODE_RUNNER: b\nconsole.log(1)",
		"class A {}\nA.main(null);\nB.main(null);\n",
		"class A {}\nA.main(null);\n// CODE_RUNNER: marker after driver",
		"\n\n  \n\tx = 1  \n",
		"Main.main(null);",
	}
	langs := []notebook.Language{notebook.Python, notebook.JavaScript, notebook.Java}

	for _, src := range sources {
		for _, lang := range langs {
			once := notebook.CleanCode(src, lang)
			twice := notebook.CleanCode(once, lang)
			if once != twice {
				t.Errorf("CleanCode not idempotent for %q (%s):\nonce  %q\ntwice %q", src, lang, once, twice)
			}
			if _, found := notebook.ExtractChallenge(once, lang); found {
				t.Errorf("cleaned code of %q (%s) still has a challenge marker", src, lang)
			}
		}
	}
}
