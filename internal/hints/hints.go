// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-nb2md/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// inCI reports whether a known CI environment variable is set.
func inCI() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForRendererNotFound returns hints for a missing mermaid renderer.
// Suggests installing mermaid-cli, pointing at a custom binary, and the
// sandbox setting headless Chromium needs in containers.
func ForRendererNotFound() string {
	hints := []string{"install mermaid-cli (npm install -g @mermaid-js/mermaid-cli)"}

	if os.Getenv("NB2MD_RENDERER") == "" {
		hints = append(hints, "or set NB2MD_RENDERER / --renderer to the mmdc binary")
	}

	if inCI() || IsInContainer() {
		hints = append(hints, "in Docker/CI, mmdc may need a puppeteer config with --no-sandbox")
	}

	return formatHints(hints)
}

// ForRasterize returns a hint for diagrams that failed to render.
func ForRasterize() string {
	return format("diagrams that fail are kept as text; use --verbose to see renderer output")
}

// ForFrontMatter returns a hint for front matter parse errors.
func ForFrontMatter() string {
	return format("the first cell must start with --- and hold a YAML mapping closed by ---")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-nb2md/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-nb2md) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-nb2md") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForInputDirectory returns hints when the notebook directory is missing.
func ForInputDirectory() string {
	return format("run from the site root or use --input-dir")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
