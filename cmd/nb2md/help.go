package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2md [flags] [notebook.ipynb]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Jupyter notebooks into front-matter markdown pages.")
	fmt.Fprintln(w, "With a path, converts that notebook. Without one, converts every")
	fmt.Fprintln(w, "notebook under the input directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --input-dir <dir>     Notebook directory (default: _notebooks)")
	fmt.Fprintln(w, "      --output-dir <dir>    Page directory (default: _posts)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Diagrams:")
	fmt.Fprintln(w, "      --cache-dir <dir>     Image cache (default: assets/mermaid)")
	fmt.Fprintln(w, "      --image-prefix <s>    Prefix for image links (default: ../../../../)")
	fmt.Fprintln(w, "      --renderer <path>     Mermaid renderer (default: mmdc)")
	fmt.Fprintln(w, "      --scale <n>           Render scale 1-50 (default: 10)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "      --html-outputs <m>    HTML cell outputs: raw, markdown (default: raw)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timing")
	fmt.Fprintln(w, "      --version             Show version")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2MD_CONFIG, NB2MD_INPUT_DIR, NB2MD_OUTPUT_DIR,")
	fmt.Fprintln(w, "  NB2MD_CACHE_DIR, NB2MD_RENDERER, NB2MD_WORKERS")
	fmt.Fprintln(w, "  Flags override environment, environment overrides the config file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  nb2md")
	fmt.Fprintln(w, "  nb2md _notebooks/CSA/2019-frq-3.ipynb")
	fmt.Fprintln(w, "  nb2md --renderer ./node_modules/.bin/mmdc -w 4")
}
