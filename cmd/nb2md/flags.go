package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// cliFlags holds every command-line flag. Zero values mean "not given";
// set records which flags appeared so mergeFlags only overrides those.
type cliFlags struct {
	config      string
	inputDir    string
	outputDir   string
	cacheDir    string
	imagePrefix string
	renderer    string
	htmlOutputs string
	scale       int
	workers     int
	quiet       bool
	verbose     bool
	version     bool
	help        bool

	set map[string]bool
}

// changed reports whether the named flag was given on the command line.
func (f *cliFlags) changed(name string) bool {
	return f.set[name]
}

// newFlagSet binds f to a new FlagSet.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("nb2md", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	// I/O
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.inputDir, "input-dir", "", "notebook directory scanned in batch mode")
	fs.StringVar(&f.outputDir, "output-dir", "", "directory receiving generated pages")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")

	// Diagrams
	fs.StringVar(&f.cacheDir, "cache-dir", "", "mermaid image cache directory")
	fs.StringVar(&f.imagePrefix, "image-prefix", "", "prefix for diagram image links")
	fs.StringVar(&f.renderer, "renderer", "", "mermaid renderer executable")
	fs.IntVar(&f.scale, "scale", 0, "mermaid render scale (1-50)")

	// Export
	fs.StringVar(&f.htmlOutputs, "html-outputs", "", "html cell outputs: raw, markdown")

	// Output
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timing")
	fs.BoolVar(&f.version, "version", false, "show version and exit")
	fs.BoolVarP(&f.help, "help", "h", false, "show help and exit")

	return fs
}

// parseFlags parses args (without the program name) and returns the
// positional arguments.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{set: make(map[string]bool)}
	fs := newFlagSet(f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, fs.Args(), nil
}
