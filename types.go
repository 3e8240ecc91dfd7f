package nb2md

import (
	"log/slog"

	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/pipeline"
)

// Notebook and Cell are the decoded document types consumed by Convert.
type (
	Notebook = notebook.Notebook
	Cell     = notebook.Cell
)

// Exporter renders a notebook to linear markdown with one fenced block per
// code cell, in cell order.
type Exporter = pipeline.Exporter

// AlignmentReport compares exported fenced blocks with code cells.
type AlignmentReport = pipeline.AlignmentReport

// InjectStats reports how many fenced blocks became code runners.
type InjectStats = pipeline.InjectStats

// Input contains the data for a single conversion.
type Input struct {
	Notebook *Notebook // required; cells are modified in place
	Path     string    // source path, used in log records only
}

// Diagram records the outcome of one diagram cell.
type Diagram struct {
	Source    string // diagram text without fence markers
	ImagePath string // cache path, empty when not rendered
	Rendered  bool
}

// Result contains the output of a successful conversion.
type Result struct {
	Markdown    string
	FrontMatter FrontMatter
	Runners     *RunnerTable
	Diagrams    []Diagram
	Alignment   AlignmentReport
	Injected    InjectStats
}

// FileResult describes a ConvertFile call. It is returned on failure too,
// so callers can report the destination and whether it was removed.
type FileResult struct {
	Source      string
	Destination string
	Cleaned     bool // a stale or partial destination file was removed
	Result      *Result
}

// Option configures a Converter.
type Option func(*Converter)

// DefaultImagePrefix is prepended to diagram cache paths in image
// references. Pages are published four directories below the site root.
const DefaultImagePrefix = "../../../../"

// WithExporter replaces the markdown exporter.
func WithExporter(e Exporter) Option {
	return func(c *Converter) { c.exporter = e }
}

// WithRasterizer replaces the diagram rasterizer.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) { c.rasterizer = r }
}

// WithLogger sets the logger for non-fatal conversion problems.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithImagePrefix sets the prefix of diagram image references.
func WithImagePrefix(prefix string) Option {
	return func(c *Converter) { c.imagePrefix = prefix }
}

// WithDestination sets where ConvertFile writes pages.
func WithDestination(d Destination) Option {
	return func(c *Converter) { c.dest = d }
}
