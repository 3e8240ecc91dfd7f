package nb2md

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alnah/go-nb2md/internal/fileutil"
	"github.com/alnah/go-nb2md/internal/mermaid"
	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ Exporter              = (*pipeline.MarkdownExporter)(nil)
	_ Rasterizer            = (*mermaid.Rasterizer)(nil)
	_ pipeline.RunnerLookup = pipeline.Runners(nil)
	_ mermaid.CommandRunner = mermaid.ExecRunner{}
)

// Rasterizer turns diagram text into an image file.
// ok is false when the diagram must stay as text.
type Rasterizer interface {
	Rasterize(ctx context.Context, diagram string) (path string, ok bool)
}

// Converter orchestrates the notebook-to-page pipeline.
// A Converter holds no per-document state and is safe for concurrent use
// as long as its Exporter and Rasterizer are.
type Converter struct {
	exporter    Exporter
	rasterizer  Rasterizer
	auditor     *pipeline.Auditor
	logger      *slog.Logger
	imagePrefix string
	dest        Destination
}

// NewConverter creates a Converter with the default exporter, a mermaid
// rasterizer caching into assets/mermaid and the default site layout.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		auditor:     pipeline.NewAuditor(),
		logger:      slog.New(slog.DiscardHandler),
		imagePrefix: DefaultImagePrefix,
		dest:        DefaultDestination(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.exporter == nil {
		c.exporter = pipeline.NewMarkdownExporter(pipeline.HTMLRaw)
	}
	if c.rasterizer == nil {
		c.rasterizer = mermaid.New(mermaid.WithLogger(c.logger))
	}
	return c
}

// Convert runs the full pipeline on one notebook and returns the page.
// Cells of input.Notebook are modified in place: runner cells lose their
// outputs and rendered diagram cells get an image reference.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	nb := input.Notebook
	if nb == nil {
		return nil, ErrNilNotebook
	}

	// Front matter lives in the first cell, which is not part of the page.
	cells := nb.Cells
	var fm FrontMatter
	if len(cells) > 0 && hasFrontMatter(cells[0]) {
		fm, err = ExtractFrontMatter(cells[0])
		if err != nil {
			return nil, err
		}
		cells = cells[1:]
	}
	body := &notebook.Notebook{
		Cells:         cells,
		Metadata:      nb.Metadata,
		NBFormat:      nb.NBFormat,
		NBFormatMinor: nb.NBFormatMinor,
	}

	runners := PrepareRunners(cells, fm.Permalink())

	diagrams := c.rasterizeDiagrams(ctx, cells)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	markdown, err := c.exporter.Export(ctx, body)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, ErrExport) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrExport, err)
	}

	markdown = pipeline.FixFenceLanguage(markdown)

	alignment := c.auditor.Audit(markdown, runners.CodeCells())
	if !alignment.Aligned() {
		c.logger.WarnContext(ctx, "fenced blocks do not match code cells, runners may be misplaced",
			slog.String("path", input.Path),
			slog.Int("code_cells", alignment.CodeCells),
			slog.Int("fenced_blocks", alignment.FencedBlocks))
	}

	var submit *pipeline.Submit
	if fm.ChallengeSubmit() {
		submit = &pipeline.Submit{LessonKey: LessonKey(fm.Permalink())}
	}
	markdown, stats := pipeline.InjectRunnersStats(markdown, toPipelineRunners(runners), submit)

	header, err := fm.Marshal()
	if err != nil {
		return nil, err
	}

	c.logger.DebugContext(ctx, "converted notebook",
		slog.String("path", input.Path),
		slog.Int("code_cells", runners.CodeCells()),
		slog.Int("runners", stats.Runners),
		slog.Int("diagrams", len(diagrams)))

	return &Result{
		Markdown:    header + markdown,
		FrontMatter: fm,
		Runners:     runners,
		Diagrams:    diagrams,
		Alignment:   alignment,
		Injected:    stats,
	}, nil
}

// rasterizeDiagrams replaces the source of every diagram cell it can render
// with an image reference. Cells that fail keep their text.
func (c *Converter) rasterizeDiagrams(ctx context.Context, cells []*notebook.Cell) []Diagram {
	var diagrams []Diagram
	for _, cell := range cells {
		if !mermaid.IsDiagramCell(cell) {
			continue
		}
		if ctx.Err() != nil {
			return diagrams
		}

		d := Diagram{Source: mermaid.DiagramSource(cell.Source)}
		if path, ok := c.rasterizer.Rasterize(ctx, d.Source); ok {
			d.ImagePath = path
			d.Rendered = true
			cell.Source = "![Mermaid Diagram](" + c.imagePrefix + filepath.ToSlash(path) + ")"
		}
		diagrams = append(diagrams, d)
	}
	return diagrams
}

// ConvertFile reads the notebook at src, converts it and writes the page to
// the path computed by the converter's Destination. On any error the
// destination file is removed, so no stale or partial page is left behind.
func (c *Converter) ConvertFile(ctx context.Context, src string) (*FileResult, error) {
	dst, err := c.dest.PathFor(src)
	if err != nil {
		return &FileResult{Source: src}, err
	}
	fr := &FileResult{Source: src, Destination: dst}

	res, err := c.convertAndWrite(ctx, src, dst)
	if err != nil {
		removed, rmErr := fileutil.RemoveIfExists(dst)
		fr.Cleaned = removed
		if rmErr != nil {
			c.logger.WarnContext(ctx, "failed to remove output after error",
				slog.String("path", dst), slog.Any("err", rmErr))
		}
		return fr, err
	}

	fr.Result = res
	return fr, nil
}

func (c *Converter) convertAndWrite(ctx context.Context, src, dst string) (*Result, error) {
	nb, err := notebook.ReadFile(src)
	if err != nil {
		return nil, err
	}

	res, err := c.Convert(ctx, Input{Notebook: nb, Path: src})
	if err != nil {
		return nil, err
	}

	if err := fileutil.EnsureParentDir(dst); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := os.WriteFile(dst, []byte(res.Markdown), fileutil.FilePermissions); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return res, nil
}

// ReadNotebook decodes the notebook stored at path.
func ReadNotebook(path string) (*Notebook, error) {
	return notebook.ReadFile(path)
}

// DecodeNotebook decodes a notebook document from r.
func DecodeNotebook(r io.Reader) (*Notebook, error) {
	return notebook.Decode(r)
}
