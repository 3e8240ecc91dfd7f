package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/alnah/go-nb2md/internal/notebook"
)

// ErrExport is returned when a notebook cannot be rendered to markdown.
var ErrExport = errors.New("notebook export failed")

// HTMLOutputMode selects how text/html cell outputs are rendered.
type HTMLOutputMode string

// HTML output modes.
const (
	HTMLRaw      HTMLOutputMode = "raw"      // embed the HTML as is
	HTMLMarkdown HTMLOutputMode = "markdown" // convert to markdown (tables become GFM tables)
)

// Fence delimits code blocks in exported markdown. Only code cells open one.
const Fence = "```"

const outputIndent = "    "

// displayPriority orders rich output mime types, first match wins.
var displayPriority = []string{
	"text/html",
	"text/markdown",
	"image/svg+xml",
	"image/png",
	"image/jpeg",
	"text/latex",
	"text/plain",
}

var (
	ansiEscape      = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
	attachmentImage = regexp.MustCompile(`\(attachment:([^)\s]+)\)`)
)

// Exporter renders a notebook's cells to linear markdown text.
// Implementations must emit exactly one fenced block per code cell in cell
// order; the runner injector relies on that ordering.
type Exporter interface {
	Export(ctx context.Context, nb *notebook.Notebook) (string, error)
}

// MarkdownExporter renders notebooks the way nbconvert's markdown template
// does: markdown and raw cells verbatim, code cells as fenced blocks tagged
// with the kernel language, outputs as indented blocks or inline content.
type MarkdownExporter struct {
	htmlOutputs HTMLOutputMode
	html        *md.Converter
}

// NewMarkdownExporter creates an exporter. An empty mode means HTMLRaw.
func NewMarkdownExporter(mode HTMLOutputMode) *MarkdownExporter {
	if mode == "" {
		mode = HTMLRaw
	}
	e := &MarkdownExporter{htmlOutputs: mode}
	if mode == HTMLMarkdown {
		// Indented code blocks keep <pre> outputs from adding fences.
		e.html = md.NewConverter("", true, &md.Options{CodeBlockStyle: "indented"})
		e.html.Use(plugin.Table())
	}
	return e
}

// ValidHTMLOutputMode reports whether mode is a known HTMLOutputMode.
func ValidHTMLOutputMode(mode string) bool {
	switch HTMLOutputMode(mode) {
	case HTMLRaw, HTMLMarkdown:
		return true
	}
	return false
}

// Export renders nb to markdown.
func (e *MarkdownExporter) Export(ctx context.Context, nb *notebook.Notebook) (string, error) {
	if nb == nil {
		return "", fmt.Errorf("%w: nil notebook", ErrExport)
	}

	lang := FenceLanguage(nb.Metadata.Language())
	blocks := make([]string, 0, len(nb.Cells))

	for i, cell := range nb.Cells {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			block string
			err   error
		)
		switch cell.Type {
		case notebook.CellMarkdown:
			block = inlineAttachments(cell)
		case notebook.CellRaw:
			block = cell.Source
		case notebook.CellCode:
			block, err = e.renderCode(cell, lang)
		default:
			err = fmt.Errorf("unknown cell type %q", cell.Type)
		}
		if err != nil {
			return "", fmt.Errorf("%w: cell %d: %v", ErrExport, i, err)
		}
		blocks = append(blocks, block)
	}

	return strings.Join(blocks, "\n\n") + "\n", nil
}

func (e *MarkdownExporter) renderCode(cell *notebook.Cell, lang string) (string, error) {
	var b strings.Builder
	b.WriteString(Fence + lang + "\n")
	if cell.Source != "" {
		b.WriteString(strings.TrimSuffix(cell.Source, "\n"))
		b.WriteString("\n")
	}
	b.WriteString(Fence)

	for _, out := range cell.Outputs {
		rendered, err := e.renderOutput(out)
		if err != nil {
			return "", err
		}
		if rendered == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func (e *MarkdownExporter) renderOutput(out notebook.Output) (string, error) {
	switch out.OutputType {
	case "stream":
		return indent(out.Text), nil
	case "error":
		return indent(ansiEscape.ReplaceAllString(strings.Join(out.Traceback, "\n"), "")), nil
	case "execute_result", "display_data":
		return e.renderData(out)
	default:
		return "", nil
	}
}

func (e *MarkdownExporter) renderData(out notebook.Output) (string, error) {
	for _, mime := range displayPriority {
		data, ok := out.DataText(mime)
		if !ok {
			continue
		}
		switch mime {
		case "text/html":
			return e.renderHTML(data)
		case "text/markdown", "text/latex":
			return strings.TrimSuffix(data, "\n"), nil
		case "image/svg+xml":
			return dataImage("svg", mime, base64.StdEncoding.EncodeToString([]byte(data))), nil
		case "image/png", "image/jpeg":
			return dataImage(strings.TrimPrefix(mime, "image/"), mime, strings.TrimSpace(data)), nil
		case "text/plain":
			return indent(data), nil
		}
	}
	return "", nil
}

func (e *MarkdownExporter) renderHTML(data string) (string, error) {
	if e.htmlOutputs != HTMLMarkdown {
		return strings.TrimSuffix(data, "\n"), nil
	}
	converted, err := e.html.ConvertString(data)
	if err != nil {
		return "", fmt.Errorf("converting html output: %w", err)
	}
	return converted, nil
}

// FenceLanguage normalizes a kernel language name to the tag used on code fences.
// Names chroma knows are mapped to one of the lexer's aliases.
func FenceLanguage(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return ""
	}
	lexer := lexers.Get(name)
	if lexer == nil {
		return name
	}
	aliases := lexer.Config().Aliases
	for _, a := range aliases {
		if a == name {
			return name
		}
	}
	if len(aliases) > 0 {
		return aliases[0]
	}
	return name
}

// indent prefixes every non-blank line with four spaces, making the text an
// indented code block that never opens a fence.
func indent(text string) string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = outputIndent + line
		}
	}
	return strings.Join(lines, "\n")
}

func dataImage(alt, mime, payload string) string {
	return fmt.Sprintf("![%s](data:%s;base64,%s)", alt, mime, payload)
}

// inlineAttachments replaces attachment:name references with data URIs.
func inlineAttachments(cell *notebook.Cell) string {
	if len(cell.Attachments) == 0 {
		return cell.Source
	}
	return attachmentImage.ReplaceAllStringFunc(cell.Source, func(ref string) string {
		name := attachmentImage.FindStringSubmatch(ref)[1]
		bundle, ok := cell.Attachments[name]
		if !ok {
			return ref
		}
		for _, mime := range slices.Sorted(maps.Keys(bundle)) {
			return "(data:" + mime + ";base64," + strings.TrimSpace(bundle[mime]) + ")"
		}
		return ref
	})
}
