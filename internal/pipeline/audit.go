package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// AlignmentReport compares the fenced blocks a markdown parser sees with the
// number of code cells that were exported.
type AlignmentReport struct {
	CodeCells    int
	FencedBlocks int
}

// Aligned reports whether every fenced block has a code cell and vice versa.
func (r AlignmentReport) Aligned() bool {
	return r.CodeCells == r.FencedBlocks
}

// Auditor counts backtick fenced code blocks with goldmark.
type Auditor struct {
	md goldmark.Markdown
}

// NewAuditor creates an Auditor using goldmark's CommonMark parser.
func NewAuditor() *Auditor {
	return &Auditor{md: goldmark.New()}
}

// Audit parses markdown and reports how many backtick fenced blocks it holds.
// Mermaid blocks left as text and tilde fences are not counted: the injector
// only pairs backtick fences with code cells.
func (a *Auditor) Audit(markdown string, codeCells int) AlignmentReport {
	source := []byte(markdown)
	doc := a.md.Parser().Parse(text.NewReader(source))

	report := AlignmentReport{CodeCells: codeCells}
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if fenceChar(block, source) == '`' && string(block.Language(source)) != "mermaid" {
			report.FencedBlocks++
		}
		return ast.WalkSkipChildren, nil
	})
	return report
}

// fenceChar returns the character the block's opening fence is made of.
func fenceChar(block *ast.FencedCodeBlock, source []byte) byte {
	var pos int
	switch {
	case block.Info != nil:
		pos = block.Info.Segment.Start
	case block.Lines().Len() > 0:
		pos = block.Lines().At(0).Start - 1 // newline ending the fence line
	default:
		return '`'
	}
	if pos < 0 || pos > len(source) {
		return '`'
	}

	start := bytes.LastIndexByte(source[:pos], '\n') + 1
	line := bytes.TrimLeft(source[start:pos], " \t>")
	if len(line) == 0 {
		return '`'
	}
	return line[0]
}
