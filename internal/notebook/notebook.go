// Package notebook decodes nbformat 4 notebook documents and inspects code
// cells: language classification, challenge markers and code cleaning.
package notebook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Sentinel errors for notebook decoding.
var (
	ErrDecode            = errors.New("failed to decode notebook")
	ErrUnsupportedFormat = errors.New("unsupported notebook format")
	ErrNoCells           = errors.New("notebook has no cells")
	ErrReadNotebook      = errors.New("failed to read notebook file")
)

// minNBFormat is the first nbformat major version with a flat cell list.
const minNBFormat = 4

// CellType identifies the kind of a cell.
type CellType string

// Cell types defined by nbformat.
const (
	CellCode     CellType = "code"
	CellMarkdown CellType = "markdown"
	CellRaw      CellType = "raw"
)

// Notebook is a decoded notebook document.
type Notebook struct {
	Cells         []*Cell
	Metadata      Metadata
	NBFormat      int
	NBFormatMinor int
}

// Metadata holds the notebook-level fields the exporter reads.
type Metadata struct {
	KernelSpec   *KernelSpec   `json:"kernelspec,omitempty"`
	LanguageInfo *LanguageInfo `json:"language_info,omitempty"`
}

// KernelSpec describes the kernel the notebook was written against.
type KernelSpec struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Language    string `json:"language"`
}

// LanguageInfo describes the kernel language.
type LanguageInfo struct {
	Name          string `json:"name"`
	FileExtension string `json:"file_extension"`
}

// Language returns the kernel language name, or "" when the notebook
// does not record one.
func (m Metadata) Language() string {
	if m.LanguageInfo != nil && m.LanguageInfo.Name != "" {
		return m.LanguageInfo.Name
	}
	if m.KernelSpec != nil {
		return m.KernelSpec.Language
	}
	return ""
}

// Cell is one notebook cell. Cells are owned by their Notebook and mutated
// in place during a conversion.
type Cell struct {
	Type           CellType
	Source         string
	Metadata       map[string]any
	Outputs        []Output
	ExecutionCount *int
	// Attachments maps attachment name to mime type to base64 payload.
	Attachments map[string]map[string]string
}

// IsCode reports whether c is a code cell.
func (c *Cell) IsCode() bool {
	return c != nil && c.Type == CellCode
}

// ClearOutputs drops outputs and the execution count.
func (c *Cell) ClearOutputs() {
	c.Outputs = nil
	c.ExecutionCount = nil
}

// Output is one entry of a code cell's outputs.
type Output struct {
	OutputType     string // stream, display_data, execute_result, error
	Name           string // stream name: stdout, stderr
	Text           string
	Data           map[string]json.RawMessage
	ExecutionCount *int
	Ename          string
	Evalue         string
	Traceback      []string
}

// DataText returns the payload for a mime type as text.
// Multiline strings are joined; other JSON values are returned verbatim.
func (o Output) DataText(mime string) (string, bool) {
	raw, ok := o.Data[mime]
	if !ok {
		return "", false
	}
	var s multiline
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw), true
	}
	return string(s), true
}

// CodeCells returns the code cells in document order.
func (nb *Notebook) CodeCells() []*Cell {
	var cells []*Cell
	for _, c := range nb.Cells {
		if c.IsCode() {
			cells = append(cells, c)
		}
	}
	return cells
}

// ReadFile decodes the notebook stored at path.
func ReadFile(path string) (*Notebook, error) {
	f, err := os.Open(path) // #nosec G304 -- discovered or user-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadNotebook, err)
	}
	defer f.Close()

	nb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Decode reads an nbformat 4 notebook from r.
func Decode(r io.Reader) (*Notebook, error) {
	var raw rawNotebook
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw.NBFormat < minNBFormat {
		return nil, fmt.Errorf("%w: nbformat %d (need %d or later)", ErrUnsupportedFormat, raw.NBFormat, minNBFormat)
	}
	if len(raw.Cells) == 0 {
		return nil, ErrNoCells
	}

	nb := &Notebook{
		Cells:         make([]*Cell, 0, len(raw.Cells)),
		Metadata:      raw.Metadata,
		NBFormat:      raw.NBFormat,
		NBFormatMinor: raw.NBFormatMinor,
	}
	for i, rc := range raw.Cells {
		cell, err := rc.toCell()
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d: %v", ErrDecode, i, err)
		}
		nb.Cells = append(nb.Cells, cell)
	}
	return nb, nil
}

// multiline is the nbformat "multiline string": a JSON string or an array
// of strings that concatenate to the full text.
type multiline string

func (m *multiline) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(b, &parts); err != nil {
		return fmt.Errorf("expected string or array of strings: %w", err)
	}
	*m = multiline(strings.Join(parts, ""))
	return nil
}

type rawNotebook struct {
	Cells         []rawCell `json:"cells"`
	Metadata      Metadata  `json:"metadata"`
	NBFormat      int       `json:"nbformat"`
	NBFormatMinor int       `json:"nbformat_minor"`
}

type rawCell struct {
	CellType       CellType                     `json:"cell_type"`
	Source         multiline                    `json:"source"`
	Metadata       map[string]any               `json:"metadata"`
	Outputs        []rawOutput                  `json:"outputs"`
	ExecutionCount *int                         `json:"execution_count"`
	Attachments    map[string]map[string]string `json:"attachments"`
}

type rawOutput struct {
	OutputType     string                     `json:"output_type"`
	Name           string                     `json:"name"`
	Text           multiline                  `json:"text"`
	Data           map[string]json.RawMessage `json:"data"`
	ExecutionCount *int                       `json:"execution_count"`
	Ename          string                     `json:"ename"`
	Evalue         string                     `json:"evalue"`
	Traceback      []string                   `json:"traceback"`
}

func (rc rawCell) toCell() (*Cell, error) {
	switch rc.CellType {
	case CellCode, CellMarkdown, CellRaw:
	default:
		return nil, fmt.Errorf("unknown cell type %q", rc.CellType)
	}

	cell := &Cell{
		Type:           rc.CellType,
		Source:         string(rc.Source),
		Metadata:       rc.Metadata,
		ExecutionCount: rc.ExecutionCount,
		Attachments:    rc.Attachments,
	}
	if cell.Metadata == nil {
		cell.Metadata = map[string]any{}
	}
	for _, ro := range rc.Outputs {
		cell.Outputs = append(cell.Outputs, Output{
			OutputType:     ro.OutputType,
			Name:           ro.Name,
			Text:           string(ro.Text),
			Data:           ro.Data,
			ExecutionCount: ro.ExecutionCount,
			Ename:          ro.Ename,
			Evalue:         ro.Evalue,
			Traceback:      ro.Traceback,
		})
	}
	return cell, nil
}
