package nb2md

import (
	"errors"

	"github.com/alnah/go-nb2md/internal/mermaid"
	"github.com/alnah/go-nb2md/internal/notebook"
	"github.com/alnah/go-nb2md/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrNilNotebook = errors.New("notebook cannot be nil")
	ErrInternal    = errors.New("internal error")

	// Front matter errors.
	ErrFrontMatterParse = errors.New("failed to parse front matter")

	// Destination errors.
	ErrNotNotebookPath = errors.New("source is not a .ipynb file")
	ErrWriteOutput     = errors.New("failed to write output")
)

// Errors from internal stages, re-exported so callers can match them with
// errors.Is without importing internal packages.
var (
	ErrDecode           = notebook.ErrDecode
	ErrReadNotebook     = notebook.ErrReadNotebook
	ErrExport           = pipeline.ErrExport
	ErrRasterize        = mermaid.ErrRasterize
	ErrRendererNotFound = mermaid.ErrRendererNotFound
)
