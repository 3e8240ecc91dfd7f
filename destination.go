package nb2md

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Default site layout.
const (
	DefaultInputDir  = "_notebooks"
	DefaultOutputDir = "_posts"
	DefaultSuffix    = "_IPYNB_2_.md"
	NotebookExt      = ".ipynb"
)

// Destination computes where a converted notebook is written: the path
// relative to InputRoot, with the extension replaced by Suffix, under
// OutputRoot.
type Destination struct {
	InputRoot  string
	OutputRoot string
	Suffix     string
}

// DefaultDestination returns the site layout: _notebooks to _posts.
func DefaultDestination() Destination {
	return Destination{
		InputRoot:  DefaultInputDir,
		OutputRoot: DefaultOutputDir,
		Suffix:     DefaultSuffix,
	}
}

// PathFor returns the output path for src.
// Notebooks outside InputRoot are placed directly under OutputRoot.
func (d Destination) PathFor(src string) (string, error) {
	if !strings.EqualFold(filepath.Ext(src), NotebookExt) {
		return "", fmt.Errorf("%w: %s", ErrNotNotebookPath, src)
	}

	rel, err := filepath.Rel(d.InputRoot, src)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(src)
	}

	suffix := d.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	rel = rel[:len(rel)-len(NotebookExt)] + suffix
	return filepath.Join(d.OutputRoot, rel), nil
}
