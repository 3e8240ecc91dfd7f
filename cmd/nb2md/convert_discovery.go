package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	nb2md "github.com/alnah/go-nb2md"
)

// discoverNotebooks finds every notebook under dir, in lexical order.
// Hidden directories such as .ipynb_checkpoints are skipped.
func discoverNotebooks(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoInput, dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), nb2md.NotebookExt) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	return files, err
}
