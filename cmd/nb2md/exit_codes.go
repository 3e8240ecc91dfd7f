package main

import (
	"errors"
	"os"

	nb2md "github.com/alnah/go-nb2md"
	"github.com/alnah/go-nb2md/internal/config"
)

// Exit codes for the nb2md CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion, or a batch run with per-notebook failures
	ExitGeneral = 1 // Export or unexpected error
	ExitUsage   = 2 // Invalid flags, config, or front matter
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, nb2md.ErrReadNotebook) ||
		errors.Is(err, nb2md.ErrWriteOutput) ||
		errors.Is(err, ErrNotebookNotFound) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, nb2md.ErrFrontMatterParse) ||
		errors.Is(err, nb2md.ErrNotNotebookPath) ||
		errors.Is(err, ErrTooManyArgs) {
		return ExitUsage
	}

	return ExitGeneral
}
