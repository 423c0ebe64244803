package main

import (
	"errors"
	"os"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/config"
	"github.com/alnah/go-ipynb2sagews/internal/fileutil"
)

// Exit codes for the ipynb2sagews CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitFormat  = 5 // Notebook cannot be decoded
	ExitSkipped = 6 // Existing worksheet left untouched
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// A batch error matches every failure it holds; the first class listed wins.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Notebook format errors (exit 5)
	if errors.Is(err, ipynb2sagews.ErrFormat) {
		return ExitFormat
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidKernel) ||
		errors.Is(err, config.ErrInvalidWorkers) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrOutputFileMultiple) ||
		errors.Is(err, ErrOutputConflict) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrOutputDirectory) ||
		errors.Is(err, fileutil.ErrNotDirectory) {
		return ExitIO
	}

	// Destination left untouched (exit 6)
	if errors.Is(err, ipynb2sagews.ErrAlreadyExists) {
		return ExitSkipped
	}

	return ExitGeneral
}
