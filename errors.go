package ipynb2sagews

import (
	"errors"

	"github.com/alnah/go-ipynb2sagews/internal/nbformat"
)

// Sentinel errors for library operations.
var (
	// ErrFormat indicates the source cannot be parsed or upgraded to nbformat 4.
	ErrFormat = errors.New("invalid notebook format")

	// ErrAlreadyExists indicates the destination exists and overwrite is off.
	ErrAlreadyExists = errors.New("destination already exists")

	// ErrUnsupportedVersion is wrapped into ErrFormat for nbformat majors other than 3 and 4.
	ErrUnsupportedVersion = nbformat.ErrUnsupportedVersion
)

// Warning errors, delivered through the warning handler and never returned.
var (
	ErrUnrecognizedCellType   = errors.New("unrecognized cell type")
	ErrUnrecognizedOutputType = errors.New("unrecognized output type")
	ErrMissingKernel          = errors.New("notebook has no kernelspec")
)
