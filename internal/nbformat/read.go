package nbformat

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxInputSize limits notebook input to prevent memory exhaustion (default 256MB).
// Notebooks embed images as base64, so the limit is generous.
var MaxInputSize int64 = 256 << 20

// Sentinel errors for notebook decoding.
var (
	ErrMalformed          = errors.New("nbformat: malformed notebook")
	ErrUnsupportedVersion = errors.New("nbformat: unsupported notebook version")
	ErrInputTooLarge      = errors.New("nbformat: input exceeds maximum size")
)

// versionProbe reads just enough of a document to pick a decoder.
type versionProbe struct {
	NBFormat      *int            `json:"nbformat"`
	NBFormatMinor int             `json:"nbformat_minor"`
	Cells         json.RawMessage `json:"cells"`
	Worksheets    json.RawMessage `json:"worksheets"`
}

// Read decodes a notebook of any supported version into the version 4 model.
func Read(r io.Reader) (*Notebook, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading notebook: %w", err)
	}
	if int64(len(data)) > MaxInputSize {
		return nil, fmt.Errorf("%w: max %d bytes", ErrInputTooLarge, MaxInputSize)
	}
	return Parse(data)
}

// Parse decodes notebook bytes of any supported version into the version 4 model.
func Parse(data []byte) (*Notebook, error) {
	var probe versionProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if probe.NBFormat == nil {
		return nil, fmt.Errorf("%w: missing nbformat field", ErrMalformed)
	}

	switch *probe.NBFormat {
	case 4:
		if len(probe.Cells) == 0 {
			return nil, fmt.Errorf("%w: missing cells", ErrMalformed)
		}
		var nb Notebook
		if err := json.Unmarshal(data, &nb); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return &nb, nil
	case 3:
		if len(probe.Worksheets) == 0 {
			return nil, fmt.Errorf("%w: missing worksheets", ErrMalformed)
		}
		var v3 v3Notebook
		if err := json.Unmarshal(data, &v3); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return upgradeV3(&v3)
	default:
		return nil, fmt.Errorf("%w: %d.%d (supported: 3, 4)", ErrUnsupportedVersion, *probe.NBFormat, probe.NBFormatMinor)
	}
}
