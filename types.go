package ipynb2sagews

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultKernel is used when a notebook carries no kernelspec.
const DefaultKernel = "python3"

// Extensions of source and destination documents.
const (
	SourceExt      = ".ipynb"
	DestinationExt = ".sagews"
)

// Warning describes a recoverable problem met while streaming cells.
// Cell and Output are zero-based indexes; Output is -1 for cell-level warnings
// and Cell is -1 for document-level ones. Source is the notebook path given to
// ConvertFile and is empty for Convert.
type Warning struct {
	Err    error
	Source string
	Cell   int
	Output int
	Raw    json.RawMessage
}

// Error implements error.
func (w Warning) Error() string {
	switch {
	case w.Cell < 0:
		return w.Err.Error()
	case w.Output < 0:
		return fmt.Sprintf("cell %d: %v", w.Cell, w.Err)
	default:
		return fmt.Sprintf("cell %d, output %d: %v", w.Cell, w.Output, w.Err)
	}
}

// Unwrap returns the underlying sentinel.
func (w Warning) Unwrap() error {
	return w.Err
}

// Stats summarizes one conversion.
type Stats struct {
	Cells          int // cells read from the notebook
	Blocks         int // blocks written, header included
	SkippedCells   int // cells with an unrecognized type
	SkippedOutputs int // outputs with an unrecognized type
	EmptyCells     int // cells that produced no block
	Warnings       int
	Kernel         string
}

// String returns a one-line summary.
func (s *Stats) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d cells, %d blocks", s.Cells, s.Blocks)
	if s.SkippedCells > 0 || s.SkippedOutputs > 0 {
		fmt.Fprintf(&sb, ", skipped %d cells and %d outputs", s.SkippedCells, s.SkippedOutputs)
	}
	return sb.String()
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	overwrite       bool
	defaultKernel   string
	images          bool
	markdownOutputs bool
	onWarning       func(Warning)
	newID           func() string
}

// WithOverwrite allows ConvertFile to replace an existing destination.
func WithOverwrite(overwrite bool) Option {
	return func(c *Converter) {
		c.cfg.overwrite = overwrite
	}
}

// WithWarningHandler receives every warning raised during conversion.
// The handler runs on the converting goroutine.
func WithWarningHandler(fn func(Warning)) Option {
	return func(c *Converter) {
		c.cfg.onWarning = fn
	}
}

// WithDefaultKernel sets the kernel named in the header when the notebook has
// no kernelspec. Panics if name is blank (programmer error).
func WithDefaultKernel(name string) Option {
	if strings.TrimSpace(name) == "" {
		panic("ipynb2sagews: WithDefaultKernel name must not be empty")
	}
	return func(c *Converter) {
		c.cfg.defaultKernel = strings.TrimSpace(name)
	}
}

// WithImages embeds image outputs (SVG, PNG, JPEG) when no HTML is present.
func WithImages(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.images = enabled
	}
}

// WithMarkdownOutputs renders text/markdown outputs to HTML when no HTML is present.
func WithMarkdownOutputs(enabled bool) Option {
	return func(c *Converter) {
		c.cfg.markdownOutputs = enabled
	}
}

// WithIDGenerator replaces the random UUID generator used for block ids.
// Ids must be unique within a document.
func WithIDGenerator(fn func() string) Option {
	return func(c *Converter) {
		c.cfg.newID = fn
	}
}
