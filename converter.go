package ipynb2sagews

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alnah/go-ipynb2sagews/internal/nbformat"
	"github.com/alnah/go-ipynb2sagews/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownRenderer = (*pipeline.GoldmarkRenderer)(nil)
	_ error                     = Warning{}
)

// filePermissions is rw-r--r--: worksheets are meant to be readable.
const filePermissions = 0o644

// Converter turns Jupyter notebooks into Sage worksheets.
// A Converter keeps no per-document state and may be shared between goroutines.
type Converter struct {
	cfg        converterConfig
	classifier *pipeline.Classifier
}

// NewConverter creates a Converter with default configuration: no overwrite,
// DefaultKernel for notebooks without a kernelspec, and only text/html,
// text/latex and text/plain rich outputs.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg: converterConfig{defaultKernel: DefaultKernel},
	}

	for _, opt := range opts {
		opt(c)
	}

	clOpts := []pipeline.ClassifierOption{pipeline.WithImages(c.cfg.images)}
	if c.cfg.markdownOutputs {
		clOpts = append(clOpts, pipeline.WithMarkdownRenderer(pipeline.NewGoldmarkRenderer()))
	}
	c.classifier = pipeline.NewClassifier(clOpts...)

	return c
}

// Convert reads a notebook from r and streams the worksheet to w.
// Nothing is written to w when the notebook cannot be decoded.
func (c *Converter) Convert(ctx context.Context, r io.Reader, w io.Writer) (*Stats, error) {
	d := c.newDriver()
	if err := d.load(r); err != nil {
		return nil, err
	}
	if err := d.run(ctx, w); err != nil {
		return &d.stats, err
	}
	return &d.stats, nil
}

// ConvertFile converts the notebook at src into the worksheet at dst.
// An empty dst means OutputPath(src). The destination is only created once
// the notebook has been decoded; an existing destination is left untouched
// unless overwrite is enabled. A destination that fails mid-stream is removed.
func (c *Converter) ConvertFile(ctx context.Context, src, dst string) (stats *Stats, err error) {
	if dst == "" {
		dst = OutputPath(src)
	}

	d := c.newDriver()
	d.source = src
	if err := d.loadFile(src); err != nil {
		return nil, err
	}

	out, err := c.createDestination(dst)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing worksheet: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if err := d.run(ctx, out); err != nil {
		return &d.stats, err
	}
	return &d.stats, nil
}

// createDestination opens dst for writing. Without overwrite the file must not
// exist yet; O_EXCL makes the check and the creation a single step.
func (c *Converter) createDestination(dst string) (*os.File, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if c.cfg.overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(dst, flags, filePermissions) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, dst)
		}
		return nil, fmt.Errorf("creating worksheet: %w", err)
	}
	return f, nil
}

// OutputPath returns src with its extension replaced by .sagews.
func OutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + DestinationExt
}

// ---------------------------------------------------------------------------
// Driver
// ---------------------------------------------------------------------------

// driverState tracks one conversion. Transitions are strictly linear.
type driverState int

const (
	stateUnopened driverState = iota
	stateLoaded
	stateHeadered
	stateStreaming
	stateClosed
)

func (s driverState) String() string {
	switch s {
	case stateUnopened:
		return "unopened"
	case stateLoaded:
		return "loaded"
	case stateHeadered:
		return "headered"
	case stateStreaming:
		return "streaming"
	case stateClosed:
		return "closed"
	default:
		return "state(" + strconv.Itoa(int(s)) + ")"
	}
}

// driver carries the per-document state of a conversion.
type driver struct {
	conv   *Converter
	source string
	state  driverState
	nb     *nbformat.Notebook
	out    *bufio.Writer
	blocks *pipeline.BlockBuilder
	stats  Stats
}

func (c *Converter) newDriver() *driver {
	return &driver{
		conv:   c,
		blocks: pipeline.NewBlockBuilder(c.cfg.newID),
	}
}

// advance moves to next, which must directly follow the current state.
func (d *driver) advance(next driverState) {
	if next != d.state+1 {
		panic(fmt.Sprintf("ipynb2sagews: invalid transition %s -> %s", d.state, next))
	}
	d.state = next
}

// loadFile opens src and loads it.
func (d *driver) loadFile(src string) error {
	f, err := os.Open(src) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("opening notebook: %w", err)
	}
	defer f.Close()

	return d.load(f)
}

// load decodes the notebook, upgrading older formats to version 4.
func (d *driver) load(r io.Reader) error {
	nb, err := nbformat.Read(r)
	if err != nil {
		if errors.Is(err, nbformat.ErrMalformed) ||
			errors.Is(err, nbformat.ErrUnsupportedVersion) ||
			errors.Is(err, nbformat.ErrInputTooLarge) {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		return err
	}

	d.nb = nb
	d.stats.Cells = len(nb.Cells)
	d.advance(stateLoaded)
	return nil
}

// run writes the header and every cell to w, then flushes.
// Recovers from internal panics, including ones raised by the warning
// handler, to prevent crashes from propagating to callers.
func (d *driver) run(ctx context.Context, w io.Writer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	d.out = bufio.NewWriter(w)

	if err := d.writeHeader(); err != nil {
		return err
	}
	if err := d.streamCells(ctx); err != nil {
		return err
	}
	if err := d.out.Flush(); err != nil {
		return fmt.Errorf("writing worksheet: %w", err)
	}
	d.advance(stateClosed)
	return nil
}

// writeHeader emits the block that starts the notebook's kernel.
func (d *driver) writeHeader() error {
	kernel := d.nb.KernelName()
	if kernel == "" {
		kernel = d.conv.cfg.defaultKernel
		d.warn(Warning{
			Err:    fmt.Errorf("%w: using %q", ErrMissingKernel, kernel),
			Cell:   -1,
			Output: -1,
		})
	}
	d.stats.Kernel = kernel

	if err := d.emit(pipeline.Block{
		Input: headerInput(kernel),
		Kind:  pipeline.KindStdout,
		Modes: pipeline.ModeAuto + pipeline.ModeHideInput,
	}); err != nil {
		return err
	}
	d.advance(stateHeadered)
	return nil
}

// headerInput is the worksheet code that starts kernel and makes it the
// default mode of the worksheet.
func headerInput(kernel string) string {
	return strings.Join([]string{
		"%auto",
		"# This cell runs when the worksheet opens; run it manually if it did not.",
		"# It starts the Jupyter kernel below and makes it the default mode of this worksheet.",
		"jupyter_kernel = jupyter(" + strconv.Quote(kernel) + `)  # run "jupyter?" for more information.`,
		"%default_mode jupyter_kernel",
	}, "\n")
}

// streamCells writes one block per cell, in order. The context is checked
// between cells.
func (d *driver) streamCells(ctx context.Context) error {
	d.advance(stateStreaming)

	for i := range d.nb.Cells {
		if err := ctx.Err(); err != nil {
			return err
		}

		blk, ok := d.resolveCell(i)
		if !ok {
			continue
		}
		if err := d.emit(blk); err != nil {
			return err
		}
	}
	return nil
}

// resolveCell dispatches on the cell type and returns the block to write.
// It reports false when the cell is skipped or empty.
func (d *driver) resolveCell(i int) (pipeline.Block, bool) {
	cell := &d.nb.Cells[i]

	var res pipeline.Resolved
	switch cell.CellType {
	case nbformat.CellMarkdown:
		res.Markdown = cell.Source.String()

	case nbformat.CellCode:
		var skipped []pipeline.SkippedOutput
		res, skipped = d.conv.classifier.Classify(cell.Outputs)
		res.Input = cell.Source.String()
		for _, s := range skipped {
			d.stats.SkippedOutputs++
			d.warn(Warning{
				Err:    fmt.Errorf("%w: %q", ErrUnrecognizedOutputType, s.Type),
				Cell:   i,
				Output: s.Index,
				Raw:    s.Raw,
			})
		}

	case nbformat.CellRaw:
		res.Input = cell.Source.String()

	default:
		d.stats.SkippedCells++
		d.warn(Warning{
			Err:    fmt.Errorf("%w: %q", ErrUnrecognizedCellType, cell.CellType),
			Cell:   i,
			Output: -1,
			Raw:    cell.Raw,
		})
		return pipeline.Block{}, false
	}

	blk, ok := res.Resolve()
	if !ok {
		d.stats.EmptyCells++
	}
	return blk, ok
}

// emit serializes blk and appends it to the destination.
func (d *driver) emit(blk pipeline.Block) error {
	text := d.blocks.Build(blk)
	if text == "" {
		return nil
	}
	if _, err := d.out.WriteString(text); err != nil {
		return fmt.Errorf("writing worksheet: %w", err)
	}
	d.stats.Blocks++
	return nil
}

func (d *driver) warn(w Warning) {
	w.Source = d.source
	d.stats.Warnings++
	if d.conv.cfg.onWarning != nil {
		d.conv.cfg.onWarning(w)
	}
}
