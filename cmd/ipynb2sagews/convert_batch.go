package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/fileutil"
	"github.com/alnah/go-ipynb2sagews/internal/hints"
)

// ErrOutputDirectory indicates a worksheet directory could not be created.
var ErrOutputDirectory = errors.New("cannot create output directory")

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Stats      *ipynb2sagews.Stats
	Warnings   []ipynb2sagews.Warning
	Err        error
	Duration   time.Duration
}

// Skipped reports whether the destination existed and was left untouched.
func (r ConversionResult) Skipped() bool {
	return errors.Is(r.Err, ipynb2sagews.ErrAlreadyExists)
}

// warningCollector gathers warnings by notebook path. Its handler is shared by
// every converter of a pool.
type warningCollector struct {
	mu       sync.Mutex
	bySource map[string][]ipynb2sagews.Warning
}

func newWarningCollector() *warningCollector {
	return &warningCollector{bySource: make(map[string][]ipynb2sagews.Warning)}
}

func (c *warningCollector) handle(w ipynb2sagews.Warning) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySource[w.Source] = append(c.bySource[w.Source], w)
}

// take returns and forgets the warnings recorded for source.
func (c *warningCollector) take(source string) []ipynb2sagews.Warning {
	c.mu.Lock()
	defer c.mu.Unlock()
	ws := c.bySource[source]
	delete(c.bySource, source)
	return ws
}

// convertBatch processes files concurrently using the converter pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, warnings *warningCollector, now func() time.Time) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], warnings, now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv Converter, f FileToConvert, warnings *warningCollector, now func() time.Time) ConversionResult {
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	if f.Err != nil {
		result.Err = f.Err
		return result
	}

	start := now()

	if err := fileutil.EnsureDir(filepath.Dir(f.OutputPath)); err != nil {
		result.Err = fmt.Errorf("%w: %w", ErrOutputDirectory, err)
		result.Duration = now().Sub(start)
		return result
	}

	result.Stats, result.Err = conv.ConvertFile(ctx, f.InputPath, f.OutputPath)
	if warnings != nil {
		result.Warnings = warnings.take(f.InputPath)
	}
	result.Duration = now().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded, skipped and failed conversions.
type ResultSummary struct {
	Succeeded int
	Skipped   int
	Failed    int
}

// countResults tallies conversions by outcome.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		switch {
		case r.Err == nil:
			summary.Succeeded++
		case r.Skipped():
			summary.Skipped++
		default:
			summary.Failed++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Warnings and failures are always shown; quiet hides the rest.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) ResultSummary {
	summary := countResults(results)

	for _, r := range results {
		for _, w := range r.Warnings {
			fmt.Fprintf(env.Stderr, "WARNING %s: %v%s\n", r.InputPath, w, warningHint(w))
		}

		switch {
		case r.Skipped():
			if !quiet {
				fmt.Fprintf(env.Stderr, "SKIPPED %s: %v\n", r.InputPath, r.Err)
			}
		case r.Err != nil:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, failureHint(r.Err))
		case quiet:
		case verbose:
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath, r.Stats, r.Duration.Round(time.Millisecond))
		default:
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if summary.Skipped > 0 && !quiet {
		fmt.Fprintln(env.Stderr, strings.TrimPrefix(hints.ForAlreadyExists(), "\n"))
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d skipped, %d failed\n", summary.Succeeded, summary.Skipped, summary.Failed)
	}

	return summary
}

// failureHint returns the hint matching a failed conversion, if any.
func failureHint(err error) string {
	switch {
	case errors.Is(err, ipynb2sagews.ErrUnsupportedVersion):
		return hints.ForFormat(true)
	case errors.Is(err, ipynb2sagews.ErrFormat):
		return hints.ForFormat(false)
	case errors.Is(err, ErrOutputDirectory):
		return hints.ForOutputDirectory()
	}
	return ""
}

// warningHint returns the hint matching a warning, if any.
func warningHint(w ipynb2sagews.Warning) string {
	if errors.Is(w, ipynb2sagews.ErrMissingKernel) {
		return hints.ForMissingKernel()
	}
	return ""
}

// batchError reports the failed conversions of a batch.
// It unwraps to every failure so exit codes can inspect their causes.
type batchError struct {
	total int
	errs  []error
}

func (e *batchError) Error() string {
	if e.total == 1 {
		return "conversion failed"
	}
	return fmt.Sprintf("%d of %d conversions failed", len(e.errs), e.total)
}

func (e *batchError) Unwrap() []error {
	return e.errs
}

// resultError turns a batch outcome into the error returned by the command.
// Failures take precedence over skipped destinations.
func resultError(results []ConversionResult, summary ResultSummary) error {
	if summary.Failed > 0 {
		errs := make([]error, 0, summary.Failed)
		for _, r := range results {
			if r.Err != nil && !r.Skipped() {
				errs = append(errs, r.Err)
			}
		}
		return &batchError{total: len(results), errs: errs}
	}

	if summary.Skipped > 0 {
		return fmt.Errorf("%d existing worksheet(s) left untouched: %w", summary.Skipped, ipynb2sagews.ErrAlreadyExists)
	}

	return nil
}
