package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrInvalidExtension   = errors.New("file must have .ipynb extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrOutputFileMultiple = errors.New("output file given for several notebooks")
	ErrOutputConflict     = errors.New("several notebooks map to the same worksheet")
)

// checkpointDir holds Jupyter autosaves, which are never converted.
const checkpointDir = ".ipynb_checkpoints"

// FileToConvert represents a single file to process. Err is set for an
// input that cannot be converted; it is reported without stopping the batch.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	Err        error
}

// discoverFiles finds all notebooks to convert under the given inputs.
// Files reached twice are converted once. Unreadable inputs come back as
// entries with Err set. Only output layout problems fail the whole call.
func discoverFiles(inputPaths []string, outputDir string) ([]FileToConvert, error) {
	var files []FileToConvert
	seen := make(map[string]bool)
	outputs := make(map[string]string)
	convertible := 0

	for _, input := range inputPaths {
		for _, f := range discoverInput(input, outputDir) {
			if seen[f.InputPath] {
				continue
			}
			seen[f.InputPath] = true
			files = append(files, f)

			if f.Err != nil {
				continue
			}
			convertible++
			out := filepath.Clean(f.OutputPath)
			if prev, ok := outputs[out]; ok {
				return nil, fmt.Errorf("%w: %s and %s both write %s", ErrOutputConflict, prev, f.InputPath, out)
			}
			outputs[out] = f.InputPath
		}
	}

	if convertible > 1 && isOutputFile(outputDir) {
		return nil, fmt.Errorf("%w: %s", ErrOutputFileMultiple, outputDir)
	}
	return files, nil
}

// discoverInput lists the notebooks for one file or directory argument.
func discoverInput(inputPath, outputDir string) []FileToConvert {
	info, err := os.Stat(inputPath)
	if err != nil {
		return []FileToConvert{{InputPath: filepath.Clean(inputPath), Err: err}}
	}

	if !info.IsDir() {
		if err := validateNotebookExtension(inputPath); err != nil {
			return []FileToConvert{{InputPath: filepath.Clean(inputPath), Err: err}}
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: filepath.Clean(inputPath), OutputPath: outPath}}
	}

	// The callback records errors instead of returning them, so WalkDir cannot fail.
	var files []FileToConvert
	_ = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			files = append(files, FileToConvert{
				InputPath: filepath.Clean(path),
				Err:       fmt.Errorf("scanning %s: %w", path, err),
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == checkpointDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.HasExtension(path, ipynb2sagews.SourceExt) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: filepath.Clean(path), OutputPath: outPath})
		return nil
	})

	return files
}

// resolveOutputPath determines the worksheet path for a notebook.
// Without outputDir the worksheet sits next to the notebook; with a directory
// input the layout below baseInputDir is mirrored under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext) + ipynb2sagews.DestinationExt

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	if isOutputFile(outputDir) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base)
		}
	}

	return filepath.Join(outputDir, base)
}

// isOutputFile reports whether --output names a worksheet rather than a directory.
func isOutputFile(output string) bool {
	return fileutil.HasExtension(output, ipynb2sagews.DestinationExt)
}

// validateNotebookExtension checks that the file has a .ipynb extension.
func validateNotebookExtension(path string) error {
	if !fileutil.HasExtension(path, ipynb2sagews.SourceExt) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > ipynb2sagews.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, ipynb2sagews.MaxPoolSize)
	}
	return nil
}
