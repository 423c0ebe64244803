// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when a path expected to be a directory is a file.
var ErrNotDirectory = errors.New("path exists and is not a directory")

// dirPermissions is rwxr-xr-x for created output directories.
const dirPermissions = 0o755

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "work" -> false (name)
//   - "./work.yaml" -> true (relative path)
//   - "/etc/ipynb2sagews/work.yaml" -> true (absolute)
//   - "C:\config\work.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// HasExtension reports whether path ends with ext, ignoring case.
// ext includes the leading dot.
func HasExtension(path, ext string) bool {
	return ext != "" && strings.EqualFold(filepath.Ext(path), ext)
}

// EnsureDir creates dir and its parents if they do not exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return nil
}
