// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"strings"
)

// configDirMarker identifies user config directory paths among searched paths.
const configDirMarker = "go-ipynb2sagews"

// ForAlreadyExists returns a hint for destinations left untouched.
func ForAlreadyExists() string {
	return format("use --overwrite to replace existing worksheets")
}

// ForFormat returns hints for notebooks that could not be decoded.
// unsupportedVersion selects the hint for a valid notebook of an unknown version.
func ForFormat(unsupportedVersion bool) string {
	if unsupportedVersion {
		return format("only nbformat 3 and 4 are supported; re-save the notebook with a recent Jupyter")
	}
	return format("check the file is a Jupyter notebook (JSON with a \"cells\" list)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, configDirMarker) {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForMissingKernel returns hints for notebooks without a kernelspec.
func ForMissingKernel() string {
	return formatHints([]string{
		"set --kernel or IPYNB2SAGEWS_KERNEL to choose the kernel",
		"run 'jupyter kernelspec list' for installed names",
	})
}

// ForInvalidKernel returns hints for rejected kernel names.
func ForInvalidKernel() string {
	return format("run 'jupyter kernelspec list' for installed names")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
