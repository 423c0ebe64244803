package hints

import (
	"strings"
	"testing"
)

func TestForAlreadyExists(t *testing.T) {
	t.Parallel()

	hint := ForAlreadyExists()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "--overwrite") {
		t.Error("expected --overwrite flag mention")
	}
}

func TestForFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name               string
		unsupportedVersion bool
		contains           string
	}{
		{"malformed notebook", false, "Jupyter notebook"},
		{"unsupported version", true, "nbformat 3 and 4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForFormat(tt.unsupportedVersion)
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
		excludes string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "suggests user config path",
			paths:    []string{"foo.yaml", "/home/u/.config/go-ipynb2sagews/foo.yaml"},
			contains: "create /home/u/.config/go-ipynb2sagews/foo.yaml",
		},
		{
			name:     "local paths are not suggested",
			paths:    []string{"foo.yaml", "foo.yml"},
			contains: "--config",
			excludes: "create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)

			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
			if tt.excludes != "" && strings.Contains(hint, tt.excludes) {
				t.Errorf("expected hint without %q, got %q", tt.excludes, hint)
			}
		})
	}
}

func TestForOutputDirectory(t *testing.T) {
	t.Parallel()

	hint := ForOutputDirectory()

	if !strings.Contains(hint, "parent directory") {
		t.Error("expected parent directory mention")
	}
}

func TestForMissingKernel(t *testing.T) {
	t.Parallel()

	hint := ForMissingKernel()

	for _, want := range []string{"--kernel", "IPYNB2SAGEWS_KERNEL", "; "} {
		if !strings.Contains(hint, want) {
			t.Errorf("expected hint to contain %q, got %q", want, hint)
		}
	}
}

func TestFormatHints_Empty(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	// All hints should start with newline, spaces, and "hint:"
	hints := []string{
		ForAlreadyExists(),
		ForFormat(false),
		ForFormat(true),
		ForConfigNotFound(nil),
		ForOutputDirectory(),
		ForMissingKernel(),
		ForInvalidKernel(),
	}

	for _, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("hint format inconsistent: %q", h)
		}
	}
}
