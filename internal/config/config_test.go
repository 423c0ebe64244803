package config

// Notes:
// - LoadConfig tests that resolve config names change the working directory
//   or the user config directory, so they do not run in parallel.
// - The user config directory is redirected through HOME and XDG_CONFIG_HOME
//   so tests never touch the real one.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

// writeConfig writes content to name inside dir and returns the path.
func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// chdir switches to dir for the rest of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
}

// ---------------------------------------------------------------------------
// TestDefaultConfig
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Input.DefaultDir != "" {
		t.Errorf("Input.DefaultDir = %q, want empty", cfg.Input.DefaultDir)
	}
	if cfg.Output.DefaultDir != "" {
		t.Errorf("Output.DefaultDir = %q, want empty", cfg.Output.DefaultDir)
	}
	if cfg.Output.Overwrite {
		t.Error("Output.Overwrite = true, want false")
	}
	if cfg.Kernel.Default != "" {
		t.Errorf("Kernel.Default = %q, want empty", cfg.Kernel.Default)
	}
	if !cfg.Render.ImagesEnabled() {
		t.Error("Render.ImagesEnabled() = false, want true")
	}
	if !cfg.Render.MarkdownOutputsEnabled() {
		t.Error("Render.MarkdownOutputsEnabled() = false, want true")
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestRenderConfig
// ---------------------------------------------------------------------------

func TestRenderConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		render       RenderConfig
		wantImages   bool
		wantMarkdown bool
	}{
		{"unset means enabled", RenderConfig{}, true, true},
		{"explicit true", RenderConfig{Images: boolPtr(true), MarkdownOutputs: boolPtr(true)}, true, true},
		{"explicit false", RenderConfig{Images: boolPtr(false), MarkdownOutputs: boolPtr(false)}, false, false},
		{"mixed", RenderConfig{Images: boolPtr(false)}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.render.ImagesEnabled(); got != tt.wantImages {
				t.Errorf("ImagesEnabled() = %v, want %v", got, tt.wantImages)
			}
			if got := tt.render.MarkdownOutputsEnabled(); got != tt.wantMarkdown {
				t.Errorf("MarkdownOutputsEnabled() = %v, want %v", got, tt.wantMarkdown)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateFieldLength
// ---------------------------------------------------------------------------

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     string
		maxLength int
		wantErr   bool
	}{
		{"empty value is valid", "", 10, false},
		{"value at limit is valid", "1234567890", 10, false},
		{"value under limit is valid", "12345", 10, false},
		{"value over limit is invalid", "12345678901", 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateFieldLength("test", tt.value, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFieldLength() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrFieldTooLong) {
				t.Errorf("error = %v, want ErrFieldTooLong", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid full config",
			cfg: Config{
				Input:   InputConfig{DefaultDir: "notebooks"},
				Output:  OutputConfig{DefaultDir: "worksheets", Overwrite: true},
				Kernel:  KernelConfig{Default: "sagemath-9.8"},
				Workers: 4,
			},
		},
		{
			name:    "input dir too long",
			cfg:     Config{Input: InputConfig{DefaultDir: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "output dir too long",
			cfg:     Config{Output: OutputConfig{DefaultDir: strings.Repeat("a", MaxPathLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "kernel too long",
			cfg:     Config{Kernel: KernelConfig{Default: strings.Repeat("k", MaxKernelLength+1)}},
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "kernel with quote",
			cfg:     Config{Kernel: KernelConfig{Default: `py"3`}},
			wantErr: ErrInvalidKernel,
		},
		{
			name:    "kernel with space",
			cfg:     Config{Kernel: KernelConfig{Default: "python 3"}},
			wantErr: ErrInvalidKernel,
		},
		{
			name:    "negative workers",
			cfg:     Config{Workers: -1},
			wantErr: ErrInvalidWorkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateKernelName
// ---------------------------------------------------------------------------

func TestValidateKernelName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		kernel  string
		wantErr error
	}{
		{"python3", "python3", nil},
		{"ir", "ir", nil},
		{"dotted and dashed", "sagemath-9.8", nil},
		{"underscore", "julia_1", nil},
		{"empty", "", ErrInvalidKernel},
		{"leading dash", "-python", ErrInvalidKernel},
		{"parenthesis", "python3)", ErrInvalidKernel},
		{"too long", strings.Repeat("k", MaxKernelLength+1), ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateKernelName(tt.kernel)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateKernelName(%q) error = %v, want nil", tt.kernel, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateKernelName(%q) error = %v, want %v", tt.kernel, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads full config", func(t *testing.T) {
		content := `input:
  defaultDir: "/path/to/notebooks"
output:
  defaultDir: "/path/to/worksheets"
  overwrite: true
kernel:
  default: "ir"
render:
  images: false
  markdownOutputs: true
workers: 3
`
		path := writeConfig(t, t.TempDir(), "test.yaml", content)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Input.DefaultDir != "/path/to/notebooks" {
			t.Errorf("Input.DefaultDir = %q, want %q", cfg.Input.DefaultDir, "/path/to/notebooks")
		}
		if cfg.Output.DefaultDir != "/path/to/worksheets" {
			t.Errorf("Output.DefaultDir = %q, want %q", cfg.Output.DefaultDir, "/path/to/worksheets")
		}
		if !cfg.Output.Overwrite {
			t.Error("Output.Overwrite = false, want true")
		}
		if cfg.Kernel.Default != "ir" {
			t.Errorf("Kernel.Default = %q, want %q", cfg.Kernel.Default, "ir")
		}
		if cfg.Render.ImagesEnabled() {
			t.Error("Render.ImagesEnabled() = true, want false")
		}
		if !cfg.Render.MarkdownOutputsEnabled() {
			t.Error("Render.MarkdownOutputsEnabled() = false, want true")
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
	})

	t.Run("omitted render section keeps renderings enabled", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "test.yaml", "kernel:\n  default: python3\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Render.ImagesEnabled() || !cfg.Render.MarkdownOutputsEnabled() {
			t.Errorf("Render = %+v, want both enabled", cfg.Render)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "invalid.yaml", "kernel: [unclosed")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "unknown.yaml", "workers: 2\nstyle: \"default\"\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid kernel returns ErrInvalidKernel", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "kernel.yaml", "kernel:\n  default: \"a b\"\n")

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidKernel) {
			t.Errorf("error = %v, want ErrInvalidKernel", err)
		}
	})

	t.Run("field too long returns ErrFieldTooLong", func(t *testing.T) {
		content := "output:\n  defaultDir: \"" + strings.Repeat("d", MaxPathLength+1) + "\"\n"
		path := writeConfig(t, t.TempDir(), "toolong.yaml", content)

		_, err := LoadConfig(path)
		if !errors.Is(err, ErrFieldTooLong) {
			t.Errorf("error = %v, want ErrFieldTooLong", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("root can read any file")
		}
		path := writeConfig(t, t.TempDir(), "unreadable.yaml", "workers: 1\n")
		if err := os.Chmod(path, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(path, 0600)

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Error("error should not be ErrConfigNotFound for permission error")
		}
	})

	t.Run("config name resolves yaml in current directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "kernel:\n  default: fromname\n")
		chdir(t, dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Kernel.Default != "fromname" {
			t.Errorf("Kernel.Default = %q, want %q", cfg.Kernel.Default, "fromname")
		}
	})

	t.Run("config name resolves yml when yaml not found", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yml", "kernel:\n  default: fromyml\n")
		chdir(t, dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Kernel.Default != "fromyml" {
			t.Errorf("Kernel.Default = %q, want %q", cfg.Kernel.Default, "fromyml")
		}
	})

	t.Run("config name prefers yaml over yml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "myconfig.yaml", "kernel:\n  default: yaml\n")
		writeConfig(t, dir, "myconfig.yml", "kernel:\n  default: yml\n")
		chdir(t, dir)

		cfg, err := LoadConfig("myconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Kernel.Default != "yaml" {
			t.Errorf("Kernel.Default = %q, want %q (should prefer .yaml)", cfg.Kernel.Default, "yaml")
		}
	})

	t.Run("config name resolves from user config directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
		t.Setenv("AppData", filepath.Join(home, "AppData"))

		userConfigDir, err := os.UserConfigDir()
		if err != nil {
			t.Skip("cannot get user config dir")
		}
		appConfigDir := filepath.Join(userConfigDir, DirName)
		if err := os.MkdirAll(appConfigDir, 0755); err != nil {
			t.Fatalf("setup mkdir: %v", err)
		}
		writeConfig(t, appConfigDir, "testconfig.yaml", "kernel:\n  default: userdir\n")

		// Change to empty dir so local file isn't found
		chdir(t, t.TempDir())

		cfg, err := LoadConfig("testconfig")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Kernel.Default != "userdir" {
			t.Errorf("Kernel.Default = %q, want %q", cfg.Kernel.Default, "userdir")
		}
	})

	t.Run("config name not found returns ErrConfigNotFound", func(t *testing.T) {
		chdir(t, t.TempDir())

		_, err := LoadConfig("nonexistent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
		if err != nil && !strings.Contains(err.Error(), "nonexistent.yml") {
			t.Errorf("error = %q, want tried paths listed", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestSearchPaths
// ---------------------------------------------------------------------------

func TestSearchPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("AppData", filepath.Join(home, "AppData"))

	paths := SearchPaths("work")
	if len(paths) != 4 {
		t.Fatalf("SearchPaths() = %v, want 4 paths", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("local paths = %v, want [work.yaml work.yml]", paths[:2])
	}
	for _, p := range paths[2:] {
		if filepath.Base(filepath.Dir(p)) != DirName {
			t.Errorf("user path %q not under %s", p, DirName)
		}
	}
	if !strings.HasSuffix(paths[2], "work.yaml") {
		t.Errorf("paths[2] = %q, want .yaml before .yml", paths[2])
	}
}
