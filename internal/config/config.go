package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alnah/go-ipynb2sagews/internal/fileutil"
	"github.com/alnah/go-ipynb2sagews/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidKernel   = errors.New("invalid kernel name")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// Field length limits.
const (
	MaxPathLength   = 4096 // PATH_MAX on Linux
	MaxKernelLength = 64   // "python3", "ir", "sagemath-9.8"
)

// DirName is the directory searched under the user config directory.
const DirName = "go-ipynb2sagews"

// kernelNamePattern matches Jupyter kernelspec directory names. The name is
// written into worksheet code, so anything else is rejected.
var kernelNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Config holds all configuration for worksheet generation.
type Config struct {
	Input   InputConfig  `yaml:"input"`
	Output  OutputConfig `yaml:"output"`
	Kernel  KernelConfig `yaml:"kernel"`
	Render  RenderConfig `yaml:"render"`
	Workers int          `yaml:"workers"` // 0 = auto
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = must specify)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = next to source)
	Overwrite  bool   `yaml:"overwrite"`
}

// KernelConfig defines the kernel used when a notebook has no kernelspec.
type KernelConfig struct {
	Default string `yaml:"default"` // empty = python3
}

// RenderConfig toggles optional output renderings. Unset values mean enabled.
type RenderConfig struct {
	Images          *bool `yaml:"images"`
	MarkdownOutputs *bool `yaml:"markdownOutputs"`
}

// ImagesEnabled reports whether image outputs are embedded.
func (r RenderConfig) ImagesEnabled() bool {
	return r.Images == nil || *r.Images
}

// MarkdownOutputsEnabled reports whether text/markdown outputs are rendered.
func (r RenderConfig) MarkdownOutputsEnabled() bool {
	return r.MarkdownOutputs == nil || *r.MarkdownOutputs
}

// Validate checks field values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("input.defaultDir", c.Input.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if c.Kernel.Default != "" {
		if err := ValidateKernelName(c.Kernel.Default); err != nil {
			return fmt.Errorf("kernel.default: %w", err)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidWorkers, c.Workers)
	}
	return nil
}

// ValidateKernelName checks a kernel name before it is written into worksheet code.
func ValidateKernelName(name string) error {
	if err := validateFieldLength("kernel", name, MaxKernelLength); err != nil {
		return err
	}
	if !kernelNamePattern.MatchString(name) {
		return fmt.Errorf("%w: %q (letters, digits, '.', '_' and '-' only)", ErrInvalidKernel, name)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used without a config file:
// no default directories, no overwrite, all renderings enabled.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files tried for a config name, in lookup order:
// <name>.yaml and <name>.yml in the current directory, then the same names
// under <user config dir>/go-ipynb2sagews/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths(name).
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
