package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-ipynb2sagews/internal/config"
)

// envPrefix starts every environment variable read by the CLI.
const envPrefix = "IPYNB2SAGEWS_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // IPYNB2SAGEWS_CONFIG: config file name or path
	InputDir   string // IPYNB2SAGEWS_INPUT_DIR: default input directory
	OutputDir  string // IPYNB2SAGEWS_OUTPUT_DIR: default output directory
	Kernel     string // IPYNB2SAGEWS_KERNEL: kernel for notebooks without kernelspec
	Workers    int    // IPYNB2SAGEWS_WORKERS: parallel workers
	Overwrite  bool   // IPYNB2SAGEWS_OVERWRITE: replace existing worksheets
}

// knownEnvVars lists valid IPYNB2SAGEWS_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"IPYNB2SAGEWS_CONFIG":     true,
	"IPYNB2SAGEWS_INPUT_DIR":  true,
	"IPYNB2SAGEWS_OUTPUT_DIR": true,
	"IPYNB2SAGEWS_KERNEL":     true,
	"IPYNB2SAGEWS_WORKERS":    true,
	"IPYNB2SAGEWS_OVERWRITE":  true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("IPYNB2SAGEWS_CONFIG"),
		InputDir:   os.Getenv("IPYNB2SAGEWS_INPUT_DIR"),
		OutputDir:  os.Getenv("IPYNB2SAGEWS_OUTPUT_DIR"),
		Kernel:     strings.TrimSpace(os.Getenv("IPYNB2SAGEWS_KERNEL")),
	}

	if workers := os.Getenv("IPYNB2SAGEWS_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	if overwrite := os.Getenv("IPYNB2SAGEWS_OVERWRITE"); overwrite != "" {
		if b, err := strconv.ParseBool(overwrite); err == nil {
			cfg.Overwrite = b
		}
	}

	return cfg
}

// warnUnknownEnvVars writes warnings for unrecognized IPYNB2SAGEWS_* variables.
// Helps catch typos like IPYNB2SAGEWS_KERNAL.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values to config.
// Only sets values if the env var is set AND the config value is empty/zero.
// This ensures: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags)
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.InputDir != "" && cfg.Input.DefaultDir == "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" && cfg.Output.DefaultDir == "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.Overwrite && !cfg.Output.Overwrite {
		cfg.Output.Overwrite = true
	}
	if env.Kernel != "" && cfg.Kernel.Default == "" {
		cfg.Kernel.Default = env.Kernel
	}
	if env.Workers > 0 && cfg.Workers == 0 {
		cfg.Workers = env.Workers
	}
}
