package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/config"
	"github.com/alnah/go-ipynb2sagews/internal/hints"
)

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	// Load configuration (flag > env > base)
	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath, env.Config)
	if err != nil {
		return err
	}

	// Env fills what the file leaves empty, then CLI flags win
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalidKernel) {
			return fmt.Errorf("%w%s", err, hints.ForInvalidKernel())
		}
		return err
	}
	if err := validateWorkers(cfg.Workers); err != nil {
		return err
	}

	// Resolve inputs and destinations
	inputPaths, err := resolveInputPaths(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	files, err := discoverFiles(inputPaths, outputDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no %s files found in %s", ErrNoInput, ipynb2sagews.SourceExt, strings.Join(inputPaths, ", "))
	}

	// Convert files
	warnings := newWarningCollector()
	poolSize := ipynb2sagews.ResolvePoolSize(cfg.Workers)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := &poolAdapter{pool: ipynb2sagews.NewConverterPool(poolSize, converterOptions(cfg, warnings.handle)...)}

	results := convertBatch(ctx, pool, files, warnings, env.Now)

	// Print results
	summary := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	return resultError(results, summary)
}

// loadConfig returns the configuration named by the flag or, failing that, the
// environment. Without either, a copy of base is returned.
func loadConfig(flagName, envName string, base *config.Config) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}

	if name == "" {
		cfg := config.DefaultConfig()
		if base != nil {
			*cfg = *base
		}
		return cfg, nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.overwrite {
		cfg.Output.Overwrite = true
	}
	if flags.kernel != "" {
		cfg.Kernel.Default = strings.TrimSpace(flags.kernel)
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}

	disabled := false
	if flags.render.noImages {
		cfg.Render.Images = &disabled
	}
	if flags.render.noMarkdownOutputs {
		cfg.Render.MarkdownOutputs = &disabled
	}
}

// converterOptions builds the library options for a validated config.
func converterOptions(cfg *config.Config, onWarning func(ipynb2sagews.Warning)) []ipynb2sagews.Option {
	opts := []ipynb2sagews.Option{
		ipynb2sagews.WithOverwrite(cfg.Output.Overwrite),
		ipynb2sagews.WithImages(cfg.Render.ImagesEnabled()),
		ipynb2sagews.WithMarkdownOutputs(cfg.Render.MarkdownOutputsEnabled()),
		ipynb2sagews.WithWarningHandler(onWarning),
	}
	if cfg.Kernel.Default != "" {
		opts = append(opts, ipynb2sagews.WithDefaultKernel(cfg.Kernel.Default))
	}
	return opts
}

// resolveInputPaths determines the input paths from args or config.
func resolveInputPaths(args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if cfg.Input.DefaultDir != "" {
		return []string{cfg.Input.DefaultDir}, nil
	}
	return nil, ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
