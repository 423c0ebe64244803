package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds flags that turn off optional output renderings.
type renderFlags struct {
	noImages          bool
	noMarkdownOutputs bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	output    string
	workers   int
	overwrite bool
	kernel    string
	render    renderFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors and warnings")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.noImages, "no-images", false, "drop image outputs instead of embedding them")
	fs.BoolVar(&f.noMarkdownOutputs, "no-markdown-outputs", false, "drop text/markdown outputs instead of rendering them")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Parse errors and usage are written to w.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	fs, f := newConvertFlagSet(w)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// newConvertFlagSet registers every convert flag. Parsing and the completion
// scripts share it, so both always see the same flags.
func newConvertFlagSet(w io.Writer) (*flag.FlagSet, *convertFlags) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(w)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output directory, or .sagews file for a single notebook")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.overwrite, "overwrite", false, "replace existing worksheets")
	fs.StringVarP(&f.kernel, "kernel", "k", "", "kernel for notebooks without a kernelspec")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)

	fs.Usage = func() { printConvertUsage(w) }

	return fs, f
}
