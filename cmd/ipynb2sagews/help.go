package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ipynb2sagews <command> [flags] [args]")
	fmt.Fprintln(w, "       ipynb2sagews <notebook.ipynb>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert Jupyter notebooks to Sage worksheets")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'ipynb2sagews help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ipynb2sagews convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert Jupyter notebooks (.ipynb) to Sage worksheets (.sagews).")
	fmt.Fprintln(w, "Each worksheet is written next to its notebook unless --output is set.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Notebook file or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output directory, or .sagews file for one notebook")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --overwrite           Replace existing worksheets")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Conversion:")
	fmt.Fprintln(w, "  -k, --kernel <name>       Kernel for notebooks without a kernelspec (default: python3)")
	fmt.Fprintln(w, "      --no-images           Drop image outputs")
	fmt.Fprintln(w, "      --no-markdown-outputs Drop text/markdown outputs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors and warnings")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  IPYNB2SAGEWS_CONFIG, IPYNB2SAGEWS_INPUT_DIR, IPYNB2SAGEWS_OUTPUT_DIR,")
	fmt.Fprintln(w, "  IPYNB2SAGEWS_KERNEL, IPYNB2SAGEWS_WORKERS, IPYNB2SAGEWS_OVERWRITE")
	fmt.Fprintln(w, "  Flags override environment, environment fills what the config file leaves empty.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 failure, 2 usage or config, 3 I/O, 5 invalid notebook,")
	fmt.Fprintln(w, "  6 existing worksheet left untouched")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: ipynb2sagews version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: ipynb2sagews help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	case "completion":
		printCompletionUsage(env.Stdout)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
