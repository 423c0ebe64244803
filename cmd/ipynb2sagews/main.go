package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Configure GOMAXPROCS with conditional logging before any pool is sized.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	logf := func(string, ...interface{}) {}
	if hasVerboseFlag(os.Args[1:]) {
		logf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	undo, _ := maxprocs.Set(maxprocs.Logger(logf))

	code := runMain(os.Args, DefaultEnv())
	undo()
	os.Exit(code)
}

// runMain dispatches to a command and returns the process exit code.
// A first argument that names a notebook is treated as "convert".
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	if !isCommand(cmd) {
		if !looksLikeNotebook(cmd) && !isFlag(cmd) {
			fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
			printUsage(env.Stderr)
			return ExitUsage
		}
		cmd, rest = "convert", args[1:]
	}

	switch cmd {
	case "version":
		fmt.Fprintf(env.Stdout, "go-ipynb2sagews %s\n", Version)
		return ExitSuccess

	case "help":
		return runHelp(rest, env)

	case "completion":
		if err := runCompletion(rest, env); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	default:
		flags, positional, err := parseConvertFlags(rest, env.Stderr)
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return ExitSuccess
			}
			fmt.Fprintf(env.Stderr, "error: %v\nRun 'ipynb2sagews help convert' for usage.\n", err)
			return ExitUsage
		}

		ctx, stop := notifyContext(context.Background())
		defer stop()

		if err := runConvert(ctx, positional, flags, env); err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess
	}
}

// isCommand reports whether s names a command.
func isCommand(s string) bool {
	switch s {
	case "convert", "version", "help", "completion":
		return true
	}
	return false
}

// looksLikeNotebook reports whether s is a notebook path given without a command.
func looksLikeNotebook(s string) bool {
	return fileutil.HasExtension(s, ipynb2sagews.SourceExt)
}

// isFlag reports whether s is a flag given without a command.
func isFlag(s string) bool {
	return len(s) > 1 && s[0] == '-'
}

// hasVerboseFlag reports whether -v or --verbose appears before "--".
func hasVerboseFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "--":
			return false
		case "-v", "--verbose":
			return true
		}
	}
	return false
}
