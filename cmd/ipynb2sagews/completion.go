package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has suggested values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values, e.g. shell names
	TakesFiles  bool     // accepts file arguments
	FilePattern string   // glob for file arguments
}

// completionMeta holds completion hints for flags.
// Flag names, types, and descriptions come from the FlagSet.
type completionMeta struct {
	Values   []string // suggested values
	FileGlob string   // file glob pattern
	IsDir    bool     // directory completion
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"kernel": {Values: []string{"python3", "sagemath", "ir", "julia"}},
	"config": {FileGlob: "*.yaml,*.yml"},
	"output": {IsDir: true},
}

// commandNames lists every command, in the order help shows them.
var commandNames = []string{"convert", "version", "help", "completion"}

// shellNames lists the shells accepted by the completion command.
var shellNames = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// extractFlagsFromFlagSet extracts flag definitions from a pflag.FlagSet,
// enriched with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
// Convert flags come from the same FlagSet the parser uses.
func getCommands() []commandDef {
	fs, _ := newConvertFlagSet(io.Discard)

	return []commandDef{
		{
			Name:        "convert",
			Desc:        "Convert Jupyter notebooks to Sage worksheets",
			Flags:       extractFlagsFromFlagSet(fs),
			TakesFiles:  true,
			FilePattern: "*.ipynb",
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commandNames,
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: shellNames,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
// Returns error if shell is unsupported or write fails.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	cmds := getCommands()

	switch shell {
	case ShellBash:
		writeBash(&b, cmds)
	case ShellZsh:
		writeZsh(&b, cmds)
	case ShellFish:
		writeFish(&b, cmds)
	case ShellPowerShell:
		writePowerShell(&b, cmds)
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(shellNames, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// splitGlobs turns "*.yaml,*.yml" into its patterns.
func splitGlobs(glob string) []string {
	return strings.Split(glob, ",")
}

// globSuffixes turns "*.yaml,*.yml" into ".yaml", ".yml".
func globSuffixes(glob string) []string {
	globs := splitGlobs(glob)
	out := make([]string, len(globs))
	for i, g := range globs {
		out[i] = strings.TrimPrefix(g, "*")
	}
	return out
}

// flagSpellings returns "--long" and "-s" when the flag has a shorthand.
func flagSpellings(f flagDef) []string {
	if f.Short == "" {
		return []string{"--" + f.Long}
	}
	return []string{"--" + f.Long, "-" + f.Short}
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

// bashFiles returns a compgen expression listing files that match glob,
// plus directories to descend into.
func bashFiles(glob string) string {
	parts := make([]string, 0, len(splitGlobs(glob))+1)
	for _, g := range splitGlobs(glob) {
		parts = append(parts, fmt.Sprintf("$(compgen -f -X '!%s' -- \"$cur\")", g))
	}
	parts = append(parts, `$(compgen -d -- "$cur")`)
	return strings.Join(parts, " ")
}

func writeBash(b *strings.Builder, cmds []commandDef) {
	var convert commandDef
	var flagWords []string
	for _, c := range cmds {
		if c.Name == "convert" {
			convert = c
		}
	}
	for _, f := range convert.Flags {
		flagWords = append(flagWords, flagSpellings(f)...)
	}

	b.WriteString("# bash completion for ipynb2sagews\n\n")
	b.WriteString("_ipynb2sagews_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convert.Flags {
		pattern := strings.Join(flagSpellings(f), "|")
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n            return ;;\n",
				pattern, strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=( %s )\n            return ;;\n", pattern, bashFiles(f.FileGlob))
		case flagDir:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=( $(compgen -d -- \"$cur\") )\n            return ;;\n", pattern)
		case flagString, flagInt:
			fmt.Fprintf(b, "        %s)\n            return ;;\n", pattern)
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ $COMP_CWORD -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") %s )\n", strings.Join(commandNames, " "), bashFiles(convert.FilePattern))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case \"$cmd\" in\n")
	for _, c := range cmds {
		if c.Name == "convert" {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "            [[ $COMP_CWORD -eq 2 ]] && COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(c.Args, " "))
		}
		b.WriteString("            return ;;\n")
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W %q -- \"$cur\") )\n", strings.Join(flagWords, " "))
	b.WriteString("    else\n")
	fmt.Fprintf(b, "        COMPREPLY=( %s )\n", bashFiles(convert.FilePattern))
	b.WriteString("    fi\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _ipynb2sagews_completions ipynb2sagews\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes text placed inside a single-quoted _arguments word.
var zshEscape = strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)

// zshGlob turns "*.yaml,*.yml" into "*.(yaml|yml)".
func zshGlob(glob string) string {
	suffixes := globSuffixes(glob)
	if len(suffixes) == 1 {
		return "*" + suffixes[0]
	}
	exts := make([]string, len(suffixes))
	for i, s := range suffixes {
		exts[i] = strings.TrimPrefix(s, ".")
	}
	return "*.(" + strings.Join(exts, "|") + ")"
}

// zshFlagArg returns the _arguments word for one flag.
func zshFlagArg(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"%s\"", f.Long, zshGlob(f.FileGlob))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	default:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	desc := zshEscape.Replace(f.Desc)
	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func writeZsh(b *strings.Builder, cmds []commandDef) {
	var convert commandDef
	for _, c := range cmds {
		if c.Name == "convert" {
			convert = c
		}
	}

	b.WriteString("#compdef ipynb2sagews\n\n")
	b.WriteString("_ipynb2sagews_convert() {\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range convert.Flags {
		fmt.Fprintf(b, "        %s \\\n", zshFlagArg(f))
	}
	fmt.Fprintf(b, "        '*:notebook:_files -g \"%s\"'\n", zshGlob(convert.FilePattern))
	b.WriteString("}\n\n")

	b.WriteString("_ipynb2sagews() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape.Replace(c.Desc))
	}
	b.WriteString("    )\n\n")

	b.WriteString("    if (( CURRENT == 2 )) && [[ $PREFIX != -* ]]; then\n")
	b.WriteString("        _describe 'command' commands\n")
	fmt.Fprintf(b, "        _files -g \"%s\"\n", zshGlob(convert.FilePattern))
	b.WriteString("        return\n    fi\n\n")

	b.WriteString("    case $words[2] in\n")
	b.WriteString("        convert)\n")
	b.WriteString("            shift words\n")
	b.WriteString("            (( CURRENT-- ))\n")
	b.WriteString("            _ipynb2sagews_convert ;;\n")
	for _, c := range cmds {
		if c.Name == "convert" {
			continue
		}
		fmt.Fprintf(b, "        %s)\n", c.Name)
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "            (( CURRENT == 3 )) && _values '%s' %s ;;\n", c.Name, strings.Join(c.Args, " "))
		} else {
			b.WriteString("            ;;\n")
		}
	}
	b.WriteString("        *)\n")
	b.WriteString("            _ipynb2sagews_convert ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _ipynb2sagews ipynb2sagews\n")
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

// fishEscape escapes text placed inside single quotes.
var fishEscape = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

// fishSuffixes returns a command substitution completing files with the
// suffixes of glob.
func fishSuffixes(glob string) string {
	calls := make([]string, 0, len(splitGlobs(glob)))
	for _, s := range globSuffixes(glob) {
		calls = append(calls, "__fish_complete_suffix "+s)
	}
	return "(" + strings.Join(calls, "; ") + ")"
}

func writeFish(b *strings.Builder, cmds []commandDef) {
	var convert commandDef
	var others []string
	for _, c := range cmds {
		if c.Name == "convert" {
			convert = c
		} else {
			others = append(others, c.Name)
		}
	}

	b.WriteString("# fish completion for ipynb2sagews\n\n")
	b.WriteString("function __fish_ipynb2sagews_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_ipynb2sagews_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and contains -- $cmd[2] $argv\n")
	b.WriteString("end\n\n")

	// Convert runs when the first word is not another command.
	convertCond := fmt.Sprintf("not __fish_ipynb2sagews_using_command %s", strings.Join(others, " "))

	b.WriteString("complete -c ipynb2sagews -f\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c ipynb2sagews -n __fish_ipynb2sagews_needs_command -a %s -d '%s'\n",
			c.Name, fishEscape.Replace(c.Desc))
	}
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "complete -c ipynb2sagews -n '__fish_ipynb2sagews_using_command %s' -a '%s'\n",
				c.Name, strings.Join(c.Args, " "))
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(b, "complete -c ipynb2sagews -n '%s' -a '%s'\n", convertCond, fishSuffixes(convert.FilePattern))
	for _, f := range convert.Flags {
		line := fmt.Sprintf("complete -c ipynb2sagews -n '%s'", convertCond)
		if f.Short != "" {
			line += " -s " + f.Short
		}
		line += " -l " + f.Long
		switch f.Type {
		case flagEnum:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
		case flagFile:
			line += fmt.Sprintf(" -r -a '%s'", fishSuffixes(f.FileGlob))
		case flagDir:
			line += " -r -a '(__fish_complete_directories)'"
		case flagString, flagInt:
			line += " -x"
		}
		line += fmt.Sprintf(" -d '%s'", fishEscape.Replace(f.Desc))
		b.WriteString(line + "\n")
	}
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

// psList renders values as a PowerShell array literal.
func psList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

// psGlobs renders "*.yaml,*.yml" as a PowerShell -Include list.
func psGlobs(glob string) string {
	return strings.Join(splitGlobs(glob), ",")
}

func writePowerShell(b *strings.Builder, cmds []commandDef) {
	var convert commandDef
	for _, c := range cmds {
		if c.Name == "convert" {
			convert = c
		}
	}

	var flagWords []string
	for _, f := range convert.Flags {
		flagWords = append(flagWords, flagSpellings(f)...)
	}

	b.WriteString("# PowerShell completion for ipynb2sagews\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName ipynb2sagews -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $done = @($commandAst.CommandElements | Select-Object -Skip 1 |\n")
	b.WriteString("        Where-Object { $_.Extent.EndOffset -lt $cursorPosition } |\n")
	b.WriteString("        ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $prev = if ($done.Count -gt 0) { $done[-1] } else { '' }\n")
	fmt.Fprintf(b, "    $commands = %s\n", psList(commandNames))
	fmt.Fprintf(b, "    $flags = %s\n\n", psList(flagWords))

	b.WriteString("    $files = $null\n")
	b.WriteString("    $words = $null\n")
	b.WriteString("    switch ($prev) {\n")
	for _, f := range convert.Flags {
		spell := psList(flagSpellings(f))
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "        { $_ -in %s } { $words = %s }\n", spell, psList(f.Values))
		case flagFile:
			fmt.Fprintf(b, "        { $_ -in %s } { $files = Get-ChildItem -Path \"$wordToComplete*\" -File -Include %s }\n",
				spell, psGlobs(f.FileGlob))
		case flagDir:
			fmt.Fprintf(b, "        { $_ -in %s } { $files = Get-ChildItem -Path \"$wordToComplete*\" -Directory }\n", spell)
		case flagString, flagInt:
			fmt.Fprintf(b, "        { $_ -in %s } { return }\n", spell)
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    if ($null -eq $files -and $null -eq $words) {\n")
	b.WriteString("        if ($done.Count -eq 0 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("            $words = $commands\n")
	fmt.Fprintf(b, "            $files = Get-ChildItem -Path \"$wordToComplete*\" -Include %s\n", psGlobs(convert.FilePattern))
	b.WriteString("        }\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "        elseif ($done.Count -eq 1 -and $done[0] -eq '%s') { $words = %s }\n", c.Name, psList(c.Args))
		}
	}
	b.WriteString("        elseif ($done.Count -gt 0 -and $done[0] -in @('version', 'help', 'completion')) { return }\n")
	b.WriteString("        elseif ($wordToComplete.StartsWith('-')) { $words = $flags }\n")
	fmt.Fprintf(b, "        else { $files = Get-ChildItem -Path \"$wordToComplete*\" -Include %s }\n", psGlobs(convert.FilePattern))
	b.WriteString("    }\n\n")

	b.WriteString("    $words | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("    }\n")
	b.WriteString("    $files | ForEach-Object {\n")
	b.WriteString("        $path = Resolve-Path -Relative $_.FullName\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($path, $_.Name, 'ProviderItem', $path)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}

	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: ipynb2sagews completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(ipynb2sagews completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (after compinit):")
	fmt.Fprintln(w, "    eval \"$(ipynb2sagews completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    ipynb2sagews completion fish > ~/.config/fish/completions/ipynb2sagews.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    ipynb2sagews completion powershell | Out-String | Invoke-Expression")
}
