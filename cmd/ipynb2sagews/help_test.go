package main

import (
	"bytes"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestPrintUsage
// ---------------------------------------------------------------------------

func TestPrintUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printUsage(&buf)

	for _, want := range []string{"convert", "version", "help", "completion", "<notebook.ipynb>"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("usage missing %q", want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestPrintConvertUsage - Every flag and variable is documented
// ---------------------------------------------------------------------------

func TestPrintConvertUsage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	out := buf.String()

	flags, _, err := parseConvertFlags(nil, &bytes.Buffer{})
	if err != nil || flags == nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	for _, want := range []string{
		"--output", "--config", "--workers", "--overwrite", "--kernel",
		"--no-images", "--no-markdown-outputs", "--quiet", "--verbose",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("convert usage missing flag %s", want)
		}
	}

	for name := range knownEnvVars {
		if !strings.Contains(out, name) {
			t.Errorf("convert usage missing variable %s", name)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no topic", nil, ExitSuccess, "Commands:", ""},
		{"convert", []string{"convert"}, ExitSuccess, "ipynb2sagews convert", ""},
		{"version", []string{"version"}, ExitSuccess, "ipynb2sagews version", ""},
		{"help", []string{"help"}, ExitSuccess, "ipynb2sagews help", ""},
		{"completion", []string{"completion"}, ExitSuccess, "ipynb2sagews completion <shell>", ""},
		{"unknown", []string{"bogus"}, ExitUsage, "", "Unknown command: bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv()
			if code := runHelp(tt.args, env.Environment); code != tt.wantCode {
				t.Errorf("runHelp() = %d, want %d", code, tt.wantCode)
			}
			if tt.wantStdout != "" && !strings.Contains(env.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", env.stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(env.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", env.stderr.String(), tt.wantStderr)
			}
		})
	}
}
