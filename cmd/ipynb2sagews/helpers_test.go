package main

// Notes:
// - Test infrastructure shared by the command tests: notebook fixtures,
//   a buffered Environment with a fixed clock, and a mock converter pool.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
	"github.com/alnah/go-ipynb2sagews/internal/config"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

const (
	// validNotebook has a kernelspec, a markdown cell and a code cell.
	validNotebook = `{"nbformat": 4, "nbformat_minor": 5,
		"metadata": {"kernelspec": {"name": "python3"}},
		"cells": [
			{"cell_type": "markdown", "source": "# Title"},
			{"cell_type": "code", "source": "print('hi')",
			 "outputs": [{"output_type": "stream", "name": "stdout", "text": "hi\n"}]}
		]}`

	// kernellessNotebook triggers the missing kernelspec warning.
	kernellessNotebook = `{"nbformat": 4, "nbformat_minor": 5, "metadata": {}, "cells": []}`

	// brokenNotebook is not JSON.
	brokenNotebook = `{"nbformat": 4, "cells": [`
)

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// readFile returns the content of path or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

// testEnv is an Environment writing to buffers with a clock that advances one
// second per call.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv() *testEnv {
	var mu sync.Mutex
	clock := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now: func() time.Time {
				mu.Lock()
				defer mu.Unlock()
				clock = clock.Add(time.Second)
				return clock
			},
			Stdout: stdout,
			Stderr: stderr,
			Config: config.DefaultConfig(),
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// ---------------------------------------------------------------------------
// Mock pool
// ---------------------------------------------------------------------------

// mockConverter records calls and returns convertFunc's result.
type mockConverter struct {
	mu          sync.Mutex
	calls       []string
	convertFunc func(ctx context.Context, src, dst string) (*ipynb2sagews.Stats, error)
}

func (m *mockConverter) ConvertFile(ctx context.Context, src, dst string) (*ipynb2sagews.Stats, error) {
	m.mu.Lock()
	m.calls = append(m.calls, src)
	m.mu.Unlock()

	if m.convertFunc != nil {
		return m.convertFunc(ctx, src, dst)
	}
	return &ipynb2sagews.Stats{Cells: 1, Blocks: 2}, nil
}

func (m *mockConverter) getCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// testPool hands the same mock to every worker.
type testPool struct {
	mock *mockConverter
	sem  chan Converter
	size int
}

func newTestPool(mock *mockConverter, size int) *testPool {
	p := &testPool{mock: mock, sem: make(chan Converter, size), size: size}
	for i := 0; i < size; i++ {
		p.sem <- mock
	}
	return p
}

func (p *testPool) Acquire() Converter  { return <-p.sem }
func (p *testPool) Release(c Converter) { p.sem <- c }
func (p *testPool) Size() int           { return p.size }
