package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
)

// ---------------------------------------------------------------------------
// TestPoolAdapter - Library pool behind the Pool interface
// ---------------------------------------------------------------------------

func TestPoolAdapter(t *testing.T) {
	t.Parallel()

	t.Run("acquire release and size", func(t *testing.T) {
		t.Parallel()

		pool := &poolAdapter{pool: ipynb2sagews.NewConverterPool(2)}
		if pool.Size() != 2 {
			t.Errorf("Size() = %d, want 2", pool.Size())
		}

		c1, c2 := pool.Acquire(), pool.Acquire()
		if c1 == nil || c2 == nil {
			t.Fatal("Acquire() returned nil")
		}
		pool.Release(c1)
		pool.Release(c2)
	})

	t.Run("acquired converter converts", func(t *testing.T) {
		t.Parallel()

		dir := setupTestDir(t, map[string]string{"nb.ipynb": validNotebook})
		pool := &poolAdapter{pool: ipynb2sagews.NewConverterPool(1)}

		conv := pool.Acquire()
		defer pool.Release(conv)

		stats, err := conv.ConvertFile(context.Background(), filepath.Join(dir, "nb.ipynb"), "")
		if err != nil {
			t.Fatalf("ConvertFile() error = %v", err)
		}
		if stats.Cells != 2 {
			t.Errorf("Cells = %d, want 2", stats.Cells)
		}
	})

	t.Run("release of foreign converter panics", func(t *testing.T) {
		t.Parallel()

		pool := &poolAdapter{pool: ipynb2sagews.NewConverterPool(1)}

		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("Release() did not panic")
			}
			if msg, _ := r.(string); !strings.Contains(msg, "*main.mockConverter") {
				t.Errorf("panic = %v, want type in message", r)
			}
		}()
		pool.Release(&mockConverter{})
	})
}
