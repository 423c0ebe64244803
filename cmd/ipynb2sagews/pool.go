package main

import (
	"context"
	"fmt"

	ipynb2sagews "github.com/alnah/go-ipynb2sagews"
)

// Converter is the interface for the conversion service.
type Converter interface {
	ConvertFile(ctx context.Context, src, dst string) (*ipynb2sagews.Stats, error)
}

// Compile-time interface implementation check.
var _ Converter = (*ipynb2sagews.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// poolAdapter exposes an *ipynb2sagews.ConverterPool as a Pool.
type poolAdapter struct {
	pool *ipynb2sagews.ConverterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

func (a *poolAdapter) Acquire() Converter {
	return a.pool.Acquire()
}

// Release panics if c did not come from Acquire (programmer error).
func (a *poolAdapter) Release(c Converter) {
	conv, ok := c.(*ipynb2sagews.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
