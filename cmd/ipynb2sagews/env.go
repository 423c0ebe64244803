package main

import (
	"io"
	"os"
	"time"

	"github.com/alnah/go-ipynb2sagews/internal/config"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the base configuration.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config // Base configuration when no config file is named
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Config: config.DefaultConfig(),
	}
}
