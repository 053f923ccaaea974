package main

import (
	"io"
	"os"
	"time"

	md2html "github.com/alnah/go-md2html"
)

// dotEnvFile is read from the working directory when present.
const dotEnvFile = ".env"

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	DotEnv    string                 // Path of the .env file, "" to skip
	Revisions md2html.RevisionLookup // nil uses git with the configured timeout
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		DotEnv: dotEnvFile,
	}
}
