// Package ui renders load results for the terminal.
package ui

import (
	"os"

	"golang.org/x/term"
)

// Mode represents how output is rendered.
type Mode int

const (
	// ModePlain prints one tuple per line, for pipes, files and CI logs.
	ModePlain Mode = iota
	// ModeInteractive renders styled tables for a human at the terminal.
	ModeInteractive
)

// DetectMode returns ModePlain if:
//   - CDMLOAD_NON_INTERACTIVE=1 is set
//   - CI is set
//   - NO_COLOR is set
//   - stdout is not a terminal
//
// and ModeInteractive otherwise.
func DetectMode() Mode {
	if os.Getenv("CDMLOAD_NON_INTERACTIVE") == "1" {
		return ModePlain
	}
	if os.Getenv("CI") != "" {
		return ModePlain
	}
	if os.Getenv("NO_COLOR") != "" {
		return ModePlain
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModePlain
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
