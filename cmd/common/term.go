package common

import (
	"os"

	"golang.org/x/term"
)

// TermWidth returns the terminal width, checking stdout then stderr, or
// fallback when neither is a terminal.
func TermWidth(fallback int) int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	if width, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && width > 0 {
		return width
	}
	return fallback
}
