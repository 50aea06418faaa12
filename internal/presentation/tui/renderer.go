package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// It picks a light or dark style from the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return Plain
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Plain returns markdown unchanged.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// RendererFor renders markdown for a terminal and passes it through otherwise.
func RendererFor(f *os.File) func(string) (string, error) {
	if IsTerminal(f) {
		return NewRenderer()
	}
	return Plain
}
