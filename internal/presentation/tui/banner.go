package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ollie banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Phosphor green fading to amber, like an old CRT trace.
	lines := []struct {
		text  string
		color string
	}{
		{`        _ _ _      `, "#4ade80"},
		{`   ___ | | (_) ___ `, "#86efac"},
		{`  / _ \| | | |/ _ \`, "#bef264"},
		{` | (_) | | | |  __/`, "#fde047"},
		{`  \___/|_|_|_|\___|`, "#fbbf24"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  scope voice relay "+version).Faint())
	fmt.Fprintln(w)
}
