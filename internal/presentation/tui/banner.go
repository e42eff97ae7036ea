package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Sprout ASCII banner with a green gradient.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___ _ __  _ __ ___  _   _| |_ ", "#bbf7d0"},
		{" / __| '_ \\| '__/ _ \\| | | | __|", "#86efac"},
		{" \\__ \\ |_) | | | (_) | |_| | |_ ", "#4ade80"},
		{" |___/ .__/|_|  \\___/ \\__,_|\\__|", "#22c55e"},
		{"     |_|                        ", "#16a34a"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
