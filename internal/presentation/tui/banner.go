package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Mosaic banner to w, colored for the terminal's profile.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Gradient from indigo to rose, one color per line
	lines := []struct{ text, color string }{
		{" __  __                 _      ", "#818cf8"},
		{"|  \\/  | ___  ___  __ _(_) ___ ", "#a78bfa"},
		{"| |\\/| |/ _ \\/ __|/ _` | |/ __|", "#c084fc"},
		{"| |  | | (_) \\__ \\ (_| | | (__ ", "#e879f9"},
		{"|_|  |_|\\___/|___/\\__,_|_|\\___|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
