package tui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for a content area width.
type MarkdownRenderer func(markdown string, width int) (string, error)

// NewRenderer returns a MarkdownRenderer using glamour.
// Styles follow the terminal background.
func NewRenderer() MarkdownRenderer {
	return func(markdown string, width int) (string, error) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(), // Automatically detect light/dark background
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		return r.Render(markdown)
	}
}
