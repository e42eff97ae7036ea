package tui

import (
	"github.com/aretw0/sprout/pkg/bootstrap"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a markdown renderer backed by glamour.
// When glamour cannot be initialized the markdown is returned unchanged.
func NewRenderer() bootstrap.Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}
