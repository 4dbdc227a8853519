package ux

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word wrap width for rendered markdown.
const DefaultWrap = 80

// RenderMarkdown renders md for the terminal. Plain themes use glamour's
// notty style so no escape sequences are emitted.
func RenderMarkdown(md string, width int, th Theme) (string, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	if width <= 0 {
		width = DefaultWrap
	}
	style := "dark"
	if th.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(md)
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
