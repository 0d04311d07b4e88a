package main

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// styles render fatal messages. The renderer inspects w, so piped output
// stays plain text.
type styles struct {
	headline lipgloss.Style
	label    lipgloss.Style
	detail   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		headline: r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		label:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		detail:   r.NewStyle(),
	}
}
