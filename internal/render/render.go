// Package render turns note markdown into display text for the public
// read endpoint.
package render

import "github.com/charmbracelet/glamour"

// Renderer renders markdown note content to plain display text.
type Renderer struct {
	tr *glamour.TermRenderer
}

// New constructs a Renderer. The notty style keeps the output free of
// terminal escape sequences so it is safe to embed in JSON responses.
func New() (*Renderer, error) {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{tr: tr}, nil
}

// Render converts markdown to display text.
func (r *Renderer) Render(markdown string) (string, error) {
	return r.tr.Render(markdown)
}
