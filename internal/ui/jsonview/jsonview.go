// Package jsonview renders workflow JSON for the output pane.
//
// Finished documents are highlighted by glamour as a fenced json block.
// Text that is still streaming is shown raw, hard-wrapped to the pane
// width, because a half-written document highlights badly.
package jsonview

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wrap"
)

// noMarginStyle removes glamour's document margins so the block lines up
// with the pane border.
const noMarginStyle = `{
	"document": {
		"margin": 0,
		"block_prefix": "",
		"block_suffix": ""
	},
	"code_block": {
		"margin": 0
	}
}`

// Renderer wraps a glamour renderer and remembers its last output.
type Renderer struct {
	renderer *glamour.TermRenderer
	width    int

	lastIn  string
	lastOut string
}

// New creates a renderer for the given width. style is a glamour style
// name ("dark", "light", "notty"); empty means "dark". WithAutoStyle is
// avoided because its terminal query leaks escape responses into input.
func New(width int, style string) (*Renderer, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithStylesFromJSONBytes([]byte(noMarginStyle)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	return &Renderer{renderer: r, width: width}, nil
}

// Width returns the configured wrap width.
func (r *Renderer) Width() int {
	return r.width
}

// Render highlights a complete document. On a glamour failure the raw
// wrapped text is returned instead.
func (r *Renderer) Render(text string) string {
	if text == r.lastIn && r.lastOut != "" {
		return r.lastOut
	}
	out, err := r.renderer.Render("```json\n" + strings.TrimRight(text, "\n") + "\n```\n")
	if err != nil {
		return Raw(text, r.width)
	}
	r.lastIn, r.lastOut = text, strings.Trim(out, "\n")
	return r.lastOut
}

// Raw hard-wraps text to width without highlighting.
func Raw(text string, width int) string {
	if width <= 0 {
		return text
	}
	return wrap.String(text, width)
}
