package diagram

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// ErrNothingToDraw is returned when exporting a result that is not Ready.
var ErrNothingToDraw = errors.New("diagram: nothing to draw")

// SVG palette.
const (
	edgeColor       = "#6c3af5"
	nodeFill        = "#1e1e1e"
	nodeStroke      = "#4a4a4a"
	nodeNameColor   = "#f3f4f6"
	nodeTypeColor   = "#a0a0a0"
	backgroundColor = "#111827"
)

// RenderSVG draws r as a standalone SVG document whose viewBox equals the
// result bounds. Edges are drawn first so nodes sit on top of them.
func RenderSVG(r Result) (string, error) {
	if r.State != Ready {
		return "", ErrNothingToDraw
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s">`+"\n",
		num(r.Bounds.Width()), num(r.Bounds.Height()), r.Bounds.ViewBox())
	if r.Name != "" {
		fmt.Fprintf(&b, "  <title>%s</title>\n", html.EscapeString(r.Name))
	}
	b.WriteString("  <defs>\n")
	fmt.Fprintf(&b, `    <marker id="arrowhead" markerWidth="10" markerHeight="7" refX="0" refY="3.5" orient="auto"><polygon points="0 0, 10 3.5, 0 7" fill="%s"/></marker>`+"\n", edgeColor)
	b.WriteString("  </defs>\n")
	fmt.Fprintf(&b, `  <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		num(r.Bounds.MinX), num(r.Bounds.MinY), num(r.Bounds.Width()), num(r.Bounds.Height()), backgroundColor)

	for _, e := range r.Edges {
		fmt.Fprintf(&b, `  <path d="%s" stroke="%s" stroke-width="2" fill="none" marker-end="url(#arrowhead)"/>`+"\n",
			e.Curve().PathData(), edgeColor)
	}

	for _, n := range r.Nodes {
		fmt.Fprintf(&b, `  <g transform="translate(%s, %s)">`+"\n", num(n.Pos.X), num(n.Pos.Y))
		fmt.Fprintf(&b, `    <rect width="%d" height="%d" rx="8" fill="%s" stroke="%s" stroke-width="1"/>`+"\n",
			NodeWidth, NodeHeight, nodeFill, nodeStroke)
		fmt.Fprintf(&b, `    <text x="10" y="25" fill="%s" font-size="14" font-weight="bold">%s</text>`+"\n",
			nodeNameColor, html.EscapeString(n.Name))
		fmt.Fprintf(&b, `    <text x="10" y="45" fill="%s" font-size="12">%s</text>`+"\n",
			nodeTypeColor, html.EscapeString(n.Type))
		b.WriteString("  </g>\n")
	}

	b.WriteString("</svg>\n")
	return b.String(), nil
}
