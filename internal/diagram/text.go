package diagram

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Terminal box size in cells: a border row, the name, the type, a border row.
const (
	boxHeight   = 4
	minBoxWidth = 10
	maxBoxWidth = 28
)

// Placeholders shown instead of a diagram.
const (
	WaitingMessage = "Waiting for valid workflow JSON..."
	EmptyMessage   = "The workflow has no nodes."
)

// RenderText draws r into a width x height character grid. Canvas
// coordinates are scaled to the grid; nodes are bordered boxes and edges are
// orthogonal connectors ending in an arrow. Trailing blank cells are trimmed.
func RenderText(r Result, width, height int) string {
	switch r.State {
	case NotReady:
		return WaitingMessage
	case Empty:
		return EmptyMessage
	}
	if width < minBoxWidth || height < boxHeight {
		return ""
	}

	sx := float64(width) / r.Bounds.Width()
	sy := float64(height) / r.Bounds.Height()
	boxW := clampInt(int(math.Round(NodeWidth*sx)), minBoxWidth, maxBoxWidth)
	boxW = min(boxW, width)

	boxes := make([]rect, len(r.Nodes))
	byID := make(map[string]rect, len(r.Nodes))
	for i, n := range r.Nodes {
		x := int(math.Round((n.Pos.X - r.Bounds.MinX) * sx))
		y := int(math.Round((n.Pos.Y - r.Bounds.MinY) * sy))
		boxes[i] = rect{
			x: clampInt(x, 0, width-boxW),
			y: clampInt(y, 0, height-boxHeight),
			w: boxW,
		}
		byID[n.ID] = boxes[i]
	}

	c := newCanvas(width, height)
	for _, e := range r.Edges {
		c.connect(byID[e.From], byID[e.To])
	}
	for i, n := range r.Nodes {
		c.box(boxes[i], n.Name, shortType(n.Type))
	}
	return c.String()
}

// shortType drops the package prefix of a node type,
// "n8n-nodes-base.slack" becomes "slack".
func shortType(t string) string {
	if i := strings.LastIndexByte(t, '.'); i >= 0 && i < len(t)-1 {
		return t[i+1:]
	}
	return t
}

type rect struct {
	x, y, w int
}

type point struct {
	x, y int
}

type direction int

const (
	dirNone direction = iota
	dirRight
	dirLeft
	dirDown
	dirUp
)

func directionOf(a, b point) direction {
	switch {
	case b.x > a.x:
		return dirRight
	case b.x < a.x:
		return dirLeft
	case b.y > a.y:
		return dirDown
	case b.y < a.y:
		return dirUp
	default:
		return dirNone
	}
}

const (
	lineH     = '─'
	lineV     = '│'
	lineCross = '┼'
	arrowHead = '▶'
)

// corner picks the glyph joining a segment moving in to one moving out.
func corner(in, out direction) rune {
	switch {
	case in == dirRight && out == dirDown, in == dirUp && out == dirLeft:
		return '┐'
	case in == dirRight && out == dirUp, in == dirDown && out == dirLeft:
		return '┘'
	case in == dirLeft && out == dirDown, in == dirUp && out == dirRight:
		return '┌'
	case in == dirLeft && out == dirUp, in == dirDown && out == dirRight:
		return '└'
	default:
		return lineCross
	}
}

// canvas is a rune grid. A zero rune marks the second cell of a wide rune.
type canvas struct {
	w, h  int
	cells [][]rune
}

func newCanvas(w, h int) *canvas {
	cells := make([][]rune, h)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", w))
	}
	return &canvas{w: w, h: h, cells: cells}
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

func (c *canvas) set(x, y int, r rune) {
	if c.inside(x, y) {
		c.cells[y][x] = r
	}
}

func (c *canvas) get(x, y int) rune {
	if !c.inside(x, y) {
		return ' '
	}
	return c.cells[y][x]
}

// plot draws a line glyph, turning perpendicular overlaps into a crossing.
func (c *canvas) plot(x, y int, r rune) {
	switch existing := c.get(x, y); {
	case existing == lineH && r == lineV, existing == lineV && r == lineH:
		c.set(x, y, lineCross)
	case existing == ' ':
		c.set(x, y, r)
	case existing == lineH || existing == lineV:
		c.set(x, y, r)
	}
}

// text writes s from (x, y), stopping before maxX.
func (c *canvas) text(x, y, maxX int, s string) {
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			return
		}
		c.set(x, y, r)
		if rw == 2 {
			c.set(x+1, y, 0)
		}
		x += rw
	}
}

func (c *canvas) box(r rect, name, typ string) {
	border := lipgloss.RoundedBorder()
	right := r.x + r.w - 1
	bottom := r.y + boxHeight - 1

	for x := r.x; x <= right; x++ {
		c.set(x, r.y, firstRune(border.Top))
		c.set(x, bottom, firstRune(border.Bottom))
	}
	for y := r.y + 1; y < bottom; y++ {
		c.set(r.x, y, firstRune(border.Left))
		c.set(right, y, firstRune(border.Right))
		for x := r.x + 1; x < right; x++ {
			c.set(x, y, ' ')
		}
	}
	c.set(r.x, r.y, firstRune(border.TopLeft))
	c.set(right, r.y, firstRune(border.TopRight))
	c.set(r.x, bottom, firstRune(border.BottomLeft))
	c.set(right, bottom, firstRune(border.BottomRight))

	inner := r.w - 2
	c.text(r.x+1, r.y+1, right, runewidth.Truncate(name, inner, "…"))
	c.text(r.x+1, r.y+2, right, runewidth.Truncate(typ, inner, "…"))
}

// connect routes an edge from the right side of from to the cell left of to.
// Forward edges bend once in the gap between the boxes; backward edges run
// below both boxes.
func (c *canvas) connect(from, to rect) {
	start := point{from.x + from.w, from.y + 1}
	end := point{max(to.x-1, 0), to.y + 1}

	var pts []point
	if end.x >= start.x {
		midX := start.x + (end.x-start.x)/2
		pts = []point{start, {midX, start.y}, {midX, end.y}, end}
	} else {
		below := min(max(from.y, to.y)+boxHeight, c.h-1)
		pts = []point{start, {start.x, below}, {end.x, below}, end}
	}
	c.polyline(dedupe(pts))
	c.set(end.x, end.y, arrowHead)
}

func (c *canvas) polyline(pts []point) {
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		glyph := lineH
		if a.x == b.x {
			glyph = lineV
		}
		for _, p := range walk(a, b) {
			c.plot(p.x, p.y, glyph)
		}
	}
	for i := 1; i+1 < len(pts); i++ {
		in, out := directionOf(pts[i-1], pts[i]), directionOf(pts[i], pts[i+1])
		if in != out {
			c.set(pts[i].x, pts[i].y, corner(in, out))
		}
	}
}

// walk lists the cells of an axis-aligned segment, both ends included.
func walk(a, b point) []point {
	dx, dy := sign(b.x-a.x), sign(b.y-a.y)
	pts := []point{a}
	for p := a; p != b; {
		p = point{p.x + dx, p.y + dy}
		pts = append(pts, p)
	}
	return pts
}

func dedupe(pts []point) []point {
	out := pts[:0:0]
	for _, p := range pts {
		if len(out) > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (c *canvas) String() string {
	lines := make([]string, 0, c.h)
	for _, row := range c.cells {
		var b strings.Builder
		for _, r := range row {
			if r != 0 {
				b.WriteRune(r)
			}
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
