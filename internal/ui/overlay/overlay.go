// Package overlay draws one block of terminal output on top of another
// without clearing the screen underneath.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	// Center places the overlay in the middle of the viewport.
	Center Position = iota
	// Top places the overlay at the top center.
	Top
	// Bottom places the overlay at the bottom center.
	Bottom
	// BottomRight places the overlay in the bottom right corner.
	BottomRight
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int
	Height   int
	Position Position
	// PadX is the distance from the right edge (BottomRight only).
	PadX int
	// PadY is the distance from the top or bottom edge.
	PadY int
}

// Place renders fg on top of bg. Both may contain ANSI styling; bg keeps
// its styling on either side of the overlay.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}

	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of bg starting at column x with fg.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	if end := x + ansi.StringWidth(fg); end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

func origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	x = (cfg.Width - fgWidth) / 2
	switch cfg.Position {
	case Top:
		y = cfg.PadY
	case Bottom:
		y = cfg.Height - fgHeight - cfg.PadY
	case BottomRight:
		x = cfg.Width - fgWidth - cfg.PadX
		y = cfg.Height - fgHeight - cfg.PadY
	default:
		y = (cfg.Height - fgHeight) / 2
	}
	return max(x, 0), max(y, 0)
}
