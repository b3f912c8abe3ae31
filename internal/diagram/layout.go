package diagram

import (
	"fmt"
	"math"
	"strconv"

	"github.com/zjrosen/flowgen/internal/workflow"
)

// Canvas geometry in document units.
const (
	NodeWidth  = 200
	NodeHeight = 60
	Margin     = 100

	// edgeReach is how far the bezier control points extend horizontally.
	edgeReach = 100
)

// Bounds is the padded rectangle enclosing every node.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// ViewBox formats the bounds as an SVG viewBox value.
func (b Bounds) ViewBox() string {
	return fmt.Sprintf("%s %s %s %s", num(b.MinX), num(b.MinY), num(b.Width()), num(b.Height()))
}

func boundsOf(nodes []Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Pos.X)
		minY = math.Min(minY, n.Pos.Y)
		maxX = math.Max(maxX, n.Pos.X)
		maxY = math.Max(maxY, n.Pos.Y)
	}
	return Bounds{
		MinX: minX - Margin,
		MinY: minY - Margin,
		MaxX: maxX + Margin + NodeWidth,
		MaxY: maxY + Margin + NodeHeight,
	}
}

// Curve is a cubic bezier from the right edge of the source node to the left
// edge of the target node, both at mid height.
type Curve struct {
	Start, C1, C2, End workflow.Position
}

// Curve returns the edge's drawing geometry.
func (e Edge) Curve() Curve {
	midY := float64(NodeHeight) / 2
	return Curve{
		Start: workflow.Position{X: e.FromPos.X + NodeWidth, Y: e.FromPos.Y + midY},
		C1:    workflow.Position{X: e.FromPos.X + NodeWidth + edgeReach, Y: e.FromPos.Y + midY},
		C2:    workflow.Position{X: e.ToPos.X - edgeReach, Y: e.ToPos.Y + midY},
		End:   workflow.Position{X: e.ToPos.X, Y: e.ToPos.Y + midY},
	}
}

// PathData formats the curve as an SVG path "d" attribute.
func (c Curve) PathData() string {
	return fmt.Sprintf("M %s,%s C %s,%s %s,%s %s,%s",
		num(c.Start.X), num(c.Start.Y),
		num(c.C1.X), num(c.C1.Y),
		num(c.C2.X), num(c.C2.Y),
		num(c.End.X), num(c.End.Y))
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
