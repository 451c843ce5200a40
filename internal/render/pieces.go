package render

import (
	"fmt"
	"strings"

	"github.com/hailam/chessgrid/internal/board"
)

// Piece outlines are drawn in a 100x100 box per square.
type shape struct {
	circle bool
	cx, cy float64 // circle centre
	r      float64
	points []float64 // polygon as x,y pairs
}

func poly(pts ...float64) shape { return shape{points: pts} }

func circle(cx, cy, r float64) shape { return shape{circle: true, cx: cx, cy: cy, r: r} }

func rect(x, y, w, h float64) shape { return poly(x, y, x+w, y, x+w, y+h, x, y+h) }

// base is the plinth shared by every piece.
func base() shape { return rect(22, 80, 56, 8) }

var shapes = map[board.PieceType][]shape{
	board.Pawn: {
		base(),
		poly(36, 80, 64, 80, 56, 44, 44, 44),
		circle(50, 32, 12),
	},
	board.Knight: {
		base(),
		poly(30, 80, 72, 80, 70, 46, 60, 24, 48, 14, 44, 24, 24, 42, 28, 54, 44, 50, 38, 66),
	},
	board.Bishop: {
		base(),
		poly(34, 80, 66, 80, 60, 62, 66, 44, 50, 22, 34, 44, 40, 62),
		circle(50, 18, 6),
	},
	board.Rook: {
		base(),
		poly(30, 80, 70, 80, 66, 38, 34, 38),
		poly(28, 38, 72, 38, 72, 20, 63, 20, 63, 28, 55, 28, 55, 20, 45, 20, 45, 28, 37, 28, 37, 20, 28, 20),
	},
	board.Queen: {
		base(),
		poly(28, 80, 72, 80, 80, 28, 64, 52, 58, 22, 50, 50, 42, 22, 36, 52, 20, 28),
		circle(20, 26, 5),
		circle(42, 20, 5),
		circle(58, 20, 5),
		circle(80, 26, 5),
	},
	board.King: {
		base(),
		poly(30, 80, 70, 80, 74, 44, 50, 36, 26, 44),
		rect(46, 10, 8, 26),
		rect(38, 16, 24, 8),
	},
}

// pieceFill returns the fill and outline colors for c.
func pieceFill(c board.Color) (fill, stroke string) {
	if c == board.White {
		return "#f8f8f8", "#202020"
	}
	return "#2b2b2b", "#000000"
}

// writePiece appends the SVG for p with its box at (x, y) scaled to size units.
func writePiece(sb *strings.Builder, p board.Piece, x, y, size float64) {
	fill, stroke := pieceFill(p.Color)
	k := size / 100
	style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%.2f"`, fill, stroke, 3*k)

	for _, s := range shapes[p.Type] {
		if s.circle {
			fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" %s/>`, x+s.cx*k, y+s.cy*k, s.r*k, style)
			continue
		}
		pts := make([]string, 0, len(s.points)/2)
		for i := 0; i+1 < len(s.points); i += 2 {
			pts = append(pts, fmt.Sprintf("%.2f,%.2f", x+s.points[i]*k, y+s.points[i+1]*k))
		}
		fmt.Fprintf(sb, `<polygon points="%s" %s/>`, strings.Join(pts, " "), style)
	}
}
