// Package boardtest builds boards from text diagrams for tests.
package boardtest

import (
	"strings"
	"testing"

	"github.com/hailam/chessgrid/internal/board"
)

// FromDiagram builds a board from eight rows of eight characters, row 0 first.
// '.' is an empty square, uppercase letters are light pieces and lowercase
// letters dark pieces. Whitespace inside a row is ignored. Pieces start unmoved,
// except pawns standing off their start row, which are marked as moved.
func FromDiagram(t testing.TB, diagram string) *board.Board {
	t.Helper()

	var rows []string
	for _, line := range strings.Split(strings.TrimSpace(diagram), "\n") {
		line = strings.Join(strings.Fields(line), "")
		if line != "" {
			rows = append(rows, line)
		}
	}
	if len(rows) != 8 {
		t.Fatalf("diagram has %d rows, want 8", len(rows))
	}

	b := board.NewEmptyBoard()
	for row, line := range rows {
		if len(line) != 8 {
			t.Fatalf("diagram row %d has %d squares, want 8", row, len(line))
		}
		for col := 0; col < 8; col++ {
			ch := line[col]
			if ch == '.' {
				continue
			}
			color := board.Black
			if ch >= 'A' && ch <= 'Z' {
				color = board.White
				ch += 'a' - 'A'
			}
			pt, ok := board.PieceTypeFromCode(ch)
			if !ok {
				t.Fatalf("diagram row %d col %d: unknown piece %q", row, col, line[col])
			}
			p := board.NewPiece(pt, color)
			p.HasMoved = pt == board.Pawn && row != color.PawnRow()
			b.Set(row, col, p)
		}
	}
	return b
}

// MarkMoved sets the moved flag on the pieces standing on the named squares.
func MarkMoved(t testing.TB, b *board.Board, squares ...string) {
	t.Helper()
	for _, name := range squares {
		sq := Square(t, name)
		p, ok := b.PieceAt(sq)
		if !ok {
			t.Fatalf("no piece on %s", name)
		}
		p.HasMoved = true
		b.Set(sq.Row, sq.Col, p)
	}
}

// Square parses an algebraic square name or fails the test.
func Square(t testing.TB, name string) board.Square {
	t.Helper()
	sq, err := board.ParseSquare(name)
	if err != nil {
		t.Fatalf("bad square %q: %v", name, err)
	}
	return sq
}

// Move parses a coordinate move or fails the test.
func Move(t testing.TB, s string) board.Move {
	t.Helper()
	m, err := board.ParseMove(s)
	if err != nil {
		t.Fatalf("bad move %q: %v", s, err)
	}
	return m
}
