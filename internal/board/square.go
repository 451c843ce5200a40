// Package board implements the 8x8 chess board and its value types.
package board

import (
	"errors"
	"fmt"
)

// ErrInvalidSquare is returned when a square name cannot be parsed.
var ErrInvalidSquare = errors.New("invalid square")

// Square addresses a board cell by row and column.
// Row 0 is the dark back rank (rank 8), row 7 the light back rank (rank 1).
// Column 0 is the a-file.
type Square struct {
	Row int
	Col int
}

// NoSquare marks the absence of a square (e.g. no en passant target).
var NoSquare = Square{Row: -1, Col: -1}

// Sq creates a square from row and column.
func Sq(row, col int) Square {
	return Square{Row: row, Col: col}
}

// Inside reports whether the coordinates lie on the board.
func Inside(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// IsValid returns true if the square is on the board.
func (sq Square) IsValid() bool {
	return Inside(sq.Row, sq.Col)
}

// Offset returns the square shifted by the given deltas. The result may be off-board.
func (sq Square) Offset(dr, dc int) Square {
	return Square{Row: sq.Row + dr, Col: sq.Col + dc}
}

// String returns the algebraic name of the square (e.g. "e4"), or "-" when off-board.
func (sq Square) String() string {
	if !sq.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col, '8'-sq.Row)
}

// ParseSquare parses algebraic notation (e.g. "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	col := int(s[0] - 'a')
	row := int('8' - s[1])

	if !Inside(row, col) {
		return NoSquare, fmt.Errorf("%w: %q", ErrInvalidSquare, s)
	}

	return Square{Row: row, Col: col}, nil
}
