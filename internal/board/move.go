package board

import "fmt"

// CastleSide identifies the wing a castling move goes to.
type CastleSide uint8

const (
	NoCastle CastleSide = iota
	KingSide
	QueenSide
)

// String returns the side name.
func (cs CastleSide) String() string {
	switch cs {
	case KingSide:
		return "king-side"
	case QueenSide:
		return "queen-side"
	default:
		return "none"
	}
}

// RookColumns returns the rook's origin and destination columns for castling on this side.
func (cs CastleSide) RookColumns() (from, to int) {
	if cs == KingSide {
		return 7, 5
	}
	return 0, 3
}

// Move describes a move between two squares plus the flags needed to execute it.
type Move struct {
	From      Square
	To        Square
	Castling  bool
	Side      CastleSide
	EnPassant bool
	Promotion PieceType // NoPieceType unless a promotion piece was chosen
}

// NoMove represents the absence of a move.
var NoMove = Move{From: NoSquare, To: NoSquare}

// NewMove creates a plain move.
func NewMove(from, to Square) Move {
	return Move{From: from, To: to}
}

// IsNone reports whether m is NoMove.
func (m Move) IsNone() bool {
	return !m.From.IsValid() || !m.To.IsValid()
}

// SameSquares reports whether both moves travel between the same squares.
func (m Move) SameSquares(o Move) bool {
	return m.From == o.From && m.To == o.To
}

// String returns the coordinate form of the move (e.g. "e2e4", "e7e8q").
func (m Move) String() string {
	if m.IsNone() {
		return "0000"
	}

	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(m.Promotion.Code())
	}
	return s
}

// ParseMove parses a coordinate move string such as "e2e4" or "e7e8q".
// Only squares and the optional promotion piece are decoded; flags are
// filled in by move generation.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	m := NewMove(from, to)
	if len(s) == 5 {
		promo, ok := PieceTypeFromCode(s[4])
		if !ok || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		m.Promotion = promo
	}

	return m, nil
}
