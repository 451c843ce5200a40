// Package rules implements stateless chess move generation and attack detection
// over a board.Board. Every function is a pure function of its arguments.
package rules

import "github.com/hailam/chessgrid/internal/board"

// Context carries the game facts that a bare board cannot express.
type Context struct {
	EnPassantTarget  board.Square // board.NoSquare when no en passant capture is possible
	CastlingEnabled  bool
	EnPassantEnabled bool
}

// DefaultContext returns the context of a fresh game with all rules enabled.
func DefaultContext() Context {
	return Context{
		EnPassantTarget:  board.NoSquare,
		CastlingEnabled:  true,
		EnPassantEnabled: true,
	}
}

// After returns the context that holds once m has been played on b.
// b must be the board before the move. The en passant target is set to the
// skipped square on a two-square pawn advance and cleared otherwise; the
// rule toggles are carried over unchanged.
func (c Context) After(b *board.Board, m board.Move) Context {
	next := c
	next.EnPassantTarget = EnPassantTargetAfter(b, m)
	return next
}

// EnPassantTargetAfter returns the en passant target created by m on b, or board.NoSquare.
func EnPassantTargetAfter(b *board.Board, m board.Move) board.Square {
	p, ok := b.PieceAt(m.From)
	if !ok || p.Type != board.Pawn {
		return board.NoSquare
	}
	if abs(m.To.Row-m.From.Row) != 2 || m.To.Col != m.From.Col {
		return board.NoSquare
	}
	return board.Sq((m.From.Row+m.To.Row)/2, m.From.Col)
}

// enPassantRow returns the row an en passant target must lie on for c to capture onto it.
func enPassantRow(c board.Color) int {
	if c == board.White {
		return 2
	}
	return 5
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
