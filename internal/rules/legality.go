package rules

import "github.com/hailam/chessgrid/internal/board"

// attackContext disables the special moves that can never capture on the target square.
var attackContext = Context{EnPassantTarget: board.NoSquare}

// IsSquareAttacked reports whether any piece of attackerColor attacks (row, col).
// Every attacker on the board is scanned. Pawns attack their two forward
// diagonals whether or not the square is occupied; other pieces attack the
// squares of their pseudo-legal move set.
func IsSquareAttacked(b *board.Board, row, col int, attackerColor board.Color) bool {
	target := board.Sq(row, col)

	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p, ok := b.Piece(r, c)
			if !ok || p.Color != attackerColor {
				continue
			}
			if p.Type == board.Pawn {
				if r+p.Color.PawnDirection() == row && abs(c-col) == 1 {
					return true
				}
				continue
			}
			for _, m := range PseudoLegalMoves(b, p, r, c, attackContext) {
				if m.To == target {
					return true
				}
			}
		}
	}
	return false
}

// InCheck reports whether the king of color c is attacked. A board without
// such a king is never in check.
func InCheck(b *board.Board, c board.Color) bool {
	king, ok := b.FindKing(c)
	if !ok {
		return false
	}
	return IsSquareAttacked(b, king.Row, king.Col, c.Other())
}

// LegalMoves returns the legal moves of the piece on (row, col), in generation order.
// Castling is rejected when the king is in check or passes through or lands on an
// attacked square; every move is rejected when it leaves the mover's king attacked.
func LegalMoves(b *board.Board, row, col int, ctx Context) []board.Move {
	p, ok := b.Piece(row, col)
	if !ok {
		return nil
	}

	var legal []board.Move
	for _, m := range PseudoLegalMoves(b, p, row, col, ctx) {
		if m.Castling && !castlingSafe(b, m, p.Color) {
			continue
		}
		if InCheck(Simulate(b, m), p.Color) {
			continue
		}
		legal = append(legal, m)
	}
	return legal
}

// castlingSafe checks that the king is not in check and that no square on its
// path, destination included, is attacked.
func castlingSafe(b *board.Board, m board.Move, c board.Color) bool {
	them := c.Other()
	if IsSquareAttacked(b, m.From.Row, m.From.Col, them) {
		return false
	}
	step := 1
	if m.To.Col < m.From.Col {
		step = -1
	}
	for col := m.From.Col + step; ; col += step {
		if IsSquareAttacked(b, m.From.Row, col, them) {
			return false
		}
		if col == m.To.Col {
			break
		}
	}
	return true
}

// AllLegalMoves returns every legal move for color c, scanning the board row by row.
func AllLegalMoves(b *board.Board, c board.Color, ctx Context) []board.Move {
	var moves []board.Move
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.Piece(row, col); ok && p.Color == c {
				moves = append(moves, LegalMoves(b, row, col, ctx)...)
			}
		}
	}
	return moves
}

// HasLegalMoves reports whether color c has at least one legal move.
func HasLegalMoves(b *board.Board, c board.Color, ctx Context) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.Piece(row, col); ok && p.Color == c {
				if len(LegalMoves(b, row, col, ctx)) > 0 {
					return true
				}
			}
		}
	}
	return false
}

// Apply plays m on b in place: the piece is relocated, the rook follows the king
// when castling, the pawn passed by an en passant capture is removed from
// (from.Row, to.Col), and the piece type is rewritten when m carries a promotion.
func Apply(b *board.Board, m board.Move) {
	b.MovePiece(m.From.Row, m.From.Col, m.To.Row, m.To.Col)

	switch {
	case m.Castling:
		rookFrom, rookTo := m.Side.RookColumns()
		b.MovePiece(m.From.Row, rookFrom, m.From.Row, rookTo)
	case m.EnPassant:
		b.Remove(m.From.Row, m.To.Col)
	}

	if m.Promotion != board.NoPieceType {
		b.SetType(m.To.Row, m.To.Col, m.Promotion)
	}
}

// Simulate returns a copy of b with m applied. b is left untouched.
func Simulate(b *board.Board, m board.Move) *board.Board {
	next := b.Clone()
	Apply(next, m)
	return next
}

// IsPromotion reports whether m moves a pawn onto its promotion row.
func IsPromotion(b *board.Board, m board.Move) bool {
	p, ok := b.PieceAt(m.From)
	return ok && p.Type == board.Pawn && m.To.Row == p.Color.PromotionRow()
}
