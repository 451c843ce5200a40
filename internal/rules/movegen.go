package rules

import "github.com/hailam/chessgrid/internal/board"

type offset struct{ dr, dc int }

// Direction tables. Their order fixes the order moves are generated in.
var (
	knightOffsets = []offset{
		{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
		{1, -2}, {1, 2}, {2, -1}, {2, 1},
	}
	kingOffsets = []offset{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	diagonals  = []offset{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonal = []offset{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// PseudoLegalMoves generates the moves of piece p standing on (row, col),
// ignoring whether they leave the mover's king attacked. Castling moves are
// generated when the structural conditions hold; their safety is checked by
// LegalMoves.
func PseudoLegalMoves(b *board.Board, p board.Piece, row, col int, ctx Context) []board.Move {
	from := board.Sq(row, col)
	var moves []board.Move

	switch p.Type {
	case board.Pawn:
		moves = pawnMoves(b, p, from, ctx, moves)
	case board.Knight:
		moves = stepMoves(b, p, from, knightOffsets, moves)
	case board.Bishop:
		moves = slideMoves(b, p, from, diagonals, moves)
	case board.Rook:
		moves = slideMoves(b, p, from, orthogonal, moves)
	case board.Queen:
		moves = slideMoves(b, p, from, diagonals, moves)
		moves = slideMoves(b, p, from, orthogonal, moves)
	case board.King:
		moves = stepMoves(b, p, from, kingOffsets, moves)
		if ctx.CastlingEnabled {
			moves = castlingMoves(b, p, from, moves)
		}
	}

	return moves
}

// pawnMoves generates pushes, double pushes from the start row, diagonal
// captures and en passant captures.
func pawnMoves(b *board.Board, p board.Piece, from board.Square, ctx Context, moves []board.Move) []board.Move {
	dir := p.Color.PawnDirection()

	one := from.Offset(dir, 0)
	if b.IsEmpty(one.Row, one.Col) {
		moves = append(moves, board.NewMove(from, one))

		two := from.Offset(2*dir, 0)
		if from.Row == p.Color.PawnRow() && b.IsEmpty(two.Row, two.Col) {
			moves = append(moves, board.NewMove(from, two))
		}
	}

	for _, dc := range [2]int{-1, 1} {
		to := from.Offset(dir, dc)
		if !to.IsValid() {
			continue
		}
		if target, ok := b.PieceAt(to); ok {
			if target.Color != p.Color {
				moves = append(moves, board.NewMove(from, to))
			}
			continue
		}
		if ctx.EnPassantEnabled && to == ctx.EnPassantTarget && to.Row == enPassantRow(p.Color) {
			m := board.NewMove(from, to)
			m.EnPassant = true
			moves = append(moves, m)
		}
	}

	return moves
}

// stepMoves generates single-step moves for knights and kings.
func stepMoves(b *board.Board, p board.Piece, from board.Square, offsets []offset, moves []board.Move) []board.Move {
	for _, o := range offsets {
		to := from.Offset(o.dr, o.dc)
		if !to.IsValid() {
			continue
		}
		if target, ok := b.PieceAt(to); !ok || target.Color != p.Color {
			moves = append(moves, board.NewMove(from, to))
		}
	}
	return moves
}

// slideMoves casts rays until the board edge, an own piece (excluded) or an
// enemy piece (included).
func slideMoves(b *board.Board, p board.Piece, from board.Square, dirs []offset, moves []board.Move) []board.Move {
	for _, d := range dirs {
		to := from.Offset(d.dr, d.dc)
		for to.IsValid() {
			target, ok := b.PieceAt(to)
			if !ok {
				moves = append(moves, board.NewMove(from, to))
			} else {
				if target.Color != p.Color {
					moves = append(moves, board.NewMove(from, to))
				}
				break
			}
			to = to.Offset(d.dr, d.dc)
		}
	}
	return moves
}

// castlingMoves generates castling for an unmoved king on its home square.
// Only rook presence, rook history and empty squares between are checked here.
func castlingMoves(b *board.Board, king board.Piece, from board.Square, moves []board.Move) []board.Move {
	if king.HasMoved || from.Row != king.Color.BackRank() || from.Col != 4 {
		return moves
	}

	for _, side := range [2]board.CastleSide{board.KingSide, board.QueenSide} {
		rookCol, _ := side.RookColumns()
		rook, ok := b.Piece(from.Row, rookCol)
		if !ok || rook.Type != board.Rook || rook.Color != king.Color || rook.HasMoved {
			continue
		}
		if !emptyBetween(b, from.Row, from.Col, rookCol) {
			continue
		}
		m := board.NewMove(from, board.Sq(from.Row, kingDestination(side)))
		m.Castling = true
		m.Side = side
		moves = append(moves, m)
	}

	return moves
}

func kingDestination(side board.CastleSide) int {
	if side == board.KingSide {
		return 6
	}
	return 2
}

func emptyBetween(b *board.Board, row, c1, c2 int) bool {
	lo, hi := c1, c2
	if lo > hi {
		lo, hi = hi, lo
	}
	for col := lo + 1; col < hi; col++ {
		if !b.IsEmpty(row, col) {
			return false
		}
	}
	return true
}
