// Package engine implements the chess AI: static evaluation and a minimax
// search with alpha-beta pruning over copies of the board.
package engine

import (
	"github.com/hailam/chessgrid/internal/board"
)

// Material values
const (
	PawnValue   = 10
	KnightValue = 30
	BishopValue = 30
	RookValue   = 50
	QueenValue  = 90
	KingValue   = 900 // losing the king outweighs any material
)

// Piece values indexed by board.PieceType
var pieceValues = [7]int{0, PawnValue, KnightValue, BishopValue, RookValue, QueenValue, KingValue}

// Piece-square tables, written from the light side: index 0 is row 0 (rank 8).
// Dark pieces read them with rows mirrored.
var pst = [7][8][8]int{
	board.Pawn: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{5, 5, 5, 5, 5, 5, 5, 5},
		{1, 1, 2, 3, 3, 2, 1, 1},
		{0, 0, 3, 5, 5, 3, 0, 0},
		{0, 0, 0, 2, 2, 0, 0, 0},
		{0, -1, -1, 0, 0, -1, -1, 0},
		{0, 1, 1, -2, -2, 1, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Knight: {
		{-5, -4, -3, -3, -3, -3, -4, -5},
		{-4, -2, 0, 0, 0, 0, -2, -4},
		{-3, 0, 1, 1, 1, 1, 0, -3},
		{-3, 0, 1, 2, 2, 1, 0, -3},
		{-3, 0, 1, 2, 2, 1, 0, -3},
		{-3, 0, 1, 1, 1, 1, 0, -3},
		{-4, -2, 0, 0, 0, 0, -2, -4},
		{-5, -4, -3, -3, -3, -3, -4, -5},
	},
	board.Bishop: {
		{-2, -1, -1, -1, -1, -1, -1, -2},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-1, 0, 0, 1, 1, 0, 0, -1},
		{-1, 0, 0, 1, 1, 0, 0, -1},
		{-1, 0, 0, 1, 1, 0, 0, -1},
		{-1, 1, 1, 1, 1, 1, 1, -1},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-2, -1, -1, -1, -1, -1, -1, -2},
	},
	board.Rook: {
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{1, 2, 2, 2, 2, 2, 2, 1},
		{0, 0, 0, 0, 0, 0, 0, 0},
	},
	board.Queen: {
		{-2, -1, -1, 0, 0, -1, -1, -2},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0, 0},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-1, 0, 0, 0, 0, 0, 0, -1},
		{-2, -1, -1, 0, 0, -1, -1, -2},
	},
	board.King: {
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-3, -4, -4, -5, -5, -4, -4, -3},
		{-2, -3, -3, -4, -4, -3, -3, -2},
		{-1, -2, -2, -2, -2, -2, -2, -1},
		{2, 2, 0, 0, 0, 0, 2, 2},
		{2, 3, 1, 0, 0, 1, 3, 2},
	},
}

// PieceValue returns the material value of a piece type.
func PieceValue(pt board.PieceType) int {
	return pieceValues[pt]
}

// squareBonus returns the piece-square bonus of p standing on (row, col).
func squareBonus(p board.Piece, row, col int) int {
	if p.Color == board.Black {
		row = 7 - row
	}
	return pst[p.Type][row][col]
}

// Evaluate scores the board from perspective's side: material plus
// piece-square bonus for its own pieces, minus the same for the opponent's.
func Evaluate(b *board.Board, perspective board.Color) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, ok := b.Piece(row, col)
			if !ok {
				continue
			}
			value := pieceValues[p.Type] + squareBonus(p, row, col)
			if p.Color == perspective {
				score += value
			} else {
				score -= value
			}
		}
	}
	return score
}
