package engine

import (
	"slices"

	"github.com/hailam/chessgrid/internal/board"
)

// MVV-LVA (Most Valuable Victim - Least Valuable Attacker) scores
// Higher score = search first
// Score = victimValue * 10 - attackerValue
var mvvLva = [7][7]int{
	//              P   N   B   R   Q   K  (attacker)
	board.Pawn:   {0, 15, 14, 14, 13, 12, 11},
	board.Knight: {0, 25, 24, 24, 23, 22, 21},
	board.Bishop: {0, 35, 34, 34, 33, 32, 31},
	board.Rook:   {0, 45, 44, 44, 43, 42, 41},
	board.Queen:  {0, 55, 54, 54, 53, 52, 51},
	board.King:   {}, // King can't be captured
}

// captureScore returns the ordering score of m on b; quiet moves score 0.
func captureScore(b *board.Board, m board.Move) int {
	attacker, _ := b.PieceAt(m.From)
	if m.EnPassant {
		return mvvLva[board.Pawn][board.Pawn]
	}
	victim, ok := b.PieceAt(m.To)
	if !ok {
		return 0
	}
	return mvvLva[victim.Type][attacker.Type]
}

// orderCaptures sorts captures first, most valuable victim first. The sort is
// stable, so quiet moves keep their generation order.
func orderCaptures(b *board.Board, moves []board.Move) {
	slices.SortStableFunc(moves, func(x, y board.Move) int {
		return captureScore(b, y) - captureScore(b, x)
	})
}
