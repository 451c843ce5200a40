package engine

import (
	"math"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/rules"
)

// Search constants
const (
	MateScore = 10000 // score of a position where the side to move is checkmated
	Infinity  = math.MaxInt32
)

// searcher holds the per-search state of a minimax walk.
type searcher struct {
	perspective  board.Color
	trackContext bool // derive the rules context of each simulated board from its move
	orderMoves   bool
	nodes        uint64
}

// Minimax searches depth plies below b and returns the best move for the side to
// move together with its score from perspective's side. The maximizing player is
// perspective, the minimizing player its opponent. ctx is used unchanged at every
// ply. The move is board.NoMove at depth 0 or below, or when the side to move has
// no legal move.
func Minimax(b *board.Board, depth int, maximizing bool, alpha, beta int, perspective board.Color, ctx rules.Context) (board.Move, int) {
	s := &searcher{perspective: perspective}
	return s.minimax(b, ctx, depth, maximizing, alpha, beta)
}

func (s *searcher) minimax(b *board.Board, ctx rules.Context, depth int, maximizing bool, alpha, beta int) (board.Move, int) {
	s.nodes++

	if depth <= 0 {
		return board.NoMove, Evaluate(b, s.perspective)
	}

	side := s.perspective
	if !maximizing {
		side = side.Other()
	}

	moves := rules.AllLegalMoves(b, side, ctx)
	if len(moves) == 0 {
		if rules.InCheck(b, side) {
			if maximizing {
				return board.NoMove, -MateScore
			}
			return board.NoMove, MateScore
		}
		return board.NoMove, 0
	}
	if s.orderMoves {
		orderCaptures(b, moves)
	}

	bestMove := board.NoMove
	if maximizing {
		best := -Infinity
		for _, m := range moves {
			m = autoQueen(b, m)
			_, score := s.minimax(rules.Simulate(b, m), s.childContext(ctx, b, m), depth-1, false, alpha, beta)
			if score > best {
				best = score
				bestMove = m
			}
			alpha = max(alpha, score)
			if beta <= alpha {
				break
			}
		}
		return bestMove, best
	}

	best := Infinity
	for _, m := range moves {
		m = autoQueen(b, m)
		_, score := s.minimax(rules.Simulate(b, m), s.childContext(ctx, b, m), depth-1, true, alpha, beta)
		if score < best {
			best = score
			bestMove = m
		}
		beta = min(beta, score)
		if beta <= alpha {
			break
		}
	}
	return bestMove, best
}

// childContext returns the rules context for the board reached by m.
// Without tracking the parent context is reused, including its en passant target.
func (s *searcher) childContext(ctx rules.Context, b *board.Board, m board.Move) rules.Context {
	if !s.trackContext {
		return ctx
	}
	return ctx.After(b, m)
}

// autoQueen promotes pawns reaching the last rank to a queen.
func autoQueen(b *board.Board, m board.Move) board.Move {
	if rules.IsPromotion(b, m) {
		m.Promotion = board.Queen
	}
	return m
}
