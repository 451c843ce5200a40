package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/game"
	"github.com/hailam/chessgrid/internal/obslog"
)

// DefaultDepth is the search depth in plies used unless configured otherwise.
const DefaultDepth = 2

// evaluationDepth is the depth of the advantage readout.
const evaluationDepth = 2

// SearchInfo contains information about a finished search.
type SearchInfo struct {
	Color board.Color
	Depth int
	Score int
	Nodes uint64
	Time  time.Duration
	Move  board.Move
}

// Difficulty represents the AI difficulty level.
type Difficulty int

const (
	Easy   Difficulty = iota // 1 ply
	Medium                   // 2 ply
	Hard                     // 3 ply
)

// DifficultyDepth maps difficulty to search depth.
var DifficultyDepth = map[Difficulty]int{
	Easy:   1,
	Medium: 2,
	Hard:   3,
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseDifficulty converts a difficulty name to a Difficulty.
func ParseDifficulty(s string) (Difficulty, bool) {
	for d := range DifficultyDepth {
		if d.String() == s {
			return d, true
		}
	}
	return Medium, false
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for search summaries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDepth sets the search depth.
func WithDepth(depth int) Option {
	return func(e *Engine) {
		e.SetDepth(depth)
	}
}

// WithTrackedContext makes the search derive the en passant target of every
// simulated board from the move that produced it. Without it the live game's
// context is reused at every ply.
func WithTrackedContext(track bool) Option {
	return func(e *Engine) {
		e.trackContext = track
	}
}

// WithCaptureOrdering searches captures before quiet moves.
func WithCaptureOrdering(order bool) Option {
	return func(e *Engine) {
		e.orderMoves = order
	}
}

// Engine is the chess AI playing on a live game. It never modifies the game.
type Engine struct {
	game         *game.Game
	depth        int
	trackContext bool
	orderMoves   bool
	logger       *zap.Logger

	// Callbacks
	OnInfo func(SearchInfo)
}

// New creates an engine for g.
func New(g *game.Game, opts ...Option) *Engine {
	e := &Engine{
		game:   g,
		depth:  DefaultDepth,
		logger: obslog.L().Named("engine"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetGame points the engine at another game.
func (e *Engine) SetGame(g *game.Game) {
	e.game = g
}

// SetDepth sets the search depth in plies. Values below 1 are raised to 1.
func (e *Engine) SetDepth(depth int) {
	e.depth = max(depth, 1)
}

// Depth returns the search depth in plies.
func (e *Engine) Depth() int {
	return e.depth
}

// SetDifficulty sets the search depth from a difficulty preset.
func (e *Engine) SetDifficulty(d Difficulty) {
	if depth, ok := DifficultyDepth[d]; ok {
		e.depth = depth
	}
}

// BestMove searches the current position for color and returns the move with
// the best score. Pawns reaching the last rank promote to a queen. It returns
// false when color has no legal move.
func (e *Engine) BestMove(color board.Color) (board.Move, bool) {
	start := time.Now()
	s := e.newSearcher(color)

	move, score := s.minimax(e.game.Board(), e.game.RulesContext(), e.depth, true, -Infinity, Infinity)

	info := SearchInfo{
		Color: color,
		Depth: e.depth,
		Score: score,
		Nodes: s.nodes,
		Time:  time.Since(start),
		Move:  move,
	}
	e.logger.Debug("search",
		zap.Stringer("color", color),
		zap.Int("depth", info.Depth),
		zap.Uint64("nodes", info.Nodes),
		zap.Duration("elapsed", info.Time),
		zap.Int("score", info.Score),
		zap.Stringer("move", move))
	if e.OnInfo != nil {
		e.OnInfo(info)
	}

	return move, !move.IsNone()
}

// Evaluation returns a shallow search score of the current position from the
// light side: positive when light is ahead. The side to move decides whether
// the root maximizes or minimizes.
func (e *Engine) Evaluation() int {
	s := e.newSearcher(board.White)
	maximizing := e.game.Turn() == board.White
	_, score := s.minimax(e.game.Board(), e.game.RulesContext(), evaluationDepth, maximizing, -Infinity, Infinity)
	return score
}

func (e *Engine) newSearcher(perspective board.Color) *searcher {
	return &searcher{
		perspective:  perspective,
		trackContext: e.trackContext,
		orderMoves:   e.orderMoves,
	}
}
