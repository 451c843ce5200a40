// Package game holds the turn-based state of a chess game: whose move it is,
// what has been played and whether the game has ended.
package game

import (
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/obslog"
	"github.com/hailam/chessgrid/internal/rules"
)

var (
	// ErrMissingKing reports a committed board without a king for the side to move.
	ErrMissingKing = errors.New("game: king missing from board")

	// ErrCorruptSnapshot reports a snapshot that cannot be turned back into a game.
	ErrCorruptSnapshot = errors.New("game: corrupt snapshot")
)

// MoveResult is the outcome of a MakeMove call.
type MoveResult uint8

const (
	MoveRejected MoveResult = iota
	MoveApplied
	PromotionRequired // the move reaches the last rank and needs a promotion piece
)

func (r MoveResult) String() string {
	switch r {
	case MoveApplied:
		return "applied"
	case PromotionRequired:
		return "promotion required"
	default:
		return "rejected"
	}
}

// Status is the lifecycle state of a game.
type Status uint8

const (
	Ongoing Status = iota
	Checkmate
	Stalemate
)

func (s Status) String() string {
	switch s {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}

// Winner is the result of a finished game.
type Winner uint8

const (
	NoWinner Winner = iota
	WhiteWins
	BlackWins
	Draw
)

// WinnerFor returns the winner value for color c.
func WinnerFor(c board.Color) Winner {
	switch c {
	case board.White:
		return WhiteWins
	case board.Black:
		return BlackWins
	default:
		return NoWinner
	}
}

// Color returns the winning color, or board.NoColor for a draw or an unfinished game.
func (w Winner) Color() board.Color {
	switch w {
	case WhiteWins:
		return board.White
	case BlackWins:
		return board.Black
	default:
		return board.NoColor
	}
}

func (w Winner) String() string {
	switch w {
	case WhiteWins:
		return "white"
	case BlackWins:
		return "black"
	case Draw:
		return "draw"
	default:
		return "none"
	}
}

// HistoryEntry records one executed move.
type HistoryEntry struct {
	Move     board.Move  // as played, including castling, en passant and promotion flags
	Piece    board.Piece // the moving piece before the move
	Captured board.Piece // NoPiece when nothing was captured
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger used for move and outcome events.
func WithLogger(l *zap.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithSettings starts the game with the given rule settings. An empty
// promotion list is replaced by DefaultPromotionPieces.
func WithSettings(s Settings) Option {
	return func(g *Game) {
		g.settings = s.sanitized(DefaultPromotionPieces)
	}
}

// Game is a chess game in progress. It is not safe for concurrent use.
type Game struct {
	board    *board.Board
	turn     board.Color
	history  []HistoryEntry
	captured [3][]board.PieceType // indexed by the color of the captured piece
	epTarget board.Square
	status   Status
	winner   Winner
	paused   bool
	lastMove board.Move
	settings Settings

	logger *zap.Logger
}

// New creates a game in the starting position with White to move.
func New(opts ...Option) *Game {
	g := &Game{
		board:    board.NewBoard(),
		settings: DefaultSettings(),
		logger:   obslog.L().Named("game"),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.clear()
	return g
}

func (g *Game) clear() {
	g.board.Reset()
	g.turn = board.White
	g.history = nil
	g.captured = [3][]board.PieceType{}
	g.epTarget = board.NoSquare
	g.status = Ongoing
	g.winner = NoWinner
	g.paused = false
	g.lastMove = board.NoMove
}

// Reset restores the starting position. Settings are kept.
func (g *Game) Reset() {
	g.clear()
	g.logger.Info("new game",
		zap.Bool("castling", g.settings.CastlingEnabled),
		zap.Bool("en_passant", g.settings.EnPassantEnabled),
		zap.String("promotion", g.settings.PromotionCodes()))
}

// MakeMove plays the move from (fromRow, fromCol) to (toRow, toCol) for the side to move.
// promotion is ignored unless the move takes a pawn to its last rank; there it must be
// one of the allowed promotion pieces, and board.NoPieceType yields PromotionRequired
// without changing the game.
func (g *Game) MakeMove(fromRow, fromCol, toRow, toCol int, promotion board.PieceType) MoveResult {
	if g.GameOver() || g.paused {
		return MoveRejected
	}

	piece, ok := g.board.Piece(fromRow, fromCol)
	if !ok || piece.Color != g.turn {
		return MoveRejected
	}

	to := board.Sq(toRow, toCol)
	move := board.NoMove
	for _, m := range rules.LegalMoves(g.board, fromRow, fromCol, g.RulesContext()) {
		if m.To == to {
			move = m
			break
		}
	}
	if move.IsNone() {
		return MoveRejected
	}

	if rules.IsPromotion(g.board, move) {
		if promotion == board.NoPieceType {
			return PromotionRequired
		}
		if !g.settings.AllowsPromotion(promotion) {
			return MoveRejected
		}
		move.Promotion = promotion
	}

	g.commit(piece, move)
	return MoveApplied
}

// Play is MakeMove for a parsed move.
func (g *Game) Play(m board.Move) MoveResult {
	return g.MakeMove(m.From.Row, m.From.Col, m.To.Row, m.To.Col, m.Promotion)
}

// commit applies a legal move and advances the game.
func (g *Game) commit(piece board.Piece, m board.Move) {
	var captured board.Piece
	if m.EnPassant {
		captured, _ = g.board.Piece(m.From.Row, m.To.Col)
	} else {
		captured, _ = g.board.PieceAt(m.To)
	}
	if !captured.IsEmpty() {
		g.captured[captured.Color] = append(g.captured[captured.Color], captured.Type)
	}

	nextTarget := rules.EnPassantTargetAfter(g.board, m)
	rules.Apply(g.board, m)
	g.epTarget = nextTarget

	g.history = append(g.history, HistoryEntry{Move: m, Piece: piece, Captured: captured})
	g.lastMove = m
	g.turn = g.turn.Other()

	g.logger.Debug("move",
		zap.Stringer("from", m.From),
		zap.Stringer("to", m.To),
		zap.Stringer("piece", piece),
		zap.Stringer("captured", captured))

	g.updateStatus()
}

// updateStatus ends the game when the side to move has no legal move:
// checkmate if its king is attacked, stalemate otherwise.
func (g *Game) updateStatus() {
	if rules.HasLegalMoves(g.board, g.turn, g.RulesContext()) {
		return
	}

	king, ok := g.board.FindKing(g.turn)
	if !ok {
		g.logger.Panic(ErrMissingKing.Error(), zap.Stringer("color", g.turn))
	}

	opponent := g.turn.Other()
	if rules.IsSquareAttacked(g.board, king.Row, king.Col, opponent) {
		g.status = Checkmate
		g.winner = WinnerFor(opponent)
		g.logger.Info("checkmate", zap.Stringer("winner", g.winner), zap.Int("moves", len(g.history)))
		return
	}

	g.status = Stalemate
	g.winner = Draw
	g.logger.Info("stalemate", zap.Int("moves", len(g.history)))
}

// TogglePause pauses or resumes the game and returns the new paused state.
// A finished game cannot be paused.
func (g *Game) TogglePause() bool {
	if g.GameOver() {
		return g.paused
	}
	g.paused = !g.paused
	return g.paused
}

// RulesContext returns the context move generation needs for the current position.
func (g *Game) RulesContext() rules.Context {
	return rules.Context{
		EnPassantTarget:  g.epTarget,
		CastlingEnabled:  g.settings.CastlingEnabled,
		EnPassantEnabled: g.settings.EnPassantEnabled,
	}
}

// LegalMovesFrom returns the legal moves of the piece on sq.
func (g *Game) LegalMovesFrom(sq board.Square) []board.Move {
	return rules.LegalMoves(g.board, sq.Row, sq.Col, g.RulesContext())
}

// InCheck reports whether the king of color c is attacked.
func (g *Game) InCheck(c board.Color) bool {
	return rules.InCheck(g.board, c)
}

// KingPosition returns the square of the king of color c.
func (g *Game) KingPosition(c board.Color) (board.Square, bool) {
	return g.board.FindKing(c)
}

// Board returns a copy of the current board.
func (g *Game) Board() *board.Board { return g.board.Clone() }

// Turn returns the side to move.
func (g *Game) Turn() board.Color { return g.turn }

// Status returns whether the game is ongoing or how it ended.
func (g *Game) Status() Status { return g.status }

// GameOver reports whether the game has ended.
func (g *Game) GameOver() bool { return g.status != Ongoing }

// Winner returns the winner of a finished game.
func (g *Game) Winner() Winner { return g.winner }

// IsCheckmate reports whether the game ended in checkmate.
func (g *Game) IsCheckmate() bool { return g.status == Checkmate }

// IsStalemate reports whether the game ended in stalemate.
func (g *Game) IsStalemate() bool { return g.status == Stalemate }

// Paused reports whether the game is paused.
func (g *Game) Paused() bool { return g.paused }

// History returns the moves played so far, oldest first.
func (g *Game) History() []HistoryEntry { return slices.Clone(g.history) }

// Captured returns the types of the pieces of color c that have been captured, in capture order.
func (g *Game) Captured(c board.Color) []board.PieceType {
	if c != board.White && c != board.Black {
		return nil
	}
	return slices.Clone(g.captured[c])
}

// LastMove returns the most recent move, or board.NoMove.
func (g *Game) LastMove() board.Move { return g.lastMove }

// EnPassantTarget returns the square a pawn may capture onto en passant, or board.NoSquare.
func (g *Game) EnPassantTarget() board.Square { return g.epTarget }

// Settings returns a copy of the rule settings.
func (g *Game) Settings() Settings { return g.settings.clone() }

// SetSettings replaces the rule settings. They take effect from the next move.
// An empty promotion list keeps the current one.
func (g *Game) SetSettings(s Settings) {
	g.settings = s.sanitized(g.settings.PromotionPieces)
	g.logger.Debug("settings changed",
		zap.Bool("castling", g.settings.CastlingEnabled),
		zap.Bool("en_passant", g.settings.EnPassantEnabled),
		zap.String("promotion", g.settings.PromotionCodes()))
}
