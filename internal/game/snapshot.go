package game

import (
	"fmt"

	"github.com/hailam/chessgrid/internal/board"
)

// Snapshot is the serializable form of a game. Fields are written in the order
// board, turn, en passant target, settings, history.
type Snapshot struct {
	Board     []SquareRecord `json:"board"`
	Turn      string         `json:"turn"`
	EnPassant string         `json:"en_passant"`
	Settings  SettingsRecord `json:"settings"`
	History   []MoveRecord   `json:"history"`
}

// PieceRecord stores a piece with its color and type codes.
type PieceRecord struct {
	Color string `json:"color"`
	Type  string `json:"type"`
	Moved bool   `json:"moved,omitempty"`
}

// SquareRecord stores an occupied square.
type SquareRecord struct {
	Square string `json:"square"`
	PieceRecord
}

// SettingsRecord stores the rule settings.
type SettingsRecord struct {
	Castling  bool   `json:"castling"`
	EnPassant bool   `json:"en_passant"`
	Promotion string `json:"promotion"`
}

// MoveRecord stores one history entry.
type MoveRecord struct {
	Move      string       `json:"move"`
	Castling  string       `json:"castling,omitempty"`
	EnPassant bool         `json:"en_passant,omitempty"`
	Piece     PieceRecord  `json:"piece"`
	Captured  *PieceRecord `json:"captured,omitempty"`
}

func pieceRecord(p board.Piece) PieceRecord {
	return PieceRecord{
		Color: string(p.Color.Code()),
		Type:  string(p.Type.Code()),
		Moved: p.HasMoved,
	}
}

func (r PieceRecord) piece() (board.Piece, error) {
	if len(r.Color) != 1 || len(r.Type) != 1 {
		return board.NoPiece, fmt.Errorf("%w: piece %q%q", ErrCorruptSnapshot, r.Color, r.Type)
	}
	c, ok := board.ColorFromCode(r.Color[0])
	if !ok {
		return board.NoPiece, fmt.Errorf("%w: color %q", ErrCorruptSnapshot, r.Color)
	}
	t, ok := board.PieceTypeFromCode(r.Type[0])
	if !ok {
		return board.NoPiece, fmt.Errorf("%w: piece type %q", ErrCorruptSnapshot, r.Type)
	}
	p := board.NewPiece(t, c)
	p.HasMoved = r.Moved
	return p, nil
}

// Snapshot captures the current game.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Turn:      string(g.turn.Code()),
		EnPassant: g.epTarget.String(),
		Settings: SettingsRecord{
			Castling:  g.settings.CastlingEnabled,
			EnPassant: g.settings.EnPassantEnabled,
			Promotion: g.settings.PromotionCodes(),
		},
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, ok := g.board.Piece(row, col)
			if !ok {
				continue
			}
			s.Board = append(s.Board, SquareRecord{
				Square:      board.Sq(row, col).String(),
				PieceRecord: pieceRecord(p),
			})
		}
	}

	for _, h := range g.history {
		rec := MoveRecord{
			Move:      h.Move.String(),
			EnPassant: h.Move.EnPassant,
			Piece:     pieceRecord(h.Piece),
		}
		switch h.Move.Side {
		case board.KingSide:
			rec.Castling = "k"
		case board.QueenSide:
			rec.Castling = "q"
		}
		if !h.Captured.IsEmpty() {
			captured := pieceRecord(h.Captured)
			rec.Captured = &captured
		}
		s.History = append(s.History, rec)
	}

	return s
}

// Restore rebuilds a game from a snapshot. The board must hold exactly one king
// per color. The captured pieces and the last move are derived from the history,
// and the game status is recomputed from the restored position.
func Restore(s Snapshot, opts ...Option) (*Game, error) {
	g := New(opts...)
	g.board.Clear()

	for _, rec := range s.Board {
		sq, err := board.ParseSquare(rec.Square)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
		}
		if !g.board.IsEmpty(sq.Row, sq.Col) {
			return nil, fmt.Errorf("%w: square %s listed twice", ErrCorruptSnapshot, sq)
		}
		p, err := rec.piece()
		if err != nil {
			return nil, err
		}
		g.board.Set(sq.Row, sq.Col, p)
	}
	if err := g.board.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	if len(s.Turn) != 1 {
		return nil, fmt.Errorf("%w: turn %q", ErrCorruptSnapshot, s.Turn)
	}
	turn, ok := board.ColorFromCode(s.Turn[0])
	if !ok {
		return nil, fmt.Errorf("%w: turn %q", ErrCorruptSnapshot, s.Turn)
	}
	g.turn = turn

	if s.EnPassant != "" && s.EnPassant != "-" {
		sq, err := board.ParseSquare(s.EnPassant)
		if err != nil {
			return nil, fmt.Errorf("%w: en passant target: %v", ErrCorruptSnapshot, err)
		}
		g.epTarget = sq
	}

	promotion, ok := ParsePromotionCodes(s.Settings.Promotion)
	if !ok {
		return nil, fmt.Errorf("%w: promotion pieces %q", ErrCorruptSnapshot, s.Settings.Promotion)
	}
	g.settings = Settings{
		CastlingEnabled:  s.Settings.Castling,
		EnPassantEnabled: s.Settings.EnPassant,
		PromotionPieces:  promotion,
	}

	for i, rec := range s.History {
		entry, err := rec.entry()
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		if !entry.Captured.IsEmpty() {
			c := entry.Captured.Color
			g.captured[c] = append(g.captured[c], entry.Captured.Type)
		}
		g.history = append(g.history, entry)
		g.lastMove = entry.Move
	}

	g.updateStatus()
	return g, nil
}

func (r MoveRecord) entry() (HistoryEntry, error) {
	m, err := board.ParseMove(r.Move)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	switch r.Castling {
	case "":
	case "k":
		m.Castling, m.Side = true, board.KingSide
	case "q":
		m.Castling, m.Side = true, board.QueenSide
	default:
		return HistoryEntry{}, fmt.Errorf("%w: castling side %q", ErrCorruptSnapshot, r.Castling)
	}
	m.EnPassant = r.EnPassant

	piece, err := r.Piece.piece()
	if err != nil {
		return HistoryEntry{}, err
	}
	entry := HistoryEntry{Move: m, Piece: piece}
	if r.Captured != nil {
		if entry.Captured, err = r.Captured.piece(); err != nil {
			return HistoryEntry{}, err
		}
	}
	return entry, nil
}
