package game

import (
	"slices"

	"github.com/hailam/chessgrid/internal/board"
)

// DefaultPromotionPieces lists the promotion choices offered in a new game.
var DefaultPromotionPieces = []board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// Settings holds the optional rules a game is played with.
type Settings struct {
	CastlingEnabled  bool
	EnPassantEnabled bool
	PromotionPieces  []board.PieceType
}

// DefaultSettings returns settings with every rule enabled.
func DefaultSettings() Settings {
	return Settings{
		CastlingEnabled:  true,
		EnPassantEnabled: true,
		PromotionPieces:  slices.Clone(DefaultPromotionPieces),
	}
}

// ToggleCastling flips the castling rule.
func (s *Settings) ToggleCastling() {
	s.CastlingEnabled = !s.CastlingEnabled
}

// ToggleEnPassant flips the en passant rule.
func (s *Settings) ToggleEnPassant() {
	s.EnPassantEnabled = !s.EnPassantEnabled
}

// SetPromotionPieces replaces the promotion allow-list. Pawns and kings are dropped.
// A list left with no piece would make every promotion impossible, so it is
// refused: the current list is kept and false is returned.
func (s *Settings) SetPromotionPieces(types []board.PieceType) bool {
	allowed := make([]board.PieceType, 0, len(types))
	for _, t := range types {
		switch t {
		case board.Queen, board.Rook, board.Bishop, board.Knight:
			if !slices.Contains(allowed, t) {
				allowed = append(allowed, t)
			}
		}
	}
	if len(allowed) == 0 {
		return false
	}
	s.PromotionPieces = allowed
	return true
}

// AllowsPromotion reports whether a pawn may promote to t.
func (s Settings) AllowsPromotion(t board.PieceType) bool {
	return slices.Contains(s.PromotionPieces, t)
}

// PromotionCodes returns the allow-list as piece codes, e.g. "qrbn".
func (s Settings) PromotionCodes() string {
	codes := make([]byte, len(s.PromotionPieces))
	for i, t := range s.PromotionPieces {
		codes[i] = t.Code()
	}
	return string(codes)
}

// ParsePromotionCodes converts a string of piece codes such as "qn" to piece types.
// The empty string is rejected.
func ParsePromotionCodes(codes string) ([]board.PieceType, bool) {
	if codes == "" {
		return nil, false
	}
	types := make([]board.PieceType, 0, len(codes))
	for i := 0; i < len(codes); i++ {
		t, ok := board.PieceTypeFromCode(codes[i])
		if !ok {
			return nil, false
		}
		switch t {
		case board.Queen, board.Rook, board.Bishop, board.Knight:
			types = append(types, t)
		default:
			return nil, false
		}
	}
	return types, true
}

func (s Settings) clone() Settings {
	s.PromotionPieces = slices.Clone(s.PromotionPieces)
	return s
}

// sanitized returns a copy of s whose allow-list is deduplicated and never
// empty. fallback replaces a list with no usable piece.
func (s Settings) sanitized(fallback []board.PieceType) Settings {
	s = s.clone()
	if !s.SetPromotionPieces(s.PromotionPieces) {
		s.PromotionPieces = slices.Clone(fallback)
	}
	return s
}
