package board

// Color represents the color of a piece or player.
// The zero value is NoColor so that an empty Piece has no owner.
type Color uint8

const (
	NoColor Color = iota
	White         // light side, back rank on row 7
	Black         // dark side, back rank on row 0
)

// Other returns the opposite color.
func (c Color) Other() Color {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return NoColor
	}
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Code returns the single-character boundary code for the color ('w' or 'b').
func (c Color) Code() byte {
	switch c {
	case White:
		return 'w'
	case Black:
		return 'b'
	default:
		return '-'
	}
}

// ColorFromCode converts a boundary code back to a Color.
func ColorFromCode(code byte) (Color, bool) {
	switch code {
	case 'w':
		return White, true
	case 'b':
		return Black, true
	default:
		return NoColor, false
	}
}

// PawnDirection returns the row delta of a forward pawn step.
// Light pawns move toward row 0, dark pawns toward row 7.
func (c Color) PawnDirection() int {
	if c == White {
		return -1
	}
	return 1
}

// BackRank returns the row holding the color's pieces in the initial position.
func (c Color) BackRank() int {
	if c == White {
		return 7
	}
	return 0
}

// PawnRow returns the row the color's pawns start on.
func (c Color) PawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

// PromotionRow returns the row on which the color's pawns promote.
func (c Color) PromotionRow() int {
	return c.Other().BackRank()
}

// PieceType represents the type of a chess piece.
// The zero value is NoPieceType.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Code returns the lowercase boundary code for the piece type.
func (pt PieceType) Code() byte {
	const codes = " pnbrqk"
	if pt > King {
		return ' '
	}
	return codes[pt]
}

// PieceTypeFromCode converts a lowercase boundary code to a PieceType.
func PieceTypeFromCode(code byte) (PieceType, bool) {
	switch code {
	case 'p':
		return Pawn, true
	case 'n':
		return Knight, true
	case 'b':
		return Bishop, true
	case 'r':
		return Rook, true
	case 'q':
		return Queen, true
	case 'k':
		return King, true
	default:
		return NoPieceType, false
	}
}

// Piece is plain value data: who owns it, what it is, and whether it has moved.
// Pieces are identified by the square they stand on, never by identity.
type Piece struct {
	Color    Color
	Type     PieceType
	HasMoved bool
}

// NoPiece is the empty square marker.
var NoPiece = Piece{}

// NewPiece creates an unmoved piece.
func NewPiece(pt PieceType, c Color) Piece {
	return Piece{Color: c, Type: pt}
}

// IsEmpty reports whether p marks an empty square.
func (p Piece) IsEmpty() bool {
	return p.Type == NoPieceType
}

// String returns the display character for the piece.
// Uppercase for light, lowercase for dark, "." when empty.
func (p Piece) String() string {
	if p.IsEmpty() {
		return "."
	}
	c := p.Type.Code()
	if p.Color == White {
		c -= 'a' - 'A'
	}
	return string(c)
}
