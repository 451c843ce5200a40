package board

import (
	"fmt"
	"strings"
)

// backRow is the initial piece order on both back ranks, a-file first.
var backRow = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is a row-major 8x8 grid of pieces.
// Pieces are stored by value, so copying a Board never aliases piece data.
type Board struct {
	squares [8][8]Piece
}

// NewBoard creates a board in the starting position.
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// NewEmptyBoard creates a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// Reset places all pieces on their starting squares.
func (b *Board) Reset() {
	b.Clear()

	for col := 0; col < 8; col++ {
		b.squares[Black.PawnRow()][col] = NewPiece(Pawn, Black)
		b.squares[White.PawnRow()][col] = NewPiece(Pawn, White)
	}

	for col, pt := range backRow {
		b.squares[Black.BackRank()][col] = NewPiece(pt, Black)
		b.squares[White.BackRank()][col] = NewPiece(pt, White)
	}
}

// Clear removes every piece from the board.
func (b *Board) Clear() {
	b.squares = [8][8]Piece{}
}

// Piece returns the piece at (row, col). The second result is false for
// empty squares and for coordinates off the board.
func (b *Board) Piece(row, col int) (Piece, bool) {
	if !Inside(row, col) {
		return NoPiece, false
	}
	p := b.squares[row][col]
	return p, !p.IsEmpty()
}

// PieceAt is Piece addressed by Square.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	return b.Piece(sq.Row, sq.Col)
}

// IsEmpty returns true if the square is on the board and unoccupied.
func (b *Board) IsEmpty(row, col int) bool {
	return Inside(row, col) && b.squares[row][col].IsEmpty()
}

// Set places a piece on a square, replacing whatever was there.
// Off-board coordinates are ignored.
func (b *Board) Set(row, col int, p Piece) {
	if !Inside(row, col) {
		return
	}
	b.squares[row][col] = p
}

// Remove clears a square and returns the piece that stood on it.
func (b *Board) Remove(row, col int) Piece {
	if !Inside(row, col) {
		return NoPiece
	}
	p := b.squares[row][col]
	b.squares[row][col] = NoPiece
	return p
}

// MovePiece relocates the piece on the source square to the destination,
// overwriting the destination and clearing the source. The moved piece is
// marked as having moved. No legality check is performed and captures are
// not recorded; both are the caller's concern. Off-board coordinates are ignored.
func (b *Board) MovePiece(fromRow, fromCol, toRow, toCol int) {
	if !Inside(fromRow, fromCol) || !Inside(toRow, toCol) {
		return
	}
	p := b.squares[fromRow][fromCol]
	if !p.IsEmpty() {
		p.HasMoved = true
	}
	b.squares[toRow][toCol] = p
	b.squares[fromRow][fromCol] = NoPiece
}

// SetType rewrites the type of the piece on a square in place (used for promotion).
func (b *Board) SetType(row, col int, pt PieceType) {
	if !Inside(row, col) || b.squares[row][col].IsEmpty() {
		return
	}
	b.squares[row][col].Type = pt
}

// Clone creates an independent copy of the board.
func (b *Board) Clone() *Board {
	nb := *b
	return &nb
}

// FindKing locates the king of the given color by scanning the grid.
func (b *Board) FindKing(c Color) (Square, bool) {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if p.Type == King && p.Color == c {
				return Square{Row: row, Col: col}, true
			}
		}
	}
	return NoSquare, false
}

// Count returns how many pieces of the given color and type are on the board.
func (b *Board) Count(c Color, pt PieceType) int {
	n := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.squares[row][col]
			if p.Color == c && p.Type == pt {
				n++
			}
		}
	}
	return n
}

// Validate checks structural invariants of a committed board.
func (b *Board) Validate() error {
	if n := b.Count(White, King); n != 1 {
		return fmt.Errorf("white must have exactly one king, found %d", n)
	}
	if n := b.Count(Black, King); n != 1 {
		return fmt.Errorf("black must have exactly one king, found %d", n)
	}
	return nil
}

// String returns a visual representation of the board, row 0 first.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.squares[row][col].String())
		}
		if row < 7 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
