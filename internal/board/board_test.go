package board

import (
	"errors"
	"testing"
)

func TestNewBoardStartingPosition(t *testing.T) {
	b := NewBoard()

	tests := []struct {
		sq    string
		color Color
		pt    PieceType
	}{
		{"a1", White, Rook},
		{"b1", White, Knight},
		{"c1", White, Bishop},
		{"d1", White, Queen},
		{"e1", White, King},
		{"h1", White, Rook},
		{"e2", White, Pawn},
		{"a8", Black, Rook},
		{"d8", Black, Queen},
		{"e8", Black, King},
		{"g8", Black, Knight},
		{"h7", Black, Pawn},
	}

	for _, tc := range tests {
		t.Run(tc.sq, func(t *testing.T) {
			sq, err := ParseSquare(tc.sq)
			if err != nil {
				t.Fatalf("ParseSquare(%q): %v", tc.sq, err)
			}
			p, ok := b.PieceAt(sq)
			if !ok {
				t.Fatalf("expected a piece on %s", tc.sq)
			}
			if p.Color != tc.color || p.Type != tc.pt {
				t.Errorf("%s: got %v %v, want %v %v", tc.sq, p.Color, p.Type, tc.color, tc.pt)
			}
			if p.HasMoved {
				t.Errorf("%s: piece should start unmoved", tc.sq)
			}
		})
	}

	for row := 2; row < 6; row++ {
		for col := 0; col < 8; col++ {
			if _, ok := b.Piece(row, col); ok {
				t.Errorf("expected (%d,%d) to be empty", row, col)
			}
		}
	}
}

func TestPieceOutOfRange(t *testing.T) {
	b := NewBoard()
	for _, c := range [][2]int{{-1, 0}, {8, 0}, {0, -1}, {0, 8}} {
		p, ok := b.Piece(c[0], c[1])
		if ok || !p.IsEmpty() {
			t.Errorf("Piece(%d,%d) = %v, %v; want empty, false", c[0], c[1], p, ok)
		}
	}
}

func TestMovePiece(t *testing.T) {
	b := NewBoard()
	b.MovePiece(6, 4, 4, 4)

	if _, ok := b.Piece(6, 4); ok {
		t.Error("source square should be empty after move")
	}
	p, ok := b.Piece(4, 4)
	if !ok || p.Type != Pawn || p.Color != White {
		t.Fatalf("expected white pawn on (4,4), got %v", p)
	}
	if !p.HasMoved {
		t.Error("moved piece should be marked as moved")
	}
}

func TestMovePieceOverwritesDestination(t *testing.T) {
	b := NewEmptyBoard()
	b.Set(4, 4, NewPiece(Pawn, White))
	b.Set(3, 4, NewPiece(Pawn, Black))

	b.MovePiece(4, 4, 3, 4)

	if _, ok := b.Piece(4, 4); ok {
		t.Error("source square should be empty")
	}
	p, _ := b.Piece(3, 4)
	if p.Color != White {
		t.Errorf("destination should hold the white pawn, got %v", p)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	b := NewBoard()
	c := b.Clone()

	c.MovePiece(6, 4, 4, 4)
	c.SetType(7, 3, Knight)
	c.Remove(0, 0)

	if p, ok := b.Piece(6, 4); !ok || p.HasMoved {
		t.Error("original pawn should be untouched by clone mutation")
	}
	if p, _ := b.Piece(7, 3); p.Type != Queen {
		t.Errorf("original queen changed to %v", p.Type)
	}
	if _, ok := b.Piece(0, 0); !ok {
		t.Error("original rook removed by clone mutation")
	}
	if b.String() == c.String() {
		t.Error("clone should differ after mutation")
	}
}

func TestFindKing(t *testing.T) {
	b := NewBoard()

	if sq, ok := b.FindKing(White); !ok || sq != Sq(7, 4) {
		t.Errorf("white king at %v, %v; want e1", sq, ok)
	}
	if sq, ok := b.FindKing(Black); !ok || sq != Sq(0, 4) {
		t.Errorf("black king at %v, %v; want e8", sq, ok)
	}

	b.Remove(0, 4)
	if sq, ok := b.FindKing(Black); ok || sq != NoSquare {
		t.Errorf("expected no black king, got %v", sq)
	}
	if err := b.Validate(); err == nil {
		t.Error("Validate should fail without a black king")
	}
}

func TestResetRestoresInitialPosition(t *testing.T) {
	b := NewBoard()
	b.MovePiece(6, 4, 4, 4)
	b.MovePiece(1, 4, 3, 4)

	b.Reset()

	if b.String() != NewBoard().String() {
		t.Errorf("board after reset:\n%s", b)
	}
	if p, _ := b.Piece(6, 4); p.HasMoved {
		t.Error("reset pawn should be unmoved")
	}
}

func TestBoardString(t *testing.T) {
	want := "r n b q k b n r\n" +
		"p p p p p p p p\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		". . . . . . . .\n" +
		"P P P P P P P P\n" +
		"R N B Q K B N R"
	if got := NewBoard().String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestCodes(t *testing.T) {
	for _, pt := range []PieceType{Pawn, Knight, Bishop, Rook, Queen, King} {
		got, ok := PieceTypeFromCode(pt.Code())
		if !ok || got != pt {
			t.Errorf("code %c does not map back to %v", pt.Code(), pt)
		}
	}
	if White.Code() != 'w' || Black.Code() != 'b' {
		t.Errorf("color codes = %c/%c, want w/b", White.Code(), Black.Code())
	}
	if White.Other() != Black || Black.Other() != White {
		t.Error("Other() should swap colors")
	}
}

func TestParseSquareAndMove(t *testing.T) {
	sq, err := ParseSquare("e4")
	if err != nil || sq != Sq(4, 4) {
		t.Errorf("ParseSquare(e4) = %v, %v", sq, err)
	}
	if _, err := ParseSquare("i9"); !errors.Is(err, ErrInvalidSquare) {
		t.Errorf("expected ErrInvalidSquare, got %v", err)
	}

	m, err := ParseMove("e7e8q")
	if err != nil {
		t.Fatalf("ParseMove: %v", err)
	}
	if m.From != Sq(1, 4) || m.To != Sq(0, 4) || m.Promotion != Queen {
		t.Errorf("ParseMove(e7e8q) = %+v", m)
	}
	if m.String() != "e7e8q" {
		t.Errorf("String() = %s", m.String())
	}
	if _, err := ParseMove("e7e8k"); err == nil {
		t.Error("king promotion should be rejected")
	}
}
