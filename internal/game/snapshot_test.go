package game

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/hailam/chessgrid/internal/board"
)

func TestSnapshotRestore(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "d7d5", "e4d5", "g8f6", "g1f3", "f6d5", "f1c4", "c7c5", "e1g1", "b7b5")

	data, err := json.Marshal(g.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	r, err := Restore(s)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	if r.board.String() != g.board.String() {
		t.Errorf("board mismatch:\n%s\nwant\n%s", r.board, g.board)
	}
	if r.Turn() != g.Turn() {
		t.Errorf("turn = %v, want %v", r.Turn(), g.Turn())
	}
	if r.EnPassantTarget() != g.EnPassantTarget() {
		t.Errorf("en passant target = %v, want %v", r.EnPassantTarget(), g.EnPassantTarget())
	}
	if r.LastMove() != g.LastMove() {
		t.Errorf("last move = %v, want %v", r.LastMove(), g.LastMove())
	}
	if len(r.History()) != len(g.History()) {
		t.Fatalf("history has %d entries, want %d", len(r.History()), len(g.History()))
	}
	for i, h := range g.History() {
		if r.History()[i] != h {
			t.Errorf("history[%d] = %+v, want %+v", i, r.History()[i], h)
		}
	}
	for _, c := range []board.Color{board.White, board.Black} {
		if got, want := len(r.Captured(c)), len(g.Captured(c)); got != want {
			t.Errorf("captured %v: %d pieces, want %d", c, got, want)
		}
	}

	// Moved flags survive: the castled king can no longer castle, but the
	// restored game accepts the same moves as the original.
	for _, sq := range []string{"d1", "g1", "f3", "b1"} {
		from, _ := board.ParseSquare(sq)
		if got, want := len(r.LegalMovesFrom(from)), len(g.LegalMovesFrom(from)); got != want {
			t.Errorf("%s: %d legal moves, want %d", sq, got, want)
		}
	}
}

func TestSnapshotKeepsEnPassantTarget(t *testing.T) {
	g := New()
	play(t, g, "e2e4", "a7a6", "e4e5", "d7d5")

	r, err := Restore(g.Snapshot())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	play(t, r, "e5d6")
}

func TestRestoreRecomputesStatus(t *testing.T) {
	g := New()
	play(t, g, foolsMate...)

	s := g.Snapshot()
	s.Settings.Promotion = "q"
	r, err := Restore(s)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !r.IsCheckmate() || r.Winner() != BlackWins {
		t.Errorf("status %v winner %v, want black checkmate", r.Status(), r.Winner())
	}
	if got := r.Settings().PromotionCodes(); got != "q" {
		t.Errorf("promotion pieces = %q, want %q", got, "q")
	}
}

func TestRestoreCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{"bad square", func(s *Snapshot) { s.Board[0].Square = "z9" }},
		{"duplicate square", func(s *Snapshot) { s.Board[1].Square = s.Board[0].Square }},
		{"bad color", func(s *Snapshot) { s.Board[0].Color = "x" }},
		{"bad type", func(s *Snapshot) { s.Board[0].Type = "z" }},
		{"missing king", func(s *Snapshot) {
			for i, rec := range s.Board {
				if rec.Type == "k" && rec.Color == "b" {
					s.Board = append(s.Board[:i], s.Board[i+1:]...)
					return
				}
			}
		}},
		{"bad turn", func(s *Snapshot) { s.Turn = "-" }},
		{"bad en passant", func(s *Snapshot) { s.EnPassant = "e9" }},
		{"bad promotion", func(s *Snapshot) { s.Settings.Promotion = "qk" }},
		{"empty promotion", func(s *Snapshot) { s.Settings.Promotion = "" }},
		{"bad history move", func(s *Snapshot) { s.History[0].Move = "e2" }},
		{"bad castling side", func(s *Snapshot) { s.History[0].Castling = "x" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := New()
			play(t, g, "e2e4")
			s := g.Snapshot()
			tc.mutate(&s)

			if _, err := Restore(s); !errors.Is(err, ErrCorruptSnapshot) {
				t.Fatalf("Restore() error = %v, want ErrCorruptSnapshot", err)
			}
		})
	}
}
