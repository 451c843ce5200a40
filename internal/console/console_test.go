package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/board/boardtest"
	"github.com/hailam/chessgrid/internal/engine"
	"github.com/hailam/chessgrid/internal/game"
	"github.com/hailam/chessgrid/internal/storage"
)

type harness struct {
	c   *Console
	out *bytes.Buffer
}

func newHarness(t *testing.T, g *game.Game, opts ...Option) *harness {
	t.Helper()
	var out bytes.Buffer
	return &harness{c: New(g, engine.New(g), &out, opts...), out: &out}
}

// exec runs each line and returns everything written while doing so.
func (h *harness) exec(lines ...string) string {
	h.out.Reset()
	for _, line := range lines {
		h.c.Execute(context.Background(), line)
	}
	return h.out.String()
}

func wantContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

// gameFrom restores a game holding the diagram position with turn to move.
func gameFrom(t *testing.T, diagram string, turn board.Color) *game.Game {
	t.Helper()
	b := boardtest.FromDiagram(t, diagram)

	s := game.Snapshot{
		Turn:      string(turn.Code()),
		EnPassant: "-",
		Settings:  game.SettingsRecord{Castling: true, EnPassant: true, Promotion: "qrbn"},
	}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p, ok := b.Piece(row, col); ok {
				s.Board = append(s.Board, game.SquareRecord{
					Square: board.Sq(row, col).String(),
					PieceRecord: game.PieceRecord{
						Color: string(p.Color.Code()),
						Type:  string(p.Type.Code()),
						Moved: p.HasMoved,
					},
				})
			}
		}
	}

	g, err := game.Restore(s)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	return g
}

const promotionPosition = `
	........
	P.......
	.......k
	........
	........
	........
	........
	....K...`

func TestRunScholarsMate(t *testing.T) {
	var out bytes.Buffer
	g := game.New()
	c := New(g, engine.New(g), &out)

	script := strings.Join([]string{
		"move e2e4", "move e7e5", "move f1c4", "move b8c6",
		"move d1h5", "move g8f6", "move h5f7",
		"status", "quit", "d",
	}, "\n")
	if err := c.Run(context.Background(), strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantContains(t, out.String(), "ok e2e4", "ok h5f7", "status checkmate, white wins")
	if strings.Contains(out.String(), "to move") {
		t.Error("commands after quit were executed")
	}
	if !g.IsCheckmate() {
		t.Error("game not over after the mating move")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	g := game.New()
	c := New(g, engine.New(g), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, strings.NewReader("move e2e4\n")); err != context.Canceled {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
	if len(g.History()) != 0 {
		t.Error("move played after cancellation")
	}
}

func TestMoveErrors(t *testing.T) {
	h := newHarness(t, game.New())

	tests := []struct {
		line string
		want string
	}{
		{"move", "usage: move"},
		{"move e2", "invalid move: e2"},
		{"move e2e5", "illegal move: e2e5"},
		{"move e7e5", "illegal move: e7e5"},
		{"move z2e4", "invalid move: z2e4"},
		{"moves", "usage: moves"},
		{"moves j9", "invalid square: j9"},
		{"fly", "unknown command: fly"},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			wantContains(t, h.exec(tc.line), tc.want)
		})
	}
	if len(h.c.Game().History()) != 0 {
		t.Error("a rejected command changed the game")
	}
}

func TestMovesAndHistory(t *testing.T) {
	h := newHarness(t, game.New())

	wantContains(t, h.exec("moves e2"), "moves e2: e2e3 e2e4")
	wantContains(t, h.exec("moves E7"), "moves e7: e7e6 e7e5")
	wantContains(t, h.exec("moves e4"), "moves e4: \n")
	wantContains(t, h.exec("history"), "no moves")

	h.exec("move e2e4", "move e7e5", "move g1f3")
	wantContains(t, h.exec("history"), "1. e2e4 e7e5\n2. g1f3\n")
	wantContains(t, h.exec("status"), "status ongoing, black to move")
}

func TestPromotion(t *testing.T) {
	h := newHarness(t, gameFrom(t, promotionPosition, board.White))

	wantContains(t, h.exec("move a7a8"), "promotion required: add one of qrbn")
	wantContains(t, h.exec("set promotion rn"), "promotion rn")
	wantContains(t, h.exec("move a7a8q"), "illegal move: a7a8q")
	wantContains(t, h.exec("move a7a8r"), "ok a7a8r")

	if p, _ := h.c.Game().Board().Piece(0, 0); p.Type != board.Rook {
		t.Errorf("a8 holds %v, want a rook", p)
	}
}

func TestEngineCommands(t *testing.T) {
	h := newHarness(t, game.New())

	out := h.exec("best")
	wantContains(t, out, "info depth 2", "nodes", "bestmove ")
	if len(h.c.Game().History()) != 0 {
		t.Error("best played a move")
	}

	wantContains(t, h.exec("go"), "bestmove ")
	if h.c.Game().Turn() != board.Black || len(h.c.Game().History()) != 1 {
		t.Error("go did not play a move for white")
	}

	wantContains(t, h.exec("set depth 1"), "ok depth 1")
	wantContains(t, h.exec("set difficulty hard"), "ok difficulty hard depth 3")
	wantContains(t, h.exec("set depth x"), "invalid depth")
	wantContains(t, h.exec("set difficulty brutal"), "invalid difficulty")
	wantContains(t, h.exec("eval"), "eval ")
}

func TestEnginePromotionHonoursSettings(t *testing.T) {
	h := newHarness(t, gameFrom(t, promotionPosition, board.White))

	h.exec("set promotion rn")
	wantContains(t, h.exec("go"), "bestmove a7a8r")
	if p, _ := h.c.Game().Board().Piece(0, 0); p.Type != board.Rook {
		t.Errorf("a8 holds %v, want a rook", p)
	}
}

func TestEngineAfterGameOver(t *testing.T) {
	h := newHarness(t, game.New())
	out := h.exec("move f2f3", "move e7e5", "move g2g4", "move d8h4")
	wantContains(t, out, "status checkmate, black wins")

	out = h.exec("go")
	wantContains(t, out, "status checkmate")
	if strings.Contains(out, "bestmove") {
		t.Error("engine searched a finished game")
	}
}

func TestSettingsCommands(t *testing.T) {
	h := newHarness(t, gameFrom(t, `
		r...k..r
		........
		........
		........
		........
		........
		........
		R...K..R`, board.White))

	wantContains(t, h.exec("moves e1"), "e1g1", "e1c1")

	wantContains(t, h.exec("set castling off"), "ok castling off enpassant on promotion qrbn")
	if out := h.exec("moves e1"); strings.Contains(out, "e1g1") || strings.Contains(out, "e1c1") {
		t.Errorf("castling still offered: %s", out)
	}

	wantContains(t, h.exec("set enpassant off"), "enpassant off")
	wantContains(t, h.exec("set castling maybe"), "usage: set castling on|off")
	wantContains(t, h.exec("set promotion kp"), "invalid promotion pieces")
	wantContains(t, h.exec("set colour white"), "unknown option: colour")
	wantContains(t, h.exec("set"), "usage: set")
}

func TestPause(t *testing.T) {
	h := newHarness(t, game.New())

	wantContains(t, h.exec("pause"), "paused")
	wantContains(t, h.exec("move e2e4"), "game paused")
	wantContains(t, h.exec("go"), "game paused")
	wantContains(t, h.exec("status"), ", paused")
	wantContains(t, h.exec("pause"), "resumed")
	wantContains(t, h.exec("move e2e4"), "ok e2e4")
}

func TestClock(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := game.NewClock(5, 2*time.Second, game.WithTimeSource(func() time.Time { return now }))
	h := newHarness(t, game.New(), WithClock(clk, 5))

	wantContains(t, h.exec("clock"), "clock white 5:00 black 5:00")

	h.exec("move e2e4")
	now = now.Add(10 * time.Second)
	wantContains(t, h.exec("clock"), "clock white 5:02 black 4:50")

	now = now.Add(10 * time.Minute)
	wantContains(t, h.exec("move e7e5"), "time expired for black")
	if len(h.c.Game().History()) != 1 {
		t.Error("move accepted after the flag fell")
	}

	h.exec("new")
	wantContains(t, h.exec("clock"), "clock white 5:00 black 5:00")

	wantContains(t, newHarness(t, game.New()).exec("clock"), "no clock")
}

func TestStorageCommands(t *testing.T) {
	st, err := storage.OpenBadger(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := newHarness(t, game.New(), WithStore(st))
	wantContains(t, h.exec("list"), "no saved games")

	h.exec("move e2e4", "move d7d5")
	out := h.exec("save")
	if !strings.HasPrefix(out, "saved ") {
		t.Fatalf("save output = %q", out)
	}
	id := strings.TrimSpace(strings.TrimPrefix(out, "saved "))

	wantContains(t, h.exec("list"), id, "2 moves ongoing")

	h.exec("new")
	out = h.exec("load " + id)
	wantContains(t, out, "loaded "+id, "status ongoing, white to move")
	if h.c.Game().LastMove().String() != "d7d5" {
		t.Errorf("last move after load = %v", h.c.Game().LastMove())
	}
	wantContains(t, h.exec("move e4d5"), "ok e4d5")

	wantContains(t, h.exec("load 00000000-0000-0000-0000-000000000000"), "no saved game")
	wantContains(t, h.exec("delete "+id), "deleted "+id)
	wantContains(t, h.exec("delete "+id), "no saved game")
	wantContains(t, h.exec("load"), "usage: load")
}

func TestStatsRecordedOnce(t *testing.T) {
	st, err := storage.OpenBadger(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	h := newHarness(t, game.New(), WithStore(st), WithPlayer(board.White))
	h.exec("move f2f3", "move e7e5", "move g2g4", "move d8h4", "move e2e4", "status")

	wantContains(t, h.exec("stats"), "games 1 wins 0 losses 1 draws 0")

	h.exec("new", "move e2e4", "move f7f6", "move d2d4", "move g7g5", "move d1h5")
	wantContains(t, h.exec("stats"), "games 2 wins 1 losses 1 draws 0 win rate 50%")
}

func TestStorageDisabled(t *testing.T) {
	h := newHarness(t, game.New())
	for _, cmd := range []string{"save", "load x", "list", "delete x", "stats"} {
		if out := h.exec(cmd); out != "storage disabled\n" {
			t.Errorf("%s: output = %q", cmd, out)
		}
	}
}

func TestPNGCommand(t *testing.T) {
	h := newHarness(t, game.New())
	path := filepath.Join(t.TempDir(), "board.png")

	wantContains(t, h.exec("png "+path), "wrote "+path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read png: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("file is not a PNG")
	}

	wantContains(t, h.exec("png"), "usage: png")
	wantContains(t, h.exec("png "+filepath.Join(t.TempDir(), "missing", "b.png")), "error:")
}

func TestBoardDisplay(t *testing.T) {
	h := newHarness(t, game.New())
	out := h.exec("d")
	wantContains(t, out, "white to move", "R N B Q K B N R", "r n b q k b n r")
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{time.Second, "0:01"},
		{1500 * time.Millisecond, "0:02"},
		{5 * time.Minute, "5:00"},
		{10*time.Minute + 59*time.Second, "10:59"},
	}
	for _, tc := range tests {
		if got := formatClock(tc.d); got != tc.want {
			t.Errorf("formatClock(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
