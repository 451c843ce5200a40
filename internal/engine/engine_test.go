package engine

import (
	"testing"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/board/boardtest"
	"github.com/hailam/chessgrid/internal/game"
	"github.com/hailam/chessgrid/internal/rules"
)

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

const backRankMate = `
	......k.
	.....ppp
	........
	........
	........
	........
	.....PPP
	R.....K.`

func TestEvaluateStartingPosition(t *testing.T) {
	b := board.NewBoard()
	for _, c := range []board.Color{board.White, board.Black} {
		if got := Evaluate(b, c); got != 0 {
			t.Errorf("Evaluate(start, %v) = %d, want 0", c, got)
		}
	}
}

func TestEvaluateMaterial(t *testing.T) {
	b := board.NewBoard()
	b.Remove(0, 3) // dark queen; its table entry on d8 is 0

	if got := Evaluate(b, board.White); got != QueenValue {
		t.Errorf("Evaluate(White) = %d, want %d", got, QueenValue)
	}
	if got := Evaluate(b, board.Black); got != -QueenValue {
		t.Errorf("Evaluate(Black) = %d, want %d", got, -QueenValue)
	}
}

func TestEvaluateMirrorsTables(t *testing.T) {
	// A light pawn one step from promotion and a dark pawn one step from
	// promotion read the same table entry.
	b := boardtest.FromDiagram(t, `
		....k...
		P.......
		........
		........
		........
		........
		.......p
		....K...`)

	if got := Evaluate(b, board.White); got != 0 {
		t.Errorf("Evaluate() = %d, want 0 for a mirrored position", got)
	}
	if got := squareBonus(board.NewPiece(board.Pawn, board.White), 1, 0); got != 5 {
		t.Errorf("light pawn on a7 bonus = %d, want 5", got)
	}
	if got := squareBonus(board.NewPiece(board.Pawn, board.Black), 6, 7); got != 5 {
		t.Errorf("dark pawn on h2 bonus = %d, want 5", got)
	}
}

func TestMinimaxDepthZero(t *testing.T) {
	b := board.NewBoard()
	b.Remove(7, 1)

	for _, depth := range []int{0, -1, -5} {
		move, score := Minimax(b, depth, true, -Infinity, Infinity, board.Black, rules.DefaultContext())
		if !move.IsNone() {
			t.Errorf("depth %d returned move %v", depth, move)
		}
		if want := Evaluate(b, board.Black); score != want {
			t.Errorf("depth %d: score = %d, want %d", depth, score, want)
		}
	}
}

func TestMinimaxTerminalScores(t *testing.T) {
	// Dark is mated: light's back rank mate has already been played.
	mated := boardtest.FromDiagram(t, `
		R.....k.
		.....ppp
		........
		........
		........
		........
		.....PPP
		......K.`)

	if _, score := Minimax(mated, 2, false, -Infinity, Infinity, board.White, rules.DefaultContext()); score != MateScore {
		t.Errorf("mated minimizer: score = %d, want %d", score, MateScore)
	}
	if _, score := Minimax(mated, 2, true, -Infinity, Infinity, board.Black, rules.DefaultContext()); score != -MateScore {
		t.Errorf("mated maximizer: score = %d, want %d", score, -MateScore)
	}

	stalemate := boardtest.FromDiagram(t, `
		k.......
		..Q.....
		.K......
		........
		........
		........
		........
		........`)
	if _, score := Minimax(stalemate, 2, true, -Infinity, Infinity, board.Black, rules.DefaultContext()); score != 0 {
		t.Errorf("stalemate: score = %d, want 0", score)
	}
}

func TestBestMoveMateInOne(t *testing.T) {
	g := gameFrom(t, backRankMate, board.White)
	e := New(g)

	var info SearchInfo
	e.OnInfo = func(i SearchInfo) { info = i }

	move, ok := e.BestMove(board.White)
	if !ok {
		t.Fatal("BestMove found no move")
	}
	if move.String() != "a1a8" {
		t.Errorf("BestMove = %v, want a1a8", move)
	}
	if info.Score != MateScore || info.Depth != DefaultDepth || info.Nodes == 0 {
		t.Errorf("info = %+v, want mate score at depth %d", info, DefaultDepth)
	}

	if r := g.Play(move); r != game.MoveApplied {
		t.Fatalf("Play(%v) = %v", move, r)
	}
	if !g.IsCheckmate() || g.Winner() != game.WhiteWins {
		t.Errorf("status %v winner %v, want white checkmate", g.Status(), g.Winner())
	}
}

func TestBestMoveMateInOneForDark(t *testing.T) {
	g := gameFrom(t, `
		r.....k.
		.....ppp
		........
		........
		........
		........
		.....PPP
		......K.`, board.Black)
	e := New(g, WithCaptureOrdering(true))

	move, ok := e.BestMove(board.Black)
	if !ok || move.String() != "a8a1" {
		t.Errorf("BestMove = %v, %v; want a8a1", move, ok)
	}
}

func TestBestMoveDeterministic(t *testing.T) {
	g := game.New()
	e := New(g)

	first, _ := e.BestMove(board.White)
	for i := 0; i < 3; i++ {
		if m, _ := e.BestMove(board.White); m != first {
			t.Fatalf("run %d returned %v, first run returned %v", i, m, first)
		}
	}
	t.Logf("Best move: %s", first)
}

func TestBestMoveDoesNotTouchGame(t *testing.T) {
	g := game.New()
	before := g.Board().String()

	e := New(g, WithDepth(3), WithTrackedContext(true))
	if _, ok := e.BestMove(board.White); !ok {
		t.Fatal("no move from the starting position")
	}
	if g.Board().String() != before || g.Turn() != board.White || len(g.History()) != 0 {
		t.Error("search modified the live game")
	}
}

func TestBestMoveAutoQueens(t *testing.T) {
	g := gameFrom(t, `
		........
		P.......
		.......k
		........
		........
		........
		........
		....K...`, board.White)
	e := New(g)

	move, ok := e.BestMove(board.White)
	if !ok || move.String() != "a7a8q" {
		t.Errorf("BestMove = %v, want a7a8q", move)
	}
}

func TestBestMoveNoLegalMoves(t *testing.T) {
	g := game.New()
	for _, s := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		if r := g.Play(boardtest.Move(t, s)); r != game.MoveApplied {
			t.Fatalf("%s: %v", s, r)
		}
	}

	if move, ok := New(g).BestMove(board.White); ok || !move.IsNone() {
		t.Errorf("BestMove in a mated position = %v, %v", move, ok)
	}
}

func TestEvaluation(t *testing.T) {
	if got := New(game.New()).Evaluation(); got < -10 || got > 10 {
		t.Errorf("Evaluation() of the starting position = %d, want near 0", got)
	}

	// Light is a queen up with dark to move.
	g := gameFrom(t, `
		....k...
		........
		........
		........
		........
		........
		........
		...QK...`, board.Black)
	if got := New(g).Evaluation(); got < QueenValue/2 {
		t.Errorf("Evaluation() = %d, want a large light advantage", got)
	}
}

func TestDifficulty(t *testing.T) {
	e := New(game.New())
	if e.Depth() != DefaultDepth {
		t.Fatalf("default depth = %d, want %d", e.Depth(), DefaultDepth)
	}

	tests := []struct {
		name  string
		depth int
	}{
		{"easy", 1},
		{"medium", 2},
		{"hard", 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := ParseDifficulty(tc.name)
			if !ok {
				t.Fatalf("ParseDifficulty(%q) failed", tc.name)
			}
			e.SetDifficulty(d)
			if e.Depth() != tc.depth {
				t.Errorf("depth = %d, want %d", e.Depth(), tc.depth)
			}
		})
	}

	if _, ok := ParseDifficulty("impossible"); ok {
		t.Error("unknown difficulty parsed")
	}
	e.SetDepth(0)
	if e.Depth() != 1 {
		t.Errorf("SetDepth(0) gave depth %d, want 1", e.Depth())
	}
}

func TestCaptureOrdering(t *testing.T) {
	b := boardtest.FromDiagram(t, `
		....k...
		........
		........
		...q.r..
		....P...
		........
		........
		....K...`)
	moves := rules.LegalMoves(b, 4, 4, rules.DefaultContext())
	orderCaptures(b, moves)

	want := []string{"e4d5", "e4f5", "e4e5"}
	if len(moves) != len(want) {
		t.Fatalf("moves = %v, want %v", moves, want)
	}
	for i, s := range want {
		if moves[i].String() != s {
			t.Errorf("moves[%d] = %v, want %s", i, moves[i], s)
		}
	}
}
