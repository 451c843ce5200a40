// Package console implements a line-oriented text protocol for playing a game
// against the engine from any reader and writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/engine"
	"github.com/hailam/chessgrid/internal/game"
	"github.com/hailam/chessgrid/internal/obslog"
	"github.com/hailam/chessgrid/internal/render"
	"github.com/hailam/chessgrid/internal/storage"
)

// Console drives a game and an engine from text commands.
type Console struct {
	game   *game.Game
	engine *engine.Engine
	store  storage.Store // nil disables save, load, list and stats

	clock        *game.Clock
	clockMinutes int

	out    io.Writer
	logger *zap.Logger

	player   board.Color // side whose results are recorded in the statistics
	started  time.Time
	recorded bool
}

// Option configures a Console.
type Option func(*Console)

// WithStore enables persistence commands.
func WithStore(st storage.Store) Option {
	return func(c *Console) {
		c.store = st
	}
}

// WithLogger sets the console logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock attaches a chess clock reset to minutes on every new game.
func WithClock(clk *game.Clock, minutes int) Option {
	return func(c *Console) {
		c.clock = clk
		c.clockMinutes = minutes
	}
}

// WithPlayer sets the side the local player plays for statistics.
func WithPlayer(color board.Color) Option {
	return func(c *Console) {
		c.player = color
	}
}

// New creates a console playing g with eng, writing responses to out.
func New(g *game.Game, eng *engine.Engine, out io.Writer, opts ...Option) *Console {
	c := &Console{
		game:    g,
		engine:  eng,
		out:     out,
		logger:  obslog.L().Named("console"),
		player:  board.White,
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	eng.OnInfo = c.sendInfo
	return c
}

// Game returns the game being played.
func (c *Console) Game() *game.Game { return c.game }

// Run reads commands from in until quit, end of input or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Execute(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line. It reports true when the line asks to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]
	c.logger.Debug("command", zap.String("cmd", cmd), zap.Strings("args", args))

	switch cmd {
	case "new":
		c.handleNew()
	case "move":
		c.handleMove(ctx, args)
	case "moves":
		c.handleMoves(args)
	case "go":
		c.handleGo(ctx, true)
	case "best":
		c.handleGo(ctx, false)
	case "eval":
		c.printf("eval %d\n", c.engine.Evaluation())
	case "d":
		c.printf("%s\n%s to move\n", c.game.Board(), colorName(c.game.Turn()))
	case "status":
		c.printf("%s\n", statusLine(c.game))
	case "history":
		c.handleHistory()
	case "pause":
		c.handlePause()
	case "set":
		c.handleSet(args)
	case "save":
		c.handleSave(ctx)
	case "load":
		c.handleLoad(ctx, args)
	case "list":
		c.handleList(ctx)
	case "delete":
		c.handleDelete(ctx, args)
	case "stats":
		c.handleStats(ctx)
	case "png":
		c.handlePNG(ctx, args)
	case "clock":
		c.handleClock()
	case "help":
		c.printf("%s", helpText)
	case "quit":
		return true
	default:
		c.printf("unknown command: %s\n", cmd)
	}
	return false
}

const helpText = `commands:
  new                          start a new game
  move <from><to>[q|r|b|n]     play a move, e.g. move e2e4 or move a7a8q
  moves <square>               list legal moves from a square
  go                           let the engine play the side to move
  best                         show the engine's move without playing it
  eval                         show the evaluation, positive favours white
  d                            draw the board
  status | history | clock     show game information
  pause                        pause or resume the game
  set castling|enpassant on|off
  set promotion <pieces>       e.g. set promotion qn
  set depth <n> | set difficulty easy|medium|hard
  save | load <id> | list | delete <id> | stats
  png <file>                   write the board as a PNG image
  quit
`

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) handleNew() {
	c.game.Reset()
	c.resetSession()
	c.printf("ok new game\n")
}

func (c *Console) resetSession() {
	c.started = time.Now()
	c.recorded = false
	if c.clock != nil {
		c.clock.Reset(c.clockMinutes)
	}
}

func (c *Console) handleMove(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("usage: move <from><to>[promotion]\n")
		return
	}
	m, err := board.ParseMove(strings.ToLower(args[0]))
	if err != nil {
		c.printf("invalid move: %s\n", args[0])
		return
	}
	if c.paused() || c.flagged() {
		return
	}

	mover := c.game.Turn()
	switch r := c.game.MakeMove(m.From.Row, m.From.Col, m.To.Row, m.To.Col, m.Promotion); r {
	case game.MoveApplied:
		c.printf("ok %s\n", c.game.LastMove())
		c.afterMove(ctx, mover)
	case game.PromotionRequired:
		c.printf("promotion required: add one of %s\n", c.game.Settings().PromotionCodes())
	default:
		c.printf("illegal move: %s\n", args[0])
	}
}

func (c *Console) paused() bool {
	if c.game.Paused() {
		c.printf("game paused\n")
		return true
	}
	return false
}

// flagged reports a side out of time; no more moves are accepted then.
func (c *Console) flagged() bool {
	if c.clock == nil {
		return false
	}
	if color, ok := c.clock.Flagged(); ok {
		c.printf("time expired for %s\n", colorName(color))
		return true
	}
	return false
}

// afterMove runs the clock and reports a finished game once.
func (c *Console) afterMove(ctx context.Context, mover board.Color) {
	if c.clock != nil {
		if c.clock.Active() == board.NoColor {
			c.clock.Start(mover)
		}
		c.clock.SwitchTurn()
	}

	if !c.game.GameOver() {
		return
	}
	if c.clock != nil {
		c.clock.Stop()
	}
	c.printf("%s\n", statusLine(c.game))
	c.recordResult(ctx)
}

func (c *Console) recordResult(ctx context.Context) {
	if c.recorded || c.store == nil {
		return
	}
	result, ok := storage.ResultFor(c.game, c.player, time.Since(c.started))
	if !ok {
		return
	}
	c.recorded = true
	if _, err := storage.RecordResult(ctx, c.store, result); err != nil {
		c.logger.Warn("record result", zap.Error(err))
		c.printf("error: %v\n", err)
	}
}

func (c *Console) handleMoves(args []string) {
	if len(args) != 1 {
		c.printf("usage: moves <square>\n")
		return
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		c.printf("invalid square: %s\n", args[0])
		return
	}

	moves := c.game.LegalMovesFrom(sq)
	names := make([]string, 0, len(moves))
	for _, m := range moves {
		names = append(names, m.String())
	}
	c.printf("moves %s: %s\n", sq, strings.Join(names, " "))
}

// handleGo searches for the side to move and plays the move when play is set.
func (c *Console) handleGo(ctx context.Context, play bool) {
	if c.game.GameOver() {
		c.printf("%s\n", statusLine(c.game))
		return
	}
	if play && (c.paused() || c.flagged()) {
		return
	}

	mover := c.game.Turn()
	move, ok := c.engine.BestMove(mover)
	if !ok {
		c.printf("bestmove 0000\n")
		return
	}
	move = c.allowedPromotion(move)
	c.printf("bestmove %s\n", move)
	if !play {
		return
	}

	if r := c.game.Play(move); r != game.MoveApplied {
		c.logger.Error("engine move rejected", zap.Stringer("move", move), zap.Stringer("result", r))
		c.printf("error: engine move %s rejected\n", move)
		return
	}
	c.afterMove(ctx, mover)
}

// allowedPromotion replaces the engine's queen promotion with the first
// allowed piece when queens are not allowed.
func (c *Console) allowedPromotion(m board.Move) board.Move {
	if m.Promotion == board.NoPieceType {
		return m
	}
	s := c.game.Settings()
	if !s.AllowsPromotion(m.Promotion) && len(s.PromotionPieces) > 0 {
		m.Promotion = s.PromotionPieces[0]
	}
	return m
}

func (c *Console) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))
	switch {
	case info.Score >= engine.MateScore:
		parts = append(parts, "score mate")
	case info.Score <= -engine.MateScore:
		parts = append(parts, "score mated")
	default:
		parts = append(parts, fmt.Sprintf("score %d", info.Score))
	}
	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))

	c.printf("info %s\n", strings.Join(parts, " "))
}

func (c *Console) handleHistory() {
	history := c.game.History()
	if len(history) == 0 {
		c.printf("no moves\n")
		return
	}
	for i := 0; i < len(history); i += 2 {
		line := fmt.Sprintf("%d. %s", i/2+1, history[i].Move)
		if i+1 < len(history) {
			line += " " + history[i+1].Move.String()
		}
		c.printf("%s\n", line)
	}
}

func (c *Console) handlePause() {
	if c.game.GameOver() {
		c.printf("%s\n", statusLine(c.game))
		return
	}
	paused := c.game.TogglePause()
	if c.clock != nil && c.clock.Active() != board.NoColor {
		if paused {
			c.clock.Stop()
		} else {
			c.clock.Start(c.game.Turn())
		}
	}
	if paused {
		c.printf("paused\n")
	} else {
		c.printf("resumed\n")
	}
}

func (c *Console) handleSet(args []string) {
	if len(args) != 2 {
		c.printf("usage: set <option> <value>\n")
		return
	}
	name, value := strings.ToLower(args[0]), strings.ToLower(args[1])
	s := c.game.Settings()

	switch name {
	case "castling", "enpassant":
		on, ok := parseSwitch(value)
		if !ok {
			c.printf("usage: set %s on|off\n", name)
			return
		}
		if name == "castling" {
			s.CastlingEnabled = on
		} else {
			s.EnPassantEnabled = on
		}
	case "promotion":
		types, ok := game.ParsePromotionCodes(value)
		if !ok {
			c.printf("invalid promotion pieces: %s\n", value)
			return
		}
		s.SetPromotionPieces(types)
	case "depth":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			c.printf("invalid depth: %s\n", value)
			return
		}
		c.engine.SetDepth(n)
		c.printf("ok depth %d\n", c.engine.Depth())
		return
	case "difficulty":
		d, ok := engine.ParseDifficulty(value)
		if !ok {
			c.printf("invalid difficulty: %s\n", value)
			return
		}
		c.engine.SetDifficulty(d)
		c.printf("ok difficulty %s depth %d\n", d, c.engine.Depth())
		return
	default:
		c.printf("unknown option: %s\n", name)
		return
	}

	c.game.SetSettings(s)
	c.printf("ok castling %s enpassant %s promotion %s\n",
		onOff(s.CastlingEnabled), onOff(s.EnPassantEnabled), s.PromotionCodes())
}

func (c *Console) requireStore() bool {
	if c.store == nil {
		c.printf("storage disabled\n")
		return false
	}
	return true
}

func (c *Console) handleSave(ctx context.Context) {
	if !c.requireStore() {
		return
	}
	id, err := c.store.SaveGame(ctx, c.game.Snapshot())
	if err != nil {
		c.logger.Warn("save game", zap.Error(err))
		c.printf("error: %v\n", err)
		return
	}
	c.logger.Info("game saved", zap.String("id", id))
	c.printf("saved %s\n", id)
}

func (c *Console) handleLoad(ctx context.Context, args []string) {
	if !c.requireStore() {
		return
	}
	if len(args) != 1 {
		c.printf("usage: load <id>\n")
		return
	}

	snap, err := c.store.LoadGame(ctx, args[0])
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.printf("no saved game %s\n", args[0])
			return
		}
		c.logger.Warn("load game", zap.Error(err))
		c.printf("error: %v\n", err)
		return
	}
	g, err := game.Restore(snap, game.WithLogger(c.logger))
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}

	c.game = g
	c.engine.SetGame(g)
	c.resetSession()
	c.recorded = g.GameOver()
	c.printf("loaded %s\n%s\n", args[0], statusLine(g))
}

func (c *Console) handleList(ctx context.Context) {
	if !c.requireStore() {
		return
	}
	games, err := c.store.ListGames(ctx)
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}
	if len(games) == 0 {
		c.printf("no saved games\n")
		return
	}
	for _, info := range games {
		c.printf("%s %s %d moves %s\n", info.ID, info.SavedAt.Local().Format(time.DateTime), info.Moves, info.Status)
	}
}

func (c *Console) handleDelete(ctx context.Context, args []string) {
	if !c.requireStore() {
		return
	}
	if len(args) != 1 {
		c.printf("usage: delete <id>\n")
		return
	}
	if err := c.store.DeleteGame(ctx, args[0]); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.printf("no saved game %s\n", args[0])
			return
		}
		c.printf("error: %v\n", err)
		return
	}
	c.printf("deleted %s\n", args[0])
}

func (c *Console) handleStats(ctx context.Context) {
	if !c.requireStore() {
		return
	}
	stats, err := c.store.LoadStats(ctx)
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}
	c.printf("games %d wins %d losses %d draws %d win rate %.0f%% streak %d best streak %d\n",
		stats.GamesPlayed, stats.Wins, stats.Losses, stats.Draws, stats.WinRate(),
		stats.CurrentStreak, stats.LongestWinStrk)
}

func (c *Console) handlePNG(ctx context.Context, args []string) {
	if len(args) != 1 {
		c.printf("usage: png <file>\n")
		return
	}
	f, err := os.Create(args[0])
	if err != nil {
		c.printf("error: %v\n", err)
		return
	}
	defer f.Close()

	if err := render.WritePNG(ctx, f, c.game); err != nil {
		c.logger.Warn("write png", zap.String("file", args[0]), zap.Error(err))
		c.printf("error: %v\n", err)
		return
	}
	c.printf("wrote %s\n", args[0])
}

func (c *Console) handleClock() {
	if c.clock == nil {
		c.printf("no clock\n")
		return
	}
	c.printf("clock white %s black %s\n",
		formatClock(c.clock.Remaining(board.White)), formatClock(c.clock.Remaining(board.Black)))
}

func statusLine(g *game.Game) string {
	switch g.Status() {
	case game.Checkmate:
		return fmt.Sprintf("status checkmate, %s wins", colorName(g.Winner().Color()))
	case game.Stalemate:
		return "status stalemate, draw"
	}

	line := fmt.Sprintf("status ongoing, %s to move", colorName(g.Turn()))
	if g.InCheck(g.Turn()) {
		line += ", check"
	}
	if g.Paused() {
		line += ", paused"
	}
	return line
}

func colorName(c board.Color) string {
	return strings.ToLower(c.String())
}

func parseSwitch(s string) (bool, bool) {
	switch s {
	case "on", "true", "1":
		return true, true
	case "off", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// formatClock renders d as m:ss, rounding partial seconds up.
func formatClock(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
