package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/config"
	"github.com/hailam/chessgrid/internal/console"
	"github.com/hailam/chessgrid/internal/engine"
	"github.com/hailam/chessgrid/internal/game"
	"github.com/hailam/chessgrid/internal/obslog"
	"github.com/hailam/chessgrid/internal/storage"
)

var (
	configPath = flag.String("config", "", "path to a YAML config file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	difficulty = flag.String("difficulty", "", "engine difficulty: easy, medium or hard")
	color      = flag.String("color", "", "side you play: w or b")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "chessplay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := obslog.New(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync() //nolint:errcheck
	// Packages built below log through the process logger by default.
	obslog.Set(logger)

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("cpu profiling enabled", zap.String("path", profilePath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	prefs := storage.DefaultPreferences()
	if store != nil {
		if prefs, err = store.LoadPreferences(ctx); err != nil {
			logger.Warn("load preferences", zap.Error(err))
			prefs = storage.DefaultPreferences()
		}
	}
	// Saved preferences replace the defaults only when no config file is given.
	if *configPath == "" {
		applyPreferences(cfg, prefs)
	}
	if *difficulty != "" {
		cfg.Engine.Difficulty = *difficulty
	}
	if *color != "" {
		prefs.PlayerColor = *color
	}

	settings, err := gameSettings(cfg.Rules)
	if err != nil {
		return err
	}
	g := game.New(game.WithSettings(settings))

	eng := engine.New(g,
		engine.WithDepth(cfg.Engine.Depth),
		engine.WithTrackedContext(cfg.Engine.TrackEnPassant),
		engine.WithCaptureOrdering(cfg.Engine.CaptureOrdering),
	)
	if cfg.Engine.Difficulty != "" {
		d, ok := engine.ParseDifficulty(cfg.Engine.Difficulty)
		if !ok {
			return fmt.Errorf("%w: difficulty %q", config.ErrInvalid, cfg.Engine.Difficulty)
		}
		eng.SetDifficulty(d)
	}

	player, ok := board.ColorFromCode(firstByte(prefs.PlayerColor))
	if !ok {
		return fmt.Errorf("%w: color %q", config.ErrInvalid, prefs.PlayerColor)
	}

	clock := game.NewClock(cfg.Clock.Minutes, time.Duration(cfg.Clock.IncrementSeconds)*time.Second)

	opts := []console.Option{
		console.WithClock(clock, cfg.Clock.Minutes),
		console.WithPlayer(player),
	}
	if store != nil {
		opts = append(opts, console.WithStore(store))
	}
	c := console.New(g, eng, os.Stdout, opts...)

	logger.Info("session started",
		zap.String("storage", cfg.Storage.Backend),
		zap.Int("depth", eng.Depth()),
		zap.Stringer("player", player))

	runErr := c.Run(ctx, os.Stdin)
	if errors.Is(runErr, context.Canceled) || errors.Is(runErr, io.EOF) {
		runErr = nil
	}

	if store != nil {
		savePreferences(prefs, c.Game().Settings(), eng.Depth(), player)
		// The run context may already be cancelled by a signal.
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.SavePreferences(saveCtx, prefs); err != nil {
			logger.Warn("save preferences", zap.Error(err))
		}
	}
	return runErr
}

// openStore opens the configured backend. It returns a nil store when
// storage is disabled.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		st, err := storage.OpenBadger(cfg.Dir, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.BackendRedis:
		ttl := time.Duration(cfg.TTLHours) * time.Hour
		st, err := storage.NewRedisStore(ctx, cfg.RedisURL, ttl)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, nil
	}
}

func gameSettings(cfg config.RulesConfig) (game.Settings, error) {
	s := game.DefaultSettings()
	s.CastlingEnabled = cfg.Castling
	s.EnPassantEnabled = cfg.EnPassant
	pieces, ok := game.ParsePromotionCodes(cfg.PromotionCodes())
	if !ok {
		return s, fmt.Errorf("%w: promotion %q", config.ErrInvalid, cfg.PromotionCodes())
	}
	s.SetPromotionPieces(pieces)
	return s, nil
}

func applyPreferences(cfg *config.Config, prefs *storage.Preferences) {
	cfg.Rules.Castling = prefs.Castling
	cfg.Rules.EnPassant = prefs.EnPassant
	if pieces, ok := game.ParsePromotionCodes(prefs.Promotion); ok {
		cfg.Rules.Promotion = cfg.Rules.Promotion[:0]
		for _, pt := range pieces {
			cfg.Rules.Promotion = append(cfg.Rules.Promotion, string(pt.Code()))
		}
	}
	// An explicit depth from the environment beats the saved difficulty.
	if os.Getenv("CHESS_ENGINE_DEPTH") != "" {
		return
	}
	if _, ok := engine.ParseDifficulty(prefs.Difficulty); ok {
		cfg.Engine.Difficulty = prefs.Difficulty
	}
}

func savePreferences(prefs *storage.Preferences, s game.Settings, depth int, player board.Color) {
	prefs.Castling = s.CastlingEnabled
	prefs.EnPassant = s.EnPassantEnabled
	prefs.Promotion = s.PromotionCodes()
	prefs.PlayerColor = string(player.Code())
	for d, dd := range engine.DifficultyDepth {
		if dd == depth {
			prefs.Difficulty = d.String()
		}
	}
}

func firstByte(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
