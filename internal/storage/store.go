package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hailam/chessgrid/internal/game"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store persists saved games, preferences and statistics.
type Store interface {
	SaveGame(ctx context.Context, s game.Snapshot) (string, error)
	LoadGame(ctx context.Context, id string) (game.Snapshot, error)
	ListGames(ctx context.Context) ([]GameInfo, error)
	DeleteGame(ctx context.Context, id string) error

	SavePreferences(ctx context.Context, prefs *Preferences) error
	LoadPreferences(ctx context.Context) (*Preferences, error)

	SaveStats(ctx context.Context, stats *Stats) error
	LoadStats(ctx context.Context) (*Stats, error)

	Close() error
}

// GameInfo describes a saved game without its position.
type GameInfo struct {
	ID      string    `json:"id"`
	SavedAt time.Time `json:"saved_at"`
	Moves   int       `json:"moves"`
	Status  string    `json:"status"`
}

// SavedGame is the stored record of a game.
type SavedGame struct {
	GameInfo
	Snapshot game.Snapshot `json:"snapshot"`
}

// newSavedGame validates s and wraps it in a record with a fresh ID.
func newSavedGame(s game.Snapshot, now time.Time) (SavedGame, error) {
	g, err := game.Restore(s)
	if err != nil {
		return SavedGame{}, err
	}
	return SavedGame{
		GameInfo: GameInfo{
			ID:      uuid.NewString(),
			SavedAt: now.UTC(),
			Moves:   len(s.History),
			Status:  g.Status().String(),
		},
		Snapshot: s,
	}, nil
}

// checkID rejects IDs that could never have been issued by SaveGame.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: game %q", ErrNotFound, id)
	}
	return nil
}

// sortGames orders games newest first.
func sortGames(games []GameInfo) {
	sort.SliceStable(games, func(i, j int) bool {
		if !games[i].SavedAt.Equal(games[j].SavedAt) {
			return games[i].SavedAt.After(games[j].SavedAt)
		}
		return games[i].ID < games[j].ID
	})
}

// Preferences stores user settings.
type Preferences struct {
	Username    string    `json:"username"`
	Difficulty  string    `json:"difficulty"`
	PlayerColor string    `json:"player_color"`
	Castling    bool      `json:"castling"`
	EnPassant   bool      `json:"en_passant"`
	Promotion   string    `json:"promotion"`
	LastPlayed  time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences.
func DefaultPreferences() *Preferences {
	return &Preferences{
		Username:    "Player",
		Difficulty:  "medium",
		PlayerColor: "w",
		Castling:    true,
		EnPassant:   true,
		Promotion:   "qrbn",
	}
}
