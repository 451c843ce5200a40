package storage

import (
	"context"
	"time"

	"github.com/hailam/chessgrid/internal/board"
	"github.com/hailam/chessgrid/internal/game"
)

// Stats stores game statistics for the local player.
type Stats struct {
	GamesPlayed    int            `json:"games_played"`
	Wins           int            `json:"wins"`
	Losses         int            `json:"losses"`
	Draws          int            `json:"draws"`
	WinsByColor    map[string]int `json:"wins_by_color"`
	Checkmates     int            `json:"checkmates"`
	Stalemates     int            `json:"stalemates"`
	TotalPlayTime  time.Duration  `json:"total_play_time"`
	LongestWinStrk int            `json:"longest_win_streak"`
	CurrentStreak  int            `json:"current_streak"`
}

// NewStats returns empty statistics.
func NewStats() *Stats {
	return &Stats{WinsByColor: make(map[string]int)}
}

// GameResult is the outcome of a finished game from the player's side.
type GameResult struct {
	Color     board.Color
	Won       bool
	Draw      bool
	Checkmate bool
	Duration  time.Duration
}

// ResultFor builds the result of a finished game for the player of color c.
// It reports false while the game is still running.
func ResultFor(g *game.Game, c board.Color, played time.Duration) (GameResult, bool) {
	if !g.GameOver() {
		return GameResult{}, false
	}
	return GameResult{
		Color:     c,
		Won:       g.Winner().Color() == c,
		Draw:      g.Winner() == game.Draw,
		Checkmate: g.IsCheckmate(),
		Duration:  played,
	}, true
}

// Record adds one finished game.
func (s *Stats) Record(r GameResult) {
	if s.WinsByColor == nil {
		s.WinsByColor = make(map[string]int)
	}
	s.GamesPlayed++
	s.TotalPlayTime += r.Duration

	if r.Checkmate {
		s.Checkmates++
	} else if r.Draw {
		s.Stalemates++
	}

	switch {
	case r.Draw:
		s.Draws++
		s.CurrentStreak = 0
	case r.Won:
		s.Wins++
		s.CurrentStreak++
		if s.CurrentStreak > s.LongestWinStrk {
			s.LongestWinStrk = s.CurrentStreak
		}
		s.WinsByColor[r.Color.String()]++
	default:
		s.Losses++
		s.CurrentStreak = 0
	}
}

// WinRate returns the win rate as a percentage (0-100).
func (s *Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// RecordResult loads the statistics from st, adds r and saves them back.
func RecordResult(ctx context.Context, st Store, r GameResult) (*Stats, error) {
	stats, err := st.LoadStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Record(r)
	if err := st.SaveStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}
