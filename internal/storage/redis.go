package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hailam/chessgrid/internal/game"
)

// RedisStore keeps everything in Redis. Saved games expire after the
// configured TTL; preferences and statistics never expire.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
	now func() time.Time
}

// NewRedisStore connects to redisURL (redis://[:password@]host:port/db).
// A ttl of 0 keeps saved games forever.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis url required")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, ttl: ttl, now: time.Now}, nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func gameKey(id string) string { return "chess:game:" + strings.TrimSpace(id) }
func gameIndexKey() string     { return "chess:games" }
func prefsKey() string         { return "chess:preferences" }
func statsKey() string         { return "chess:stats" }

// SaveGame stores s under a new ID and indexes it by save time.
func (s *RedisStore) SaveGame(ctx context.Context, snap game.Snapshot) (string, error) {
	rec, err := newSavedGame(snap, s.now())
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(rec.ID), raw, s.ttl)
		pipe.ZAdd(ctx, gameIndexKey(), redis.Z{Score: float64(rec.SavedAt.UnixNano()), Member: rec.ID})
		return nil
	})
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *RedisStore) load(ctx context.Context, id string) (*SavedGame, error) {
	raw, err := s.rdb.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec SavedGame
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LoadGame returns the snapshot saved under id.
func (s *RedisStore) LoadGame(ctx context.Context, id string) (game.Snapshot, error) {
	if err := checkID(id); err != nil {
		return game.Snapshot{}, err
	}
	rec, err := s.load(ctx, id)
	if err != nil {
		return game.Snapshot{}, err
	}
	if rec == nil {
		return game.Snapshot{}, fmt.Errorf("%w: game %s", ErrNotFound, id)
	}
	return rec.Snapshot, nil
}

// ListGames returns all saved games, newest first. Index entries whose game
// has expired are dropped.
func (s *RedisStore) ListGames(ctx context.Context) ([]GameInfo, error) {
	ids, err := s.rdb.ZRevRange(ctx, gameIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	games := make([]GameInfo, 0, len(ids))
	var stale []any
	for _, id := range ids {
		rec, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			stale = append(stale, id)
			continue
		}
		games = append(games, rec.GameInfo)
	}
	if len(stale) > 0 {
		_ = s.rdb.ZRem(ctx, gameIndexKey(), stale...).Err()
	}

	sortGames(games)
	return games, nil
}

// DeleteGame removes the game saved under id.
func (s *RedisStore) DeleteGame(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	n, err := s.rdb.Del(ctx, gameKey(id)).Result()
	if err != nil {
		return err
	}
	if err := s.rdb.ZRem(ctx, gameIndexKey(), id).Err(); err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: game %s", ErrNotFound, id)
	}
	return nil
}

// SavePreferences saves user preferences.
func (s *RedisStore) SavePreferences(ctx context.Context, prefs *Preferences) error {
	prefs.LastPlayed = s.now()
	return s.put(ctx, prefsKey(), prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found.
func (s *RedisStore) LoadPreferences(ctx context.Context) (*Preferences, error) {
	prefs := DefaultPreferences()
	if err := s.get(ctx, prefsKey(), prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveStats saves game statistics.
func (s *RedisStore) SaveStats(ctx context.Context, stats *Stats) error {
	return s.put(ctx, statsKey(), stats)
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *RedisStore) LoadStats(ctx context.Context) (*Stats, error) {
	stats := NewStats()
	if err := s.get(ctx, statsKey(), stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *RedisStore) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, 0).Err()
}

// get decodes the value under key into v, leaving v untouched when the key is absent.
func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

var _ Store = (*RedisStore)(nil)
