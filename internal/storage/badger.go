package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/hailam/chessgrid/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	gamePrefix     = "game:"
)

// BadgerStore keeps everything in a local BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	now func() time.Time
}

// badgerLogger routes badger's own logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...any) { l.Warnf(format, args...) }

// OpenBadger opens the database in the db directory below dir.
// An empty dir selects the platform data directory. A nil logger disables
// badger's logging.
func OpenBadger(dir string, logger *zap.Logger) (*BadgerStore, error) {
	dbDir, err := DatabaseDir(dir)
	if err != nil {
		return nil, fmt.Errorf("database dir: %w", err)
	}

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = nil
	if logger != nil {
		opts.Logger = badgerLogger{logger.Named("badger").Sugar()}
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveGame stores s under a new ID and returns the ID.
func (s *BadgerStore) SaveGame(ctx context.Context, snap game.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rec, err := newSavedGame(snap, s.now())
	if err != nil {
		return "", err
	}
	if err := s.put(gamePrefix+rec.ID, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// LoadGame returns the snapshot saved under id.
func (s *BadgerStore) LoadGame(ctx context.Context, id string) (game.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return game.Snapshot{}, err
	}
	if err := checkID(id); err != nil {
		return game.Snapshot{}, err
	}

	var rec SavedGame
	found, err := s.get(gamePrefix+id, &rec)
	if err != nil {
		return game.Snapshot{}, err
	}
	if !found {
		return game.Snapshot{}, fmt.Errorf("%w: game %s", ErrNotFound, id)
	}
	return rec.Snapshot, nil
}

// ListGames returns all saved games, newest first.
func (s *BadgerStore) ListGames(ctx context.Context) ([]GameInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var games []GameInfo
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec SavedGame
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			games = append(games, rec.GameInfo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortGames(games)
	return games, nil
}

// DeleteGame removes the game saved under id.
func (s *BadgerStore) DeleteGame(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(gamePrefix + id)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: game %s", ErrNotFound, id)
			}
			return err
		}
		return txn.Delete(key)
	})
}

// SavePreferences saves user preferences.
func (s *BadgerStore) SavePreferences(ctx context.Context, prefs *Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefs.LastPlayed = s.now()
	return s.put(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found.
func (s *BadgerStore) LoadPreferences(ctx context.Context) (*Preferences, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefs := DefaultPreferences()
	if _, err := s.get(keyPreferences, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SaveStats saves game statistics.
func (s *BadgerStore) SaveStats(ctx context.Context, stats *Stats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.put(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found.
func (s *BadgerStore) LoadStats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stats := NewStats()
	if _, err := s.get(keyStats, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *BadgerStore) put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// get decodes the value under key into v. It reports false when the key is
// absent, leaving v untouched.
func (s *BadgerStore) get(key string, v any) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	return found, err
}

var _ Store = (*BadgerStore)(nil)
