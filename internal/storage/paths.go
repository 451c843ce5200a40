// Package storage persists saved games, user preferences and game statistics.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessgrid"

// dataHome returns the per-user directory applications keep their data in:
// ~/Library/Application Support on macOS, %APPDATA% on Windows and
// $XDG_DATA_HOME (default ~/.local/share) elsewhere.
func dataHome() (string, error) {
	env, fallback := "XDG_DATA_HOME", []string{".local", "share"}
	switch runtime.GOOS {
	case "darwin":
		env, fallback = "", []string{"Library", "Application Support"}
	case "windows":
		env, fallback = "APPDATA", []string{"AppData", "Roaming"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate data directory: %w", err)
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// mkdir creates dir with its parents and returns it.
func mkdir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// DataDir returns the application's data directory, creating it if needed.
func DataDir() (string, error) {
	home, err := dataHome()
	if err != nil {
		return "", err
	}
	return mkdir(filepath.Join(home, appName))
}

// DatabaseDir returns the Badger directory below base, creating it if needed.
// An empty base selects DataDir.
func DatabaseDir(base string) (string, error) {
	if base == "" {
		dir, err := DataDir()
		if err != nil {
			return "", err
		}
		base = dir
	}
	return mkdir(filepath.Join(base, "db"))
}
