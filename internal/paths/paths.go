// Package paths resolves the configuration directory and data file
// locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// CWD-relative data files used when nothing else is configured.
const (
	DefaultDataFileName   = "books.txt"
	DefaultSQLiteFileName = "books.db"
)

// Environment variable names for location overrides.
const (
	EnvConfigDir = "SHELF_CONFIG_DIR"
	EnvDataFile  = "SHELF_DATA_FILE"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/shelf (fallback ~/.config/shelf)
// macOS:   ~/Library/Application Support/shelf
// Windows: %APPDATA%/shelf
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "shelf"), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "shelf"), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "shelf"), nil
	}
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > SHELF_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataFile returns the data file following the precedence chain:
// flag > configYAMLValue > SHELF_DATA_FILE env > $(CWD)/defaultName.
func ResolveDataFile(flag, configYAMLValue, defaultName string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataFile); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, defaultName), nil
}
