// Package paths resolves the configuration, data, and temp directory
// locations of the slotshift CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "slotshift"

// DefaultDataDirName is the CWD-relative data directory.
const DefaultDataDirName = ".slotshift-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SLOTSHIFT_CONFIG_DIR"
	EnvDataDir   = "SLOTSHIFT_DATA_DIR"
	EnvTempDir   = "SLOTSHIFT_TEMP_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	tempDir       func() string
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	tempDir:       os.TempDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/slotshift (fallback ~/.config/slotshift)
// macOS:   ~/Library/Application Support/slotshift
// Windows: %APPDATA%/slotshift
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", AppName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName), nil
}

// DefaultTempDir returns the directory transfer temp files are written to
// when nothing overrides it.
func DefaultTempDir() string {
	return filepath.Join(platformDir.tempDir(), AppName)
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > SLOTSHIFT_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if dir := firstSet(flag, os.Getenv(EnvConfigDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > config.yaml value > SLOTSHIFT_DATA_DIR env > $(CWD)/.slotshift-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvDataDir)); dir != "" {
		return filepath.Abs(dir)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveTempDir returns the temp directory following the precedence chain:
// flag > config.yaml value > SLOTSHIFT_TEMP_DIR env > DefaultTempDir().
func ResolveTempDir(flag, configValue string) (string, error) {
	if dir := firstSet(flag, configValue, os.Getenv(EnvTempDir)); dir != "" {
		return filepath.Abs(dir)
	}
	return DefaultTempDir(), nil
}

func firstSet(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
