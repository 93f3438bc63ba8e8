// Package paths resolves the XDG-style config/state/runtime roots used to
// place conbridge's log file and the default named-pipe socket directory.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "conbridge"

func configRoot() (string, error) {
	return rootWithFallback("XDG_CONFIG_HOME", os.UserConfigDir, ".config")
}

func stateRoot() (string, error) {
	noOSDefault := func() (string, error) {
		return "", fmt.Errorf("no OS state directory function")
	}

	return rootWithFallback("XDG_STATE_HOME", noOSDefault, filepath.Join(".local", "state"))
}

func rootWithFallback(xdgEnv string, osFn func() (string, error), fallbackDir string) (string, error) {
	// Priority 1: Explicit XDG env var (cross-platform).
	if xdg := os.Getenv(xdgEnv); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, appName), nil
	}

	// Priority 2: OS-specific default (macOS ~/Library/..., Linux ~/.config).
	root, err := osFn()
	if err == nil && root != "" {
		return filepath.Join(root, appName), nil
	}

	// Priority 3: Home-dir fallback.
	home, homeErr := os.UserHomeDir()
	if homeErr == nil && home != "" {
		return filepath.Join(home, fallbackDir, appName), nil
	}

	if err != nil {
		return "", err
	}

	return "", fmt.Errorf("resolve user home directory")
}

// ConfigRoot returns the user config root directory for conbridge.
func ConfigRoot() (string, error) {
	return configRoot()
}

// StateRoot returns the user state root directory for conbridge.
func StateRoot() (string, error) {
	return stateRoot()
}

// LogsDir returns the default log directory for conbridge.
func LogsDir() (string, error) {
	root, err := stateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "logs"), nil
}

// DefaultLogFile returns the default log file path for conbridge.
func DefaultLogFile() (string, error) {
	logsDir, err := LogsDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(logsDir, "conbridge.log"), nil
}

// SocketRoot returns the directory under which per-session control and data
// pipe sockets are created, preferring XDG_RUNTIME_DIR when set (it is
// typically tmpfs-backed and process-lifetime scoped, matching the
// short-lived nature of a named pipe).
func SocketRoot() (string, error) {
	if rt := os.Getenv("XDG_RUNTIME_DIR"); rt != "" && filepath.IsAbs(rt) {
		return filepath.Join(rt, appName), nil
	}

	root, err := stateRoot()
	if err != nil {
		return "", err
	}

	return filepath.Join(root, "run"), nil
}
