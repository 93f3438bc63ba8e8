// Package transport implements the two named-pipe endpoints per session
// (§4.3): a synchronous request/reply control pipe and a full-duplex data
// pipe. On this platform a "named pipe" is a Unix-domain socket rooted at
// the runtime socket directory, preserving the §6 naming scheme with the
// `\\.\pipe\` prefix replaced by that directory.
package transport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/conbridge/conbridge/internal/paths"
)

// Names holds the control and data socket paths for one session, built
// from the §6 naming convention `<prefix>-<pid>-<counter>-{control,data}`.
type Names struct {
	Control string
	Data    string
}

// NewNames resolves the control/data socket paths for a session identified
// by prefix, pid, and counter.
func NewNames(prefix string, pid int, counter uint64) (Names, error) {
	root, err := paths.SocketRoot()
	if err != nil {
		return Names{}, fmt.Errorf("transport: resolve socket root: %w", err)
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return Names{}, fmt.Errorf("transport: create socket root: %w", err)
	}

	base := fmt.Sprintf("%s-%d-%d", prefix, pid, counter)
	return Names{
		Control: filepath.Join(root, base+"-control.sock"),
		Data:    filepath.Join(root, base+"-data.sock"),
	}, nil
}
