package adapter

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// enableRawMode puts f into raw mode (no line buffering, no local echo, no
// signal-generating control characters) and returns a function that
// restores its original state. Grounded on
// internal/harness/model.go's term.MakeRaw/term.Restore pairing. The
// returned restore is always safe to call, including when f isn't a
// terminal at all (e.g. piped stdin in tests), and must be called on every
// exit path per §7.
func enableRawMode(f *os.File) (restore func(), err error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return func() {}, nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("adapter: make raw: %w", err)
	}

	return func() { _ = term.Restore(fd, oldState) }, nil
}
