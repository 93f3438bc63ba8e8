package library

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// consoleCounter is kept on the Library value itself, not as a package
// global (Design Note: "no free global") — a process embedding this
// package as a library, rather than running it as one of the CLI
// binaries, may reasonably want more than one independent Library
// instance, and a shared global counter would let one instance's
// session count leak into another's pipe names for no benefit.
func (l *Library) nextCounter() uint64 {
	return atomic.AddUint64(&l.consoleCounter, 1)
}

// newSessionID returns a readable, globally-unique identifier for a
// session's logs (internal/observability.Config.SessionID) — distinct
// from the pipe-name counter, which only needs to be unique within this
// process.
func newSessionID() string {
	return uuid.NewString()
}
