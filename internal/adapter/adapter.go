// Package adapter implements the Adapter (§4.5): the local-side process
// that presents an ordinary raw-mode TTY to a user and proxies bytes
// between it and the Agent's data pipe, propagating window-size changes.
package adapter

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/conbridge/conbridge/internal/library"
	"github.com/conbridge/conbridge/internal/observability"
)

// copyBufferSize matches §4.5's "a fixed 4 KiB buffer each" for the two
// blocking-read directions.
const copyBufferSize = 4096

// Run bridges os.Stdin/os.Stdout to sess's data pipe until either
// direction's copy ends or ctx is cancelled, propagates SIGWINCH-driven
// resizes to the Agent, and returns the child process's exit code.
func Run(ctx context.Context, sess *library.Session) (exitCode int, err error) {
	logger := observability.FromContext(ctx)

	restore, err := enableRawMode(os.Stdin)
	if err != nil {
		return 0, fmt.Errorf("adapter: enable raw mode: %w", err)
	}
	defer restore()

	watcher := startWinsizeWatcher(ctx, os.Stdin, sess)
	defer watcher.Stop()

	logger.Info("adapter bridging session", "session_id", sess.ID())

	code, err := bridge(ctx, os.Stdin, os.Stdout, sess.Data(), sess.GetExitCode)
	if err != nil {
		return 0, err
	}

	logger.Info("adapter shutdown complete", "session_id", sess.ID(), "exit_code", code)
	return code, nil
}

// dataConn is the subset of net.Conn bridge needs — kept as an interface so
// tests can substitute an in-memory pipe for the real Unix-domain socket
// connection.
type dataConn interface {
	io.Reader
	io.Writer
	io.Closer
}

// bridge performs the Adapter's core loop (§4.5): two directions of
// blocking copy running concurrently, a signal that wakes the caller when
// either side's copy ends, and cancellation-on-close per §5 ("The Adapter
// cancels all work by closing its end of the data pipe; the Agent observes
// the disconnect and shuts down").
func bridge(ctx context.Context, ttyIn io.Reader, ttyOut io.Writer, data dataConn, getExitCode func() (int, bool, error)) (int, error) {
	done := make(chan struct{}, 2)

	go pumpCopy(data, ttyIn, done)
	go pumpCopy(ttyOut, data, done)

	select {
	case <-ctx.Done():
	case <-done:
	}

	_ = data.Close()

	code, exited, err := getExitCode()
	if err != nil {
		return 0, fmt.Errorf("adapter: get exit code: %w", err)
	}
	if !exited {
		return 0, nil
	}
	return code, nil
}

func pumpCopy(dst io.Writer, src io.Reader, done chan<- struct{}) {
	buf := make([]byte, copyBufferSize)
	_, _ = io.CopyBuffer(dst, src, buf)

	select {
	case done <- struct{}{}:
	default:
	}
}
