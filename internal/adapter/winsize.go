package adapter

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/conbridge/conbridge/internal/observability"
)

// sizer is the subset of *library.Session the watcher needs, kept as an
// interface so tests can substitute a stub.
type sizer interface {
	SetSize(cols, rows int) error
}

// winsizeWatcher propagates the controlling TTY's size to the Agent
// whenever SIGWINCH fires (§4.5: "the main thread wakes ... when SIGWINCH
// fires"), grounded on internal/harness/terminal.go's resizeLoop —
// simplified here to signal-only since the Adapter has no scroll region or
// sidebar layout to recompute, just a single SetSize call to propagate.
type winsizeWatcher struct {
	sigCh  chan os.Signal
	stopCh chan struct{}
	done   chan struct{}
}

func startWinsizeWatcher(ctx context.Context, tty *os.File, sess sizer) *winsizeWatcher {
	w := &winsizeWatcher{
		sigCh:  make(chan os.Signal, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	signal.Notify(w.sigCh, syscall.SIGWINCH)

	logger := observability.FromContext(ctx)
	propagate := func() {
		cols, rows, err := getWinsize(tty)
		if err != nil {
			logger.Warn("read window size failed", "error", err)
			return
		}
		if err := sess.SetSize(cols, rows); err != nil {
			logger.Warn("propagate window size failed", "error", err)
		}
	}

	go func() {
		defer close(w.done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			case <-w.sigCh:
				propagate()
			}
		}
	}()

	return w
}

// Stop unregisters the signal handler and waits for the watcher goroutine
// to exit.
func (w *winsizeWatcher) Stop() {
	signal.Stop(w.sigCh)
	close(w.stopCh)
	<-w.done
}

func getWinsize(tty *os.File) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(tty.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
