package adapter

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"
)

type stubSizer struct {
	calls chan [2]int
}

func (s *stubSizer) SetSize(cols, rows int) error {
	s.calls <- [2]int{cols, rows}
	return nil
}

func TestWinsizeWatcher_PropagatesOnSIGWINCH(t *testing.T) {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		t.Skipf("no controlling terminal available in this environment: %v", err)
	}
	defer tty.Close()

	sizer := &stubSizer{calls: make(chan [2]int, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := startWinsizeWatcher(ctx, tty, sizer)
	defer w.Stop()

	_ = syscall.Kill(syscall.Getpid(), syscall.SIGWINCH)

	select {
	case <-sizer.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("SetSize was not called after SIGWINCH")
	}
}

func TestWinsizeWatcher_StopUnblocksCleanly(t *testing.T) {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		t.Skipf("no controlling terminal available in this environment: %v", err)
	}
	defer tty.Close()

	sizer := &stubSizer{calls: make(chan [2]int, 1)}
	w := startWinsizeWatcher(context.Background(), tty, sizer)

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
