package adapter

import (
	"os"
	"testing"
)

func TestEnableRawMode_NonTerminalIsNoOp(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "not-a-tty")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	defer f.Close()

	restore, err := enableRawMode(f)
	if err != nil {
		t.Fatalf("enableRawMode() error = %v", err)
	}

	restore() // must not panic on a non-terminal fd
}
