// Package agent implements the Agent process (§4.5's counterpart on the
// child side of the bridge): it owns the console.Grid, drives the
// scraper.Scraper and input.Translator against it, spawns the child
// program under a PTY, and services the control pipe's request/reply
// loop (§4.3).
package agent

import (
	"context"
	"io"
	"sync"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/conbridge/conbridge/internal/console"
	"github.com/conbridge/conbridge/internal/input"
	"github.com/conbridge/conbridge/internal/keymap"
	"github.com/conbridge/conbridge/internal/scraper"
)

// State is the Agent's owned arena: the console grid and the three
// subsystems that read and write it, plus the spawned child. Not safe
// for concurrent use from more than the single goroutine Run drives it
// from — matching §5's "Agent is logically single-threaded" (the control
// pipe's Serve loop runs on its own goroutine, calling into State only
// through the narrow HandleControl entry point, which takes the same
// mutex Run holds for everything else).
type State struct {
	mu sync.Mutex

	Grid       *console.Grid
	Feeder     *console.Feeder
	Scraper    *scraper.Scraper
	Translator *input.Translator
	Process    *Process

	dataConn io.ReadWriter
	cols     int
	rows     int
}

// NewState builds an Agent arena with a grid of bufferLines scrollback
// rows at cols wide, writing scraper output to dataConn and reading
// downstream input from it.
func NewState(cols, rows, bufferLines int, dataConn io.ReadWriter) *State {
	grid := console.NewGrid(cols, bufferLines)
	grid.Window.Height = rows

	s := &State{
		Grid:       grid,
		Feeder:     console.NewFeeder(grid),
		Scraper:    scraper.NewScraper(grid, dataConn, bufferLines),
		Translator: input.NewTranslator(keymap.DefaultTrie),
		Process:    NewProcess(),
		dataConn:   dataConn,
		cols:       cols,
		rows:       rows,
	}

	s.Translator.SendDownstream = func(b []byte) error {
		_, err := dataConn.Write(b)
		return err
	}
	s.Translator.OnCtrlC = s.handleCtrlC

	return s
}

func (s *State) handleCtrlC() {
	if pgid := s.Process.Pgid(); pgid > 0 {
		_ = syscall.Kill(-pgid, syscall.SIGINT)
	}
}

// Run drives the poll cycle and both byte streams until ctx is
// cancelled or either stream ends. Two reader goroutines push raw
// chunks onto channels; every state mutation and every write happens on
// this single goroutine, so the scraper, the feeder, and the process's
// input side never see concurrent access.
func (s *State) Run(ctx context.Context, pollInterval time.Duration) error {
	outCh := make(chan []byte, 16)
	inCh := make(chan []byte, 16)
	errCh := make(chan error, 2)

	go pumpReader(s.Process.Output(), outCh, errCh)
	go pumpReader(s.dataConn, inCh, errCh)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case b := <-outCh:
			s.mu.Lock()
			s.Feeder.Write(b)
			s.mu.Unlock()

		case b := <-inCh:
			s.mu.Lock()
			events, err := s.Translator.Feed(b)
			if err == nil {
				s.deliverEvents(events)
			}
			s.mu.Unlock()
			if err != nil {
				return err
			}

		case now := <-ticker.C:
			s.mu.Lock()
			events, err := s.Translator.FlushTimeout(now)
			if err == nil {
				s.deliverEvents(events)
				err = s.Scraper.Tick()
			}
			s.mu.Unlock()
			if err != nil {
				return err
			}

		case err := <-errCh:
			return err
		}
	}
}

// deliverEvents reconstructs characters from press events and writes
// them to the child's PTY, the same way a real console's processed
// input mode turns key events back into stdin bytes. Pure modifier
// presses/releases and non-printable keys (arrows, function keys —
// anything the child would receive through a different mechanism, out
// of scope here) produce no bytes.
func (s *State) deliverEvents(events []input.Event) {
	w := s.Process.Input()
	if w == nil {
		return
	}
	var buf [utf8.UTFMax]byte
	for _, e := range events {
		if !e.Press || e.Unicode == 0 {
			continue
		}
		n := utf8.EncodeRune(buf[:], e.Unicode)
		_, _ = w.Write(buf[:n])
	}
}

func pumpReader(r io.Reader, out chan<- []byte, errCh chan<- error) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			out <- chunk
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
