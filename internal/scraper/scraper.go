// Package scraper implements the Console Scraper / Differ (§4.1): the
// component that turns the Agent's off-screen console.Grid into a
// stream of line updates on the data pipe, using a shadow buffer to
// send only what changed and a sync marker to detect scrolling without
// a platform scroll-event API to rely on.
package scraper

import (
	"io"

	"github.com/conbridge/conbridge/internal/console"
)

// DefaultBufferLineCount is the reference BUFFER_LINE_COUNT: how many
// lines of shadow-buffer (and therefore scrollback) history the Scraper
// keeps.
const DefaultBufferLineCount = 3000

// Scraper runs one poll cycle at a time against a console.Grid it does
// not own outright — the Agent still owns the grid and feeds it from the
// child's output; the Scraper only reads it and writes the sync marker
// cells into it. Not safe for concurrent use (§5: the Agent drives both
// the feeder and the scraper from the same goroutine).
type Scraper struct {
	grid    *console.Grid
	shadow  *ShadowBuffer
	out     io.Writer
	emitter Emitter

	scrapedLineCount int
	scrolledCount    int

	syncRow     int
	syncText    string
	syncCounter uint32

	dirtyWindowTop int
	dirtyLineCount int

	maxBufferedLine int

	// Freeze and Unfreeze bracket each poll cycle (the platform
	// equivalent of a console mark/select operation that pauses screen
	// updates while it's read). Both default to no-ops; the Agent may
	// set them for testing or platform-specific instrumentation.
	Freeze   func() error
	Unfreeze func() error
}

// NewScraper returns a Scraper over grid, writing line updates to out,
// with a shadow buffer of the given capacity (BUFFER_LINE_COUNT).
func NewScraper(grid *console.Grid, out io.Writer, capacity int) *Scraper {
	s := &Scraper{
		grid:   grid,
		shadow: NewShadowBuffer(capacity),
		out:    out,
	}
	s.resetState()
	return s
}

func (s *Scraper) callFreeze() error {
	if s.Freeze == nil {
		return nil
	}
	return s.Freeze()
}

func (s *Scraper) callUnfreeze() {
	if s.Unfreeze == nil {
		return
	}
	s.Unfreeze()
}

// resetState performs the in-memory half of a full reset (§4.1.5): it
// does not touch the grid's own content, only the Scraper's tracking
// state, and marks the whole current window dirty so the very next
// emit is a full redraw (§8: "after any reset, the next update frame is
// logically equivalent to a full redraw of the visible window").
func (s *Scraper) resetState() {
	s.shadow.Reset()
	s.syncRow = -1
	s.syncText = ""
	s.scrapedLineCount = s.grid.Window.Top
	s.scrolledCount = 0
	s.maxBufferedLine = -1
	s.dirtyWindowTop = -1
	s.dirtyLineCount = s.grid.Window.Top + s.grid.Window.Height
}

// Tick runs one full poll cycle: freeze, scroll detection, window-move
// detection, dirty-line computation, emit, commit cursor, place a new
// sync marker if warranted, unfreeze. A platform read/write failure
// aborts the remainder of the cycle but still unfreezes; the caller
// should simply call Tick again on its next poll (§4.1 "Failure").
func (s *Scraper) Tick() error {
	if err := s.callFreeze(); err != nil {
		return err
	}
	defer s.callUnfreeze()

	scrollReset := s.scrollDetect()
	if scrollReset {
		s.resetState()
		s.dirtyWindowTop = s.grid.Window.Top
	} else if s.windowMovementDetect() {
		s.resetState()
		s.dirtyWindowTop = s.grid.Window.Top
	}

	s.computeDirty()

	if err := s.emit(); err != nil {
		return err
	}
	if err := s.commitCursor(); err != nil {
		return err
	}
	s.placeSyncMarkerIfNeeded()

	return nil
}

// scrollDetect implements §4.1 step 2. It reports whether the current
// state is inconsistent enough to require a full reset.
func (s *Scraper) scrollDetect() bool {
	if s.syncRow == -1 {
		return false
	}
	r, found := searchMarker(s.grid, s.syncText, s.syncRow)
	if !found {
		return true
	}
	if r == s.syncRow {
		return false
	}
	delta := s.syncRow - r
	s.scrolledCount += delta
	s.syncRow = r
	s.dirtyLineCount = s.grid.Window.Top + s.grid.Window.Height
	return false
}

// windowMovementDetect implements §4.1 step 3, comparing the window's
// current top against the top last observed. It reports whether the
// window moved in a way (upward) that requires a full reset.
func (s *Scraper) windowMovementDetect() bool {
	top := s.grid.Window.Top
	switch {
	case s.dirtyWindowTop == -1:
		s.dirtyLineCount = top + s.grid.Window.Height
	case top > s.dirtyWindowTop:
		s.dirtyLineCount = top + s.grid.Window.Height
	case top < s.dirtyWindowTop:
		return true
	}
	s.dirtyWindowTop = top
	return false
}

// computeDirty implements §4.1 step 4.
func (s *Scraper) computeDirty() {
	top := s.grid.Window.Top
	height := s.grid.Window.Height

	floor := s.grid.Cursor.Row + 1
	if floor < top {
		floor = top
	}
	if s.dirtyLineCount < floor {
		s.dirtyLineCount = floor
	}

	end := top + height
	for l := s.dirtyLineCount; l < end; l++ {
		physRow := l - s.scrolledCount
		if lineHasContent(s.grid.Row(physRow)) {
			s.dirtyLineCount = l + 1
		} else {
			break
		}
	}
}

// lineHasContent reports whether row contains any cell whose character
// isn't a space, or whose attribute differs from the immediately
// preceding cell's, per §4.1 step 4's dirty test.
func lineHasContent(row []console.Cell) bool {
	var prev console.CellAttr
	for i, c := range row {
		if c.Codepoint != ' ' && c.Codepoint != 0 {
			return true
		}
		if i > 0 && c.Attr != prev {
			return true
		}
		prev = c.Attr
	}
	return false
}

// emit implements §4.1 step 5: it transmits every line from the last
// committed cursor position through the dirty boundary that either
// differs from its shadow snapshot or follows a line that did, then
// records what it sent into the shadow.
func (s *Scraper) emit() error {
	lo := s.scrapedLineCount
	if bound := s.grid.Window.Top + s.scrolledCount; bound < lo {
		lo = bound
	}
	hi := s.dirtyLineCount
	if bound := s.grid.Window.Top + s.grid.Window.Height; bound < hi {
		hi = bound
	}
	hi += s.scrolledCount

	transmitting := false
	for l := lo; l < hi; l++ {
		physRow := l - s.scrolledCount
		row := s.grid.Row(physRow)
		if row == nil {
			continue
		}

		if !transmitting {
			if l > s.maxBufferedLine || !equalRow(row, s.shadow.Get(l)) {
				transmitting = true
			}
		}
		if !transmitting {
			continue
		}

		screenRow := physRow - s.grid.Window.Top
		if err := s.emitter.EmitLine(s.out, screenRow, row); err != nil {
			return err
		}
		s.shadow.Set(l, row)
		if l > s.maxBufferedLine {
			s.maxBufferedLine = l
		}
	}
	return nil
}

// commitCursor implements §4.1 step 6.
func (s *Scraper) commitCursor() error {
	s.scrapedLineCount = s.grid.Window.Top + s.scrolledCount

	screenRow := s.grid.Cursor.Row - s.grid.Window.Top
	if err := s.emitter.EmitFinish(s.out, screenRow, s.grid.Cursor.Col); err != nil {
		return err
	}
	return nil
}

// placeSyncMarkerIfNeeded implements §4.1 step 7, including the exact-
// threshold boundary from §8: at window_rect.top == SyncThreshold, no
// marker is placed.
func (s *Scraper) placeSyncMarkerIfNeeded() {
	top := s.grid.Window.Top
	if top <= SyncThreshold {
		return
	}
	if s.syncRow != -1 && s.syncRow <= top-SyncThreshold {
		return
	}
	row := top - SyncThreshold
	s.syncCounter++
	text := markerText(s.syncCounter)
	placeMarker(s.grid, row, text)
	s.syncRow = row
	s.syncText = text
}

// ScrapedLineCount, ScrolledCount and MaxBufferedLine expose Scraper's
// bookkeeping for tests asserting the monotonicity invariants of §8.
func (s *Scraper) ScrapedLineCount() int { return s.scrapedLineCount }
func (s *Scraper) ScrolledCount() int    { return s.scrolledCount }
func (s *Scraper) MaxBufferedLine() int  { return s.maxBufferedLine }
func (s *Scraper) SyncRow() int          { return s.syncRow }
