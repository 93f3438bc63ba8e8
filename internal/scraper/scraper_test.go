package scraper

import (
	"bytes"
	"testing"

	"github.com/conbridge/conbridge/internal/console"
)

func newTestScraper(width, height int) (*Scraper, *console.Grid, *bytes.Buffer) {
	g := console.NewGrid(width, height)
	var out bytes.Buffer
	s := NewScraper(g, &out, DefaultBufferLineCount)
	return s, g, &out
}

// Scenario 1 (Echo): writing "hi\r" then ticking emits a line update
// containing "hi" and a finish frame at the origin.
func TestScraper_EchoScenario(t *testing.T) {
	s, g, out := newTestScraper(10, 5)
	f := console.NewFeeder(g)
	f.Write([]byte("hi\r"))

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	got := out.String()
	if !bytes.Contains([]byte(got), []byte("hi")) {
		t.Errorf("output %q does not contain \"hi\"", got)
	}
	if !bytes.Contains([]byte(got), []byte("\x1b[1;1H")) {
		t.Errorf("output %q missing finish frame at (0,0)", got)
	}
}

func TestScraper_NoOpTickAfterQuiescence(t *testing.T) {
	s, g, out := newTestScraper(10, 5)
	f := console.NewFeeder(g)
	f.Write([]byte("hi"))
	if err := s.Tick(); err != nil {
		t.Fatalf("first Tick() error = %v", err)
	}
	out.Reset()

	if err := s.Tick(); err != nil {
		t.Fatalf("second Tick() error = %v", err)
	}
	if got, want := out.String(), "\x1b[1;3H"; got != want {
		t.Errorf("second tick with no new output wrote %q, want only the finish frame %q", got, want)
	}
}

func TestScraper_ScrapedLineCountMonotonic(t *testing.T) {
	s, g, _ := newTestScraper(10, 5)
	f := console.NewFeeder(g)

	prev := s.ScrapedLineCount()
	for i := 0; i < 20; i++ {
		f.Write([]byte("x\r\n"))
		if err := s.Tick(); err != nil {
			t.Fatalf("Tick() error = %v", err)
		}
		if s.ScrapedLineCount() < prev {
			t.Fatalf("scraped line count decreased: %d -> %d", prev, s.ScrapedLineCount())
		}
		prev = s.ScrapedLineCount()
	}
}

func TestScraper_SyncMarkerBoundaryExactlyAtThreshold(t *testing.T) {
	s, g, _ := newTestScraper(10, SyncThreshold+50)
	g.Window.Top = SyncThreshold
	g.Window.Height = 10

	s.placeSyncMarkerIfNeeded()

	if s.SyncRow() != -1 {
		t.Errorf("SyncRow() = %d, want -1 (no marker exactly at threshold)", s.SyncRow())
	}
}

func TestScraper_SyncMarkerPlacedAboveThreshold(t *testing.T) {
	s, g, _ := newTestScraper(10, SyncThreshold+50)
	g.Window.Top = SyncThreshold + 1
	g.Window.Height = 10

	s.placeSyncMarkerIfNeeded()

	if s.SyncRow() != 1 {
		t.Fatalf("SyncRow() = %d, want 1 (top-threshold)", s.SyncRow())
	}
	if r, found := searchMarker(g, s.syncText, s.SyncRow()); !found || r != 1 {
		t.Errorf("searchMarker() = (%d,%v), want (1,true)", r, found)
	}
}

func TestScraper_MarkerNotReplacedWhilePlacedHighEnough(t *testing.T) {
	s, g, _ := newTestScraper(10, SyncThreshold+100)
	g.Window.Top = SyncThreshold + 1
	g.Window.Height = 10
	s.placeSyncMarkerIfNeeded()
	firstCounter := s.syncCounter

	g.Window.Top = SyncThreshold + 2
	s.placeSyncMarkerIfNeeded()

	if s.syncCounter != firstCounter {
		t.Errorf("marker was replaced even though the existing one was still placed high enough")
	}
}

func TestScraper_ScrollDetectTriggersResetWhenMarkerMissing(t *testing.T) {
	s, g, _ := newTestScraper(10, 50)
	g.Window.Top = 10
	g.Window.Height = 5
	s.syncRow = 3
	s.syncText = markerText(1) // never actually written to the grid

	if needReset := s.scrollDetect(); !needReset {
		t.Fatal("scrollDetect() = false, want true when the marker can't be found")
	}
}

func TestScraper_ScrollDetectFindsMarkerMoved(t *testing.T) {
	s, g, _ := newTestScraper(10, 50)
	text := markerText(1)
	placeMarker(g, 5, text)
	s.syncRow = 8
	s.syncText = text

	if needReset := s.scrollDetect(); needReset {
		t.Fatal("scrollDetect() = true, want false (marker found, just moved)")
	}
	if s.scrolledCount != 3 {
		t.Errorf("scrolledCount = %d, want 3", s.scrolledCount)
	}
	if s.syncRow != 5 {
		t.Errorf("syncRow = %d, want 5", s.syncRow)
	}
}

// §8: after any reset, the next update frame is logically equivalent to
// a full redraw of the visible window.
func TestScraper_PostResetIsFullRedraw(t *testing.T) {
	s, g, out := newTestScraper(10, 5)
	f := console.NewFeeder(g)
	f.Write([]byte("hi"))
	if err := s.Tick(); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}

	s.resetState()
	out.Reset()

	if err := s.Tick(); err != nil {
		t.Fatalf("Tick() after reset error = %v", err)
	}
	if !bytes.Contains(out.Bytes(), []byte("hi")) {
		t.Errorf("post-reset tick did not re-emit existing content: %q", out.String())
	}
}

func TestScraper_ResizeIsIdempotentWhenUnchanged(t *testing.T) {
	s, g, _ := newTestScraper(10, 100)
	g.Window.Top = 5
	g.Window.Height = 10

	if err := s.Resize(10, 10); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	top1, height1 := g.Window.Top, g.Window.Height

	if err := s.Resize(10, 10); err != nil {
		t.Fatalf("second Resize() error = %v", err)
	}
	if g.Window.Top != top1 || g.Window.Height != height1 {
		t.Errorf("double resize with the same size changed the window: (%d,%d) -> (%d,%d)", top1, height1, g.Window.Top, g.Window.Height)
	}
}

func TestScraper_ResizeBottomPinsWhenAtBottomEdge(t *testing.T) {
	s, g, _ := newTestScraper(10, 50)
	g.Window.Top = 40
	g.Window.Height = 10 // 40+10 == 50, pinned to bottom

	if err := s.Resize(10, 5); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if g.Window.Top != 45 {
		t.Errorf("Window.Top = %d, want 45 (re-pinned to bottom)", g.Window.Top)
	}
	if g.Window.Height != 5 {
		t.Errorf("Window.Height = %d, want 5", g.Window.Height)
	}
}

func TestLineHasContent(t *testing.T) {
	blank := []console.Cell{{Codepoint: ' '}, {Codepoint: ' '}, {Codepoint: ' '}}
	if lineHasContent(blank) {
		t.Error("all-blank row reported as having content")
	}

	withChar := []console.Cell{{Codepoint: ' '}, {Codepoint: 'x'}}
	if !lineHasContent(withChar) {
		t.Error("row with a non-space cell reported as blank")
	}

	withAttrChange := []console.Cell{
		{Codepoint: ' ', Attr: 0},
		{Codepoint: ' ', Attr: console.AttrBold},
	}
	if !lineHasContent(withAttrChange) {
		t.Error("row with an attribute change reported as blank")
	}
}
