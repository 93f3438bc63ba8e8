package scraper

import (
	"fmt"

	"github.com/conbridge/conbridge/internal/console"
)

// SyncThreshold is the reference SYNC_THRESHOLD (§4.1): a sync marker is
// only placed once the visible window has scrolled at least this many
// rows into the buffer, and it's re-anchored that far back from the
// window's current top. At exactly the threshold, no marker is placed
// (§8 boundary case).
const SyncThreshold = 200

// markerPrefix is "S*Y*N*C*" — chosen so it can never be mistaken for
// ordinary program output, per §4.1.
const markerPrefix = "S*Y*N*C*"

// MarkerLen is the fixed length, in cells, of a placed sync marker: the
// 8-byte prefix plus 8 hex digits of counter.
const MarkerLen = len(markerPrefix) + 8

// markerText renders the marker string for a given counter value.
func markerText(counter uint32) string {
	return fmt.Sprintf("%s%08x", markerPrefix, counter)
}

// placeMarker writes text as a vertical strip of MarkerLen cells in
// column 0, starting at row.
func placeMarker(grid *console.Grid, row int, text string) {
	for i := 0; i < len(text); i++ {
		grid.Set(row+i, 0, console.Cell{Codepoint: rune(text[i])})
	}
}

// searchMarker looks for text as a vertical column-0 strip starting at
// any row in [0, maxRow]. It returns the row it was found at, or
// (-1, false) if no such strip exists in that range.
func searchMarker(grid *console.Grid, text string, maxRow int) (int, bool) {
	n := len(text)
	if n == 0 {
		return -1, false
	}
	for r := 0; r <= maxRow; r++ {
		if r+n > grid.Height() {
			break
		}
		match := true
		for i := 0; i < n; i++ {
			if grid.At(r+i, 0).Codepoint != rune(text[i]) {
				match = false
				break
			}
		}
		if match {
			return r, true
		}
	}
	return -1, false
}
