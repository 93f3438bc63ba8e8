package scraper

import "github.com/conbridge/conbridge/internal/console"

// ShadowBuffer is the per-line cache of the last cells transmitted
// downstream (§3 "Shadow buffer"), indexed by absolute line number
// modulo a fixed capacity. Slots for lines beyond what the scraper has
// ever transmitted are undefined — the scraper tracks that boundary
// itself (maxBufferedLine), not this type.
type ShadowBuffer struct {
	capacity int
	slots    [][]console.Cell
}

// NewShadowBuffer returns an empty shadow buffer of the given capacity
// (the reference value is BUFFER_LINE_COUNT = 3000).
func NewShadowBuffer(capacity int) *ShadowBuffer {
	return &ShadowBuffer{
		capacity: capacity,
		slots:    make([][]console.Cell, capacity),
	}
}

func (s *ShadowBuffer) slot(line int) int {
	return ((line % s.capacity) + s.capacity) % s.capacity
}

// Get returns the cells last written for absLine, or nil if nothing has
// ever been written to that slot (or it's been overwritten by a later
// line that wrapped around the ring).
func (s *ShadowBuffer) Get(absLine int) []console.Cell {
	return s.slots[s.slot(absLine)]
}

// Set records cells as the last-transmitted content for absLine. The
// caller owns cells' backing array; Set copies it.
func (s *ShadowBuffer) Set(absLine int, cells []console.Cell) {
	cp := make([]console.Cell, len(cells))
	copy(cp, cells)
	s.slots[s.slot(absLine)] = cp
}

// Reset clears every slot (§4.1.5 "Full reset: Clear the shadow").
func (s *ShadowBuffer) Reset() {
	for i := range s.slots {
		s.slots[i] = nil
	}
}

// equalRow reports whether row (fresh cells read from the grid) matches
// shadow (the last-transmitted cells for that line, possibly nil).
func equalRow(row, shadow []console.Cell) bool {
	if shadow == nil {
		return false
	}
	if len(row) != len(shadow) {
		return false
	}
	for i := range row {
		if !row[i].Equal(shadow[i]) {
			return false
		}
	}
	return true
}
