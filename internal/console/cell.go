// Package console models the Agent's off-screen character grid (§3
// "Console state") and the minimal VT/ANSI feeder that keeps it in sync
// with the child program's output.
package console

import "github.com/mattn/go-runewidth"

// CellAttr packs foreground colour, background colour, and style bits
// into 16 bits, per §3's "attributes packs foreground colour, background
// colour, and style bits (16 bits)".
type CellAttr uint16

const (
	attrFgShift = 0
	attrFgMask  = CellAttr(0x0F) << attrFgShift
	attrBgShift = 4
	attrBgMask  = CellAttr(0x0F) << attrBgShift

	// AttrBold, AttrUnderline, AttrReverse, AttrItalic occupy the style
	// bits above the colour nibbles.
	AttrBold      CellAttr = 1 << 8
	AttrUnderline CellAttr = 1 << 9
	AttrReverse   CellAttr = 1 << 10
	AttrItalic    CellAttr = 1 << 11
)

// Foreground and Background report the 4-bit colour index packed into
// attr's low and high nibble respectively (0-15, the standard ANSI
// 16-colour palette).
func (a CellAttr) Foreground() int { return int((a & attrFgMask) >> attrFgShift) }
func (a CellAttr) Background() int { return int((a & attrBgMask) >> attrBgShift) }

// WithForeground and WithBackground return a copy of a with the given
// colour index set, masked to its low 4 bits.
func (a CellAttr) WithForeground(idx int) CellAttr {
	return (a &^ attrFgMask) | (CellAttr(idx&0x0F) << attrFgShift)
}

func (a CellAttr) WithBackground(idx int) CellAttr {
	return (a &^ attrBgMask) | (CellAttr(idx&0x0F) << attrBgShift)
}

// Cell is one console grid cell: a decoded codepoint plus its packed
// attributes (§3 "A pair (codepoint, attributes)").
type Cell struct {
	Codepoint rune
	Attr      CellAttr
}

// BlankCell is the grid's fill value: a space with no attributes set.
var BlankCell = Cell{Codepoint: ' '}

// Width reports the terminal column width of c's codepoint (0, 1, or 2),
// used to advance the cursor and to pad shadow lines to their full
// column count.
func (c Cell) Width() int {
	if c.Codepoint == 0 {
		return 1
	}
	return runewidth.RuneWidth(c.Codepoint)
}

// Equal reports whether two cells have the same codepoint and attributes
// — the dirty-line comparison in §4.1 step 4 is cell equality plus the
// "differs from the preceding cell's attribute" rule layered on top in
// grid.go.
func (c Cell) Equal(other Cell) bool {
	return c.Codepoint == other.Codepoint && c.Attr == other.Attr
}
