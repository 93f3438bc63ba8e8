package console

import "unicode/utf8"

// Feeder is a minimal VT/ANSI state machine that interprets the child
// PTY's output bytes and mutates a Grid cell-by-cell (§4 "MODULE:
// Console State"). It deliberately implements only what §4.1/§4.2's
// scraper and the reference console model: print, cursor movement (CUP,
// CUU, CUD, CUF, CUB), SGR attribute changes, carriage return, and
// line-feed with scroll-on-overflow — not a general-purpose terminal
// emulator.
type Feeder struct {
	grid *Grid
	attr CellAttr

	state  feedState
	csiBuf []byte
}

type feedState int

const (
	stateNormal feedState = iota
	stateEscape
	stateCSI
)

// NewFeeder returns a Feeder that writes into grid.
func NewFeeder(grid *Grid) *Feeder {
	return &Feeder{grid: grid, state: stateNormal}
}

// Write implements io.Writer, consuming raw bytes from the child PTY.
func (f *Feeder) Write(p []byte) (int, error) {
	i := 0
	for i < len(p) {
		b := p[i]

		switch f.state {
		case stateNormal:
			if b == 0x1b {
				f.state = stateEscape
				i++
				continue
			}
			n := f.writeNormalByte(p[i:])
			i += n

		case stateEscape:
			if b == '[' {
				f.state = stateCSI
				f.csiBuf = f.csiBuf[:0]
				i++
				continue
			}
			// Any other escape we don't model (e.g. OSC, charset select)
			// is dropped — single byte consumed, back to normal.
			f.state = stateNormal
			i++

		case stateCSI:
			if b >= 0x40 && b <= 0x7e {
				f.runCSI(b, f.csiBuf)
				f.state = stateNormal
				i++
				continue
			}
			f.csiBuf = append(f.csiBuf, b)
			i++
		}
	}
	return len(p), nil
}

// writeNormalByte decodes one rune from buf (which may be multi-byte
// UTF-8) and prints it at the cursor, returning the number of bytes
// consumed.
func (f *Feeder) writeNormalByte(buf []byte) int {
	b := buf[0]

	switch b {
	case '\r':
		f.grid.Cursor.Col = 0
		return 1
	case '\n':
		f.lineFeed()
		return 1
	case '\b':
		if f.grid.Cursor.Col > 0 {
			f.grid.Cursor.Col--
		}
		return 1
	}

	r, size := decodeRune(buf)
	f.printRune(r)
	return size
}

func (f *Feeder) printRune(r rune) {
	cell := Cell{Codepoint: r, Attr: f.attr}
	w := cell.Width()
	if w <= 0 {
		w = 1
	}

	if f.grid.Cursor.Col+w > f.grid.Width() {
		f.lineFeed()
		f.grid.Cursor.Col = 0
	}

	row := f.grid.Cursor.Row
	col := f.grid.Cursor.Col
	f.grid.Set(row, col, cell)
	for pad := 1; pad < w; pad++ {
		f.grid.Set(row, col+pad, Cell{Codepoint: 0, Attr: f.attr})
	}

	f.grid.Cursor.Col += w
}

// lineFeed advances the cursor to the next row, scrolling the window
// down while the buffer has room beneath it, and physically shifting
// every row up by one — extending the scrollback, §4 "scroll-on-overflow"
// — once the buffer's last row is reached.
func (f *Feeder) lineFeed() {
	g := f.grid

	if g.Cursor.Row < g.Height()-1 {
		g.Cursor.Row++
	} else {
		for row := 0; row < g.Height()-1; row++ {
			copy(g.Row(row), g.Row(row+1))
		}
		g.ClearRow(g.Height() - 1)
	}

	if g.Cursor.Row >= g.Window.Top+g.Window.Height {
		g.Window.Top = g.Cursor.Row - g.Window.Height + 1
	}
}

func (f *Feeder) runCSI(final byte, params []byte) {
	args := parseCSIParams(params)

	switch final {
	case 'H', 'f':
		row := argOr(args, 0, 1)
		col := argOr(args, 1, 1)
		f.grid.Cursor.Row = clamp(f.grid.Window.Top+row-1, f.grid.Window.Top, f.grid.Window.Top+f.grid.Window.Height-1)
		f.grid.Cursor.Col = clamp(col-1, 0, f.grid.Width()-1)
	case 'A':
		n := argOr(args, 0, 1)
		f.grid.Cursor.Row = clamp(f.grid.Cursor.Row-n, f.grid.Window.Top, f.grid.Window.Top+f.grid.Window.Height-1)
	case 'B':
		n := argOr(args, 0, 1)
		f.grid.Cursor.Row = clamp(f.grid.Cursor.Row+n, f.grid.Window.Top, f.grid.Window.Top+f.grid.Window.Height-1)
	case 'C':
		n := argOr(args, 0, 1)
		f.grid.Cursor.Col = clamp(f.grid.Cursor.Col+n, 0, f.grid.Width()-1)
	case 'D':
		n := argOr(args, 0, 1)
		f.grid.Cursor.Col = clamp(f.grid.Cursor.Col-n, 0, f.grid.Width()-1)
	case 'm':
		f.applySGR(args)
	}
}

func (f *Feeder) applySGR(args []int) {
	if len(args) == 0 {
		args = []int{0}
	}

	for i := 0; i < len(args); i++ {
		switch v := args[i]; {
		case v == 0:
			f.attr = 0
		case v == 1:
			f.attr |= AttrBold
		case v == 3:
			f.attr |= AttrItalic
		case v == 4:
			f.attr |= AttrUnderline
		case v == 7:
			f.attr |= AttrReverse
		case v == 22:
			f.attr &^= AttrBold
		case v == 23:
			f.attr &^= AttrItalic
		case v == 24:
			f.attr &^= AttrUnderline
		case v == 27:
			f.attr &^= AttrReverse
		case v >= 30 && v <= 37:
			f.attr = f.attr.WithForeground(v - 30)
		case v == 39:
			f.attr = f.attr.WithForeground(0)
		case v >= 40 && v <= 47:
			f.attr = f.attr.WithBackground(v - 40)
		case v == 49:
			f.attr = f.attr.WithBackground(0)
		case v >= 90 && v <= 97:
			f.attr = f.attr.WithForeground(v - 90 + 8)
		case v >= 100 && v <= 107:
			f.attr = f.attr.WithBackground(v - 100 + 8)
		}
	}
}

func parseCSIParams(buf []byte) []int {
	var args []int
	cur := 0
	seen := false
	for _, b := range buf {
		if b == ';' {
			args = append(args, cur)
			cur = 0
			seen = false
			continue
		}
		if b >= '0' && b <= '9' {
			cur = cur*10 + int(b-'0')
			seen = true
		}
	}
	if seen || len(args) > 0 {
		args = append(args, cur)
	}
	return args
}

func argOr(args []int, idx, def int) int {
	if idx >= len(args) || args[idx] == 0 {
		return def
	}
	return args[idx]
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// decodeRune decodes one rune from the head of buf. A malformed leading
// byte consumes exactly one byte, same as the input translator's rule
// (§4.2 rule 3). Column advance is derived separately from Cell.Width
// (go-runewidth), matching emit.go's padding logic in the scraper.
func decodeRune(buf []byte) (rune, int) {
	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		return rune(buf[0]), 1
	}
	return r, size
}
