package scraper

import (
	"fmt"
	"io"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
	"github.com/conbridge/conbridge/internal/console"
	"github.com/mattn/go-runewidth"
)

// Emitter renders scraper output as the "standard ANSI subset" (§6) that
// crosses the data pipe: cursor-positioned, SGR-run-length-encoded line
// content, and a trailing cursor-placement frame. It has no knowledge of
// absolute line numbers or the sync marker — the Scraper hands it
// already-translated screen-relative coordinates.
type Emitter struct{}

// EmitLine writes cells at screen row screenRow (0-based, relative to
// the current window), erasing the remainder of the line so stale
// trailing content from a previous, longer line doesn't linger.
func (Emitter) EmitLine(w io.Writer, screenRow int, cells []console.Cell) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\x1b[%d;1H", screenRow+1)

	end := lastContentCell(cells)
	var cur console.CellAttr
	open := false
	for i := 0; i <= end; i++ {
		c := cells[i]
		if !open || c.Attr != cur {
			if open {
				b.WriteString("\x1b[0m")
			}
			b.WriteString(sgrFor(c.Attr))
			cur = c.Attr
			open = true
		}
		if c.Codepoint == 0 {
			continue // wide-rune padding continuation cell
		}
		r := c.Codepoint
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	if open {
		b.WriteString("\x1b[0m")
	}
	b.WriteString("\x1b[K")

	_, err := io.WriteString(w, b.String())
	return err
}

// EmitFinish writes the trailing cursor-placement frame that terminates
// a poll cycle's update stream (§4.1 step 6).
func (Emitter) EmitFinish(w io.Writer, screenRow, col int) error {
	_, err := fmt.Fprintf(w, "\x1b[%d;%dH", screenRow+1, col+1)
	return err
}

// lastContentCell returns the index of the last cell that isn't a blank,
// default-attribute space, or -1 if the row is entirely blank. Trailing
// blanks are covered by the EL (erase-to-end-of-line) sequence instead
// of being transmitted as literal spaces.
func lastContentCell(cells []console.Cell) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if cells[i].Codepoint != ' ' && cells[i].Codepoint != 0 {
			return i
		}
		if cells[i].Attr != 0 {
			return i
		}
	}
	return -1
}

// sgrFor renders the minimal SGR sequence reproducing attr, always
// starting from a clean slate (callers reset with \x1b[0m between runs).
func sgrFor(attr console.CellAttr) string {
	var codes []string
	if attr&console.AttrBold != 0 {
		codes = append(codes, "1")
	}
	if attr&console.AttrItalic != 0 {
		codes = append(codes, "3")
	}
	if attr&console.AttrUnderline != 0 {
		codes = append(codes, "4")
	}
	if attr&console.AttrReverse != 0 {
		codes = append(codes, "7")
	}
	if fg := attr.Foreground(); fg != 0 {
		codes = append(codes, fmt.Sprintf("%d", 30+fg))
	}
	if bg := attr.Background(); bg != 0 {
		codes = append(codes, fmt.Sprintf("%d", 40+bg))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

// VisibleWidth is used by cmd/conbridge-agent/showinput.go to align the
// --show-input diagnostic's per-event sequence-number column against
// text already wrapped in lipgloss SGR styling, so the scraper and its
// diagnostics agree on what "width" means for a rendered line. Plain
// cell padding (no escape sequences) is measured with go-runewidth;
// already-styled output goes through ansi.StringWidth so embedded SGR
// runs don't count against the column total.
func VisibleWidth(s string) int {
	if strings.ContainsRune(s, 0x1b) {
		return xansi.StringWidth(s)
	}
	return runewidth.StringWidth(s)
}
