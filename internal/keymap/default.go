package keymap

// DefaultTrie is built once from a static table of the common xterm/vt220
// escape sequences (arrows, Home/End, Page Up/Down, function keys,
// Ctrl+Backspace). The DSR response pattern (ESC [ digits ; digits R) is
// recognized separately by internal/input, not inserted here, since it
// needs stateful consume-and-clear-dsr_outstanding handling rather than a
// static Key.
var DefaultTrie = buildDefaultTrie()

type seqEntry struct {
	seq string
	key Key
}

var defaultEntries = []seqEntry{
	{"\x1b[A", Key{VirtualKey: VKUp}},
	{"\x1b[B", Key{VirtualKey: VKDown}},
	{"\x1b[C", Key{VirtualKey: VKRight}},
	{"\x1b[D", Key{VirtualKey: VKLeft}},
	{"\x1bOA", Key{VirtualKey: VKUp}},
	{"\x1bOB", Key{VirtualKey: VKDown}},
	{"\x1bOC", Key{VirtualKey: VKRight}},
	{"\x1bOD", Key{VirtualKey: VKLeft}},

	{"\x1b[H", Key{VirtualKey: VKHome}},
	{"\x1b[F", Key{VirtualKey: VKEnd}},
	{"\x1b[1~", Key{VirtualKey: VKHome}},
	{"\x1b[4~", Key{VirtualKey: VKEnd}},
	{"\x1b[2~", Key{VirtualKey: VKInsert}},
	{"\x1b[3~", Key{VirtualKey: VKDelete}},
	{"\x1b[5~", Key{VirtualKey: VKPrior}},
	{"\x1b[6~", Key{VirtualKey: VKNext}},

	{"\x1bOP", Key{VirtualKey: VKF1}},
	{"\x1bOQ", Key{VirtualKey: VKF2}},
	{"\x1bOR", Key{VirtualKey: VKF3}},
	{"\x1bOS", Key{VirtualKey: VKF4}},
	{"\x1b[15~", Key{VirtualKey: VKF5}},
	{"\x1b[17~", Key{VirtualKey: VKF6}},
	{"\x1b[18~", Key{VirtualKey: VKF7}},
	{"\x1b[19~", Key{VirtualKey: VKF8}},
	{"\x1b[20~", Key{VirtualKey: VKF9}},
	{"\x1b[21~", Key{VirtualKey: VKF10}},
	{"\x1b[23~", Key{VirtualKey: VKF11}},
	{"\x1b[24~", Key{VirtualKey: VKF12}},

	// Shifted arrows/navigation (xterm modifyOtherKeys-style "1;2" suffix).
	{"\x1b[1;2A", Key{VirtualKey: VKUp, Modifiers: ModShift}},
	{"\x1b[1;2B", Key{VirtualKey: VKDown, Modifiers: ModShift}},
	{"\x1b[1;2C", Key{VirtualKey: VKRight, Modifiers: ModShift}},
	{"\x1b[1;2D", Key{VirtualKey: VKLeft, Modifiers: ModShift}},
	// Ctrl arrows ("1;5" suffix).
	{"\x1b[1;5A", Key{VirtualKey: VKUp, Modifiers: ModCtrl}},
	{"\x1b[1;5B", Key{VirtualKey: VKDown, Modifiers: ModCtrl}},
	{"\x1b[1;5C", Key{VirtualKey: VKRight, Modifiers: ModCtrl}},
	{"\x1b[1;5D", Key{VirtualKey: VKLeft, Modifiers: ModCtrl}},

	// Backspace variants: the two-byte ESC-prefixed DEL form is
	// Alt+Backspace, and BS 0x08 is Ctrl+Backspace (most terminals fold
	// Ctrl into the control byte).
	{"\x1b\x7f", Key{VirtualKey: VKBack, Modifiers: ModAlt}},
	{"\x08", Key{VirtualKey: VKBack, Modifiers: ModCtrl}},
}

func buildDefaultTrie() *Trie {
	t := NewTrie()
	for _, e := range defaultEntries {
		t.Insert([]byte(e.seq), e.key)
	}
	return t
}
