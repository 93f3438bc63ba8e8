// Package keymap implements the immutable byte-keyed trie that maps
// terminal escape sequences to synthetic key events (§4.2), plus the
// virtual-key constants and per-character layout lookup it matches against.
package keymap

// ModMask packs the Ctrl/Alt/Shift modifier bits accompanying a key event.
type ModMask uint8

const (
	ModCtrl ModMask = 1 << iota
	ModAlt
	ModShift
)

// Key is the synthetic key record yielded by an accepting trie node or a
// per-character fallback rule (§3 "Input translator state").
type Key struct {
	VirtualKey uint16
	Unicode    rune
	Modifiers  ModMask
}
