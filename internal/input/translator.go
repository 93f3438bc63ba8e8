// Package input implements the byte-stream-to-key-event translator (§4.2):
// trie lookup against a keymap.Trie, a DSR round-trip to flush ambiguous
// partial escape sequences, and the ordered per-character fallback rules.
package input

import (
	"time"
	"unicode/utf8"

	"github.com/conbridge/conbridge/internal/keymap"
)

// IncompleteEscapeTimeout is the default wall-clock timeout (§3
// "last_input_ts", §5 "1000 ms") after which an ambiguous, still-buffered
// escape sequence is flushed with isEof=true.
const IncompleteEscapeTimeout = 1000 * time.Millisecond

// Translator converts a downstream terminal byte stream into synthetic
// key events, per §4.2. Not safe for concurrent use — the Agent drives it
// single-threaded, matching §5's "Agent is logically single-threaded".
type Translator struct {
	trie *keymap.Trie

	pending        []byte
	dsrOutstanding bool
	dsrPrefixLen   int
	lastAppend     time.Time

	// ProcessedInputMode gates the Ctrl-C-raises-console-event rule
	// (§4.2 rule 1). Defaults to true, matching a console's default
	// input mode.
	ProcessedInputMode bool

	// SendDownstream transmits bytes to the downstream terminal — used
	// to emit the DSR query (ESC [ 6 n).
	SendDownstream func([]byte) error

	// OnCtrlC is invoked when a raw 0x03 arrives in processed-input mode
	// instead of emitting a key event.
	OnCtrlC func()
}

// NewTranslator returns a Translator using the given trie (typically
// keymap.DefaultTrie).
func NewTranslator(trie *keymap.Trie) *Translator {
	return &Translator{
		trie:               trie,
		ProcessedInputMode: true,
	}
}

// Feed appends b to pending_bytes and drains as many keys as can be
// resolved without blocking, per §4.2.
func (t *Translator) Feed(b []byte) ([]Event, error) {
	t.pending = append(t.pending, b...)
	t.lastAppend = time.Now()

	events, err := t.drain(false)
	if err != nil {
		return events, err
	}

	if len(t.pending) > 0 && !t.dsrOutstanding {
		if t.SendDownstream != nil {
			if err := t.SendDownstream([]byte(dsrQuery)); err != nil {
				return events, err
			}
		}
		t.dsrOutstanding = true
		t.dsrPrefixLen = len(t.pending)
	}

	return events, nil
}

// FlushTimeout forces resolution of any still-buffered ambiguous sequence
// if IncompleteEscapeTimeout has elapsed since the last append (§4.2 "If
// the response does not arrive within kIncompleteEscapeTimeoutMs").
func (t *Translator) FlushTimeout(now time.Time) ([]Event, error) {
	if len(t.pending) == 0 {
		return nil, nil
	}
	if now.Sub(t.lastAppend) < IncompleteEscapeTimeout {
		return nil, nil
	}

	t.dsrOutstanding = false
	t.dsrPrefixLen = 0
	return t.drain(true)
}

// drain resolves as many keys as possible from pending_bytes. isEof forces
// ambiguous trie/UTF-8 matches to resolve rather than waiting for more
// bytes.
//
// While a DSR query is outstanding, the bytes buffered at the time the
// query was sent (t.pending[:t.dsrPrefixLen]) are the ambiguous sequence
// under test — the reply is looked for starting right after them, not at
// offset 0. Once the reply is found, the round trip proves the terminal
// had nothing left to send for that prefix, so it is force-resolved with
// isEof=true independent of whatever follows the reply in the stream.
func (t *Translator) drain(isEof bool) ([]Event, error) {
	var events []Event

	for len(t.pending) > 0 {
		if t.dsrOutstanding {
			if t.dsrPrefixLen > len(t.pending) {
				t.dsrPrefixLen = len(t.pending)
			}

			consumed, matched, live := matchDSRReply(t.pending[t.dsrPrefixLen:], isEof)
			if matched {
				prefix := t.pending[:t.dsrPrefixLen]
				remainder := t.pending[t.dsrPrefixLen+consumed:]

				events = append(events, t.resolvePrefix(prefix)...)

				t.pending = append([]byte(nil), remainder...)
				t.dsrOutstanding = false
				t.dsrPrefixLen = 0
				continue
			}
			if live {
				break
			}
			// The bytes after the ambiguous prefix can't form a DSR reply
			// at all — treat the query as stale and fall through to
			// normal matching over the whole buffer.
			t.dsrOutstanding = false
			t.dsrPrefixLen = 0
		}

		res := t.trie.Lookup(t.pending, isEof)
		switch res.Outcome {
		case keymap.OutcomeMatch, keymap.OutcomeBestMatch:
			events = append(events, EmitKeyEvents(res.Key)...)
			t.pending = t.pending[res.Consumed:]
			continue

		case keymap.OutcomeIncomplete:
			return events, nil

		case keymap.OutcomeDeadEnd:
			consumed, charEvents, ctrlC, incomplete := t.perCharacterStep(t.pending, isEof)
			if incomplete {
				return events, nil
			}
			if ctrlC {
				if t.OnCtrlC != nil {
					t.OnCtrlC()
				}
				t.pending = t.pending[consumed:]
				continue
			}
			events = append(events, charEvents...)
			t.pending = t.pending[consumed:]
			continue
		}
	}

	return events, nil
}

// resolvePrefix force-resolves buf (a completed DSR round trip's ambiguous
// prefix) into key events, as if isEof=true throughout.
func (t *Translator) resolvePrefix(buf []byte) []Event {
	var events []Event

	for len(buf) > 0 {
		res := t.trie.Lookup(buf, true)
		switch res.Outcome {
		case keymap.OutcomeMatch, keymap.OutcomeBestMatch:
			events = append(events, EmitKeyEvents(res.Key)...)
			buf = buf[res.Consumed:]
		default:
			consumed, charEvents, ctrlC, _ := t.perCharacterStep(buf, true)
			if ctrlC {
				if t.OnCtrlC != nil {
					t.OnCtrlC()
				}
			} else {
				events = append(events, charEvents...)
			}
			buf = buf[consumed:]
		}
	}

	return events
}

// perCharacterStep applies the ordered fallback rules of §4.2 when the
// trie does not match buf.
func (t *Translator) perCharacterStep(buf []byte, isEof bool) (consumed int, events []Event, ctrlC bool, incomplete bool) {
	// Rule 1: Ctrl-C in processed-input mode raises a console event
	// rather than emitting a key.
	if buf[0] == 0x03 && t.ProcessedInputMode {
		return 1, nil, true, false
	}

	// Rule 2: ESC followed by any byte other than ESC is Alt-<char>.
	// ESC ESC does *not* qualify (§8): the second ESC starts a new match.
	if buf[0] == 0x1b && len(buf) > 1 && buf[1] != 0x1b {
		rest := buf[1:]
		if !utf8.FullRune(rest) && !isEof {
			return 0, nil, false, true
		}

		r, size := utf8.DecodeRune(rest)
		if r == utf8.RuneError && size <= 1 {
			r = rune(rest[0])
			size = 1
		}

		vk, mods, ok := keymap.LayoutLookup(r)
		if !ok {
			vk = 0
		}
		key := keymap.Key{VirtualKey: vk, Unicode: r, Modifiers: mods | keymap.ModAlt}
		return 1 + size, EmitKeyEvents(key), false, false
	}

	// Rule 3: decode one UTF-8 character.
	if !utf8.FullRune(buf) && !isEof {
		return 0, nil, false, true
	}

	r, size := utf8.DecodeRune(buf)
	if r == utf8.RuneError && size <= 1 {
		key := keymap.Key{Unicode: rune(buf[0])}
		return 1, EmitKeyEvents(key), false, false
	}

	vk, mods, ok := layoutLookupWithEscape(r)
	if !ok {
		vk = 0
	}
	key := keymap.Key{VirtualKey: vk, Unicode: r, Modifiers: mods}
	return size, EmitKeyEvents(key), false, false
}

// layoutLookupWithEscape extends keymap.LayoutLookup with the one control
// character it deliberately excludes: a bare ESC that reached the
// per-character fallback (the trie's DSR/escape-sequence entries didn't
// match) resolves to the Escape virtual key (§8 Scenario "Ambiguous ESC").
func layoutLookupWithEscape(r rune) (vk uint16, mods keymap.ModMask, ok bool) {
	if r == 0x1b {
		return keymap.VKEscape, 0, true
	}
	return keymap.LayoutLookup(r)
}
