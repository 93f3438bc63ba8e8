package keymap

import "testing"

func TestTrie_InsertLookup_RoundTrip(t *testing.T) {
	tr := NewTrie()
	key := Key{VirtualKey: VKUp, Modifiers: ModShift}
	tr.Insert([]byte("\x1b[A"), key)

	got := tr.Lookup([]byte("\x1b[A"), true)
	if got.Outcome != OutcomeMatch {
		t.Fatalf("Outcome = %v, want OutcomeMatch", got.Outcome)
	}
	if got.Key != key {
		t.Errorf("Key = %+v, want %+v", got.Key, key)
	}
	if got.Consumed != 3 {
		t.Errorf("Consumed = %d, want 3", got.Consumed)
	}
}

func TestTrie_Lookup_StrictPrefixIsIncomplete(t *testing.T) {
	tr := NewTrie()
	tr.Insert([]byte("\x1b[A"), Key{VirtualKey: VKUp})

	got := tr.Lookup([]byte("\x1b["), false)
	if got.Outcome != OutcomeIncomplete {
		t.Fatalf("Outcome = %v, want OutcomeIncomplete", got.Outcome)
	}
}

func TestTrie_Lookup_StrictPrefixAtEOFWithNoAcceptingAncestor(t *testing.T) {
	tr := NewTrie()
	tr.Insert([]byte("\x1b[A"), Key{VirtualKey: VKUp})

	got := tr.Lookup([]byte("\x1b["), true)
	if got.Outcome != OutcomeDeadEnd {
		t.Fatalf("Outcome = %v, want OutcomeDeadEnd", got.Outcome)
	}
}

func TestTrie_Lookup_AcceptingWithContinuations_BestMatchAtDeadEnd(t *testing.T) {
	tr := NewTrie()
	home := Key{VirtualKey: VKHome}
	f5 := Key{VirtualKey: VKF5}
	tr.Insert([]byte("\x1b[1"), home)  // accepting, but has a child below
	tr.Insert([]byte("\x1b[15~"), f5) // continuation through the same prefix

	// "\x1b[1X" has no child for 'X' after "\x1b[1" — dead end with a
	// prior accepting node ("\x1b[1" itself) along the path.
	got := tr.Lookup([]byte("\x1b[1X"), false)
	if got.Outcome != OutcomeBestMatch {
		t.Fatalf("Outcome = %v, want OutcomeBestMatch", got.Outcome)
	}
	if got.Key != home {
		t.Errorf("Key = %+v, want %+v", got.Key, home)
	}
	if got.Consumed != 3 {
		t.Errorf("Consumed = %d, want 3", got.Consumed)
	}
}

func TestTrie_Lookup_NoMatchAtAll(t *testing.T) {
	tr := NewTrie()
	tr.Insert([]byte("\x1b[A"), Key{VirtualKey: VKUp})

	got := tr.Lookup([]byte("x"), false)
	if got.Outcome != OutcomeDeadEnd {
		t.Fatalf("Outcome = %v, want OutcomeDeadEnd", got.Outcome)
	}
}

func TestDefaultTrie_ArrowKeys(t *testing.T) {
	tests := []struct {
		seq  string
		want uint16
	}{
		{"\x1b[A", VKUp},
		{"\x1b[B", VKDown},
		{"\x1b[C", VKRight},
		{"\x1b[D", VKLeft},
	}

	for _, tt := range tests {
		got := DefaultTrie.Lookup([]byte(tt.seq), true)
		if got.Outcome != OutcomeMatch {
			t.Fatalf("Lookup(%q) outcome = %v, want OutcomeMatch", tt.seq, got.Outcome)
		}
		if got.Key.VirtualKey != tt.want {
			t.Errorf("Lookup(%q) VirtualKey = %#x, want %#x", tt.seq, got.Key.VirtualKey, tt.want)
		}
	}
}

func TestDefaultTrie_PrefixOfArrowKeyIsIncomplete(t *testing.T) {
	got := DefaultTrie.Lookup([]byte("\x1b["), false)
	if got.Outcome != OutcomeIncomplete {
		t.Fatalf("Outcome = %v, want OutcomeIncomplete", got.Outcome)
	}
}
