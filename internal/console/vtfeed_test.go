package console

import "testing"

func TestFeeder_PrintAdvancesCursor(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("hi"))

	if g.Cursor.Col != 2 {
		t.Fatalf("Cursor.Col = %d, want 2", g.Cursor.Col)
	}
	if g.At(0, 0).Codepoint != 'h' || g.At(0, 1).Codepoint != 'i' {
		t.Fatalf("row 0 = %q%q, want 'h' 'i'", g.At(0, 0).Codepoint, g.At(0, 1).Codepoint)
	}
}

func TestFeeder_CarriageReturn(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("hi\r"))

	if g.Cursor.Col != 0 {
		t.Fatalf("Cursor.Col = %d, want 0 after \\r", g.Cursor.Col)
	}
	if g.Cursor.Row != 0 {
		t.Fatalf("Cursor.Row = %d, want 0 (\\r alone does not move rows)", g.Cursor.Row)
	}
}

// Scenario 1 (Echo, adapted to this layer): "hi\r\n" prints hi, then
// returns to column 0 and advances to the next row.
func TestFeeder_EchoScenario(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("hi\r\n"))

	if g.Cursor.Col != 0 {
		t.Fatalf("Cursor.Col = %d, want 0", g.Cursor.Col)
	}
	if g.Cursor.Row != 1 {
		t.Fatalf("Cursor.Row = %d, want 1", g.Cursor.Row)
	}
	if g.At(0, 0).Codepoint != 'h' || g.At(0, 1).Codepoint != 'i' {
		t.Fatalf("line 0 should still read \"hi\"")
	}
}

func TestFeeder_LineFeedKeepsWindowWhileCursorFits(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	for i := 0; i < 4; i++ {
		f.Write([]byte("\n"))
	}

	if g.Cursor.Row != 4 {
		t.Fatalf("Cursor.Row = %d, want 4", g.Cursor.Row)
	}
	if g.Window.Top != 0 {
		t.Fatalf("Window.Top = %d, want 0 (buffer has room, window still fits)", g.Window.Top)
	}
}

func TestFeeder_LineFeedShiftsRowsAtBufferBottom(t *testing.T) {
	g := NewGrid(5, 3)
	f := NewFeeder(g)

	f.Write([]byte("a\r\nb\r\nc\r\nd"))

	// Buffer height 3: 'a' at row 0, '\r\n' -> row1 col0, 'b', '\r\n' ->
	// row2 col0, 'c', '\r\n' at bottom shifts rows up (a,b,c -> b,c,blank),
	// 'd' prints on the now-blank last row.
	if g.At(0, 0).Codepoint != 'b' {
		t.Errorf("row 0 = %q, want 'b' (shifted up)", g.At(0, 0).Codepoint)
	}
	if g.At(1, 0).Codepoint != 'c' {
		t.Errorf("row 1 = %q, want 'c' (shifted up)", g.At(1, 0).Codepoint)
	}
	if g.At(2, 0).Codepoint != 'd' {
		t.Errorf("row 2 = %q, want 'd'", g.At(2, 0).Codepoint)
	}
}

func TestFeeder_CursorPositioning(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("\x1b[3;5H"))
	if g.Cursor.Row != 2 || g.Cursor.Col != 4 {
		t.Fatalf("cursor = (%d,%d), want (2,4) for CUP 3;5", g.Cursor.Row, g.Cursor.Col)
	}

	f.Write([]byte("\x1b[2B"))
	if g.Cursor.Row != 4 {
		t.Fatalf("Cursor.Row = %d, want 4 after CUD 2", g.Cursor.Row)
	}

	f.Write([]byte("\x1b[1A"))
	if g.Cursor.Row != 3 {
		t.Fatalf("Cursor.Row = %d, want 3 after CUU 1", g.Cursor.Row)
	}

	f.Write([]byte("\x1b[2C"))
	if g.Cursor.Col != 6 {
		t.Fatalf("Cursor.Col = %d, want 6 after CUF 2", g.Cursor.Col)
	}

	f.Write([]byte("\x1b[3D"))
	if g.Cursor.Col != 3 {
		t.Fatalf("Cursor.Col = %d, want 3 after CUB 3", g.Cursor.Col)
	}
}

func TestFeeder_SGRBold(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("\x1b[1mx\x1b[0my"))

	if g.At(0, 0).Attr&AttrBold == 0 {
		t.Error("first cell should carry AttrBold")
	}
	if g.At(0, 1).Attr&AttrBold != 0 {
		t.Error("second cell should not carry AttrBold after reset")
	}
}

func TestFeeder_SGRColour(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte("\x1b[31;44mx"))

	c := g.At(0, 0)
	if c.Attr.Foreground() != 1 {
		t.Errorf("Foreground() = %d, want 1 (red)", c.Attr.Foreground())
	}
	if c.Attr.Background() != 4 {
		t.Errorf("Background() = %d, want 4 (blue)", c.Attr.Background())
	}
}

func TestFeeder_WrapsAtBufferWidth(t *testing.T) {
	g := NewGrid(3, 3)
	f := NewFeeder(g)

	f.Write([]byte("abcd"))

	if g.At(0, 0).Codepoint != 'a' || g.At(0, 1).Codepoint != 'b' || g.At(0, 2).Codepoint != 'c' {
		t.Fatalf("row 0 should hold 'abc'")
	}
	if g.At(1, 0).Codepoint != 'd' {
		t.Fatalf("row 1 should hold wrapped 'd', got %q", g.At(1, 0).Codepoint)
	}
}

func TestFeeder_MalformedUTF8ConsumesOneByte(t *testing.T) {
	g := NewGrid(10, 5)
	f := NewFeeder(g)

	f.Write([]byte{0xff, 'x'})

	if g.Cursor.Col != 2 {
		t.Fatalf("Cursor.Col = %d, want 2 (malformed byte + 'x' each advance one column)", g.Cursor.Col)
	}
}
