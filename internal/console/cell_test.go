package console

import "testing"

func TestCellAttr_ForegroundBackgroundRoundTrip(t *testing.T) {
	var a CellAttr
	a = a.WithForeground(7)
	a = a.WithBackground(3)

	if a.Foreground() != 7 {
		t.Errorf("Foreground() = %d, want 7", a.Foreground())
	}
	if a.Background() != 3 {
		t.Errorf("Background() = %d, want 3", a.Background())
	}
}

func TestCellAttr_StyleBitsIndependentOfColour(t *testing.T) {
	a := CellAttr(0).WithForeground(5).WithBackground(2) | AttrBold | AttrUnderline

	if a.Foreground() != 5 || a.Background() != 2 {
		t.Fatalf("colour bits corrupted: fg=%d bg=%d", a.Foreground(), a.Background())
	}
	if a&AttrBold == 0 || a&AttrUnderline == 0 {
		t.Fatalf("style bits lost: %v", a)
	}
}

func TestCell_Width(t *testing.T) {
	tests := []struct {
		r    rune
		want int
	}{
		{'a', 1},
		{0, 1}, // padding continuation cell
		{'世', 2},
	}

	for _, tt := range tests {
		c := Cell{Codepoint: tt.r}
		if w := c.Width(); w != tt.want {
			t.Errorf("Cell{%q}.Width() = %d, want %d", tt.r, w, tt.want)
		}
	}
}

func TestCell_Equal(t *testing.T) {
	a := Cell{Codepoint: 'x', Attr: AttrBold}
	b := Cell{Codepoint: 'x', Attr: AttrBold}
	c := Cell{Codepoint: 'x', Attr: 0}

	if !a.Equal(b) {
		t.Error("identical cells should be equal")
	}
	if a.Equal(c) {
		t.Error("cells with differing attrs should not be equal")
	}
}
