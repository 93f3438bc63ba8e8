package console

import "testing"

func TestNewGrid_Invariants(t *testing.T) {
	g := NewGrid(80, 3000)
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() = %v", err)
	}
	if g.Width() != 80 || g.Height() != 3000 {
		t.Fatalf("dims = (%d,%d), want (80,3000)", g.Width(), g.Height())
	}
	if g.Window.Top != 0 || g.Window.Height != 3000 {
		t.Fatalf("window = %+v, want top=0 height=3000", g.Window)
	}
}

func TestGrid_CheckInvariants_RejectsBadWindow(t *testing.T) {
	g := NewGrid(80, 25)
	g.Window.Top = -1
	if err := g.CheckInvariants(); err == nil {
		t.Error("negative window top should violate invariants")
	}

	g2 := NewGrid(80, 25)
	g2.Window.Top = 10
	g2.Window.Height = 20 // 10+20=30 > height 25
	if err := g2.CheckInvariants(); err == nil {
		t.Error("window exceeding buffer height should violate invariants")
	}
}

func TestGrid_SetAndAt(t *testing.T) {
	g := NewGrid(10, 5)
	c := Cell{Codepoint: 'x', Attr: AttrBold}
	g.Set(2, 3, c)

	if got := g.At(2, 3); !got.Equal(c) {
		t.Errorf("At(2,3) = %+v, want %+v", got, c)
	}
	if got := g.At(0, 0); !got.Equal(BlankCell) {
		t.Errorf("At(0,0) = %+v, want blank", got)
	}
}

func TestGrid_At_OutOfRangeReturnsBlank(t *testing.T) {
	g := NewGrid(10, 5)
	if got := g.At(-1, 0); !got.Equal(BlankCell) {
		t.Errorf("At(-1,0) = %+v, want blank", got)
	}
	if got := g.At(0, 100); !got.Equal(BlankCell) {
		t.Errorf("At(0,100) = %+v, want blank", got)
	}
}

func TestGrid_Resize_PreservesContent(t *testing.T) {
	g := NewGrid(10, 5)
	g.Set(1, 1, Cell{Codepoint: 'z'})

	if err := g.Resize(20, 10); err != nil {
		t.Fatalf("Resize() error = %v", err)
	}
	if got := g.At(1, 1); got.Codepoint != 'z' {
		t.Errorf("At(1,1) after resize = %+v, want 'z' preserved", got)
	}
	if err := g.CheckInvariants(); err != nil {
		t.Fatalf("CheckInvariants() after resize = %v", err)
	}
}

func TestGrid_Resize_RejectsOverMaxBufferWidth(t *testing.T) {
	g := NewGrid(80, 25)
	if err := g.Resize(MaxBufferWidth+1, 25); err == nil {
		t.Error("Resize() above MaxBufferWidth should fail")
	}
}

func TestGrid_Resize_RejectsNonPositive(t *testing.T) {
	g := NewGrid(80, 25)
	if err := g.Resize(0, 25); err == nil {
		t.Error("Resize(0, ...) should fail")
	}
	if err := g.Resize(80, -1); err == nil {
		t.Error("Resize(..., -1) should fail")
	}
}

func TestGrid_ClearRow(t *testing.T) {
	g := NewGrid(5, 3)
	for col := 0; col < 5; col++ {
		g.Set(1, col, Cell{Codepoint: 'a'})
	}
	g.ClearRow(1)
	for col := 0; col < 5; col++ {
		if got := g.At(1, col); !got.Equal(BlankCell) {
			t.Errorf("At(1,%d) after ClearRow = %+v, want blank", col, got)
		}
	}
}
