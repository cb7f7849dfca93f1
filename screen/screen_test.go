package screen

import "testing"

func TestNewInitialisesLowerAndHidesUpper(t *testing.T) {
	m := New(80, 24, Color{255, 255, 255}, Color{0, 0, 0}, false)

	if m.Windows[1].Height != 0 {
		t.Errorf("upper window height = %d, want 0", m.Windows[1].Height)
	}
	if m.Windows[0].Height != 24 || m.Windows[0].Width != 80 {
		t.Errorf("lower window size = %dx%d, want 80x24", m.Windows[0].Width, m.Windows[0].Height)
	}
	if m.Selected != 0 {
		t.Errorf("Selected = %d, want 0", m.Selected)
	}
}

func TestSplitWindowResizesBothWindows(t *testing.T) {
	m := New(80, 24, Color{}, Color{}, false)
	m.SplitWindow(5, 3)

	if m.Windows[1].Height != 5 {
		t.Errorf("upper height = %d, want 5", m.Windows[1].Height)
	}
	if m.Windows[0].Top != 6 || m.Windows[0].Height != 19 {
		t.Errorf("lower window = top %d height %d, want top 6 height 19", m.Windows[0].Top, m.Windows[0].Height)
	}
}

func TestSelectWindowSavesAndRestoresLowerCursor(t *testing.T) {
	m := New(80, 24, Color{}, Color{}, false)
	m.Windows[0].CursorX, m.Windows[0].CursorY = 10, 5

	m.SelectWindow(1)
	if m.Windows[1].BufferingOn {
		t.Error("selecting the upper window should disable its buffering")
	}

	m.SelectWindow(0)
	if m.Windows[0].CursorX != 10 || m.Windows[0].CursorY != 5 {
		t.Errorf("lower cursor after reselect = (%d,%d), want (10,5)", m.Windows[0].CursorX, m.Windows[0].CursorY)
	}
	if !m.Windows[0].BufferingOn {
		t.Error("reselecting the lower window should re-enable its buffering")
	}
}

func TestSelectWindowClampsRestoredCursorToHeight(t *testing.T) {
	m := New(80, 24, Color{}, Color{}, false)
	m.Windows[0].CursorY = 100
	m.SelectWindow(1)
	m.SelectWindow(0)

	if m.Windows[0].CursorY != m.Windows[0].Height {
		t.Errorf("CursorY = %d, want clamped to height %d", m.Windows[0].CursorY, m.Windows[0].Height)
	}
}

func TestEraseWindowMinusOneResetsSplitAndSelection(t *testing.T) {
	m := New(80, 24, Color{}, Color{}, false)
	m.SplitWindow(5, 3)
	m.SelectWindow(1)

	m.EraseWindow(-1)

	if m.Windows[1].Height != 0 {
		t.Errorf("upper height after EraseWindow(-1) = %d, want 0", m.Windows[1].Height)
	}
	if m.Selected != 0 {
		t.Errorf("Selected after EraseWindow(-1) = %d, want 0", m.Selected)
	}
}

func TestNewZMachineColorResolvesNamedConstants(t *testing.T) {
	m := New(80, 24, Color{1, 2, 3}, Color{4, 5, 6}, false)

	if got := m.NewZMachineColor(1, true); got != (Color{1, 2, 3}) {
		t.Errorf("default foreground = %v, want {1 2 3}", got)
	}
	if got := m.NewZMachineColor(3, true); got != (Color{255, 0, 0}) {
		t.Errorf("red constant = %v, want {255 0 0}", got)
	}
}

func TestColorToHex(t *testing.T) {
	c := Color{255, 16, 0}
	if got := c.ToHex(); got != "#ff1000" {
		t.Errorf("ToHex() = %q, want #ff1000", got)
	}
}

func TestCreateStatusLinePadsBetweenPlaceAndScore(t *testing.T) {
	got := CreateStatusLine(30, "Kitchen", 10, 5, false)
	want := "Kitchen" + "  " + "Score: 10    Moves: 5"
	if got != want {
		t.Errorf("CreateStatusLine() = %q, want %q", got, want)
	}
}

func TestCreateStatusLineTruncatesOverlongPlaceName(t *testing.T) {
	got := CreateStatusLine(10, "A Very Long Room Name Indeed", 1, 2, false)
	if len(got) != 10 {
		t.Errorf("len(CreateStatusLine()) = %d, want 10", len(got))
	}
}

func TestCreateStatusLineTimeBasedFormat(t *testing.T) {
	got := CreateStatusLine(20, "Deck", 9, 30, true)
	want := "Deck" + "     " + "Time: 09:30"
	if got != want {
		t.Errorf("CreateStatusLine() = %q, want %q", got, want)
	}
}
