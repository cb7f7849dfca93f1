// Package screen implements the Z-machine's windowed screen model: the
// lower scrolling window, the upper non-scrolling window (up to 8 windows
// for v6), split/select/erase operations, and the v1-3 status line.
package screen

import (
	"fmt"
	"strings"
)

// TextStyle is the bitmap passed to `set_text_style`.
type TextStyle int

const (
	Roman        TextStyle = 0b0000_0001
	Bold         TextStyle = 0b0000_0010
	Italic       TextStyle = 0b0000_0100
	ReverseVideo TextStyle = 0b0000_1000
	FixedPitch   TextStyle = 0b0001_0000
)

// Color is an RGB triple resolved from a Z-machine colour constant.
type Color struct {
	R, G, B int
}

func (c Color) ToHex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

// Font identifies one of the four standard Z-machine fonts.
type Font uint16

const (
	FontNormal     Font = 1
	FontPicture    Font = 2
	FontCharGraphs Font = 3
	FontFixedPitch Font = 4
)

// Window is one entry of the up-to-8-window table. Windows 0 and
// 1 (lower and upper) are always present; windows 2-7 exist only for v6.
type Window struct {
	Top, Left       int
	Height, Width   int
	CursorX, CursorY int
	Foreground      Color
	Background      Color
	TextStyle       TextStyle
	Font            Font
	LineCount       int
	BufferingOn     bool
	PrinterEnabled  bool
	InterruptCountdown int
	NewlineRoutine  uint16
}

// Model is the full screen state: the window table, which window is
// selected, and the default colours used to reset windows on split.
type Model struct {
	Windows  [8]Window
	Selected int // 0 = lower, 1 = upper, 2-7 = v6 extra windows

	ScreenWidth, ScreenHeight int
	V6                        bool

	DefaultForeground Color
	DefaultBackground Color

	savedLowerCursorX, savedLowerCursorY int
}

// New creates a Model sized to the terminal collaborator's reported
// dimensions, with both default windows initialised.
func New(width, height int, fg, bg Color, v6 bool) *Model {
	m := &Model{
		ScreenWidth:       width,
		ScreenHeight:      height,
		DefaultForeground: fg,
		DefaultBackground: bg,
		V6:                v6,
	}
	for i := range m.Windows {
		m.Windows[i] = Window{
			Top: 1, Left: 1, Height: height, Width: width,
			CursorX: 1, CursorY: 1,
			Foreground: fg, Background: bg,
			TextStyle: Roman, Font: FontNormal, BufferingOn: true,
		}
	}
	m.Windows[1].Height = 0
	return m
}

// Current returns the selected window.
func (m *Model) Current() *Window { return &m.Windows[m.Selected] }

// SplitWindow sets the upper window to rows 1..lines (0 hides it) and
// shrinks the lower window to the remainder, homing the upper window's
// cursor. The model keeps no cell contents, so no region is cleared on a
// split in any version.
func (m *Model) SplitWindow(lines int, version uint8) {
	m.Windows[1].Height = lines
	m.Windows[1].Top = 1
	m.Windows[1].CursorX, m.Windows[1].CursorY = 1, 1

	m.Windows[0].Top = lines + 1
	m.Windows[0].Height = m.ScreenHeight - lines

	if version == 3 {
		m.Windows[1].CursorX, m.Windows[1].CursorY = 1, 1
	}
}

// SelectWindow switches the active window, saving/restoring cursor state:
// selecting the upper window disables buffering, and returning to the
// lower window clamps the saved cursor into range.
func (m *Model) SelectWindow(window int) {
	if window == m.Selected {
		return
	}

	if window == 1 {
		m.Windows[1].BufferingOn = false
		if !m.V6 {
			m.Windows[1].CursorX, m.Windows[1].CursorY = 1, 1
		}
	}

	if m.Selected == 0 {
		m.savedLowerCursorX, m.savedLowerCursorY = m.Windows[0].CursorX, m.Windows[0].CursorY
	}

	m.Selected = window

	if window == 0 {
		m.Windows[0].CursorX, m.Windows[0].CursorY = m.savedLowerCursorX, m.savedLowerCursorY
		if m.Windows[0].CursorY > m.Windows[0].Height {
			m.Windows[0].CursorY = m.Windows[0].Height
		}
		m.Windows[0].BufferingOn = true
	}
}

// EraseWindow implements the window-state side of `erase_window`: -1
// removes the split and selects the lower window; -2 leaves the window
// state unchanged; a non-negative window index homes that window's cursor.
// The model keeps no cell contents, so nothing is cleared here.
func (m *Model) EraseWindow(window int) {
	switch {
	case window == -1:
		m.SplitWindow(0, 3)
		m.SelectWindow(0)
	case window == -2:
		// caller clears the full screen buffer; window state unchanged
	default:
		if window >= 0 && window < len(m.Windows) {
			m.Windows[window].CursorX, m.Windows[window].CursorY = 1, 1
		}
	}
}

// MoveCursor sets the cursor of window (or the selected window when
// window < 0) to an absolute row/column.
func (m *Model) MoveCursor(row, col int, window int) {
	if window < 0 {
		window = m.Selected
	}
	m.Windows[window].CursorY = row
	m.Windows[window].CursorX = col
}

// NewZMachineColor resolves a Z-machine colour constant (0-12, including
// the CURRENT/DEFAULT specials) against this window's state.
func (m *Model) NewZMachineColor(i uint16, isForeground bool) Color {
	w := m.Current()
	switch i {
	case 0: // current
		if isForeground {
			return w.Foreground
		}
		return w.Background
	case 1: // default
		if isForeground {
			return m.DefaultForeground
		}
		return m.DefaultBackground
	case 2:
		return Color{0, 0, 0}
	case 3:
		return Color{255, 0, 0}
	case 4:
		return Color{0, 255, 0}
	case 5:
		return Color{255, 255, 0}
	case 6:
		return Color{0, 0, 255}
	case 7:
		return Color{255, 0, 255}
	case 8:
		return Color{0, 255, 255}
	case 9:
		return Color{255, 255, 255}
	case 10:
		return Color{192, 192, 192}
	case 11:
		return Color{128, 128, 128}
	case 12:
		return Color{64, 64, 64}
	default:
		return Color{0, 0, 0}
	}
}

// CreateStatusLine renders the v1-3 status row as plain text: location
// name left-justified, score/moves or elapsed time right-justified. No
// inverse-video or other styling is applied.
func CreateStatusLine(width int, placeName string, scoreOrHours int, movesOrMinutes int, isTimeBasedGame bool) string {
	rightHandSide := fmt.Sprintf("Score: %d    Moves: %d", scoreOrHours, movesOrMinutes)
	if isTimeBasedGame {
		rightHandSide = fmt.Sprintf("Time: %02d:%02d", scoreOrHours, movesOrMinutes)
	}

	if len(rightHandSide) >= width {
		return rightHandSide[:width]
	}
	if len(placeName)+len(rightHandSide)+1 >= width {
		return fmt.Sprintf("%s %s", placeName[:width-len(rightHandSide)-1], rightHandSide)
	}

	pad := width - len(placeName) - len(rightHandSide)
	return fmt.Sprintf("%s%s%s", placeName, strings.Repeat(" ", pad), rightHandSide)
}
