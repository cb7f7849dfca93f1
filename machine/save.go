package machine

import (
	"fmt"

	"github.com/nwidger/zif/screen"
)

// doSave implements the save half of the `save`/`save` EXT opcode: encode
// the live state and hand it to the SaveHandler.
func (m *Machine) doSave() bool {
	if m.SaveHandler == nil {
		return false
	}
	return m.SaveHandler.Save(m.saveToBytes())
}

// doRestore implements the restore half: fetch bytes from the
// SaveHandler and apply them, leaving State untouched on failure.
func (m *Machine) doRestore() bool {
	if m.SaveHandler == nil {
		return false
	}
	data, ok := m.SaveHandler.Restore()
	if !ok {
		return false
	}
	if err := m.restoreFromBytes(data); err != nil {
		m.warnOnce("restore_failed", "restore failed: %s", err.Error())
		return false
	}
	return true
}

func (m *Machine) doSaveUndo() uint16 {
	m.State.SaveUndo()
	return 1
}

func (m *Machine) doRestoreUndo() uint16 {
	ok, err := m.State.RestoreUndo()
	if err != nil {
		m.warnOnce("restore_undo_failed", "restore_undo failed: %s", err.Error())
		return 0
	}
	if !ok {
		return 0
	}
	return 2
}

// showStatus writes the v1-3 status line, followed by a newline, to the
// output stream of the current window; the upper window is not used.
// Score/time mode is selected by header flags1 bit 1.
func (m *Machine) showStatus() {
	if m.version() > 3 {
		return
	}

	locationObj := m.object(m.State.VarRead(16, true))
	scoreOrHours := int16(m.State.VarRead(17, true))
	movesOrMinutes := int16(m.State.VarRead(18, true))
	isTimeGame := m.State.Story.Header.Flags1&0b0000_0010 != 0

	line := screen.CreateStatusLine(m.Screen.ScreenWidth, locationObj.Name, int(scoreOrHours), int(movesOrMinutes), isTimeGame)
	m.Stream.WriteString(fmt.Sprintf("%s\n", line), m.State.Memory)
}
