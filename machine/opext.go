package machine

import "github.com/nwidger/zif/screen"

// executeEXT dispatches the extended (0xBE-prefixed, v5+) opcode table.
func (m *Machine) executeEXT(inst *Instruction) {
	ops := m.operandValues(inst)
	a := func(i int) uint16 {
		if i < len(ops) {
			return ops[i]
		}
		return 0
	}

	switch inst.Number {
	case 0: // save [table bytes name] -> (result)
		m.storeResult(boolToWord(m.doSave()))
	case 1: // restore [table bytes name] -> (result)
		m.storeResult(boolToWord(m.doRestore()))
	case 2: // log_shift number places -> (result)
		m.storeResult(shift(a(0), int16(a(1))))
	case 3: // art_shift number places -> (result)
		places := int16(a(1))
		var result int16
		if places >= 0 {
			result = int16(a(0)) << uint16(places)
		} else {
			result = int16(a(0)) >> uint16(-places)
		}
		m.storeResult(uint16(result))
	case 4: // set_font font -> (result)
		prev := m.Screen.Current().Font
		if a(0) != 0 {
			m.Screen.Current().Font = screen.Font(a(0))
		}
		m.storeResult(uint16(prev))
	case 9: // save_undo -> (result)
		m.storeResult(m.doSaveUndo())
	case 10: // restore_undo -> (result)
		m.storeResult(m.doRestoreUndo())
	case 11: // print_unicode char-number
		m.Stream.WriteChar(uint8(a(0)), m.State.Memory)
	case 12: // check_unicode char-number -> (result)
		m.storeResult(0b11) // claim both print and read support
	case 13: // set_true_colour foreground background [window]
		// truecolour rendering is not modelled; accepted and ignored
	default:
		m.illegal(inst)
	}
}

func shift(v uint16, places int16) uint16 {
	if places >= 0 {
		return v << uint16(places)
	}
	return v >> uint16(-places)
}
