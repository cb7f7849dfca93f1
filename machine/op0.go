package machine

// execute0OP dispatches the short-form, zero-operand opcode table.
func (m *Machine) execute0OP(inst *Instruction) {
	switch inst.Number {
	case 0: // rtrue
		m.doReturn(true)
	case 1: // rfalse
		m.doReturn(false)
	case 2: // print (literal string follows the opcode)
		s, n := m.decodeString(m.State.PC)
		m.State.PC += n
		m.Stream.WriteString(s, m.State.Memory)
	case 3: // print_ret
		s, n := m.decodeString(m.State.PC)
		m.State.PC += n
		m.Stream.WriteString(s, m.State.Memory)
		m.Stream.WriteString("\n", m.State.Memory)
		m.doReturn(true)
	case 4: // nop
	case 5: // save (v1-3 branch; v4 stores the result; illegal from v5 on, moved to EXT:0)
		if m.version() <= 3 {
			m.branch(m.doSave())
		} else if m.version() == 4 {
			m.storeResult(boolToWord(m.doSave()))
		} else {
			m.illegal(inst)
		}
	case 6: // restore
		if m.version() <= 3 {
			m.branch(m.doRestore())
		} else if m.version() == 4 {
			m.storeResult(boolToWord(m.doRestore()))
		} else {
			m.illegal(inst)
		}
	case 7: // restart
		m.State.Reset()
	case 8: // ret_popped
		m.ret(m.State.Stack.Pop16())
	case 9: // pop (v1-4) / catch (v5+, stores a fake call-frame token)
		if m.version() >= 5 {
			m.storeResult(uint16(m.State.FP))
		} else {
			m.State.Stack.Pop16()
		}
	case 10: // quit
		m.State.DoQuit = true
	case 11: // new_line
		m.Stream.WriteString("\n", m.State.Memory)
	case 12: // show_status (v3 only)
		m.showStatus()
	case 13: // verify ?(branch)
		m.branch(m.verifyChecksum())
	case 15: // piracy ?(branch) -- always genuine
		m.branch(true)
	default:
		m.illegal(inst)
	}
}
