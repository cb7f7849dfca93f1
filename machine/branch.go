package machine

// branch reads the one- or two-byte branch-info that follows an
// instruction's operands (and, for store opcodes, the store-variable
// byte) and jumps if result matches the encoded polarity.
func (m *Machine) branch(result bool) {
	b1 := m.fetch8()
	polarity := (b1>>7)&1 == 1
	shortFormBit := (b1>>6)&1 == 1

	var offset int32
	if shortFormBit {
		offset = int32(b1 & 0b0011_1111)
	} else {
		b2 := m.fetch8()
		offset = int32(int16((uint16(b1&0b0011_1111)<<8|uint16(b2))<<2)) >> 2
	}

	if result != polarity {
		return
	}

	switch offset {
	case 0:
		m.doReturn(false)
	case 1:
		m.doReturn(true)
	default:
		m.State.PC = uint32(int64(m.State.PC) + int64(offset) - 2)
	}
}

// storeResult writes v to the variable named by the store-variable byte
// that follows an instruction's operands. This is a normal (non-indirect)
// variable write: variable 0 pushes onto the stack, matching every
// store-result opcode except `store` itself, which writes in peek mode.
func (m *Machine) storeResult(v uint16) {
	variable := m.fetch8()
	m.State.VarWrite(variable, v, false)
}
