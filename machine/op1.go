package machine

import "github.com/nwidger/zif/zobject"

// execute1OP dispatches the short-form, single-operand opcode table.
func (m *Machine) execute1OP(inst *Instruction) {
	v := m.operandValue(inst.Operands[0])

	switch inst.Number {
	case 0: // jz a
		m.branch(v == 0)
	case 1: // get_sibling obj -> (result) ?(branch)
		obj := m.object(v)
		m.storeResult(obj.Sibling)
		m.branch(obj.Sibling != 0)
	case 2: // get_child obj -> (result) ?(branch)
		obj := m.object(v)
		m.storeResult(obj.Child)
		m.branch(obj.Child != 0)
	case 3: // get_parent obj -> (result)
		obj := m.object(v)
		m.storeResult(obj.Parent)
	case 4: // get_prop_len property-address -> (result)
		m.storeResult(zobject.GetPropertyLength(m.State.Memory, uint32(v), m.version()))
	case 5: // inc variable
		variable := uint8(v)
		newVal := int16(m.State.VarRead(variable, true)) + 1
		m.State.VarWrite(variable, uint16(newVal), true)
	case 6: // dec variable
		variable := uint8(v)
		newVal := int16(m.State.VarRead(variable, true)) - 1
		m.State.VarWrite(variable, uint16(newVal), true)
	case 7: // print_addr byte-address-of-string
		s, _ := m.decodeString(uint32(v))
		m.Stream.WriteString(s, m.State.Memory)
	case 8: // call_1s routine -> (result) (v4+)
		m.doCall(v, nil, true)
	case 9: // remove_obj object
		m.removeObject(v)
	case 10: // print_obj object
		obj := m.object(v)
		m.Stream.WriteString(obj.Name, m.State.Memory)
	case 11: // ret value
		m.ret(v)
	case 12: // jump ?(label) -- signed offset relative to next instruction
		offset := int16(v)
		m.State.PC = uint32(int64(m.State.PC) + int64(offset) - 2)
	case 13: // print_paddr packed-address-of-string
		addr := m.State.Story.Header.UnpackString(v)
		s, _ := m.decodeString(addr)
		m.Stream.WriteString(s, m.State.Memory)
	case 14: // load variable -> (result)
		m.storeResult(m.State.VarRead(uint8(v), true))
	case 15:
		if m.version() >= 5 {
			m.doCall(v, nil, false) // call_1n
		} else {
			m.storeResult(^v) // not
		}
	default:
		m.illegal(inst)
	}
}
