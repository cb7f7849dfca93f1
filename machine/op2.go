package machine

// execute2OP dispatches 2-operand opcodes (long form, and variable-form
// instructions whose top bit selects the 2OP table).
func (m *Machine) execute2OP(inst *Instruction) {
	ops := m.operandValues(inst)
	a := func(i int) uint16 {
		if i < len(ops) {
			return ops[i]
		}
		return 0
	}

	switch inst.Number {
	case 1: // je a b [c d...]
		result := false
		for i := 1; i < len(ops); i++ {
			if int16(ops[0]) == int16(ops[i]) {
				result = true
				break
			}
		}
		m.branch(result)
	case 2: // jl a b
		m.branch(int16(a(0)) < int16(a(1)))
	case 3: // jg a b
		m.branch(int16(a(0)) > int16(a(1)))
	case 4: // dec_chk var value (var's own value was already resolved by
		// operandValues above, giving the target variable number)
		variable := uint8(a(0))
		newVal := int16(m.State.VarRead(variable, true)) - 1
		m.State.VarWrite(variable, uint16(newVal), true)
		m.branch(newVal < int16(a(1)))
	case 5: // inc_chk var value
		variable := uint8(a(0))
		newVal := int16(m.State.VarRead(variable, true)) + 1
		m.State.VarWrite(variable, uint16(newVal), true)
		m.branch(newVal > int16(a(1)))
	case 6: // jin obj1 obj2
		obj := m.object(a(0))
		m.branch(obj.Parent == a(1))
	case 7: // test bitmap flags
		m.branch(a(0)&a(1) == a(1))
	case 8: // or
		m.storeResult(a(0) | a(1))
	case 9: // and
		m.storeResult(a(0) & a(1))
	case 10: // test_attr obj attr
		obj := m.object(a(0))
		m.branch(obj.TestAttribute(a(1)))
	case 11: // set_attr obj attr
		obj := m.object(a(0))
		obj.SetAttribute(a(1), m.State.Memory, m.version())
	case 12: // clear_attr obj attr
		obj := m.object(a(0))
		obj.ClearAttribute(a(1), m.State.Memory, m.version())
	case 13: // store var value (indirect: peek/poke)
		m.State.VarWrite(uint8(a(0)), a(1), true)
	case 14: // insert_obj obj dest
		m.insertObject(a(0), a(1))
	case 15: // loadw array word-index
		m.storeResult(m.State.Memory.Read16(uint32(a(0)) + 2*uint32(a(1))))
	case 16: // loadb array byte-index
		m.storeResult(uint16(m.State.Memory.Read8(uint32(a(0)) + uint32(a(1)))))
	case 17: // get_prop obj prop
		obj := m.object(a(0))
		_, value := obj.GetProperty(uint8(a(1)), m.State.Memory, m.version(), m.State.Story.Header.ObjectTableBase)
		m.storeResult(value)
	case 18: // get_prop_addr obj prop
		obj := m.object(a(0))
		m.storeResult(uint16(obj.GetPropertyAddr(uint8(a(1)), m.State.Memory, m.version())))
	case 19: // get_next_prop obj prop
		obj := m.object(a(0))
		m.storeResult(uint16(obj.GetNextProperty(uint8(a(1)), m.State.Memory, m.version())))
	case 20: // add
		m.storeResult(uint16(int16(a(0)) + int16(a(1))))
	case 21: // sub
		m.storeResult(uint16(int16(a(0)) - int16(a(1))))
	case 22: // mul
		m.storeResult(uint16(int16(a(0)) * int16(a(1))))
	case 23: // div
		if int16(a(1)) == 0 {
			panic(&Fault{Kind: DivisionByZero, Message: "div by zero"})
		}
		m.storeResult(uint16(int16(a(0)) / int16(a(1))))
	case 24: // mod
		if int16(a(1)) == 0 {
			panic(&Fault{Kind: DivisionByZero, Message: "mod by zero"})
		}
		m.storeResult(uint16(int16(a(0)) % int16(a(1))))
	case 25: // call_2s routine arg -> result (v4+)
		m.doCall(a(0), ops[1:], true)
	case 26: // call_2n routine arg (v5+)
		m.doCall(a(0), ops[1:], false)
	case 27: // set_colour fg bg (v5+)
		m.Screen.Current().Foreground = m.Screen.NewZMachineColor(a(0), true)
		m.Screen.Current().Background = m.Screen.NewZMachineColor(a(1), false)
	case 28: // throw value frame (v5+)
		m.ret(a(0))
	default:
		m.illegal(inst)
	}
}
