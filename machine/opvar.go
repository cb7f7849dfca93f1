package machine

import (
	"strconv"

	"github.com/nwidger/zif/screen"
	"github.com/nwidger/zif/ztable"
)

// executeVAR dispatches the variable-form opcode table (0xE0-0xFF, and
// 0xC0-0xDF when the var-form's count bit selects VAR instead of 2OP).
func (m *Machine) executeVAR(inst *Instruction) {
	ops := m.operandValues(inst)
	a := func(i int) uint16 {
		if i < len(ops) {
			return ops[i]
		}
		return 0
	}

	switch inst.Number {
	case 0: // call / call_vs routine (up to 3 args) -> (result)
		m.doCall(a(0), ops[1:], true)
	case 1: // storew array word-index value
		m.State.Memory.Write16(uint32(a(0))+2*uint32(a(1)), a(2))
	case 2: // storeb array byte-index value
		m.State.Memory.Write8(uint32(a(0))+uint32(a(1)), uint8(a(2)))
	case 3: // put_prop obj prop value
		obj := m.object(a(0))
		obj.SetProperty(uint8(a(1)), a(2), m.State.Memory, m.version())
	case 4: // sread (v1-4) / aread (v5+)
		m.doRead(inst, ops)
	case 5: // print_char zscii
		m.Stream.WriteChar(uint8(a(0)), m.State.Memory)
	case 6: // print_num value
		m.Stream.WriteString(strconv.Itoa(int(int16(a(0)))), m.State.Memory)
	case 7: // random n -> (result)
		m.storeResult(m.State.Random.RandomOp(int16(a(0))))
	case 8: // push value
		m.State.Stack.Push16(a(0))
	case 9: // pull (var) / pull (v6: target stack) -> (result)
		v := m.State.Stack.Pop16()
		if len(inst.Operands) > 0 {
			m.State.VarWrite(uint8(a(0)), v, true)
		}
	case 10: // split_window lines
		m.Stream.Flush()
		m.Screen.SplitWindow(int(a(0)), m.version())
	case 11: // set_window window
		m.Stream.Flush()
		m.Screen.SelectWindow(int(a(0)))
		m.Stream.SetBuffering(a(0) == 0)
	case 12: // call_vs2 routine (up to 7 args) -> (result)
		m.doCall(a(0), ops[1:], true)
	case 13: // erase_window window
		m.Screen.EraseWindow(int(int16(a(0))))
	case 14: // erase_line value
		// accepted and ignored for every value: the screen model keeps no
		// cell contents, so no part of the line is erased
	case 15: // set_cursor line column [window]
		window := -1
		if len(ops) > 2 {
			window = int(a(2))
		}
		m.Screen.MoveCursor(int(a(0)), int(a(1)), window)
	case 16: // get_cursor array
		w := m.Screen.Current()
		m.State.Memory.Write16(uint32(a(0)), uint16(w.CursorY))
		m.State.Memory.Write16(uint32(a(0))+2, uint16(w.CursorX))
	case 17: // set_text_style style
		m.Screen.Current().TextStyle = screen.TextStyle(a(0))
	case 18: // buffer_mode flag
		m.Stream.SetBuffering(a(0) != 0)
	case 19: // output_stream n [table]
		m.Stream.SetStream(int16(a(0)), m.State.Memory, a(1))
	case 20: // input_stream n -- only keyboard (0) is supported
	case 21: // sound_effect number effect volume routine -- no audio backend
	case 22: // read_char 1 [timeout routine] -> (result)
		m.doReadChar(ops)
	case 23: // scan_table x table len [form] -> (result) ?(branch)
		form := uint16(0b1000_0010)
		if len(ops) > 3 {
			form = a(3)
		}
		addr := m.scanTable(a(0), uint32(a(1)), a(2), form)
		m.storeResult(uint16(addr))
		m.branch(addr != 0)
	case 24: // not value -> (result) (v5+; v1-4 uses 1OP:15)
		m.storeResult(^a(0))
	case 25: // call_vn routine (up to 3 args)
		m.doCall(a(0), ops[1:], false)
	case 26: // call_vn2 routine (up to 7 args)
		m.doCall(a(0), ops[1:], false)
	case 27: // tokenise text parse [dictionary] [flag]
		m.tokenise(uint32(a(0)), uint32(a(1)), len(ops) > 3 && a(3) != 0)
	case 28: // encode_text zscii-text length from coded-text
		m.encodeTextOpcode(a(0), a(1), a(2), a(3))
	case 29: // copy_table first second size
		m.copyTable(a(0), a(1), int16(a(2)))
	case 30: // print_table zscii-text width height skip
		s := ztable.PrintTable(m.State.Memory, uint32(a(0)), a(1), a(2), a(3))
		m.Stream.WriteString(s, m.State.Memory)
	case 31: // check_arg_count argument-number ?(branch)
		m.branch(a(0) <= m.State.NumArgs())
	default:
		m.illegal(inst)
	}
}
