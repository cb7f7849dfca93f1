// Package machine implements the Z-machine's fetch-decode-execute loop:
// operand/branch/store decoding, the opcode dispatch tables, and the
// semantics of every opcode group.
package machine

import (
	"fmt"
	"io"

	"github.com/nwidger/zif/dictionary"
	"github.com/nwidger/zif/parser"
	"github.com/nwidger/zif/screen"
	"github.com/nwidger/zif/state"
	"github.com/nwidger/zif/stream"
	"github.com/nwidger/zif/ztable"
	"github.com/nwidger/zif/zobject"
	"github.com/nwidger/zif/zstring"
)

// FaultKind classifies a Machine-level failure raised as a tagged error
// rather than a Go panic, so the outer loop can report it via Stream and
// exit cleanly instead of crashing the process.
type FaultKind int

const (
	IllegalOpcode FaultKind = iota
	BadCallType
	BadFramePointer
	DivisionByZero
	BadPC
)

// Fault is the error type raised by opcode handlers for conditions the
// Standard calls out as fatal.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string { return "machine: " + f.Message }

// Terminal is the blocking-I/O boundary the Machine calls into for line
// and character input; the CLI/TUI front end implements it.
type Terminal interface {
	ReadLine() (string, bool)
	ReadChar(timeoutHundredths int) (uint8, bool)
}

// SaveHandler persists and retrieves a Quetzal-encoded save image; the
// CLI front end implements it against the filesystem, rooted at the
// `--save-dir` flag.
type SaveHandler interface {
	Save(data []uint8) bool
	Restore() ([]uint8, bool)
}

// Machine ties together State, the I/O stream multiplexer, the screen
// model, and the parsed dictionary into one runnable interpreter.
type Machine struct {
	State      *state.State
	Stream     *stream.Multiplexer
	Screen     *screen.Model
	Dictionary *dictionary.Dictionary
	Alphabets  *zstring.Alphabets
	Terminal    Terminal
	SaveHandler SaveHandler

	// Trace, when non-nil, receives one disassembled line per instruction
	// executed (the `-T`/`--trace` flag).
	Trace io.Writer

	warned map[string]bool
}

// New wires a freshly loaded State into a runnable Machine.
func New(st *state.State, sink stream.Sink, term Terminal, saves SaveHandler, consoleCols, consoleRows int) *Machine {
	alphabets := zstring.LoadAlphabets(st.Story.Header.Version, st.Memory.Bytes(), st.Story.Header.AlternativeCharSetBaseAddress)
	dict := dictionary.ParseDictionary(st.Memory, uint32(st.Story.Header.DictionaryBase), st.Story.Header.Version, alphabets, st.Story.Header.AbbreviationTableBase)

	return &Machine{
		State:       st,
		Stream:      stream.New(sink, consoleCols),
		Screen:      screen.New(consoleCols, consoleRows, screen.Color{R: 255, G: 255, B: 255}, screen.Color{R: 0, G: 0, B: 0}, st.Story.Header.Version == 6),
		Dictionary:  dict,
		Alphabets:   alphabets,
		Terminal:    term,
		SaveHandler: saves,
		warned:      make(map[string]bool),
	}
}

func (m *Machine) version() uint8 { return m.State.Story.Header.Version }

func (m *Machine) warnOnce(key string, format string, args ...interface{}) {
	if m.warned[key] {
		return
	}
	m.warned[key] = true
	m.Stream.WriteString(fmt.Sprintf("[warning: "+format+"]\n", args...), m.State.Memory)
}

func (m *Machine) fetch8() uint8 {
	v := m.State.Memory.Fetch8(m.State.PC)
	m.State.PC++
	return v
}

func (m *Machine) fetch16() uint16 {
	v := m.State.Memory.Fetch16(m.State.PC)
	m.State.PC += 2
	return v
}

func (m *Machine) abbrBase() uint16 { return m.State.Story.Header.AbbreviationTableBase }

func (m *Machine) decodeString(addr uint32) (string, uint32) {
	return zstring.Decode(m.State.Memory.Bytes(), addr, m.version(), m.Alphabets, m.abbrBase())
}

func (m *Machine) object(id uint16) zobject.Object {
	return zobject.GetObject(id, m.State.Story.Header.ObjectTableBase, m.State.Memory, m.version(), m.Alphabets, m.abbrBase())
}

func (m *Machine) insertObject(child, parent uint16) {
	zobject.Insert(child, parent, m.State.Story.Header.ObjectTableBase, m.State.Memory, m.version(), m.Alphabets, m.abbrBase())
}

func (m *Machine) removeObject(num uint16) {
	zobject.Remove(num, m.State.Story.Header.ObjectTableBase, m.State.Memory, m.version(), m.Alphabets, m.abbrBase())
}

// Step decodes and executes exactly one instruction. A Fault or other
// error raised while executing it is recovered and returned; the outer
// loop stops on a non-nil error or once DoQuit has been set.
func (m *Machine) Step() (err error) {
	defer func() {
		if r := recover(); r != nil {
			if f, ok := r.(*Fault); ok {
				err = f
				return
			}
			if f, ok := r.(error); ok {
				err = f
				return
			}
			panic(r)
		}
	}()

	inst := m.decode()
	if m.Trace != nil {
		fmt.Fprintln(m.Trace, m.disassemble(&inst))
	}
	m.execute(&inst)
	return nil
}

// disassemble renders one decoded instruction as a single trace line:
// address, operand count class, opcode number, and operand values.
func (m *Machine) disassemble(inst *Instruction) string {
	operands := make([]string, len(inst.Operands))
	for i, op := range inst.Operands {
		switch op.Type {
		case variableOperand:
			operands[i] = fmt.Sprintf("var%d", op.Value)
		default:
			operands[i] = fmt.Sprintf("#%x", op.Value)
		}
	}

	countName := [...]string{"0OP", "1OP", "2OP", "VAR"}[inst.Count]
	if inst.Form == extForm {
		countName = "EXT"
	}
	return fmt.Sprintf("%06x: %s:%-3d %v", inst.atPC, countName, inst.Number, operands)
}

// Run drives Step until DoQuit is set or a fault occurs.
func (m *Machine) Run() error {
	for !m.State.DoQuit {
		if err := m.Step(); err != nil {
			m.Stream.WriteString(fmt.Sprintf("\n*** %s ***\n", err.Error()), m.State.Memory)
			return err
		}
	}
	m.Stream.Flush()
	return nil
}

func (m *Machine) execute(inst *Instruction) {
	switch inst.Count {
	case OP0:
		m.execute0OP(inst)
	case OP1:
		m.execute1OP(inst)
	case OP2:
		m.execute2OP(inst)
	case VAR:
		if inst.Form == extForm {
			m.executeEXT(inst)
		} else {
			m.executeVAR(inst)
		}
	}
}

func (m *Machine) illegal(inst *Instruction) {
	panic(&Fault{Kind: IllegalOpcode, Message: fmt.Sprintf("illegal opcode 0x%x (count %d) at PC 0x%x", inst.Number, inst.Count, inst.atPC)})
}

// doCall implements the shared call path for every call-family opcode:
// call/call_1s/call_1n/call_2s/call_2n/call_vs/call_vn/call_vs2/call_vn2.
// storeVar is true when the caller disposes of the result via a result
// variable (the *s variants); false discards it (the *n variants).
func (m *Machine) doCall(packedTarget uint16, argv []uint16, storeVar bool) {
	if packedTarget == 0 {
		if storeVar {
			m.storeResult(0)
		}
		return
	}

	callType := state.CallTypeDiscard
	if storeVar {
		callType = state.CallTypeStore
	}
	m.pushFrame(packedTarget, argv, callType)
}

// pushFrame decodes a routine header (locals count, and v1-4's local
// defaults) and pushes the call frame, leaving PC at the routine's first
// instruction.
func (m *Machine) pushFrame(packedTarget uint16, argv []uint16, callType state.CallType) {
	returnPC := m.State.PC
	target := m.State.Story.Header.UnpackRoutine(packedTarget)
	numLocals := m.State.Memory.Read8(target)

	var localDefaults []uint16
	header := target + 1
	if m.version() <= 4 {
		localDefaults = make([]uint16, numLocals)
		for i := uint8(0); i < numLocals; i++ {
			localDefaults[i] = m.State.Memory.Read16(header + 2*uint32(i))
		}
		target = header + 2*uint32(numLocals)
	} else {
		target = header
	}

	m.State.Call(callType, returnPC, numLocals, localDefaults, argv)
	m.State.PC = target
}

// doReturn implements `ret`/`rtrue`/`rfalse`/branch-as-return: unwind the
// current frame and dispose of val per the frame's recorded call type.
func (m *Machine) doReturn(val bool) {
	m.ret(boolToWord(val))
}

func boolToWord(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (m *Machine) ret(val uint16) {
	if m.State.FP == 0 {
		panic(&Fault{Kind: BadFramePointer, Message: "return from top-level frame"})
	}
	callType, returnPC := m.State.ReturnFromFrame()
	m.State.PC = returnPC

	switch callType {
	case state.CallTypeStore:
		m.storeResult(val)
	case state.CallTypeDiscard:
	case state.CallTypePush:
		m.State.Stack.Push16(val)
	case state.CallTypeReadCharInterrupt:
		// the read_char that spawned this nested call resumes with val
		// as the interrupt's "should abort the read" signal
		m.State.Stack.Push16(val)
	default:
		panic(&Fault{Kind: BadCallType, Message: fmt.Sprintf("unknown call type %d", callType)})
	}
}

// tokenise wraps the parser package with this machine's dictionary and
// alphabets.
func (m *Machine) tokenise(textAddr, parseAddr uint32, preserveUnrecognised bool) {
	parser.Tokenise(m.State.Memory, m.version(), m.Alphabets, textAddr, parseAddr, m.Dictionary, preserveUnrecognised)
}

func (m *Machine) scanTable(test uint16, baddr uint32, length uint16, form uint16) uint32 {
	return ztable.ScanTable(m.State.Memory, test, baddr, length, form)
}

func (m *Machine) copyTable(first, second uint16, size int16) {
	ztable.CopyTable(m.State.Memory, first, second, size)
}

func (m *Machine) saveToBytes() []uint8   { return m.State.SaveBytes() }
func (m *Machine) restoreFromBytes(b []uint8) error { return m.State.RestoreBytes(b) }

// verifyChecksum implements the `verify` opcode: true when the running
// image's checksum still matches the header.
func (m *Machine) verifyChecksum() bool { return m.State.Story.VerifyChecksum() }
