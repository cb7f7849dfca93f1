package machine

import (
	"strings"

	"github.com/nwidger/zif/state"
	"github.com/nwidger/zif/zstring"
)

// doRead implements both `sread` (v1-4) and `aread` (v5+): flush pending
// output, show the status line in v3, read a line from the terminal,
// lowercase it into the text buffer, and tokenise unless the parse
// address is zero.
func (m *Machine) doRead(inst *Instruction, ops []uint16) {
	m.Stream.Flush()
	if m.version() == 3 {
		m.showStatus()
	}

	textAddr := uint32(ops[0])
	var parseAddr uint32
	if len(ops) > 1 {
		parseAddr = uint32(ops[1])
	}

	line, _ := m.Terminal.ReadLine()
	line = strings.ToLower(line)

	maxLen := int(m.State.Memory.Read8(textAddr))
	if len(line) > maxLen {
		line = line[:maxLen]
	}

	if m.version() >= 5 {
		m.State.Memory.Write8(textAddr+1, uint8(len(line)))
		for i, c := range []byte(line) {
			m.State.Memory.Write8(textAddr+2+uint32(i), c)
		}
	} else {
		for i, c := range []byte(line) {
			m.State.Memory.Write8(textAddr+1+uint32(i), c)
		}
		m.State.Memory.Write8(textAddr+1+uint32(len(line)), 0)
	}

	if parseAddr != 0 {
		m.tokenise(textAddr, parseAddr, false)
	}

	if m.version() >= 5 {
		m.storeResult(uint16('\r'))
	}
}

// doReadChar implements `read_char`: blocks for one character (with an
// optional timeout and interrupt routine in v5+), echoes it, and stores
// the result.
func (m *Machine) doReadChar(ops []uint16) {
	m.Stream.Flush()

	timeout := 0
	if len(ops) > 1 {
		timeout = int(ops[1])
	}

	c, timedOut := m.Terminal.ReadChar(timeout)
	if timedOut {
		if len(ops) > 2 && ops[2] != 0 {
			m.invokeInterruptRoutine(ops[2])
		}
		m.storeResult(0)
		return
	}

	m.Stream.Echo(c, m.State.Memory)
	m.storeResult(uint16(c))
}

// invokeInterruptRoutine performs the nested call used by a read_char
// timeout: push an interrupt-flavoured frame so the interrupted read
// resumes once the routine returns.
func (m *Machine) invokeInterruptRoutine(packedRoutine uint16) {
	m.pushFrame(packedRoutine, nil, state.CallTypeReadCharInterrupt)
}

// encodeTextOpcode implements `encode_text`: encode length ZSCII
// characters starting at from within the zscii-text buffer into the
// coded-text buffer, for the game's own dictionary-style lookups.
func (m *Machine) encodeTextOpcode(zsciiText, length, from, codedText uint16) {
	runes := make([]rune, length)
	for i := uint16(0); i < length; i++ {
		runes[i] = rune(m.State.Memory.Read8(uint32(zsciiText) + uint32(from) + uint32(i)))
	}
	encoded := zstring.Encode(runes, m.version(), m.Alphabets)
	for i, b := range encoded {
		m.State.Memory.Write8(uint32(codedText)+uint32(i), b)
	}
}
