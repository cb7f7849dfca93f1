// Package stream implements the Z-machine's four logical output streams
// (screen, transcript, in-memory table, input-snoop) and the word-boundary
// line-wrap buffer that sits in front of streams 1 and 2.
package stream

import (
	"os"
	"strings"

	"github.com/nwidger/zif/memory"
)

// Sink receives characters destined for the screen (stream 1). The
// terminal collaborator implements this; the engine never writes to a
// terminal directly.
type Sink interface {
	WriteText(s string)
}

const maxWordBuffer = 16

type memoryStreamFrame struct {
	baseAddress uint32
	ptr         uint32
}

// Multiplexer owns the enable/disable state of all four streams plus the
// word-wrap buffer shared by streams 1 and 2.
type Multiplexer struct {
	sink Sink

	screenEnabled     bool
	transcriptEnabled bool
	memoryEnabled     bool
	snoopEnabled      bool

	transcript *os.File
	snoop      *os.File

	memoryStack []memoryStreamFrame

	wordBuffer   strings.Builder
	bufferCol    int
	consoleCols  int
	buffering    bool
	echo         bool
	newlineRun   int
}

// New creates a Multiplexer with stream 1 (screen) enabled and line
// wrapping active at the given console width.
func New(sink Sink, consoleCols int) *Multiplexer {
	return &Multiplexer{
		sink:          sink,
		screenEnabled: true,
		consoleCols:   consoleCols,
		buffering:     true,
		echo:          true,
	}
}

// SetConsoleCols updates the wrap width (the `-w`/`--width` CLI override).
func (m *Multiplexer) SetConsoleCols(cols int) { m.consoleCols = cols }

// SetBuffering enables or disables the word-wrap buffer (disabled while
// the upper window is selected).
func (m *Multiplexer) SetBuffering(on bool) {
	if !on {
		m.Flush()
	}
	m.buffering = on
}

// OpenTranscript opens (append mode) the transcript log for stream 2.
func (m *Multiplexer) OpenTranscript(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	m.transcript = f
	m.transcriptEnabled = true
	return nil
}

// OpenSnoop opens the keystroke-log file for the input-snoop stream.
func (m *Multiplexer) OpenSnoop(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	m.snoop = f
	m.snoopEnabled = true
	return nil
}

// Close releases any open log files.
func (m *Multiplexer) Close() {
	if m.transcript != nil {
		m.transcript.Close()
	}
	if m.snoop != nil {
		m.snoop.Close()
	}
}

// SetStream implements `output_stream n [table [width]]`: positive n
// enables, negative disables |n|; n==3 pushes a new memory-stream frame at
// table, n==-3 pops it.
func (m *Multiplexer) SetStream(n int16, mem *memory.Memory, table uint16) {
	switch n {
	case 1:
		m.screenEnabled = true
	case -1:
		m.screenEnabled = false
	case 2:
		m.transcriptEnabled = m.transcript != nil
	case -2:
		m.transcriptEnabled = false
	case 3:
		m.memoryStack = append(m.memoryStack, memoryStreamFrame{baseAddress: uint32(table), ptr: uint32(table) + 2})
		mem.Write16(uint32(table), 0)
		m.memoryEnabled = true
	case -3:
		if len(m.memoryStack) > 0 {
			m.memoryStack = m.memoryStack[:len(m.memoryStack)-1]
		}
		m.memoryEnabled = len(m.memoryStack) > 0
	case 4:
		m.snoopEnabled = m.snoop != nil
	case -4:
		m.snoopEnabled = false
	}
}

// filterOutput applies the output character filter: ZSCII newline maps
// to '\n', control characters outside the printable/whitespace range are
// dropped, and the extended-character range is rendered as '?'.
func filterOutput(c uint8) (uint8, bool) {
	switch {
	case c == 0:
		return 0, false
	case c == '\r':
		return '\n', true
	case c == '\t', c == '\n', c == '\b', (c >= ' ' && c <= '~'):
		return c, true
	case c == 0x11:
		return ' ', true
	case c >= 155 && c <= 251:
		return '?', true
	default:
		return 0, false
	}
}

// WriteChar implements `write_char`: memory stream wins over buffering,
// which wins over immediate screen+transcript output.
func (m *Multiplexer) WriteChar(c uint8, mem *memory.Memory) {
	filtered, ok := filterOutput(c)
	if !ok {
		return
	}

	if m.memoryEnabled && len(m.memoryStack) > 0 {
		frame := &m.memoryStack[len(m.memoryStack)-1]
		mem.Write8(frame.ptr, filtered)
		frame.ptr++
		count := frame.ptr - frame.baseAddress - 2
		mem.Write16(frame.baseAddress, uint16(count))
		return
	}

	if !m.buffering {
		m.emit(string(filtered))
		return
	}

	switch filtered {
	case ' ', '\n':
		m.wordBuffer.WriteByte(filtered)
		m.flushWord()
	default:
		m.wordBuffer.WriteByte(filtered)
		if m.wordBuffer.Len() >= maxWordBuffer {
			m.flushWord()
		}
	}
}

// WriteString writes a pre-decoded string one character at a time,
// preserving the buffering/wrap rules; used by print/print_ret and
// similar opcodes that already have a full string in hand.
func (m *Multiplexer) WriteString(s string, mem *memory.Memory) {
	for _, r := range s {
		m.WriteChar(uint8(r), mem)
	}
}

func (m *Multiplexer) flushWord() {
	word := m.wordBuffer.String()
	m.wordBuffer.Reset()

	trailingBreak := len(word) > 0 && (word[len(word)-1] == ' ' || word[len(word)-1] == '\n')
	body := word
	var sep byte
	if trailingBreak {
		body = word[:len(word)-1]
		sep = word[len(word)-1]
	}

	if m.consoleCols > 0 && m.bufferCol+len(body) > m.consoleCols {
		m.emit("\n")
		m.bufferCol = 0
	}

	m.emit(body)
	m.bufferCol += len(body)

	if trailingBreak {
		m.emit(string(sep))
		if sep == '\n' {
			m.bufferCol = 0
		} else {
			m.bufferCol++
		}
	}
}

// Flush forces out any partially buffered word, e.g. before a window
// switch or an input read.
func (m *Multiplexer) Flush() {
	if m.wordBuffer.Len() > 0 {
		m.flushWord()
	}
}

func (m *Multiplexer) emit(s string) {
	if s == "" {
		return
	}
	if m.screenEnabled && m.sink != nil {
		m.sink.WriteText(s)
	}
	if m.transcriptEnabled && m.transcript != nil {
		m.writeTranscript(s)
	}
}

// writeTranscript applies the triple-newline collapse rule: once three
// consecutive newlines have been written, further newlines are dropped
// until a non-newline character resets the counter.
func (m *Multiplexer) writeTranscript(s string) {
	var out strings.Builder
	for _, r := range s {
		if r == '\n' {
			m.newlineRun++
			if m.newlineRun > 3 {
				continue
			}
		} else {
			m.newlineRun = 0
		}
		out.WriteRune(r)
	}
	m.transcript.WriteString(out.String())
}

// Echo writes an input character to the output streams when echo is
// enabled (read_char's echo behaviour), resetting the wrap column on a
// newline.
func (m *Multiplexer) Echo(c uint8, mem *memory.Memory) {
	if !m.echo {
		return
	}
	m.WriteChar(c, mem)
	if c == '\r' || c == '\n' {
		m.bufferCol = 0
	}
}

// SnoopInput records one input character to the snoop log, if enabled.
func (m *Multiplexer) SnoopInput(c uint8) {
	if m.snoopEnabled && m.snoop != nil {
		m.snoop.Write([]uint8{c})
	}
}
