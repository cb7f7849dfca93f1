// Package memory implements the Z-machine's byte-addressed memory model: a
// flat buffer with a code range (instructions may be fetched from it) and a
// write range (dynamic memory), both narrower than the full buffer.
package memory

import (
	"encoding/binary"
	"fmt"
)

// FaultKind identifies the class of memory access violation.
type FaultKind int

const (
	BadAddress FaultKind = iota
	BadWrite
	BadFetch
)

// Fault is raised when an access falls outside the memory's current
// code/write/overall ranges.
type Fault struct {
	Kind    FaultKind
	Address uint32
	Width   int
}

func (f *Fault) Error() string {
	switch f.Kind {
	case BadWrite:
		return fmt.Sprintf("memory: write fault at 0x%x (width %d)", f.Address, f.Width)
	case BadFetch:
		return fmt.Sprintf("memory: fetch fault at 0x%x (width %d)", f.Address, f.Width)
	default:
		return fmt.Sprintf("memory: address fault at 0x%x (width %d)", f.Address, f.Width)
	}
}

// Memory is the Z-machine's mutable address space. Index 0 is always
// readable; writes and fetches are additionally bounded by the write and
// code ranges.
type Memory struct {
	bytes      []uint8
	codeStart  uint32
	codeEnd    uint32
	writeStart uint32
	writeEnd   uint32
}

// New allocates a Memory of the given size, copying story into the low end
// and zero-filling the rest. The whole buffer is initially both the code
// and write range; callers narrow them with LimitCode/LimitWrite once the
// story header has been parsed.
func New(story []uint8, size uint32) *Memory {
	buf := make([]uint8, size)
	copy(buf, story)

	return &Memory{
		bytes:      buf,
		codeStart:  0,
		codeEnd:    size,
		writeStart: 0,
		writeEnd:   size,
	}
}

// Resize replaces the backing buffer with one of the given size, preserving
// existing contents up to the smaller of the two sizes, and resets both
// ranges to cover the whole buffer.
func (m *Memory) Resize(size uint32) {
	buf := make([]uint8, size)
	copy(buf, m.bytes)
	m.bytes = buf
	m.codeStart, m.codeEnd = 0, size
	m.writeStart, m.writeEnd = 0, size
}

// LimitCode narrows the range from which instructions may be fetched.
func (m *Memory) LimitCode(start, end uint32) { m.codeStart, m.codeEnd = start, end }

// LimitWrite narrows the range which ordinary writes may target.
func (m *Memory) LimitWrite(start, end uint32) { m.writeStart, m.writeEnd = start, end }

// Size returns the total addressable length of the buffer.
func (m *Memory) Size() uint32 { return uint32(len(m.bytes)) }

// Bytes exposes the raw backing buffer. Callers that need a private copy
// (e.g. for a checksum or a Quetzal diff) should copy it themselves.
func (m *Memory) Bytes() []uint8 { return m.bytes }

func (m *Memory) checkRead(addr uint32, width int) {
	if addr >= uint32(len(m.bytes)) || addr+uint32(width) > uint32(len(m.bytes)) {
		panic(&Fault{Kind: BadAddress, Address: addr, Width: width})
	}
}

func (m *Memory) checkWrite(addr uint32, width int) {
	if addr < m.writeStart || addr+uint32(width) > m.writeEnd+1 {
		panic(&Fault{Kind: BadWrite, Address: addr, Width: width})
	}
}

func (m *Memory) checkFetch(addr uint32, width int) {
	if addr < m.codeStart || addr+uint32(width) > m.codeEnd+1 {
		panic(&Fault{Kind: BadFetch, Address: addr, Width: width})
	}
}

// Read8/Read16/Read24/Read32 read without range restriction beyond the
// buffer bounds; used for dynamic+static+high memory reads that aren't PC
// fetches (property tables, dictionary, globals, etc).
func (m *Memory) Read8(addr uint32) uint8 {
	m.checkRead(addr, 1)
	return m.bytes[addr]
}

func (m *Memory) Read16(addr uint32) uint16 {
	m.checkRead(addr, 2)
	return binary.BigEndian.Uint16(m.bytes[addr : addr+2])
}

func (m *Memory) Read24(addr uint32) uint32 {
	m.checkRead(addr, 3)
	return uint32(m.bytes[addr])<<16 | uint32(m.bytes[addr+1])<<8 | uint32(m.bytes[addr+2])
}

func (m *Memory) Read32(addr uint32) uint32 {
	m.checkRead(addr, 4)
	return binary.BigEndian.Uint32(m.bytes[addr : addr+4])
}

// Fetch8/Fetch16 read from the code range only; used by the PC.
func (m *Memory) Fetch8(addr uint32) uint8 {
	m.checkFetch(addr, 1)
	return m.bytes[addr]
}

func (m *Memory) Fetch16(addr uint32) uint16 {
	m.checkFetch(addr, 2)
	return binary.BigEndian.Uint16(m.bytes[addr : addr+2])
}

// Write8/Write16/Write32 write within the write range only.
func (m *Memory) Write8(addr uint32, v uint8) {
	m.checkWrite(addr, 1)
	m.bytes[addr] = v
}

func (m *Memory) Write16(addr uint32, v uint16) {
	m.checkWrite(addr, 2)
	binary.BigEndian.PutUint16(m.bytes[addr:addr+2], v)
}

func (m *Memory) Write32(addr uint32, v uint32) {
	m.checkWrite(addr, 4)
	binary.BigEndian.PutUint32(m.bytes[addr:addr+4], v)
}

// Set8 writes a byte ignoring the write range; used during load/reset and
// by Quetzal restore, which must be able to touch the whole image.
func (m *Memory) Set8(addr uint32, v uint8) {
	m.checkRead(addr, 1)
	m.bytes[addr] = v
}

// Slice returns a read-only-by-convention view into [start,end). Callers
// must not retain it past the next mutation.
func (m *Memory) Slice(start, end uint32) []uint8 {
	m.checkRead(start, int(end-start))
	return m.bytes[start:end]
}

// WriteStart / WriteEnd / CodeStart / CodeEnd expose the current ranges,
// used by the Machine's PC-bounds invariant check and by Quetzal encoding
// (which diffs only up to the write end).
func (m *Memory) WriteStart() uint32 { return m.writeStart }
func (m *Memory) WriteEnd() uint32   { return m.writeEnd }
func (m *Memory) CodeStart() uint32  { return m.codeStart }
func (m *Memory) CodeEnd() uint32    { return m.codeEnd }
