// Package ztable implements the Z-machine's table opcodes: scan_table,
// copy_table, and print_table.
package ztable

import (
	"strings"

	"github.com/nwidger/zif/memory"
)

// PrintTable renders a text rectangle laid out per the `print_table`
// opcode: width bytes per row, skip extra bytes between rows, stopping
// after height rows when given.
func PrintTable(mem *memory.Memory, baddr uint32, width uint16, height uint16, skip uint16) string {
	numBytes := mem.Read8(baddr)
	s := strings.Builder{}

	for i := uint16(0); i < uint16(numBytes); i++ {
		row := i / width
		col := i % width

		if col == 0 && row != 0 {
			s.WriteByte('\n')
			if row == height {
				break
			}
		}

		s.WriteByte(mem.Read8(baddr + uint32(i) + uint32(skip*row)))
	}

	return s.String()
}

// ScanTable implements `scan_table`: form's high bit selects word entries
// over byte entries, the low 7 bits are the stride. Returns the address of
// the first matching entry, or 0.
func ScanTable(mem *memory.Memory, test uint16, baddr uint32, length uint16, form uint16) uint32 {
	ptr := baddr
	fieldSize := form & 0b0111_1111
	checkWord := form&0b1000_0000 != 0
	if fieldSize == 0 {
		return 0
	}

	for i := uint16(0); i < length; i++ {
		if checkWord {
			if mem.Read16(ptr) == test {
				return ptr
			}
		} else if uint16(mem.Read8(ptr)) == test {
			return ptr
		}
		ptr += uint32(fieldSize)
	}

	return 0
}

// CopyTable implements `copy_table`: a zero second address zero-fills
// |size| bytes at first; a positive size copies through a temporary
// buffer, so overlapping tables are safe; a negative size forces a
// byte-by-byte forward copy, which repeats bytes when the tables overlap.
func CopyTable(mem *memory.Memory, first uint16, second uint16, size int16) {
	sizeAbs := uint16(size)
	if size < 0 {
		sizeAbs = uint16(-size)
	}

	switch {
	case second == 0:
		for i := uint16(0); i < sizeAbs; i++ {
			mem.Write8(uint32(first+i), 0)
		}
	case size >= 0:
		tmp := make([]uint8, sizeAbs)
		for i := uint16(0); i < sizeAbs; i++ {
			tmp[i] = mem.Read8(uint32(first) + uint32(i))
		}
		for i := uint16(0); i < sizeAbs; i++ {
			mem.Write8(uint32(second)+uint32(i), tmp[i])
		}
	default:
		for i := uint16(0); i < sizeAbs; i++ {
			mem.Write8(uint32(second)+uint32(i), mem.Read8(uint32(first)+uint32(i)))
		}
	}
}
