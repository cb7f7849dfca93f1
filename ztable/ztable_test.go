package ztable

import (
	"testing"

	"github.com/nwidger/zif/memory"
)

func newMem(t *testing.T, size uint32) *memory.Memory {
	t.Helper()
	m := memory.New(nil, size)
	m.LimitWrite(0, size-1)
	return m
}

func TestPrintTableLaysOutRowsAndWraps(t *testing.T) {
	m := newMem(t, 32)
	// numBytes is read from baddr itself, which print_table then also
	// treats as the table's first data byte (matching the opcode's
	// reference behaviour: the count and the first row share an address).
	m.Write8(10, 6)
	for i, b := range []uint8{'B', 'C', 'D', 'E', 'F'} {
		m.Write8(uint32(11+i), b)
	}

	got := PrintTable(m, 10, 3, 0, 0)
	want := string([]byte{6, 'B', 'C', '\n', 'D', 'E', 'F'})
	if got != want {
		t.Errorf("PrintTable() = %q, want %q", got, want)
	}
}

func TestScanTableFindsByteEntry(t *testing.T) {
	m := newMem(t, 16)
	for i, v := range []uint8{10, 20, 30, 40} {
		m.Write8(uint32(i), v)
	}

	addr := ScanTable(m, 30, 0, 4, 1)
	if addr != 2 {
		t.Errorf("ScanTable() = %d, want 2", addr)
	}

	if addr := ScanTable(m, 99, 0, 4, 1); addr != 0 {
		t.Errorf("ScanTable() for a missing value = %d, want 0", addr)
	}
}

func TestScanTableFindsWordEntry(t *testing.T) {
	m := newMem(t, 16)
	m.Write16(0, 0x1111)
	m.Write16(2, 0x2222)
	m.Write16(4, 0x3333)

	addr := ScanTable(m, 0x2222, 0, 3, 0b1000_0010)
	if addr != 2 {
		t.Errorf("ScanTable() = %d, want 2", addr)
	}
}

func TestCopyTableZeroSizeTargetZeroFills(t *testing.T) {
	m := newMem(t, 16)
	for i := uint32(0); i < 4; i++ {
		m.Write8(8+i, 0xff)
	}

	CopyTable(m, 8, 0, 4) // second == 0 zero-fills the table starting at first

	for i := uint32(0); i < 4; i++ {
		if m.Read8(8+i) != 0 {
			t.Fatalf("byte %d = %d, want 0 after zero-fill", i, m.Read8(8+i))
		}
	}
}

func TestCopyTablePositiveSizeCopies(t *testing.T) {
	m := newMem(t, 16)
	for i, v := range []uint8{1, 2, 3, 4} {
		m.Write8(uint32(i), v)
	}

	CopyTable(m, 0, 8, 4)

	for i := uint32(0); i < 4; i++ {
		if got, want := m.Read8(8+i), m.Read8(i); got != want {
			t.Errorf("copied byte %d = %d, want %d", i, got, want)
		}
	}
}

func TestCopyTableNegativeSizeAllowsOverlap(t *testing.T) {
	m := newMem(t, 16)
	for i, v := range []uint8{1, 2, 3, 4, 5} {
		m.Write8(uint32(i), v)
	}

	// overlapping forward copy with dest one byte into the source: each
	// write is visible to the next read, so the first byte's value
	// propagates across the whole range instead of a clean shift.
	CopyTable(m, 0, 1, -5)

	want := []uint8{1, 1, 1, 1, 1}
	for i, w := range want {
		if got := m.Read8(uint32(i)); got != w {
			t.Errorf("byte %d = %d, want %d", i, got, w)
		}
	}
}
