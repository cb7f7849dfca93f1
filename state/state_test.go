package state

import (
	"testing"

	"github.com/nwidger/zif/story"
)

// newTestStory builds a minimal, header-valid v3 story image so state tests
// don't depend on a real game file.
func newTestStory(t *testing.T) *story.Story {
	t.Helper()
	raw := make([]uint8, 128)
	raw[0x00] = 3                     // version
	raw[0x04], raw[0x05] = 0x00, 0x40 // high memory base = 64
	raw[0x06], raw[0x07] = 0x00, 0x40 // initial PC = 64
	raw[0x0c], raw[0x0d] = 0x00, 0x20 // global variable base = 32
	raw[0x0e], raw[0x0f] = 0x00, 0x40 // static memory base = 64
	copy(raw[0x12:0x18], "260801")

	st, err := story.Load("test.z3", raw)
	if err != nil {
		t.Fatalf("story.Load failed: %v", err)
	}
	return st
}

func TestNewUsesDefaultUndoDepth(t *testing.T) {
	st := New(newTestStory(t), 1)
	if st.undoSlots != defaultUndoSlots {
		t.Errorf("undoSlots = %d, want %d", st.undoSlots, defaultUndoSlots)
	}
}

func TestResetRestoresInitialPC(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)
	s.PC = 999
	s.Reset()
	if s.PC != uint32(s.Story.Header.InitialPC) {
		t.Errorf("PC = %d, want %d", s.PC, s.Story.Header.InitialPC)
	}
	if s.Stack.Size() != 0 {
		t.Errorf("Stack.Size() = %d, want 0 after Reset", s.Stack.Size())
	}
}

func TestCallAndReturnFromFrame(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)
	returnPC := s.PC
	s.Call(CallTypeStore, returnPC, 3, []uint16{10, 20, 30}, []uint16{99})

	if got := s.VarRead(1, true); got != 99 {
		t.Errorf("local 1 = %d, want 99 (argv overrides the default)", got)
	}
	if got := s.VarRead(2, true); got != 20 {
		t.Errorf("local 2 = %d, want 20 (from defaults)", got)
	}

	callType, pc := s.ReturnFromFrame()
	if callType != CallTypeStore {
		t.Errorf("callType = %v, want CallTypeStore", callType)
	}
	if pc != returnPC {
		t.Errorf("returnPC = %d, want %d", pc, returnPC)
	}
	if s.FP != 0 {
		t.Errorf("FP = %d, want 0 after unwinding the only frame", s.FP)
	}
}

func TestVarReadWriteStackAndGlobals(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)

	s.VarWrite(0, 42, false) // push
	if got := s.VarRead(0, true); got != 42 {
		t.Errorf("peek top-of-stack = %d, want 42", got)
	}
	if got := s.VarRead(0, false); got != 42 {
		t.Errorf("pop top-of-stack = %d, want 42", got)
	}

	s.VarWrite(16, 0xabcd, false) // global 0
	if got := s.VarRead(16, false); got != 0xabcd {
		t.Errorf("global 0 = %x, want 0xabcd", got)
	}
}

func TestSaveAndRestoreBytesRoundTrip(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)
	s.Memory.Write8(40, 0x77)
	s.PC = 0x50

	saved := s.SaveBytes()

	s.Reset()
	if err := s.RestoreBytes(saved); err != nil {
		t.Fatalf("RestoreBytes failed: %v", err)
	}
	if s.PC != 0x50 {
		t.Errorf("PC after restore = %x, want 0x50", s.PC)
	}
	if s.Memory.Read8(40) != 0x77 {
		t.Error("memory byte 40 was not restored")
	}
}

func TestRestoreBytesRejectsMismatchedStory(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)
	saved := s.SaveBytes()

	other := newTestStory(t)
	other.Header.Checksum ^= 0xffff
	s2 := NewWithUndoDepth(other, 1, 4)

	if err := s2.RestoreBytes(saved); err == nil {
		t.Fatal("expected RestoreBytes to reject a save from a different story")
	}
}

func TestSaveUndoEvictsOldestBeyondDepth(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 2)

	s.PC = 1
	s.SaveUndo()
	s.PC = 2
	s.SaveUndo()
	s.PC = 3
	s.SaveUndo() // ring depth 2: PC=1 snapshot should be evicted

	if len(s.undoRing) != 2 {
		t.Fatalf("undoRing length = %d, want 2", len(s.undoRing))
	}

	s.PC = 999
	ok, err := s.RestoreUndo()
	if !ok || err != nil {
		t.Fatalf("RestoreUndo() = %v, %v", ok, err)
	}
	if s.PC != 3 {
		t.Errorf("PC after first RestoreUndo = %d, want 3", s.PC)
	}

	ok, err = s.RestoreUndo()
	if !ok || err != nil {
		t.Fatalf("RestoreUndo() = %v, %v", ok, err)
	}
	if s.PC != 2 {
		t.Errorf("PC after second RestoreUndo = %d, want 2 (PC=1 should have been evicted)", s.PC)
	}
}

func TestRestoreUndoEmptyRingReportsFalse(t *testing.T) {
	s := NewWithUndoDepth(newTestStory(t), 1, 4)
	ok, err := s.RestoreUndo()
	if ok || err != nil {
		t.Fatalf("RestoreUndo() on empty ring = %v, %v, want false, nil", ok, err)
	}
}
