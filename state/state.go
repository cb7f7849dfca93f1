// Package state composes Memory, Stack, PC, and the PRNG into the
// Z-machine's full mutable machine state, plus save/restore/undo built on
// Quetzal encoding.
package state

import (
	"fmt"

	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/quetzal"
	"github.com/nwidger/zif/random"
	"github.com/nwidger/zif/stack"
	"github.com/nwidger/zif/story"
)

// CallType records how a frame's caller wants the return value disposed
// of.
type CallType uint8

const (
	CallTypeStore   CallType = 0
	CallTypeDiscard CallType = 1
	CallTypePush    CallType = 2
	CallTypeReadCharInterrupt CallType = 3
)

// defaultUndoSlots bounds the save_undo ring buffer absent a CLI override.
const defaultUndoSlots = 4

// State is the Z-machine's full runtime state: program counter, frame
// pointer, memory, stack, and PRNG, plus the undo ring.
type State struct {
	Story  *story.Story
	Memory *memory.Memory
	Stack  *stack.Stack
	Random *random.Generator

	PC uint32
	FP int

	DoQuit bool

	undoSlots int
	undoRing  [][]uint8
}

// New builds a freshly reset State from a loaded story, with the
// `--undo`-flag default undo-ring depth.
func New(s *story.Story, seed int64) *State {
	return NewWithUndoDepth(s, seed, defaultUndoSlots)
}

// NewWithUndoDepth is New with an explicit undo-ring depth (the
// `-u`/`--undo` CLI flag).
func NewWithUndoDepth(s *story.Story, seed int64, undoSlots int) *State {
	mem := memory.New(s.Bytes, story.MemoryLimit(s.Header.Version))
	mem.LimitWrite(0, uint32(s.Header.StaticMemoryBase)-1)
	mem.LimitCode(0, mem.Size()-1)

	st := &State{
		Story:     s,
		Memory:    mem,
		Stack:     stack.New(stack.DefaultMaxSize),
		undoSlots: undoSlots,
	}
	if seed != 0 {
		st.Random = random.NewPredictable(uint64(seed))
	} else {
		st.Random = random.NewUnpredictable()
	}
	st.Reset()
	return st
}

// Reset reinitialises memory from the story bytes, clears the stack, and
// resets PC/FP, preserving the configured RNG seeding.
func (st *State) Reset() {
	st.DoQuit = false
	st.PC = uint32(st.Story.Header.InitialPC)
	st.FP = 0
	st.Stack.Reset()

	limit := story.MemoryLimit(st.Story.Header.Version)
	st.Memory.Resize(limit)
	copy(st.Memory.Bytes(), st.Story.Bytes)
	for i := uint32(len(st.Story.Bytes)); i < limit; i++ {
		st.Memory.Set8(i, 0)
	}
	st.Memory.LimitWrite(0, uint32(st.Story.Header.StaticMemoryBase)-1)
	st.Memory.LimitCode(0, st.Memory.Size()-1)
}

// Call pushes a new frame: call type, 3-byte return PC, 2-byte saved FP,
// a 2-byte num-args word (len(argv), so check_arg_count and VarRead/
// VarWrite can find locals at FP+2, FP+4, ...), then numLocals locals
// (seeded from v1-4's header defaults or zeroed in v5+), with the first
// argc of them overwritten by argv.
func (st *State) Call(callType CallType, returnPC uint32, numLocals uint8, localDefaults []uint16, argv []uint16) {
	st.Stack.Push8(uint8(callType))
	st.Stack.Push24(returnPC)
	st.Stack.Push16(uint16(st.FP))
	st.FP = st.Stack.Size()
	st.Stack.Push16(uint16(len(argv)))

	for i := uint8(0); i < numLocals; i++ {
		var v uint16
		if int(i) < len(localDefaults) {
			v = localDefaults[i]
		}
		if int(i) < len(argv) {
			v = argv[i]
		}
		st.Stack.Push16(v)
	}
}

// ReturnFromFrame unwinds the frame at fp, restoring FP and PC, and
// reports the call type the caller should use to dispose of the return
// value.
func (st *State) ReturnFromFrame() (callType CallType, returnPC uint32) {
	st.Stack.Shrink(st.FP)
	savedFP := st.Stack.Pop16()
	pc := st.Stack.Pop24()
	ct := st.Stack.Pop8()
	st.FP = int(savedFP)
	return CallType(ct), pc
}

// VarRead implements the variable-number decode: 0 is stack top, 1-15
// are frame locals, 16-255 are globals.
func (st *State) VarRead(i uint8, peek bool) uint16 {
	switch {
	case i == 0:
		if peek {
			return st.Stack.Peek16()
		}
		return st.Stack.Pop16()
	case i <= 15:
		return st.Stack.Read16(st.FP + 2*int(i))
	default:
		addr := uint32(st.Story.Header.GlobalVariableBase) + 2*uint32(i-16)
		return st.Memory.Read16(addr)
	}
}

// VarWrite is the write-side counterpart of VarRead.
func (st *State) VarWrite(i uint8, v uint16, poke bool) {
	switch {
	case i == 0:
		if poke {
			st.Stack.Write16(st.Stack.Size()-2, v)
		} else {
			st.Stack.Push16(v)
		}
	case i <= 15:
		st.Stack.Write16(st.FP+2*int(i), v)
	default:
		addr := uint32(st.Story.Header.GlobalVariableBase) + 2*uint32(i-16)
		st.Memory.Write16(addr, v)
	}
}

// NumArgs returns the current frame's num-args word: how many arguments
// the caller actually passed, for `check_arg_count`.
func (st *State) NumArgs() uint16 {
	return st.Stack.Read16(st.FP)
}

func (st *State) snapshot() *quetzal.Snapshot {
	h := st.Story.Header
	return &quetzal.Snapshot{
		IFhd: quetzal.IFhd{
			Release:  h.ReleaseNumber,
			Serial:   h.Serial,
			Checksum: h.Checksum,
		},
		PC:          st.PC,
		StoryBytes:  st.Story.Bytes,
		Memory:      st.Memory,
		Stack:       st.Stack,
		RandomState: st.Random.State,
	}
}

// SaveBytes Quetzal-encodes the live state for `save`/`save_undo`.
func (st *State) SaveBytes() []uint8 {
	return quetzal.Encode(st.snapshot())
}

// RestoreBytes applies a previously saved Quetzal image, rejecting one
// taken against a different release/serial/checksum of the story.
func (st *State) RestoreBytes(data []uint8) error {
	h := st.Story.Header
	mem := memory.New(st.Memory.Bytes(), st.Memory.Size())
	stk := stack.New(st.Stack.MaxSize())
	hdr, pc, randState, err := quetzal.Decode(data, st.Story.Bytes, mem, stk)
	if err != nil {
		return err
	}
	if hdr.Release != h.ReleaseNumber || hdr.Serial != h.Serial || hdr.Checksum != h.Checksum {
		return fmt.Errorf("state: save file does not match this story (release %d serial %s)", hdr.Release, hdr.Serial)
	}
	copy(st.Memory.Bytes(), mem.Bytes())
	st.Stack.Reset()
	for _, b := range stk.Bytes() {
		st.Stack.Push8(b)
	}
	st.PC = pc
	st.Random.State = randState
	return nil
}

// SaveUndo pushes a Quetzal-encoded snapshot onto the undo ring, evicting
// the oldest entry once full.
func (st *State) SaveUndo() {
	snap := st.SaveBytes()
	st.undoRing = append(st.undoRing, snap)
	slots := st.undoSlots
	if slots <= 0 {
		slots = defaultUndoSlots
	}
	if len(st.undoRing) > slots {
		st.undoRing = st.undoRing[len(st.undoRing)-slots:]
	}
}

// RestoreUndo pops the newest undo snapshot and applies it, reporting
// false when the ring is empty.
func (st *State) RestoreUndo() (bool, error) {
	if len(st.undoRing) == 0 {
		return false, nil
	}
	last := st.undoRing[len(st.undoRing)-1]
	st.undoRing = st.undoRing[:len(st.undoRing)-1]
	if err := st.RestoreBytes(last); err != nil {
		return false, fmt.Errorf("state: restore_undo: %w", err)
	}
	return true, nil
}
