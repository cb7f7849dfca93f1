package stack

import "testing"

func TestPushPopRoundTrip(t *testing.T) {
	s := New(64)

	s.Push8(0x11)
	s.Push16(0x2233)
	s.Push24(0x445566)
	s.Push32(0x778899aa)

	if got := s.Pop32(); got != 0x778899aa {
		t.Errorf("Pop32() = %x, want 0x778899aa", got)
	}
	if got := s.Pop24(); got != 0x445566 {
		t.Errorf("Pop24() = %x, want 0x445566", got)
	}
	if got := s.Pop16(); got != 0x2233 {
		t.Errorf("Pop16() = %x, want 0x2233", got)
	}
	if got := s.Pop8(); got != 0x11 {
		t.Errorf("Pop8() = %x, want 0x11", got)
	}
	if s.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after draining", s.Size())
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := New(64)
	s.Push16(0xabcd)

	if got := s.Peek16(); got != 0xabcd {
		t.Errorf("Peek16() = %x, want 0xabcd", got)
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2 (Peek must not consume)", s.Size())
	}
	if got := s.Pop16(); got != 0xabcd {
		t.Errorf("Pop16() after Peek16() = %x, want 0xabcd", got)
	}
}

func TestWriteInPlace(t *testing.T) {
	s := New(64)
	s.Push16(0)
	s.Push16(0)

	s.Write16(0, 0x1234)
	s.Write16(2, 0x5678)

	if got := s.Read16(0); got != 0x1234 {
		t.Errorf("Read16(0) = %x, want 0x1234", got)
	}
	if got := s.Read16(2); got != 0x5678 {
		t.Errorf("Read16(2) = %x, want 0x5678", got)
	}
}

func TestShrinkDiscardsLiveBytes(t *testing.T) {
	s := New(64)
	s.Push16(1)
	s.Push16(2)
	s.Push16(3)

	s.Shrink(2)
	if s.Size() != 2 {
		t.Fatalf("Size() = %d, want 2 after Shrink(2)", s.Size())
	}
	if got := s.Read16(0); got != 1 {
		t.Errorf("Read16(0) = %d, want 1", got)
	}
}

func TestOverflowPanics(t *testing.T) {
	s := New(1)
	defer func() {
		r := recover()
		f, ok := r.(*Fault)
		if !ok || f.Kind != Overflow {
			t.Fatalf("expected Overflow fault, got %v", r)
		}
	}()
	s.Push16(1)
}

func TestPopEmptyPanics(t *testing.T) {
	s := New(64)
	defer func() {
		r := recover()
		f, ok := r.(*Fault)
		if !ok || f.Kind != Empty {
			t.Fatalf("expected Empty fault, got %v", r)
		}
	}()
	s.Pop8()
}

func TestBytesReflectsLivePrefixOnly(t *testing.T) {
	s := New(64)
	s.Push8(1)
	s.Push8(2)
	s.Pop8()

	if got := s.Bytes(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Bytes() = %v, want [1]", got)
	}
}
