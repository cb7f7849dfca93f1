package stream

import (
	"testing"

	"github.com/nwidger/zif/memory"
)

type captureSink struct{ out string }

func (s *captureSink) WriteText(text string) { s.out += text }

func TestWriteStringBuffersWholeLine(t *testing.T) {
	sink := &captureSink{}
	m := New(sink, 80)

	m.WriteString("hello world\n", nil)

	if sink.out != "hello world\n" {
		t.Errorf("output = %q, want %q", sink.out, "hello world\n")
	}
}

func TestWordWrapInsertsNewlineAtConsoleWidth(t *testing.T) {
	sink := &captureSink{}
	m := New(sink, 5)

	m.WriteString("ab cd ef", nil)
	m.Flush()

	want := "ab cd \nef"
	if sink.out != want {
		t.Errorf("output = %q, want %q", sink.out, want)
	}
}

func TestSetStreamMemoryRedirectsOutput(t *testing.T) {
	sink := &captureSink{}
	m := New(sink, 80)
	mem := memory.New(nil, 64)
	mem.LimitWrite(0, 63)

	const table = 16
	m.SetStream(3, mem, table)
	m.WriteString("hi", mem)
	m.SetStream(-3, mem, 0)

	if got := mem.Read16(table); got != 2 {
		t.Errorf("memory stream length word = %d, want 2", got)
	}
	if mem.Read8(table+2) != 'h' || mem.Read8(table+3) != 'i' {
		t.Error("memory stream did not capture the written characters")
	}
	if sink.out != "" {
		t.Errorf("sink captured %q while stream 3 was active, want nothing", sink.out)
	}
}

func TestSetStreamDisablesScreen(t *testing.T) {
	sink := &captureSink{}
	m := New(sink, 80)
	m.SetBuffering(false)

	m.SetStream(-1, nil, 0)
	m.WriteString("hidden", nil)

	if sink.out != "" {
		t.Errorf("sink captured %q after disabling the screen stream", sink.out)
	}
}

func TestFilterOutputMapsAndDrops(t *testing.T) {
	cases := []struct {
		in     uint8
		want   uint8
		wantOK bool
	}{
		{'a', 'a', true},
		{'\r', '\n', true},
		{0, 0, false},
		{1, 0, false},
		{200, '?', true},
		{0x11, ' ', true},
	}
	for _, c := range cases {
		got, ok := filterOutput(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("filterOutput(%d) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}
