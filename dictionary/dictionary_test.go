package dictionary

import (
	"testing"

	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/zstring"
)

func TestParseDictionaryReadsSeparatorsAndEntries(t *testing.T) {
	version := uint8(3)
	alphabets := zstring.LoadAlphabets(version, nil, 0)

	mem := memory.New(nil, 64)
	mem.LimitWrite(0, 63)

	const base = 0
	mem.Write8(base, 1)       // 1 separator
	mem.Write8(base+1, ',')   // the separator itself
	mem.Write8(base+2, 4)     // entry length (v3: 4 encoded bytes + 0 data bytes)
	mem.Write16(base+3, 1)    // entry count

	entryAddr := uint32(base + 5)
	encoded := zstring.Encode([]rune("go"), version, alphabets)
	for i, b := range encoded {
		mem.Write8(entryAddr+uint32(i), b)
	}

	dict := ParseDictionary(mem, base, version, alphabets, 0)

	if len(dict.Header.Separators) != 1 || dict.Header.Separators[0] != ',' {
		t.Fatalf("Separators = %v, want [,]", dict.Header.Separators)
	}
	if dict.Header.EntryCount != 1 {
		t.Fatalf("EntryCount = %d, want 1", dict.Header.EntryCount)
	}
	if len(dict.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(dict.Entries))
	}
	if dict.Entries[0].DecodedWord != "go" {
		t.Errorf("DecodedWord = %q, want %q", dict.Entries[0].DecodedWord, "go")
	}
	if dict.Entries[0].Address != uint16(entryAddr) {
		t.Errorf("Address = %d, want %d", dict.Entries[0].Address, entryAddr)
	}
}

func TestDictionaryFindMatchesEncodedWord(t *testing.T) {
	d := &Dictionary{
		Entries: []Entry{
			{Address: 0x200, EncodedWord: []uint8{1, 2, 3, 4}},
			{Address: 0x204, EncodedWord: []uint8{5, 6, 7, 8}},
		},
	}

	if got := d.Find([]uint8{5, 6, 7, 8}); got != 0x204 {
		t.Errorf("Find() = %x, want 0x204", got)
	}
	if got := d.Find([]uint8{9, 9, 9, 9}); got != 0 {
		t.Errorf("Find() for an absent word = %x, want 0", got)
	}
}

func TestHeaderIsSeparator(t *testing.T) {
	h := Header{Separators: []uint8{',', '.'}}
	if !h.IsSeparator(',') {
		t.Error("IsSeparator(',') = false, want true")
	}
	if h.IsSeparator('x') {
		t.Error("IsSeparator('x') = true, want false")
	}
}
