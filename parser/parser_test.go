package parser

import (
	"testing"

	"github.com/nwidger/zif/dictionary"
	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/zstring"
)

func encodedWord(t *testing.T, word string, version uint8, alphabets *zstring.Alphabets) []uint8 {
	t.Helper()
	return zstring.Encode([]rune(word), version, alphabets)
}

func TestTokeniseSplitsOnSpacesAndFindsDictionaryEntries(t *testing.T) {
	version := uint8(3)
	alphabets := zstring.LoadAlphabets(version, nil, 0)

	dict := &dictionary.Dictionary{
		Header: dictionary.Header{EntryLength: 7},
		Entries: []dictionary.Entry{
			{Address: 0x100, EncodedWord: encodedWord(t, "take", version, alphabets)},
			{Address: 0x108, EncodedWord: encodedWord(t, "lamp", version, alphabets)},
		},
	}

	mem := memory.New(nil, 64)
	mem.LimitWrite(0, 63)

	const textAddr = 0
	const parseAddr = 32
	text := "take lamp"
	mem.Write8(textAddr, uint8(len(text))) // max-length byte (v1-4 layout)
	for i, c := range []uint8(text) {
		mem.Write8(textAddr+1+uint32(i), c)
	}
	mem.Write8(textAddr+1+uint32(len(text)), 0) // nul terminator

	mem.Write8(parseAddr, 4) // max words the parse buffer can hold

	Tokenise(mem, version, alphabets, textAddr, parseAddr, dict, false)

	if got := mem.Read8(parseAddr + 1); got != 2 {
		t.Fatalf("word count = %d, want 2", got)
	}

	firstAddr := mem.Read16(parseAddr + 2)
	firstLen := mem.Read8(parseAddr + 4)
	firstOffset := mem.Read8(parseAddr + 5)
	if firstAddr != 0x100 {
		t.Errorf("first word dict addr = %x, want 0x100", firstAddr)
	}
	if firstLen != 4 {
		t.Errorf("first word length = %d, want 4", firstLen)
	}
	if firstOffset != 1 {
		t.Errorf("first word offset = %d, want 1 (right after the length byte)", firstOffset)
	}

	secondAddr := mem.Read16(parseAddr + 6)
	secondOffset := mem.Read8(parseAddr + 9)
	if secondAddr != 0x108 {
		t.Errorf("second word dict addr = %x, want 0x108", secondAddr)
	}
	if secondOffset != 6 {
		t.Errorf("second word offset = %d, want 6", secondOffset)
	}
}

func TestTokeniseUnrecognisedWordGetsZeroDictAddr(t *testing.T) {
	version := uint8(3)
	alphabets := zstring.LoadAlphabets(version, nil, 0)
	dict := &dictionary.Dictionary{Header: dictionary.Header{EntryLength: 7}}

	mem := memory.New(nil, 64)
	mem.LimitWrite(0, 63)

	const textAddr = 0
	const parseAddr = 32
	text := "xyzzy"
	mem.Write8(textAddr, uint8(len(text)))
	for i, c := range []uint8(text) {
		mem.Write8(textAddr+1+uint32(i), c)
	}
	mem.Write8(textAddr+1+uint32(len(text)), 0)
	mem.Write8(parseAddr, 4)

	Tokenise(mem, version, alphabets, textAddr, parseAddr, dict, false)

	if got := mem.Read8(parseAddr + 1); got != 1 {
		t.Fatalf("word count = %d, want 1", got)
	}
	if got := mem.Read16(parseAddr + 2); got != 0 {
		t.Errorf("unrecognised word dict addr = %x, want 0", got)
	}
}

func TestTokeniseSplitsOnDictionarySeparatorsWithoutConsumingThem(t *testing.T) {
	version := uint8(3)
	alphabets := zstring.LoadAlphabets(version, nil, 0)
	dict := &dictionary.Dictionary{Header: dictionary.Header{Separators: []uint8{','}, EntryLength: 7}}

	mem := memory.New(nil, 64)
	mem.LimitWrite(0, 63)

	const textAddr = 0
	const parseAddr = 32
	text := "red,blue"
	mem.Write8(textAddr, uint8(len(text)))
	for i, c := range []uint8(text) {
		mem.Write8(textAddr+1+uint32(i), c)
	}
	mem.Write8(textAddr+1+uint32(len(text)), 0)
	mem.Write8(parseAddr, 4)

	Tokenise(mem, version, alphabets, textAddr, parseAddr, dict, false)

	// "red", ",", "blue" -> three tokens
	if got := mem.Read8(parseAddr + 1); got != 3 {
		t.Fatalf("word count = %d, want 3", got)
	}

	middleLen := mem.Read8(parseAddr + 2 + 4 + 2)
	if middleLen != 1 {
		t.Errorf("separator token length = %d, want 1", middleLen)
	}
}
