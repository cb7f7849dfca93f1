// Package dictionary parses and searches the Z-machine's sorted word
// dictionary.
package dictionary

import (
	"bytes"

	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/zstring"
)

// Header describes the dictionary's separator set and entry layout.
type Header struct {
	Separators   []uint8
	EntryLength  uint8
	EntryCount   int16
}

// Entry is one decoded dictionary word.
type Entry struct {
	Address     uint16
	EncodedWord []uint8
	DecodedWord string
	Data        []uint8
}

// Dictionary is the parsed word table at the story header's dict address.
type Dictionary struct {
	Header  Header
	Entries []Entry
}

// ParseDictionary reads the dictionary at baseAddress out of mem.
func ParseDictionary(mem *memory.Memory, baseAddress uint32, version uint8, alphabets *zstring.Alphabets, abbreviationBase uint16) *Dictionary {
	numSeparators := mem.Read8(baseAddress)
	separators := append([]uint8{}, mem.Slice(baseAddress+1, baseAddress+1+uint32(numSeparators))...)

	entryLengthAddr := baseAddress + 1 + uint32(numSeparators)
	entryLength := mem.Read8(entryLengthAddr)
	count := int16(mem.Read16(entryLengthAddr + 1))

	header := Header{
		Separators:  separators,
		EntryLength: entryLength,
		EntryCount:  count,
	}

	encodedWordLength := 4
	if version > 3 {
		encodedWordLength = 6
	}

	entryPtr := entryLengthAddr + 3
	entries := make([]Entry, count)
	for ix := 0; ix < int(count); ix++ {
		encodedWord := append([]uint8{}, mem.Slice(entryPtr, entryPtr+uint32(encodedWordLength))...)
		decodedWord, _ := zstring.Decode(mem.Bytes(), entryPtr, version, alphabets, abbreviationBase)
		data := append([]uint8{}, mem.Slice(entryPtr+uint32(encodedWordLength), entryPtr+uint32(entryLength))...)

		entries[ix] = Entry{
			Address:     uint16(entryPtr),
			EncodedWord: encodedWord,
			DecodedWord: decodedWord,
			Data:        data,
		}
		entryPtr += uint32(entryLength)
	}

	return &Dictionary{Header: header, Entries: entries}
}

// Find returns the dictionary entry address matching the encoded key, or 0
// if the word is not in the dictionary.
func (d *Dictionary) Find(encodedWord []uint8) uint16 {
	for _, entry := range d.Entries {
		if bytes.Equal(entry.EncodedWord, encodedWord) {
			return entry.Address
		}
	}
	return 0
}

// IsSeparator reports whether b is one of the dictionary's declared extra
// separator bytes (in addition to plain whitespace).
func (h *Header) IsSeparator(b uint8) bool {
	for _, s := range h.Separators {
		if s == b {
			return true
		}
	}
	return false
}
