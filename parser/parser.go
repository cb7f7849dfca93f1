// Package parser implements the Z-machine's input tokenizer: splitting a
// text buffer into words at whitespace and dictionary-declared separators,
// encoding each word, and writing the resulting parse table.
package parser

import (
	"github.com/nwidger/zif/dictionary"
	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/zstring"
)

type token struct {
	text      []uint8
	offset    uint32
	dictAddr  uint16
}

func maxWordLength(version uint8) int {
	if version >= 4 {
		return 9
	}
	return 6
}

func encodeWord(text []uint8, offset uint32, version uint8, alphabets *zstring.Alphabets, dict *dictionary.Dictionary) token {
	limit := maxWordLength(version)
	runes := []rune(string(text))
	for i := range runes {
		if runes[i] >= 'A' && runes[i] <= 'Z' {
			runes[i] += 'a' - 'A'
		}
	}
	if len(runes) > limit {
		runes = runes[:limit]
	}

	encoded := zstring.Encode(runes, version, alphabets)
	return token{text: text, offset: offset, dictAddr: dict.Find(encoded)}
}

// Tokenise splits the text at textAddr against dict and writes the parse
// table at parseAddr. In v5+,
// textAddr+1 holds the count of characters already in the buffer (the
// `aread` preloaded-length convention); in v1-4 the buffer is a
// nul/space-scanned byte string following the max-length byte.
func Tokenise(mem *memory.Memory, version uint8, alphabets *zstring.Alphabets, textAddr uint32, parseAddr uint32, dict *dictionary.Dictionary, preserveUnrecognised bool) {
	start := textAddr + 1
	var length uint32
	if version >= 5 {
		length = uint32(mem.Read8(textAddr + 1))
		start = textAddr + 2
	} else {
		for mem.Read8(start+length) != 0 {
			length++
		}
	}

	var tokens []token
	wordStart := start
	flush := func(end uint32) {
		if end > wordStart {
			text := append([]uint8{}, mem.Slice(wordStart, end)...)
			tokens = append(tokens, encodeWord(text, wordStart, version, alphabets, dict))
		}
	}

	for i := uint32(0); i < length; i++ {
		pos := start + i
		chr := mem.Read8(pos)

		if chr == ' ' {
			flush(pos)
			wordStart = pos + 1
			continue
		}
		if dict.Header.IsSeparator(chr) {
			flush(pos)
			tokens = append(tokens, encodeWord([]uint8{chr}, pos, version, alphabets, dict))
			wordStart = pos + 1
			continue
		}
	}
	flush(start + length)

	maxWords := int(mem.Read8(parseAddr))
	if len(tokens) > maxWords {
		tokens = tokens[:maxWords]
	}

	mem.Write8(parseAddr+1, uint8(len(tokens)))
	ptr := parseAddr + 2
	for _, t := range tokens {
		dictAddr := t.dictAddr
		if dictAddr == 0 && preserveUnrecognised {
			dictAddr = 0
		}
		mem.Write16(ptr, dictAddr)
		mem.Write8(ptr+2, uint8(len(t.text)))
		mem.Write8(ptr+3, uint8(t.offset-textAddr))
		ptr += 4
	}
}
