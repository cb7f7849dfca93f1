// Package zstring implements the Z-machine's packed five-bit text
// encoding: a stateful decoder for Z-strings (three Z-characters per
// 16-bit word, alphabet shifts, abbreviations, ZSCII escapes) and an
// encoder used to build dictionary lookup keys.
package zstring

import "encoding/binary"

const maxAbbreviationDepth = 1

// Decode reads a Z-string starting at addr within bytes and returns its
// decoded text plus the number of bytes consumed from the stream (always a
// multiple of 2 — one per 16-bit word read). abbreviationTableBase is the
// story header's abbreviation-table address (0 disables abbreviation
// expansion, e.g. when decoding an abbreviation string itself).
func Decode(bytes []uint8, addr uint32, version uint8, alphabets *Alphabets, abbreviationTableBase uint16) (string, uint32) {
	return decodeDepth(bytes, addr, version, alphabets, abbreviationTableBase, 0)
}

func decodeDepth(bytes []uint8, addr uint32, version uint8, alphabets *Alphabets, abbreviationTableBase uint16, depth int) (string, uint32) {
	var zchrStream []uint8
	bytesRead := uint32(0)
	ptr := addr

	for {
		halfWord := binary.BigEndian.Uint16(bytes[ptr : ptr+2])
		isLast := (halfWord >> 15) == 1
		zchrStream = append(zchrStream,
			uint8((halfWord>>10)&0b11111),
			uint8((halfWord>>5)&0b11111),
			uint8(halfWord&0b11111),
		)
		ptr += 2
		bytesRead += 2
		if isLast || int(ptr) >= len(bytes)-1 {
			break
		}
	}

	var out []rune
	baseAlphabet := 0
	currentAlphabet := 0
	nextAlphabet := 0
	abbrState := 0 // 0 = normal, 1..3 = pending abbreviation ABBR_n

	for i := 0; i < len(zchrStream); i++ {
		zchr := zchrStream[i]
		currentAlphabet = nextAlphabet
		nextAlphabet = baseAlphabet

		if abbrState != 0 {
			if abbreviationTableBase != 0 && depth < maxAbbreviationDepth {
				out = append(out, []rune(FindAbbreviation(version, abbreviationTableBase, bytes, alphabets, uint8(abbrState), zchr))...)
			}
			abbrState = 0
			continue
		}

		switch zchr {
		case 0:
			out = append(out, ' ')
		case 1:
			if version == 1 {
				out = append(out, '\n')
			} else {
				abbrState = 1
			}
		case 2:
			if version >= 3 {
				abbrState = 2
			} else {
				nextAlphabet = (nextAlphabet + 1) % 3
			}
		case 3:
			if version >= 3 {
				abbrState = 3
			} else {
				nextAlphabet = (nextAlphabet + 2) % 3
			}
		case 4:
			if version >= 3 {
				nextAlphabet = (nextAlphabet + 1) % 3
			} else {
				baseAlphabet = (baseAlphabet + 1) % 3
				nextAlphabet = baseAlphabet
			}
		case 5:
			if version >= 3 {
				nextAlphabet = (nextAlphabet + 2) % 3
			} else {
				baseAlphabet = (baseAlphabet + 2) % 3
				nextAlphabet = baseAlphabet
			}
		default:
			if currentAlphabet == 2 && zchr == 6 {
				if i+2 < len(zchrStream) {
					code := uint16(zchrStream[i+1])<<5 | uint16(zchrStream[i+2])
					out = append(out, rune(code))
				}
				i += 2
			} else {
				switch currentAlphabet {
				case 0:
					out = append(out, alphabets.A0[zchr-6])
				case 1:
					out = append(out, alphabets.A1[zchr-6])
				case 2:
					out = append(out, alphabets.A2[zchr-6])
				}
			}
		}
	}

	return string(out), bytesRead
}

// Encode produces the fixed-length dictionary key for runes: 2 words
// (v1-3) or 3 words (v4+), padded with Z-char 5, terminator bit set on the
// final word.
func Encode(runes []rune, version uint8, alphabets *Alphabets) []uint8 {
	numWords := 2
	if version >= 4 {
		numWords = 3
	}
	maxChars := numWords * 3

	var zchars []uint8
	for _, r := range runes {
		if len(zchars) >= maxChars {
			break
		}
		if ix := indexOfRune(alphabets.A0, r); ix >= 0 {
			zchars = append(zchars, uint8(ix+6))
			continue
		}
		if ix := indexOfRune(alphabets.A1, r); ix >= 0 {
			zchars = append(zchars, shiftCode(version, 1), uint8(ix+6))
			continue
		}
		if ix := indexOfRune(alphabets.A2, r); ix >= 0 && ix != 0 {
			zchars = append(zchars, shiftCode(version, 2), uint8(ix+6))
			continue
		}
		code := uint16(r)
		zchars = append(zchars, shiftCode(version, 2), 6, uint8((code>>5)&0x1F), uint8(code&0x1F))
	}

	if len(zchars) > maxChars {
		zchars = zchars[:maxChars]
	}
	for len(zchars) < maxChars {
		zchars = append(zchars, 5)
	}

	out := make([]uint8, numWords*2)
	for w := 0; w < numWords; w++ {
		c0, c1, c2 := zchars[w*3], zchars[w*3+1], zchars[w*3+2]
		word := uint16(c0&0x1F)<<10 | uint16(c1&0x1F)<<5 | uint16(c2&0x1F)
		if w == numWords-1 {
			word |= 0x8000
		}
		binary.BigEndian.PutUint16(out[w*2:w*2+2], word)
	}
	return out
}

// shiftCode returns the one-shot Z-character that shifts into the given
// target alphabet (1=A1, 2=A2) from the default alphabet A0.
func shiftCode(version uint8, target int) uint8 {
	if version <= 2 {
		if target == 1 {
			return 2
		}
		return 3
	}
	if target == 1 {
		return 4
	}
	return 5
}
