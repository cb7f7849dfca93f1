package zstring

// Alphabets holds the three 26-entry Z-character tables (A0 lower-case,
// A1 upper-case, A2 punctuation/ZSCII-escape) used by both Decode and
// Encode. A2 index 0 is never addressed (Z-char 6 in A2 always triggers
// the 10-bit ZSCII escape, never a table lookup) and is left as a filler.
type Alphabets struct {
	A0 [26]rune
	A1 [26]rune
	A2 [26]rune
}

var a0Default = [26]rune{'a', 'b', 'c', 'd', 'e', 'f', 'g', 'h', 'i', 'j', 'k', 'l', 'm', 'n', 'o', 'p', 'q', 'r', 's', 't', 'u', 'v', 'w', 'x', 'y', 'z'}
var a1Default = [26]rune{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'L', 'M', 'N', 'O', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z'}

// a2V1 and a2V2Default hold only the 25 reachable entries (Z-char 7..31);
// index 0 of the Alphabets.A2 array is left as a zero-value filler so that
// table[zchar-6] addresses them directly.
var a2V1 = [25]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '<', '-', ':', '(', ')'}
var a2V2Default = [25]rune{'\n', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', ',', '!', '?', '_', '#', '\'', '"', '/', '\\', '-', ':', '(', ')'}

func buildA2(reachable [25]rune) [26]rune {
	var out [26]rune
	copy(out[1:], reachable[:])
	return out
}

// defaultAlphabetsV1 is the fixed v1 table set, used directly by tests and
// as the fallback when a story has no alternate-alphabet header entry.
var defaultAlphabetsV1 = Alphabets{A0: a0Default, A1: a1Default, A2: buildA2(a2V1)}

var defaultAlphabetsV2Plus = Alphabets{A0: a0Default, A1: a1Default, A2: buildA2(a2V2Default)}

// LoadAlphabets returns the alphabet tables appropriate for the story
// version, loading the header's 78-byte alternate table (v5+, when
// altTableAddr is non-zero) in place of the defaults.
func LoadAlphabets(version uint8, bytes []uint8, altTableAddr uint16) *Alphabets {
	base := defaultAlphabetsV1
	if version >= 2 {
		base = defaultAlphabetsV2Plus
	}

	if version >= 5 && altTableAddr != 0 {
		addr := int(altTableAddr)
		if addr+78 <= len(bytes) {
			for i := 0; i < 26; i++ {
				base.A0[i] = rune(bytes[addr+i])
			}
			for i := 0; i < 26; i++ {
				base.A1[i] = rune(bytes[addr+26+i])
			}
			for i := 1; i < 26; i++ {
				base.A2[i] = rune(bytes[addr+52+i-1])
			}
		}
	}

	return &base
}

func indexOfRune(table [26]rune, r rune) int {
	for i, c := range table {
		if c == r {
			return i
		}
	}
	return -1
}
