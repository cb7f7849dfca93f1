package zstring

// DefaultUnicodeTranslationTable is the Z-machine standard's default ZSCII
// 155..223 extended character set.
var DefaultUnicodeTranslationTable = map[rune]uint8{
	'ä': 155, 'ö': 156, 'ü': 157, 'Ä': 158, 'Ö': 159, 'Ü': 160, 'ß': 161,
	'»': 162, '«': 163, 'ë': 164, 'ï': 165, 'ÿ': 166, 'Ë': 167, 'Ï': 168,
	'á': 169, 'é': 170, 'í': 171, 'ó': 172, 'ú': 173, 'ý': 174, 'Á': 175,
	'É': 176, 'Í': 177, 'Ó': 178, 'Ú': 179, 'Ý': 180, 'à': 181, 'è': 182,
	'ì': 183, 'ò': 184, 'ù': 185, 'À': 186, 'È': 187, 'Ì': 188, 'Ò': 189,
	'Ù': 190, 'â': 191, 'ê': 192, 'î': 193, 'ô': 194, 'û': 195, 'Â': 196,
	'Ê': 197, 'Î': 198, 'Ô': 199, 'Û': 200, 'å': 201, 'Å': 202, 'ø': 203,
	'Ø': 204, 'ã': 205, 'ñ': 206, 'õ': 207, 'Ã': 208, 'Ñ': 209, 'Õ': 210,
	'æ': 211, 'Æ': 212, 'ç': 213, 'Ç': 214, 'þ': 215, 'ð': 216, 'Þ': 217,
	'Ð': 218, '£': 219, 'œ': 220, 'Œ': 221, '¡': 222, '¿': 223,
}

// UnicodeToZSCII translates a rune to its ZSCII code using the given
// extension table (nil selects DefaultUnicodeTranslationTable).
func UnicodeToZSCII(r rune, table map[rune]uint8) (uint8, bool) {
	if r <= 126 && r >= 32 {
		return uint8(r), true
	}
	if table == nil {
		table = DefaultUnicodeTranslationTable
	}
	zchr, ok := table[r]
	return zchr, ok
}

// ZSCIIToUnicode is the inverse of UnicodeToZSCII for the extended range.
func ZSCIIToUnicode(zchr uint8, table map[rune]uint8) (rune, bool) {
	if zchr >= 32 && zchr <= 126 {
		return rune(zchr), true
	}
	if table == nil {
		table = DefaultUnicodeTranslationTable
	}
	for r, ix := range table {
		if ix == zchr {
			return r, true
		}
	}
	return 0, false
}

// ParseUnicodeTranslationTable reads a story's header-addressed Unicode
// extension table: a count byte followed by that many 2-byte Unicode code
// points, assigned ZSCII codes 155, 156, ... in order.
func ParseUnicodeTranslationTable(bytes []uint8, tableAddr uint16) map[rune]uint8 {
	result := make(map[rune]uint8)
	if tableAddr == 0 {
		return result
	}
	count := int(bytes[tableAddr])
	start := int(tableAddr) + 1
	for i := 0; i < count; i++ {
		r := rune(bytes[start+i*2])<<8 | rune(bytes[start+i*2+1])
		result[r] = uint8(i + 155)
	}
	return result
}
