// Package story loads and validates a Z-machine story image: header
// parsing, checksum verification, memory-limit sizing, and optional Blorb
// unwrapping.
package story

import (
	"encoding/binary"
	"fmt"
)

// Header is the fixed 64-byte Z-machine story header, decoded into typed
// fields. It is read once at load and again (selectively) whenever a
// header-dependent constant like AbbreviationTableBase is needed.
type Header struct {
	Version                          uint8
	Flags1                           uint8
	ReleaseNumber                    uint16
	HighMemoryBase                   uint16
	InitialPC                        uint16
	DictionaryBase                   uint16
	ObjectTableBase                  uint16
	GlobalVariableBase               uint16
	StaticMemoryBase                 uint16
	Flags2                           uint16
	Serial                           [6]uint8
	AbbreviationTableBase            uint16
	FileLengthField                  uint16
	Checksum                         uint16
	RoutinesOffset                   uint16
	StringOffset                     uint16
	AlternativeCharSetBaseAddress    uint16
	ExtensionTableBaseAddress        uint16
	UnicodeExtensionTableBaseAddress uint16
}

// Story is an immutable, loaded game image plus its decoded header.
type Story struct {
	Path   string
	Bytes  []uint8 // the original, unmodified file bytes
	Header Header
}

// ValidationError reports a story header that failed the checks of spec
// §4.4.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "story: " + e.Reason }

func parseHeader(bytes []uint8) Header {
	h := Header{
		Version:               bytes[0x00],
		Flags1:                bytes[0x01],
		ReleaseNumber:         binary.BigEndian.Uint16(bytes[0x02:0x04]),
		HighMemoryBase:        binary.BigEndian.Uint16(bytes[0x04:0x06]),
		InitialPC:             binary.BigEndian.Uint16(bytes[0x06:0x08]),
		DictionaryBase:        binary.BigEndian.Uint16(bytes[0x08:0x0a]),
		ObjectTableBase:       binary.BigEndian.Uint16(bytes[0x0a:0x0c]),
		GlobalVariableBase:    binary.BigEndian.Uint16(bytes[0x0c:0x0e]),
		StaticMemoryBase:      binary.BigEndian.Uint16(bytes[0x0e:0x10]),
		Flags2:                binary.BigEndian.Uint16(bytes[0x10:0x12]),
		AbbreviationTableBase: binary.BigEndian.Uint16(bytes[0x18:0x1a]),
		FileLengthField:       binary.BigEndian.Uint16(bytes[0x1a:0x1c]),
		Checksum:              binary.BigEndian.Uint16(bytes[0x1c:0x1e]),
		RoutinesOffset:        binary.BigEndian.Uint16(bytes[0x28:0x2a]),
		StringOffset:          binary.BigEndian.Uint16(bytes[0x2a:0x2c]),
		AlternativeCharSetBaseAddress: binary.BigEndian.Uint16(bytes[0x34:0x36]),
		ExtensionTableBaseAddress:     binary.BigEndian.Uint16(bytes[0x36:0x38]),
	}
	copy(h.Serial[:], bytes[0x12:0x18])

	if h.ExtensionTableBaseAddress != 0 && int(h.ExtensionTableBaseAddress)+8 <= len(bytes) {
		numWords := binary.BigEndian.Uint16(bytes[h.ExtensionTableBaseAddress : h.ExtensionTableBaseAddress+2])
		if numWords >= 3 {
			h.UnicodeExtensionTableBaseAddress = binary.BigEndian.Uint16(bytes[h.ExtensionTableBaseAddress+6 : h.ExtensionTableBaseAddress+8])
		}
	}

	return h
}

// FileLength returns the story's declared length in bytes, scaled by the
// version-dependent divisor in the header's `length` field.
func (h *Header) FileLength() uint32 {
	return uint32(h.FileLengthField) * uint32(lengthScale(h.Version))
}

func lengthScale(version uint8) uint16 {
	switch {
	case version <= 3:
		return 2
	case version <= 5:
		return 4
	default:
		return 8
	}
}

// MemoryLimit returns the maximum addressable memory size for the story's
// version.
func MemoryLimit(version uint8) uint32 {
	switch {
	case version <= 3:
		return 128 * 1024
	case version <= 5:
		return 256 * 1024
	default:
		return 512 * 1024
	}
}

// UnpackRoutine converts a packed routine address to a byte address,
// applying the version-dependent scale and (v6-7) routines offset.
func (h *Header) UnpackRoutine(addr uint16) uint32 {
	return h.unpack(addr, h.RoutinesOffset)
}

// UnpackString converts a packed string address to a byte address.
func (h *Header) UnpackString(addr uint16) uint32 {
	return h.unpack(addr, h.StringOffset)
}

func (h *Header) unpack(addr uint16, base uint16) uint32 {
	switch {
	case h.Version <= 3:
		return uint32(addr) * 2
	case h.Version <= 5:
		return uint32(addr) * 4
	case h.Version <= 7:
		return uint32(addr)*4 + uint32(base)*8
	default:
		return uint32(addr) * 8
	}
}

// Checksum computes the 16-bit sum of all story bytes after the header.
func Checksum(bytes []uint8, fileLength uint32) uint16 {
	var sum uint16
	limit := fileLength
	if limit == 0 || int(limit) > len(bytes) {
		limit = uint32(len(bytes))
	}
	for i := uint32(0x40); i < limit; i++ {
		sum += uint16(bytes[i])
	}
	return sum
}

// isBlorb detects a `FORM...IFRS` IFF preamble.
func isBlorb(bytes []uint8) bool {
	return len(bytes) >= 12 && string(bytes[0:4]) == "FORM" && string(bytes[8:12]) == "IFRS"
}

// unwrapBlorb walks the RIdx resource index for the first Exec entry of
// type ZCOD and returns the story bytes it names.
func unwrapBlorb(bytes []uint8) ([]uint8, error) {
	pos := uint32(12)
	var execOffset uint32
	found := false

	for pos+8 <= uint32(len(bytes)) {
		id := string(bytes[pos : pos+4])
		length := binary.BigEndian.Uint32(bytes[pos+4 : pos+8])
		payload := pos + 8

		if id == "RIdx" {
			count := binary.BigEndian.Uint32(bytes[payload : payload+4])
			for i := uint32(0); i < count; i++ {
				entry := payload + 4 + i*12
				usage := string(bytes[entry : entry+4])
				number := binary.BigEndian.Uint32(bytes[entry+4 : entry+8])
				offset := binary.BigEndian.Uint32(bytes[entry+8 : entry+12])
				if usage == "Exec" && number == 0 {
					execOffset = offset
					found = true
				}
			}
		}

		pos = payload + length
		if length%2 == 1 {
			pos++
		}
	}

	if !found {
		return nil, &ValidationError{Reason: "blorb container has no Exec resource"}
	}

	chunkID := string(bytes[execOffset : execOffset+4])
	length := binary.BigEndian.Uint32(bytes[execOffset+4 : execOffset+8])
	switch chunkID {
	case "ZCOD":
		return bytes[execOffset+8 : execOffset+8+length], nil
	case "GLUL":
		return nil, &ValidationError{Reason: "Glulx resources are not supported"}
	case "LEVL":
		return nil, &ValidationError{Reason: "Level 9 resources are not supported"}
	default:
		return nil, &ValidationError{Reason: fmt.Sprintf("unsupported blorb resource type %q", chunkID)}
	}
}

// Load reads path, unwraps a Blorb container if present, validates the
// header, and returns a Story.
func Load(path string, raw []uint8) (*Story, error) {
	bytes := raw
	if isBlorb(raw) {
		unwrapped, err := unwrapBlorb(raw)
		if err != nil {
			return nil, err
		}
		bytes = unwrapped
	}

	if len(bytes) < 64 {
		return nil, &ValidationError{Reason: "file too short to contain a story header"}
	}

	header := parseHeader(bytes)
	if err := validateHeader(&header, bytes); err != nil {
		return nil, err
	}

	return &Story{Path: path, Bytes: bytes, Header: header}, nil
}

func validateHeader(h *Header, bytes []uint8) error {
	if h.Version < 1 || h.Version > 8 {
		return &ValidationError{Reason: fmt.Sprintf("unsupported story version %d", h.Version)}
	}
	if h.FileLengthField == 0 {
		h.FileLengthField = uint16(len(bytes) / int(lengthScale(h.Version)))
	}
	if h.StaticMemoryBase < 64 {
		return &ValidationError{Reason: "static memory base overlaps the header"}
	}
	fileLength := h.FileLength()
	if uint32(h.StaticMemoryBase) > fileLength {
		return &ValidationError{Reason: "static memory base beyond end of story"}
	}
	if uint32(h.HighMemoryBase) < uint32(h.StaticMemoryBase) {
		return &ValidationError{Reason: "high memory base precedes static memory base"}
	}
	return nil
}

// VerifyChecksum reports whether the story's computed checksum matches its
// header checksum field.
func (s *Story) VerifyChecksum() bool {
	return Checksum(s.Bytes, s.Header.FileLength()) == s.Header.Checksum
}
