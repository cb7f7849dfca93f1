// Package quetzal implements the Quetzal save-game format: an IFF
// `FORM...IFZS` container with IFhd/CMem/Stks/ZifH chunks.
package quetzal

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/nwidger/zif/memory"
	"github.com/nwidger/zif/stack"
)

// IFhd is the mandatory identification chunk: it ties a save file to the
// exact story image it was taken against.
type IFhd struct {
	Release    uint16
	Serial     [6]uint8
	Checksum   uint16
	InitialPC  uint32 // only the low 24 bits are stored
}

// Snapshot is everything encode/decode needs: the running machine's
// register-like state plus a reference to the story's pristine bytes for
// CMem's XOR-RLE diff.
type Snapshot struct {
	IFhd        IFhd
	PC          uint32
	StoryBytes  []uint8
	Memory      *memory.Memory
	Stack       *stack.Stack
	RandomState uint64
}

type chunk struct {
	id   string
	data []uint8
}

// Encode serialises a Snapshot into a complete `FORM...IFZS` byte stream.
func Encode(s *Snapshot) []uint8 {
	chunks := []chunk{
		encodeIFhd(s),
		encodeCMem(s),
		encodeStks(s),
		encodeZifH(s),
	}

	var body bytes.Buffer
	body.WriteString("IFZS")
	for _, c := range chunks {
		writeChunk(&body, c)
	}

	var out bytes.Buffer
	out.WriteString("FORM")
	binary.Write(&out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func writeChunk(buf *bytes.Buffer, c chunk) {
	buf.WriteString(c.id)
	binary.Write(buf, binary.BigEndian, uint32(len(c.data)))
	buf.Write(c.data)
	if len(c.data)%2 == 1 {
		buf.WriteByte(0)
	}
}

func encodeIFhd(s *Snapshot) chunk {
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, s.IFhd.Release)
	b.Write(s.IFhd.Serial[:])
	binary.Write(&b, binary.BigEndian, s.IFhd.Checksum)
	b.WriteByte(uint8(s.PC >> 16))
	b.WriteByte(uint8(s.PC >> 8))
	b.WriteByte(uint8(s.PC))
	return chunk{id: "IFhd", data: b.Bytes()}
}

// encodeCMem XORs the current memory against the pristine story image up
// to the write-end boundary and run-length-encodes the resulting zero
// runs, exactly as the original compressed-memory chunk algorithm does.
func encodeCMem(s *Snapshot) chunk {
	var b bytes.Buffer
	ref := s.StoryBytes
	writeEnd := s.Memory.WriteEnd()

	runLength := uint32(0)
	for i := uint32(0); i <= writeEnd; i++ {
		memByte := s.Memory.Read8(i)
		var encByte uint8
		if i < uint32(len(ref)) {
			encByte = ref[i] ^ memByte
		} else {
			encByte = memByte
		}

		if encByte == 0x00 {
			runLength++
			continue
		}

		for runLength != 0 {
			n := runLength
			if n > 0x100 {
				n = 0x100
			}
			b.WriteByte(0x00)
			b.WriteByte(uint8(n - 1))
			runLength -= n
		}
		b.WriteByte(encByte)
	}

	return chunk{id: "CMem", data: b.Bytes()}
}

func encodeStks(s *Snapshot) chunk {
	return chunk{id: "Stks", data: s.Stack.Bytes()}
}

func encodeZifH(s *Snapshot) chunk {
	var b bytes.Buffer
	binary.Write(&b, binary.BigEndian, s.RandomState)
	return chunk{id: "ZifH", data: b.Bytes()}
}

// Decode parses a `FORM...IFZS` byte stream and applies it to mem/stk,
// returning the save's identification chunk, the resulting PC, and the RNG
// state. mem and stk are mutated in place; storyBytes is the pristine
// story image used to reverse CMem's XOR diff. The caller is responsible
// for checking the returned IFhd against the running story before trusting
// the mutated mem/stk.
func Decode(data []uint8, storyBytes []uint8, mem *memory.Memory, stk *stack.Stack) (hdr IFhd, pc uint32, randomState uint64, err error) {
	if len(data) < 12 || string(data[0:4]) != "FORM" || string(data[8:12]) != "IFZS" {
		return IFhd{}, 0, 0, fmt.Errorf("quetzal: not an IFZS FORM container")
	}

	chunks, err := readChunks(data[12:])
	if err != nil {
		return IFhd{}, 0, 0, err
	}

	ifhd, ok := chunks["IFhd"]
	if !ok || len(ifhd) < 13 {
		return IFhd{}, 0, 0, fmt.Errorf("quetzal: missing or truncated IFhd chunk")
	}
	hdr.Release = binary.BigEndian.Uint16(ifhd[0:2])
	copy(hdr.Serial[:], ifhd[2:8])
	hdr.Checksum = binary.BigEndian.Uint16(ifhd[8:10])
	pc = uint32(ifhd[10])<<16 | uint32(ifhd[11])<<8 | uint32(ifhd[12])
	hdr.InitialPC = pc

	if cmem, ok := chunks["CMem"]; ok {
		if err := decodeCMem(cmem, storyBytes, mem); err != nil {
			return IFhd{}, 0, 0, err
		}
	} else if umem, ok := chunks["UMem"]; ok {
		for i, b := range umem {
			mem.Set8(uint32(i), b)
		}
	} else {
		return IFhd{}, 0, 0, fmt.Errorf("quetzal: missing CMem or UMem chunk")
	}

	stks, ok := chunks["Stks"]
	if !ok {
		return IFhd{}, 0, 0, fmt.Errorf("quetzal: missing Stks chunk")
	}
	stk.Reset()
	for _, b := range stks {
		stk.Push8(b)
	}

	// ZifH is a non-standard extension carrying deterministic RNG state;
	// its absence just means the restored game gets a fresh generator.
	if zifh, ok := chunks["ZifH"]; ok && len(zifh) >= 8 {
		randomState = binary.BigEndian.Uint64(zifh[:8])
	}

	return hdr, pc, randomState, nil
}

func decodeCMem(cmem []uint8, ref []uint8, mem *memory.Memory) error {
	addr := uint32(0)
	decodeByte := func(b uint8) error {
		if addr >= mem.Size() {
			return fmt.Errorf("quetzal: CMem chunk too big for memory")
		}
		if addr < uint32(len(ref)) {
			mem.Set8(addr, ref[addr]^b)
		} else {
			mem.Set8(addr, b)
		}
		addr++
		return nil
	}

	for i := 0; i < len(cmem); {
		b := cmem[i]
		i++
		if b == 0 {
			if i == len(cmem) {
				return fmt.Errorf("quetzal: incomplete CMem chunk")
			}
			n := int(cmem[i]) + 1
			i++
			for j := 0; j < n; j++ {
				if err := decodeByte(0); err != nil {
					return err
				}
			}
		} else {
			if err := decodeByte(b); err != nil {
				return err
			}
		}
	}

	for addr < uint32(len(ref)) {
		if err := decodeByte(0x00); err != nil {
			return err
		}
	}

	return nil
}

func readChunks(data []uint8) (map[string][]uint8, error) {
	chunks := make(map[string][]uint8)
	pos := 0
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		length := binary.BigEndian.Uint32(data[pos+4 : pos+8])
		start := pos + 8
		end := start + int(length)
		if end > len(data) {
			return nil, fmt.Errorf("quetzal: chunk %q overruns container", id)
		}
		chunks[id] = data[start:end]

		pos = end
		if length%2 == 1 {
			pos++
		}
	}
	return chunks, nil
}
