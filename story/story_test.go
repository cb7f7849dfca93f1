package story

import (
	"testing"
)

func minimalV3(t *testing.T) []uint8 {
	t.Helper()
	raw := make([]uint8, 128)
	raw[0x00] = 3
	raw[0x04], raw[0x05] = 0x00, 0x40
	raw[0x06], raw[0x07] = 0x00, 0x40
	raw[0x0e], raw[0x0f] = 0x00, 0x40
	copy(raw[0x12:0x18], "260801")
	return raw
}

func TestLoadParsesAndValidatesHeader(t *testing.T) {
	raw := minimalV3(t)
	st, err := Load("test.z3", raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if st.Header.Version != 3 {
		t.Errorf("Version = %d, want 3", st.Header.Version)
	}
	if st.Header.StaticMemoryBase != 0x40 {
		t.Errorf("StaticMemoryBase = %x, want 0x40", st.Header.StaticMemoryBase)
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	raw := minimalV3(t)
	raw[0x00] = 9
	if _, err := Load("test.z3", raw); err == nil {
		t.Fatal("expected an error for an unsupported version")
	}
}

func TestLoadRejectsStaticMemoryBaseInsideHeader(t *testing.T) {
	raw := minimalV3(t)
	raw[0x0e], raw[0x0f] = 0x00, 0x20 // 32, below the 64-byte header floor
	if _, err := Load("test.z3", raw); err == nil {
		t.Fatal("expected an error when static memory base overlaps the header")
	}
}

func TestLoadRejectsHighMemoryBeforeStaticMemory(t *testing.T) {
	raw := minimalV3(t)
	raw[0x04], raw[0x05] = 0x00, 0x30 // high memory base 0x30 < static base 0x40
	if _, err := Load("test.z3", raw); err == nil {
		t.Fatal("expected an error when high memory precedes static memory")
	}
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	if _, err := Load("test.z3", make([]uint8, 10)); err == nil {
		t.Fatal("expected an error for a file too short to hold a header")
	}
}

func TestFileLengthScalesByVersion(t *testing.T) {
	cases := []struct {
		version uint8
		field   uint16
		want    uint32
	}{
		{3, 100, 200},
		{5, 100, 400},
		{8, 100, 800},
	}
	for _, c := range cases {
		h := Header{Version: c.version, FileLengthField: c.field}
		if got := h.FileLength(); got != c.want {
			t.Errorf("version %d: FileLength() = %d, want %d", c.version, got, c.want)
		}
	}
}

func TestUnpackRoutineScalesByVersion(t *testing.T) {
	cases := []struct {
		version uint8
		base    uint16
		want    uint32
	}{
		{3, 0, 10},
		{5, 0, 20},
		{7, 2, 20 + 16},
		{8, 0, 40},
	}
	for _, c := range cases {
		h := Header{Version: c.version, RoutinesOffset: c.base}
		if got := h.UnpackRoutine(5); got != c.want {
			t.Errorf("version %d: UnpackRoutine(5) = %d, want %d", c.version, got, c.want)
		}
	}
}

func TestChecksumSumsBytesAfterHeader(t *testing.T) {
	raw := make([]uint8, 70)
	for i := 0x40; i < 70; i++ {
		raw[i] = 1
	}
	if got := Checksum(raw, 70); got != 6 {
		t.Errorf("Checksum() = %d, want 6", got)
	}
}

func TestVerifyChecksumMatchesStoredValue(t *testing.T) {
	raw := minimalV3(t)
	for i := 0x40; i < len(raw); i++ {
		raw[i] = 2
	}
	sum := Checksum(raw, uint32(len(raw)))
	raw[0x1c], raw[0x1d] = uint8(sum>>8), uint8(sum)

	st, err := Load("test.z3", raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !st.VerifyChecksum() {
		t.Error("VerifyChecksum() = false, want true")
	}
}

func be32(v uint32) []uint8 {
	return []uint8{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func TestLoadUnwrapsBlorbExecResource(t *testing.T) {
	storyBytes := minimalV3(t)

	// FORM header (12) + RIdx chunk header (8) + a 1-entry RIdx body (16)
	// is where the ZCOD chunk header begins.
	const execChunkOffset = 12 + 8 + 16

	var ridx []uint8
	ridx = append(ridx, be32(1)...)             // entry count
	ridx = append(ridx, []uint8("Exec")...)     // usage
	ridx = append(ridx, be32(0)...)             // resource number
	ridx = append(ridx, be32(execChunkOffset)...)

	var buf []uint8
	buf = append(buf, []uint8("FORM")...)
	buf = append(buf, be32(0)...) // length placeholder, unused by unwrapBlorb
	buf = append(buf, []uint8("IFRS")...)
	buf = append(buf, []uint8("RIdx")...)
	buf = append(buf, be32(uint32(len(ridx)))...)
	buf = append(buf, ridx...)
	buf = append(buf, []uint8("ZCOD")...)
	buf = append(buf, be32(uint32(len(storyBytes)))...)
	buf = append(buf, storyBytes...)

	if len(buf) != execChunkOffset+8+len(storyBytes) {
		t.Fatalf("test fixture layout mismatch: buf len=%d, want %d", len(buf), execChunkOffset+8+len(storyBytes))
	}

	st, err := Load("test.zblorb", buf)
	if err != nil {
		t.Fatalf("Load failed to unwrap blorb container: %v", err)
	}
	if st.Header.Version != 3 {
		t.Errorf("Version = %d, want 3 (unwrapped story header)", st.Header.Version)
	}
}
