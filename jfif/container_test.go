package jfif

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

func TestParseContainer(t *testing.T) {
	testCases := []struct {
		name  string
		frame *FrameHeader
	}{
		{"gray", grayFrame(20, 12)},
		{"4:2:0", yuv420Frame(40, 24)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tj := buildTestJPEG(t, tc.frame, 3)

			c, err := Parse(tj.data)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if c.Length() != len(tj.data) {
				t.Errorf("got length %d, expected %d", c.Length(), len(tj.data))
			}

			checkTiling(t, c)

			if e := c.Entropy(); e.Offset != tj.scanOffset || e.End() != len(tj.data)-2 {
				t.Errorf("entropy segment %+v, expected [%d, %d)", e, tj.scanOffset, len(tj.data)-2)
			}

			frame := c.Frame()
			if frame == nil || frame.Width != tc.frame.Width || frame.Height != tc.frame.Height ||
				len(frame.Components) != len(tc.frame.Components) {
				t.Fatalf("frame header not parsed: %v", frame)
			}
			if c.Scan() == nil || len(c.Scan().Components) != len(tc.frame.Components) {
				t.Fatalf("scan header not parsed")
			}
			if c.QuantizationTables()[0] == nil {
				t.Errorf("quantization table 0 missing")
			}
			if c.HuffmanTables()[0] == nil || c.HuffmanTables()[ACTableOffset] == nil {
				t.Errorf("huffman tables missing")
			}
			if app, ok := c.Markers()[1].Content.(*APP0); !ok || app.Identifier != "JFIF" {
				t.Errorf("APP0 not parsed: %v", c.Markers()[1].Content)
			}

			components := c.Components()
			if len(components) != len(tj.images) {
				t.Fatalf("got %d components, expected %d", len(components), len(tj.images))
			}
			for i := range components {
				compareImages(t, fmt.Sprintf("component %d", i), components[i], tj.images[i])
			}
		})
	}
}

// checkTiling verifies that the segments and the entropy-coded data cover
// the file without gaps or overlaps
func checkTiling(t *testing.T, c *Container) {
	t.Helper()
	pos := 0
	for _, m := range c.Markers() {
		if m.Offset != pos {
			t.Fatalf("%s starts at %d, expected %d", m, m.Offset, pos)
		}
		pos = m.End()
		if m.Code == MarkerSOS {
			if c.Entropy().Offset != pos {
				t.Fatalf("entropy data starts at %d, expected %d", c.Entropy().Offset, pos)
			}
			pos = c.Entropy().End()
		}
	}
	if pos != c.Length() {
		t.Fatalf("segments end at %d, file is %d bytes", pos, c.Length())
	}
}

func TestParseSkipEntropyDecode(t *testing.T) {
	tj := buildTestJPEG(t, grayFrame(20, 12), 4)

	c, err := ParseWithOptions(tj.data, Options{SkipEntropyDecode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions failed: %v", err)
	}
	if c.Components() != nil {
		t.Errorf("coefficients decoded despite SkipEntropyDecode")
	}
	if c.Frame() == nil || c.Scan() == nil {
		t.Errorf("headers should still be parsed")
	}
	checkTiling(t, c)

	// a scan cut short is only noticed when decoding
	broken := append(append([]byte(nil), tj.data[:tj.scanOffset+1]...), 0xFF, 0xD9)
	if _, err := ParseWithOptions(broken, Options{SkipEntropyDecode: true}); err != nil {
		t.Errorf("headers of a truncated scan should parse, got %v", err)
	}
	_, err = Parse(broken)
	if !errors.Is(err, ErrTruncatedScan) {
		t.Fatalf("got %v, expected TruncatedScan", err)
	}
	jErr, _ := IsJfifError(err)
	if jErr.Offset != tj.scanOffset || jErr.Code != MarkerSOS {
		t.Errorf("error anchored at %d/0x%04X, expected %d/SOS", jErr.Offset, jErr.Code, tj.scanOffset)
	}
}

func TestParseShortInput(t *testing.T) {
	for _, data := range [][]byte{nil, {0xFF}, {0xFF, 0xD8, 0xFF}} {
		c, err := Parse(data)
		if err != nil {
			t.Fatalf("Parse(% X) failed: %v", data, err)
		}
		if len(c.Markers()) != 0 || c.Frame() != nil || c.Scan() != nil || c.Components() != nil {
			t.Errorf("Parse(% X) should give an empty container", data)
		}
		if c.Length() != len(data) {
			t.Errorf("got length %d, expected %d", c.Length(), len(data))
		}
	}
}

// sosStart returns the offset of the SOS marker of a test file
func (tj *testJPEG) sosStart() int {
	return tj.scanOffset - len(sosSegment(tj.scan))
}

func insertAt(data []byte, pos int, insert []byte) []byte {
	out := append([]byte(nil), data[:pos]...)
	out = append(out, insert...)
	return append(out, data[pos:]...)
}

func TestParseErrors(t *testing.T) {
	tj := buildTestJPEG(t, grayFrame(20, 12), 5)
	sofStart := bytes.Index(tj.data, []byte{0xFF, 0xC0})

	progressive := append([]byte(nil), tj.data...)
	progressive[sofStart+1] = 0xC2

	twoScans := append([]byte(nil), tj.data[:len(tj.data)-2]...)
	twoScans = append(twoScans, sosSegment(tj.scan)...)
	twoScans = append(twoScans, 0x00, 0xFF, 0xD9)

	testCases := []struct {
		name     string
		data     []byte
		expected error
		offset   int
		code     uint16
	}{
		{"progressive frame", progressive, ErrUnsupportedVariant, sofStart, MarkerSOF2},
		{"two scans", twoScans, ErrUnsupportedVariant, len(tj.data) - 2, MarkerSOS},
		{"restart interval", insertAt(tj.data, tj.sosStart(), segment(MarkerDRI, 0x00, 0x04)), ErrUnsupportedVariant, -1, MarkerDRI},
		{"no frame", []byte{0xFF, 0xD8, 0xFF, 0xD9}, ErrUnsupportedVariant, -1, MarkerSOF0},
		{"bad quantization table", insertAt(tj.data, 2, segment(MarkerDQT, make([]byte, 1+BlockSize+1)...)), ErrWrongSizedDQT, 2, MarkerDQT},
		{"short comment", insertAt(tj.data, 2, segment(MarkerCOM)), ErrSizeMismatch, 2, MarkerCOM},
		{"truncated frame header", tj.data[:sofStart+5], ErrUnexpectedEndOfFile, sofStart, MarkerSOF0},
		{"unknown marker", insertAt(tj.data, 2, []byte{0xFF, 0x01}), ErrUnknownSegment, 2, 0xFF01},
		{"unsupported APP0", insertAt(tj.data, 2, segment(MarkerAPP0, 'A', 'B', 'C', 'D', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)), ErrInvalidAPP0Identifier, 2, MarkerAPP0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Parse(tc.data)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("got %v, expected %v", err, tc.expected.(*JfifError).Kind)
			}
			if c != nil {
				t.Errorf("no container should be returned on failure")
			}
			jErr, _ := IsJfifError(err)
			if jErr.Offset != tc.offset || jErr.Code != tc.code {
				t.Errorf("error at %d/0x%04X, expected %d/0x%04X", jErr.Offset, jErr.Code, tc.offset, tc.code)
			}
		})
	}
}

func TestParseStdlibJPEG(t *testing.T) {
	testCases := []struct {
		name   string
		width  int
		height int
		gray   bool
		blocks []int
	}{
		{"gray", 20, 12, true, []int{6}},
		{"gray large", 131, 67, true, []int{17 * 9}},
		{"color", 40, 24, false, []int{24, 6, 6}},
		{"color odd size", 37, 21, false, []int{24, 6, 6}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := stdlibJPEG(t, tc.width, tc.height, tc.gray)

			c, err := Parse(data)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			checkTiling(t, c)

			components := c.Components()
			if len(components) != len(tc.blocks) {
				t.Fatalf("got %d components, expected %d", len(components), len(tc.blocks))
			}
			for i, img := range components {
				if img.Len() != tc.blocks[i] {
					t.Errorf("component %d: got %d blocks, expected %d", i, img.Len(), tc.blocks[i])
				}
			}

			reencoded, err := EncodeScan(components, c.Frame(), c.Scan(), c.HuffmanTables())
			if err != nil {
				t.Fatalf("EncodeScan failed: %v", err)
			}
			if !bytes.Equal(reencoded, c.EntropyBytes()) {
				t.Errorf("re-encoded scan differs: %d bytes, original %d bytes", len(reencoded), len(c.EntropyBytes()))
			}
		})
	}
}
