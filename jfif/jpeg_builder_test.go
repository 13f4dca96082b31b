package jfif

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math/rand"
	"testing"
)

// Standard luminance tables from Annex K
var (
	stdDCCounts  = [MaxHuffmanCodeLength]uint8{0, 1, 5, 1, 1, 1, 1, 1, 1, 0, 0, 0, 0, 0, 0, 0}
	stdDCSymbols = []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b}

	stdACCounts  = [MaxHuffmanCodeLength]uint8{0, 2, 1, 3, 3, 2, 4, 3, 5, 5, 4, 4, 0, 0, 1, 0x7d}
	stdACSymbols = []byte{
		0x01, 0x02, 0x03, 0x00, 0x04, 0x11, 0x05, 0x12, 0x21, 0x31, 0x41, 0x06, 0x13, 0x51, 0x61, 0x07,
		0x22, 0x71, 0x14, 0x32, 0x81, 0x91, 0xa1, 0x08, 0x23, 0x42, 0xb1, 0xc1, 0x15, 0x52, 0xd1, 0xf0,
		0x24, 0x33, 0x62, 0x72, 0x82, 0x09, 0x0a, 0x16, 0x17, 0x18, 0x19, 0x1a, 0x25, 0x26, 0x27, 0x28,
		0x29, 0x2a, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x3a, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49,
		0x4a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5a, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69,
		0x6a, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79, 0x7a, 0x83, 0x84, 0x85, 0x86, 0x87, 0x88, 0x89,
		0x8a, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97, 0x98, 0x99, 0x9a, 0xa2, 0xa3, 0xa4, 0xa5, 0xa6, 0xa7,
		0xa8, 0xa9, 0xaa, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6, 0xb7, 0xb8, 0xb9, 0xba, 0xc2, 0xc3, 0xc4, 0xc5,
		0xc6, 0xc7, 0xc8, 0xc9, 0xca, 0xd2, 0xd3, 0xd4, 0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0xda, 0xe1, 0xe2,
		0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0xea, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
		0xf9, 0xfa,
	}
)

// segment frames a payload with a marker code and length field
func segment(code uint16, payload ...byte) []byte {
	length := len(payload) + 2
	out := []byte{byte(code >> 8), byte(code), byte(length >> 8), byte(length)}
	return append(out, payload...)
}

func jfifAPP0() []byte {
	return segment(MarkerAPP0, 'J', 'F', 'I', 'F', 0x00, 1, 2, 1, 0, 72, 0, 72, 0, 0)
}

// dqtSegment builds an 8-bit table whose entry i is i+1
func dqtSegment(dest byte) []byte {
	payload := []byte{dest}
	for i := 0; i < BlockSize; i++ {
		payload = append(payload, byte(i+1))
	}
	return segment(MarkerDQT, payload...)
}

func sofSegment(frame *FrameHeader) []byte {
	payload := []byte{frame.Precision, byte(frame.Height >> 8), byte(frame.Height),
		byte(frame.Width >> 8), byte(frame.Width), byte(len(frame.Components))}
	for _, c := range frame.Components {
		payload = append(payload, c.ID, c.HorizontalSampling<<4|c.VerticalSampling, c.QuantizationTable)
	}
	return segment(MarkerSOF0, payload...)
}

func dhtSegment(tableByte byte, counts [MaxHuffmanCodeLength]uint8, symbols []byte) []byte {
	payload := append([]byte{tableByte}, counts[:]...)
	return segment(MarkerDHT, append(payload, symbols...)...)
}

func sosSegment(scan *ScanHeader) []byte {
	payload := []byte{byte(len(scan.Components))}
	for _, c := range scan.Components {
		payload = append(payload, c.ID, (c.ACTable-ACTableOffset)<<4|c.DCTable)
	}
	payload = append(payload, 0x00, 0x3f, 0x00)
	return segment(MarkerSOS, payload...)
}

func mustBuildTable(t *testing.T, id uint8, counts [MaxHuffmanCodeLength]uint8, symbols []byte) *HuffmanTable {
	t.Helper()
	table, err := BuildHuffmanTable(id, counts, symbols)
	if err != nil {
		t.Fatalf("BuildHuffmanTable(%d) failed: %v", id, err)
	}
	return table
}

// standardTables returns the luminance tables as DC table 0 and AC table 0
func standardTables(t *testing.T) *HuffmanTableSet {
	t.Helper()
	var set HuffmanTableSet
	set.Add(mustBuildTable(t, 0, stdDCCounts, stdDCSymbols))
	set.Add(mustBuildTable(t, ACTableOffset, stdACCounts, stdACSymbols))
	return &set
}

func grayFrame(width, height uint16) *FrameHeader {
	return &FrameHeader{
		Precision:  8,
		Width:      width,
		Height:     height,
		Components: []FrameComponent{{ID: 1, HorizontalSampling: 1, VerticalSampling: 1}},
	}
}

func yuv420Frame(width, height uint16) *FrameHeader {
	return &FrameHeader{
		Precision: 8,
		Width:     width,
		Height:    height,
		Components: []FrameComponent{
			{ID: 1, HorizontalSampling: 2, VerticalSampling: 2},
			{ID: 2, HorizontalSampling: 1, VerticalSampling: 1},
			{ID: 3, HorizontalSampling: 1, VerticalSampling: 1},
		},
	}
}

// scanAll builds a scan over every frame component using tables 0
func scanAll(frame *FrameHeader) *ScanHeader {
	scan := &ScanHeader{SpectralEnd: BlockSize - 1}
	for _, c := range frame.Components {
		scan.Components = append(scan.Components, ScanComponent{ID: c.ID, DCTable: 0, ACTable: ACTableOffset})
	}
	return scan
}

// randomBlocks fills block grids of the scan's geometry with coefficients
// that fit the standard tables, including zero runs longer than 16
func randomBlocks(t *testing.T, frame *FrameHeader, scan *ScanHeader, tables *HuffmanTableSet, seed int64) []*BlockBasedImage {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	images := make([]*BlockBasedImage, len(scan.Components))
	for i, sc := range scan.Components {
		ci, err := newComponentInfo(frame, sc, tables)
		if err != nil {
			t.Fatalf("newComponentInfo failed: %v", err)
		}
		img := NewBlockBasedImage(ci.ID, ci.GetBlockWidth(scan.Interleaved()), ci.GetBlockHeight(scan.Interleaved()))
		for b := range img.blocks {
			block := &img.blocks[b]
			block[0] = int32(rng.Intn(1001) - 500)
			switch b % 4 {
			case 0:
				// DC only
			case 1:
				block[40] = int32(rng.Intn(7) - 3)
				block[63] = 1
			default:
				for k := 1; k < BlockSize; k++ {
					if rng.Intn(3) == 0 {
						block[k] = int32(rng.Intn(101) - 50)
					}
				}
			}
		}
		images[i] = img
	}
	return images
}

type testJPEG struct {
	frame  *FrameHeader
	scan   *ScanHeader
	tables *HuffmanTableSet
	images []*BlockBasedImage
	data   []byte

	// scanOffset is the offset of the entropy-coded data
	scanOffset int
}

// buildTestJPEG lays out SOI, APP0, DQT, SOF0, DHT (DC), DHT (AC), SOS, the
// encoded blocks and EOI
func buildTestJPEG(t *testing.T, frame *FrameHeader, seed int64) *testJPEG {
	t.Helper()
	tj := &testJPEG{frame: frame, scan: scanAll(frame), tables: standardTables(t)}
	tj.images = randomBlocks(t, frame, tj.scan, tj.tables, seed)

	entropy, err := EncodeScan(tj.images, tj.frame, tj.scan, tj.tables)
	if err != nil {
		t.Fatalf("EncodeScan failed: %v", err)
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xD8})
	buf.Write(jfifAPP0())
	buf.Write(dqtSegment(0))
	buf.Write(sofSegment(frame))
	buf.Write(dhtSegment(0x00, stdDCCounts, stdDCSymbols))
	buf.Write(dhtSegment(0x10, stdACCounts, stdACSymbols))
	buf.Write(sosSegment(tj.scan))
	tj.scanOffset = buf.Len()
	buf.Write(entropy)
	buf.Write([]byte{0xFF, 0xD9})
	tj.data = buf.Bytes()
	return tj
}

// stdlibJPEG encodes a gradient with image/jpeg. Gray images give one
// component; color images give 4:2:0 YCbCr, whose two quantization tables
// are split into separate DQT segments.
func stdlibJPEG(t *testing.T, width, height int, gray bool) []byte {
	t.Helper()
	var img image.Image
	if gray {
		g := image.NewGray(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g.SetGray(x, y, color.Gray{Y: uint8((x*7 + y*13) ^ (x * y))})
			}
		}
		img = g
	} else {
		c := image.NewRGBA(image.Rect(0, 0, width, height))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c.Set(x, y, color.RGBA{R: uint8(x * 9), G: uint8(y * 5), B: uint8((x + y) * 3), A: 0xFF})
			}
		}
		img = c
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 75}); err != nil {
		t.Fatalf("jpeg.Encode failed: %v", err)
	}
	return splitDQT(t, buf.Bytes())
}

// splitDQT rewrites a DQT segment holding several 8-bit tables as one
// segment per table
func splitDQT(t *testing.T, data []byte) []byte {
	t.Helper()
	pos := bytes.Index(data, []byte{0xFF, 0xDB})
	if pos < 0 {
		t.Fatalf("no DQT segment in encoded image")
	}
	length := int(data[pos+2])<<8 | int(data[pos+3])
	body := data[pos+4 : pos+2+length]

	var out bytes.Buffer
	out.Write(data[:pos])
	for len(body) >= 1+BlockSize {
		out.Write(segment(MarkerDQT, body[:1+BlockSize]...))
		body = body[1+BlockSize:]
	}
	out.Write(data[pos+2+length:])
	return out.Bytes()
}
