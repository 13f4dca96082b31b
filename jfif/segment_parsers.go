package jfif

import (
	"encoding/binary"
	"fmt"
)

// checkSegment verifies the shared preconditions of every content parser:
// the slice is at least minSize long, starts with the expected marker code
// and, for types with a length field, is exactly as long as declared.
func checkSegment(data []byte, code uint16, minSize int) error {
	desc := LookupSegment(code)
	if len(data) < minSize {
		return errorAt(KindSizeMismatch, -1, code,
			"%d bytes is too short for %s (minimum %d)", len(data), desc.ShortName, minSize)
	}
	if actual := binary.BigEndian.Uint16(data); actual != code {
		return errorAt(KindSizeMismatch, -1, code,
			"can't parse 0x%04X as %s, 0x%04X expected", actual, desc.ShortName, code)
	}
	if desc.HasLength {
		if size := int(binary.BigEndian.Uint16(data[2:])) + 2; size != len(data) {
			return errorAt(KindSizeMismatch, -1, code,
				"%s declares %d bytes but segment holds %d", desc.ShortName, size, len(data))
		}
	}
	return nil
}

// Comment is the sanitized text of a COM segment
type Comment string

// ParseCOM parses a comment segment, including its marker code
func ParseCOM(data []byte) (Comment, error) {
	if err := checkSegment(data, MarkerCOM, 5); err != nil {
		return "", err
	}
	return Comment(sanitize(data[4:])), nil
}

const (
	dqtByteSize = 69
	dqtWordSize = 133
)

// ParseDQT parses a quantization table segment holding a single table.
//
// Bit 2 of the table byte selects 16-bit entries and bits 0-1 hold the
// destination id; the segment must be exactly large enough for 64 entries
// of the selected precision.
func ParseDQT(data []byte) (*QuantizationTable, error) {
	if err := checkSegment(data, MarkerDQT, dqtByteSize); err != nil {
		return nil, err
	}

	qt := &QuantizationTable{
		HasWords:    (data[4]>>2)&1 == 1,
		Destination: data[4] & 3,
	}

	expected := dqtByteSize
	if qt.HasWords {
		expected = dqtWordSize
	}
	if len(data) != expected {
		return nil, errorAt(KindWrongSizedDQT, -1, MarkerDQT,
			"wrong sized DQT: %d bytes, %d expected", len(data), expected)
	}

	values := data[5:]
	for i := 0; i < BlockSize; i++ {
		if qt.HasWords {
			qt.Values[i] = binary.BigEndian.Uint16(values[i*2:])
		} else {
			qt.Values[i] = uint16(values[i])
		}
	}

	return qt, nil
}

const (
	sofHeaderSize    = 10
	sofComponentSize = 3
)

// ParseSOF0 parses a baseline frame header
func ParseSOF0(data []byte) (*FrameHeader, error) {
	if err := checkSegment(data, MarkerSOF0, sofHeaderSize+sofComponentSize); err != nil {
		return nil, err
	}

	frame := &FrameHeader{
		Precision: data[4],
		Height:    binary.BigEndian.Uint16(data[5:]),
		Width:     binary.BigEndian.Uint16(data[7:]),
	}

	count := int(data[9])
	if expected := sofHeaderSize + count*sofComponentSize; expected != len(data) {
		return nil, errorAt(KindSizeMismatch, -1, MarkerSOF0,
			"%d components need %d bytes, segment holds %d", count, expected, len(data))
	}

	frame.Components = make([]FrameComponent, count)
	pos := sofHeaderSize
	for i := range frame.Components {
		frame.Components[i] = FrameComponent{
			ID:                 data[pos],
			HorizontalSampling: data[pos+1] >> 4,
			VerticalSampling:   data[pos+1] & 0x0F,
			QuantizationTable:  data[pos+2],
		}
		pos += sofComponentSize
	}

	return frame, nil
}

const (
	sosHeaderSize    = 5
	sosComponentSize = 2
	sosTrailerSize   = 3
)

// ParseSOS parses a scan header. The slice must hold the header only, not
// the entropy-coded data that follows it.
//
// Each component's table byte carries the DC table id in its low nibble and
// the AC table id in its high nibble; AC ids are moved into the 16-31 range
// of the combined table space.
func ParseSOS(data []byte) (*ScanHeader, error) {
	if err := checkSegment(data, MarkerSOS, sosHeaderSize); err != nil {
		return nil, err
	}
	// SOS is catalogued without a length field because its extent in the
	// file is found by scanning, but the header itself still carries one
	if size := int(binary.BigEndian.Uint16(data[2:])) + 2; size != len(data) {
		return nil, errorAt(KindSizeMismatch, -1, MarkerSOS,
			"SOS declares %d bytes but header holds %d", size, len(data))
	}

	count := int(data[4])
	if count == 0 {
		return nil, errorAt(KindMalformedSegment, -1, MarkerSOS, "zero components in scan")
	}
	end := sosHeaderSize + count*sosComponentSize
	if end > len(data) {
		return nil, errorAt(KindSizeMismatch, -1, MarkerSOS,
			"%d scan components need %d bytes, header holds %d", count, end, len(data))
	}

	scan := &ScanHeader{
		Components:  make([]ScanComponent, count),
		SpectralEnd: BlockSize - 1,
	}
	pos := sosHeaderSize
	for i := range scan.Components {
		scan.Components[i] = ScanComponent{
			ID:      data[pos],
			DCTable: data[pos+1] & 0x0F,
			ACTable: ACTableOffset + (data[pos+1]>>4)&0x0F,
		}
		pos += sosComponentSize
	}

	// the spectral selection trailer is either complete or absent
	if trailer := len(data) - end; trailer != 0 && trailer != sosTrailerSize {
		return nil, errorAt(KindSizeMismatch, -1, MarkerSOS,
			"%d bytes follow the scan components, %d expected", trailer, sosTrailerSize)
	}
	if end+sosTrailerSize == len(data) {
		scan.SpectralStart = data[end]
		scan.SpectralEnd = data[end+1]
		scan.ApproxHigh = data[end+2] >> 4
		scan.ApproxLow = data[end+2] & 0x0F
	}

	return scan, nil
}

// RestartInterval is the number of MCUs between RSTn markers; 0 disables restarts
type RestartInterval uint16

// ParseDRI parses a restart interval definition
func ParseDRI(data []byte) (RestartInterval, error) {
	if err := checkSegment(data, MarkerDRI, 6); err != nil {
		return 0, err
	}
	if len(data) != 6 {
		return 0, errorAt(KindSizeMismatch, -1, MarkerDRI, "DRI must be 6 bytes, got %d", len(data))
	}
	return RestartInterval(binary.BigEndian.Uint16(data[4:])), nil
}

func (r RestartInterval) String() string {
	return fmt.Sprintf("%d MCUs", uint16(r))
}
