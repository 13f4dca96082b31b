package jfif

import "fmt"

// Marker is one segment found in a file
type Marker struct {
	// Code is the marker code, including the 0xFF prefix
	Code uint16

	// Offset is the byte index of the marker code in the file
	Offset int

	// Length is the segment length including the two code bytes. For SOS
	// this is the header length only; the entropy-coded data that follows
	// is tracked by the container as an EntropySegment.
	Length int

	// Descriptor is the catalog entry for Code
	Descriptor *SegmentDescriptor

	// Content is the parsed segment, or nil for segment types that are
	// tolerated but not interpreted
	Content SegmentContent
}

// End returns the offset one past the last byte of the segment
func (m *Marker) End() int {
	return m.Offset + m.Length
}

// HexCode returns the code formatted as 0xFFxx
func (m *Marker) HexCode() string {
	return fmt.Sprintf("0x%04X", m.Code)
}

func (m *Marker) String() string {
	name := "?"
	if m.Descriptor != nil {
		name = m.Descriptor.ShortName
	}
	return fmt.Sprintf("%s %s @%d+%d", m.HexCode(), name, m.Offset, m.Length)
}

// SegmentContent is the parsed payload of a segment. It is implemented by
// *APP0, Comment, *QuantizationTable, *FrameHeader, HuffmanTables,
// *ScanHeader and RestartInterval.
type SegmentContent interface {
	segmentContent()
}

func (*APP0) segmentContent()              {}
func (Comment) segmentContent()            {}
func (*QuantizationTable) segmentContent() {}
func (*FrameHeader) segmentContent()       {}
func (HuffmanTables) segmentContent()      {}
func (*ScanHeader) segmentContent()        {}
func (RestartInterval) segmentContent()    {}

// EntropySegment is the byte range of entropy-coded data following SOS
type EntropySegment struct {
	Offset int
	Length int
}

// End returns the offset one past the last entropy-coded byte
func (e EntropySegment) End() int {
	return e.Offset + e.Length
}
