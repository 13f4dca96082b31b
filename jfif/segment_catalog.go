package jfif

import "fmt"

// SegmentDescriptor is the static description of a known marker code
type SegmentDescriptor struct {
	// Code is the two byte marker code, including the 0xFF prefix
	Code uint16

	// FixedSize is true when every segment of this type has the same length
	FixedSize bool

	// HasLength is true when a two byte length field follows the code
	HasLength bool

	// Size is the fixed length, or the minimum length, including the code
	Size int

	// ShortName is the abbreviation used in segment tables, e.g. "DQT"
	ShortName string

	// Name is the human readable name
	Name string

	// Unsupported marks frame and coding variants this decoder rejects
	Unsupported bool
}

// HexCode returns the code formatted as 0xFFxx
func (d *SegmentDescriptor) HexCode() string {
	return fmt.Sprintf("0x%04X", d.Code)
}

func (d *SegmentDescriptor) String() string {
	return d.ShortName
}

var segmentCatalog = []SegmentDescriptor{
	{Code: MarkerSOF0, HasLength: true, Size: 2, ShortName: "SOF0", Name: "Start Of Frame (baseline DCT)"},
	{Code: MarkerSOF1, HasLength: true, Size: 2, ShortName: "SOF1", Name: "Start Of Frame (extended sequential DCT)", Unsupported: true},
	{Code: MarkerSOF2, HasLength: true, Size: 2, ShortName: "SOF2", Name: "Start Of Frame (progressive DCT)", Unsupported: true},
	{Code: 0xFFC3, HasLength: true, Size: 2, ShortName: "SOF3", Name: "Start Of Frame (lossless)", Unsupported: true},
	{Code: MarkerDHT, HasLength: true, Size: 2, ShortName: "DHT", Name: "Define Huffman Table(s)"},
	{Code: 0xFFC5, HasLength: true, Size: 2, ShortName: "SOF5", Name: "Start Of Frame (differential sequential DCT)", Unsupported: true},
	{Code: 0xFFC6, HasLength: true, Size: 2, ShortName: "SOF6", Name: "Start Of Frame (differential progressive DCT)", Unsupported: true},
	{Code: 0xFFC7, HasLength: true, Size: 2, ShortName: "SOF7", Name: "Start Of Frame (differential lossless)", Unsupported: true},
	{Code: MarkerJPG, HasLength: true, Size: 2, ShortName: "JPG", Name: "JPEG extensions", Unsupported: true},
	{Code: 0xFFC9, HasLength: true, Size: 2, ShortName: "SOF9", Name: "Start Of Frame (arithmetic sequential DCT)", Unsupported: true},
	{Code: 0xFFCA, HasLength: true, Size: 2, ShortName: "SOF10", Name: "Start Of Frame (arithmetic progressive DCT)", Unsupported: true},
	{Code: 0xFFCB, HasLength: true, Size: 2, ShortName: "SOF11", Name: "Start Of Frame (arithmetic lossless)", Unsupported: true},
	{Code: MarkerDAC, HasLength: true, Size: 2, ShortName: "DAC", Name: "Define Arithmetic Coding", Unsupported: true},
	{Code: 0xFFCD, HasLength: true, Size: 2, ShortName: "SOF13", Name: "Start Of Frame (arithmetic differential sequential DCT)", Unsupported: true},
	{Code: 0xFFCE, HasLength: true, Size: 2, ShortName: "SOF14", Name: "Start Of Frame (arithmetic differential progressive DCT)", Unsupported: true},
	{Code: 0xFFCF, HasLength: true, Size: 2, ShortName: "SOF15", Name: "Start Of Frame (arithmetic differential lossless)", Unsupported: true},

	{Code: MarkerSOI, FixedSize: true, Size: 2, ShortName: "SOI", Name: "Start Of Image"},
	{Code: MarkerEOI, FixedSize: true, Size: 2, ShortName: "EOI", Name: "End Of Image"},
	{Code: MarkerSOS, Size: 10, ShortName: "SOS", Name: "Start Of Scan"},
	{Code: MarkerDQT, HasLength: true, Size: 2, ShortName: "DQT", Name: "Define Quantization Table"},
	{Code: MarkerDRI, HasLength: true, Size: 6, ShortName: "DRI", Name: "Define Restart Interval"},
	{Code: MarkerCOM, HasLength: true, Size: 2, ShortName: "COM", Name: "Comment"},

	{Code: 0xFFE0, HasLength: true, Size: 2, ShortName: "APP0", Name: "JFIF header"},
	{Code: 0xFFE1, HasLength: true, Size: 2, ShortName: "APP1", Name: "EXIF header"},
	{Code: 0xFFE2, HasLength: true, Size: 2, ShortName: "APP2", Name: "EXIF header (flashpix)"},
	{Code: 0xFFED, HasLength: true, Size: 2, ShortName: "APP13", Name: "Adobe Photoshop header"},
	{Code: 0xFFEE, HasLength: true, Size: 2, ShortName: "APP14", Name: "Copyright header"},
}

// catalogIndex maps a marker code to its descriptor. Built once at init.
var catalogIndex map[uint16]*SegmentDescriptor

func init() {
	// RST0..RST7 and the generic APPn entries follow a regular pattern
	for n := uint16(0); n < 8; n++ {
		segmentCatalog = append(segmentCatalog, SegmentDescriptor{
			Code:      MarkerRST0 + n,
			FixedSize: true,
			Size:      2,
			ShortName: fmt.Sprintf("RST%d", n),
			Name:      "Restart",
		})
	}
	for n := uint16(3); n < 16; n++ {
		if n == 13 || n == 14 {
			continue
		}
		segmentCatalog = append(segmentCatalog, SegmentDescriptor{
			Code:      MarkerAPP0 + n,
			HasLength: true,
			Size:      2,
			ShortName: fmt.Sprintf("APP%d", n),
			Name:      "App specific",
		})
	}

	catalogIndex = make(map[uint16]*SegmentDescriptor, len(segmentCatalog))
	for i := range segmentCatalog {
		catalogIndex[segmentCatalog[i].Code] = &segmentCatalog[i]
	}
}

// LookupSegment returns the descriptor for a marker code, or nil if the
// code is not a known segment type
func LookupSegment(code uint16) *SegmentDescriptor {
	return catalogIndex[code]
}

// KnownSegments returns every catalog entry, in catalog order
func KnownSegments() []SegmentDescriptor {
	out := make([]SegmentDescriptor, len(segmentCatalog))
	copy(out, segmentCatalog)
	return out
}
