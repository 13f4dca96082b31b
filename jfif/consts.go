// Package jfif parses the segment structure of JPEG/JFIF files and decodes
// baseline entropy-coded scans into DCT coefficient blocks.
package jfif

// JPEG marker codes, including the 0xFF prefix
const (
	MarkerSOF0  uint16 = 0xFFC0 // Baseline DCT
	MarkerSOF1  uint16 = 0xFFC1 // Extended Sequential DCT
	MarkerSOF2  uint16 = 0xFFC2 // Progressive DCT
	MarkerDHT   uint16 = 0xFFC4 // Define Huffman Table
	MarkerJPG   uint16 = 0xFFC8 // JPEG extensions
	MarkerDAC   uint16 = 0xFFCC // Define Arithmetic Coding
	MarkerRST0  uint16 = 0xFFD0 // Restart marker 0
	MarkerRST7  uint16 = 0xFFD7 // Restart marker 7
	MarkerSOI   uint16 = 0xFFD8 // Start Of Image
	MarkerEOI   uint16 = 0xFFD9 // End Of Image
	MarkerSOS   uint16 = 0xFFDA // Start Of Scan
	MarkerDQT   uint16 = 0xFFDB // Define Quantization Table
	MarkerDRI   uint16 = 0xFFDD // Define Restart Interval
	MarkerAPP0  uint16 = 0xFFE0 // Application Segment 0 (JFIF)
	MarkerAPP15 uint16 = 0xFFEF // Application Segment 15
	MarkerCOM   uint16 = 0xFFFE // Comment
)

const (
	// BlockSize is the number of coefficients in an 8x8 block
	BlockSize = 64

	// MaxHuffmanCodeLength is the longest code a DHT segment can declare
	MaxHuffmanCodeLength = 16

	// MaxHuffmanTables is the size of the combined DC (0-15) and AC (16-31) id space
	MaxHuffmanTables = 32

	// ACTableOffset separates AC table ids from DC table ids
	ACTableOffset = 16

	// MaxQuantizationTables is the number of DQT destinations
	MaxQuantizationTables = 4
)

// ZigzagToRaster maps zig-zag storage order to natural row-major order
var ZigzagToRaster = [BlockSize]uint8{
	0, 1, 8, 16, 9, 2, 3, 10, 17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34, 27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36, 29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46, 53, 60, 61, 54, 47, 55, 62, 63,
}

// RasterToZigzag maps raster order to zigzag order
var RasterToZigzag = [BlockSize]uint8{
	0, 1, 5, 6, 14, 15, 27, 28, 2, 4, 7, 13, 16, 26, 29, 42,
	3, 8, 12, 17, 25, 30, 41, 43, 9, 11, 18, 24, 31, 40, 44, 53,
	10, 19, 23, 32, 39, 45, 52, 54, 20, 22, 33, 38, 46, 51, 55, 60,
	21, 34, 37, 47, 50, 56, 59, 61, 35, 36, 48, 49, 57, 58, 62, 63,
}

// isRestartCode reports whether b is the second byte of an RSTn marker
func isRestartCode(b byte) bool {
	return b >= byte(MarkerRST0&0xFF) && b <= byte(MarkerRST7&0xFF)
}
