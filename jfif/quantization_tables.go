package jfif

// QuantizationTable is the content of a DQT segment
type QuantizationTable struct {
	// HasWords is true for 16-bit entries, false for 8-bit entries
	HasWords bool

	// Destination is the table slot (0-3) referenced by frame components
	Destination uint8

	// Values holds the 64 entries in zig-zag order
	Values [BlockSize]uint16
}

// Raster returns the table in natural row-major 8x8 order
func (q *QuantizationTable) Raster() [BlockSize]uint16 {
	var out [BlockSize]uint16
	for i := 0; i < BlockSize; i++ {
		out[ZigzagToRaster[i]] = q.Values[i]
	}
	return out
}

// Precision returns the entry size in bits
func (q *QuantizationTable) Precision() int {
	if q.HasWords {
		return 16
	}
	return 8
}

// QuantizationTableSet holds the most recent table per destination
type QuantizationTableSet [MaxQuantizationTables]*QuantizationTable

// DequantizedBlock holds the products of a block and its quantization
// table in zig-zag order. 16-bit tables times 32-bit coefficients need
// more than 32 bits.
type DequantizedBlock [BlockSize]int64

// Dequantize multiplies a zig-zag block by the table entries, producing
// coefficients ready for an inverse DCT
func (q *QuantizationTable) Dequantize(block *Block) DequantizedBlock {
	var out DequantizedBlock
	for i := 0; i < BlockSize; i++ {
		out[i] = int64(block[i]) * int64(q.Values[i])
	}
	return out
}

// Raster returns the block in natural row-major 8x8 order
func (b *DequantizedBlock) Raster() [BlockSize]int64 {
	var out [BlockSize]int64
	for i := 0; i < BlockSize; i++ {
		out[ZigzagToRaster[i]] = b[i]
	}
	return out
}
