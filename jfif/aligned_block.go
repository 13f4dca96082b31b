package jfif

// Block holds the 64 quantized DCT coefficients of one 8x8 block in
// zig-zag order, DC first
type Block [BlockSize]int32

// DC returns the DC coefficient
func (b *Block) DC() int32 {
	return b[0]
}

// Raster returns the coefficients in natural row-major order
func (b *Block) Raster() [BlockSize]int32 {
	var out [BlockSize]int32
	for i := 0; i < BlockSize; i++ {
		out[ZigzagToRaster[i]] = b[i]
	}
	return out
}

// LastNonZero returns the zig-zag index of the last non-zero coefficient,
// or -1 for an all-zero block
func (b *Block) LastNonZero() int {
	for i := BlockSize - 1; i >= 0; i-- {
		if b[i] != 0 {
			return i
		}
	}
	return -1
}
