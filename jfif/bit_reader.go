package jfif

// BitReader reads bits most-significant first from de-stuffed scan data.
// One byte is buffered at a time and all eight of its bits are delivered
// before the next byte is loaded.
type BitReader struct {
	data     []byte
	pos      int  // index of the next byte to load
	current  byte // the loaded byte
	bitsLeft uint // unread bits of current
}

// NewBitReader creates a new BitReader over data
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

// ReadBit reads a single bit
func (r *BitReader) ReadBit() (uint16, error) {
	if r.bitsLeft == 0 {
		if r.pos >= len(r.data) {
			return 0, NewJfifError(KindBitstreamExhausted, "no more bits left in bitstream")
		}
		r.current = r.data[r.pos]
		r.pos++
		r.bitsLeft = 8
	}
	r.bitsLeft--
	return uint16(r.current>>r.bitsLeft) & 1, nil
}

// ReadBits reads n bits (0 <= n <= 16) and returns them right-aligned
func (r *BitReader) ReadBits(n uint) (uint16, error) {
	var value uint16
	for i := uint(0); i < n; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		value = value<<1 | bit
	}
	return value, nil
}

// Position returns the number of bits consumed so far
func (r *BitReader) Position() int {
	return r.pos*8 - int(r.bitsLeft)
}

// Len returns the total number of bits in the stream
func (r *BitReader) Len() int {
	return len(r.data) * 8
}

// Exhausted reports whether every bit has been consumed
func (r *BitReader) Exhausted() bool {
	return r.bitsLeft == 0 && r.pos >= len(r.data)
}
