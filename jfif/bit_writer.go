package jfif

// BitWriter writes bits most-significant first to a byte buffer, stuffing a
// 0x00 after every 0xFF so the output can be embedded in a scan
type BitWriter struct {
	dataBuffer   []byte
	fillRegister uint64
	currentBit   uint32
}

// NewBitWriter creates a new BitWriter with the given initial buffer capacity
func NewBitWriter(initialCapacity int) *BitWriter {
	return &BitWriter{
		dataBuffer: make([]byte, 0, initialCapacity),
		currentBit: 64,
	}
}

// Write writes the low numBits bits of val (numBits <= 32)
func (w *BitWriter) Write(val uint32, numBits uint32) {
	if numBits == 0 {
		return
	}
	val &= uint32(uint64(1)<<numBits - 1)

	// whole bytes are flushed after every write, so at least 57 bits are
	// free and 32 always fit
	w.fillRegister |= uint64(val) << (w.currentBit - numBits)
	w.currentBit -= numBits
	w.flushWholeBytes()
}

// Pad fills the partial last byte with 1 bits, as scans are padded
func (w *BitWriter) Pad() {
	if rem := (64 - w.currentBit) & 7; rem != 0 {
		w.Write(0xFF, 8-rem)
	}
}

// flushWholeBytes flushes complete bytes from the register to the buffer
func (w *BitWriter) flushWholeBytes() {
	for w.currentBit <= 56 {
		b := byte(w.fillRegister >> 56)
		w.dataBuffer = append(w.dataBuffer, b)
		if b == 0xFF {
			w.dataBuffer = append(w.dataBuffer, 0x00) // Escape FF
		}
		w.fillRegister <<= 8
		w.currentBit += 8
	}
}

// DetachBuffer returns the buffer and resets the writer. Bits of an
// unfinished byte are dropped; call Pad first.
func (w *BitWriter) DetachBuffer() []byte {
	result := w.dataBuffer
	w.dataBuffer = nil
	w.fillRegister = 0
	w.currentBit = 64
	return result
}

// HasNoRemainder returns true if there are no bits waiting to be written
func (w *BitWriter) HasNoRemainder() bool {
	return w.currentBit == 64
}

// Len returns the current length of the buffer
func (w *BitWriter) Len() int {
	return len(w.dataBuffer)
}
