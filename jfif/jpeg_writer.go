package jfif

import "fmt"

// HuffmanEncodeTable contains precomputed codes and lengths for encoding
type HuffmanEncodeTable struct {
	codes   [256]uint16
	lengths [256]uint8
	id      uint8
}

// buildEncodeTable builds a Huffman encoding table from a decode table
func buildEncodeTable(table *HuffmanTable) *HuffmanEncodeTable {
	enc := &HuffmanEncodeTable{id: table.ID}
	for _, c := range table.Codes() {
		enc.codes[c.Symbol] = uint16(c.Code)
		enc.lengths[c.Symbol] = uint8(c.Length)
	}
	return enc
}

// scanEncoder is the inverse of scanDecoder
type scanEncoder struct {
	bitWriter *BitWriter
	dcCodes   [MaxComponents]*HuffmanEncodeTable
	acCodes   [MaxComponents]*HuffmanEncodeTable
	lastDC    [MaxComponents]int32
}

// EncodeScan Huffman codes block grids laid out as DecodeScan returns them
// and returns byte-stuffed entropy-coded data, padded with 1 bits. Encoding
// the output of DecodeScan with the same headers and tables reproduces the
// original scan data of files that use the usual encoder conventions.
func EncodeScan(images []*BlockBasedImage, frame *FrameHeader, scan *ScanHeader, tables *HuffmanTableSet) ([]byte, error) {
	if len(scan.Components) == 0 || len(scan.Components) > MaxComponents {
		return nil, NewJfifError(KindMalformedSegment,
			fmt.Sprintf("scan has %d components", len(scan.Components)))
	}
	if len(images) != len(scan.Components) {
		return nil, fmt.Errorf("scan has %d components but %d block grids were given",
			len(scan.Components), len(images))
	}

	e := &scanEncoder{bitWriter: NewBitWriter(65536)}
	components := make([]*ComponentInfo, len(scan.Components))
	interleaved := scan.Interleaved()
	for i, sc := range scan.Components {
		ci, err := newComponentInfo(frame, sc, tables)
		if err != nil {
			return nil, err
		}
		img := images[i]
		if img.BlockWidth() != ci.GetBlockWidth(interleaved) || img.BlockHeight() != ci.GetBlockHeight(interleaved) {
			return nil, fmt.Errorf("component %d needs %dx%d blocks, grid has %dx%d", ci.ID,
				ci.GetBlockWidth(interleaved), ci.GetBlockHeight(interleaved), img.BlockWidth(), img.BlockHeight())
		}
		components[i] = ci
		e.dcCodes[i] = buildEncodeTable(ci.HuffDC)
		e.acCodes[i] = buildEncodeTable(ci.HuffAC)
	}

	state := NewJpegPositionState(frame, components)
	if !state.Empty() {
		for {
			csc := state.GetCsc()
			x, y := state.BlockXY()
			if err := e.writeBlock(images[csc].At(x, y), csc); err != nil {
				return nil, err
			}
			if state.NextMcuPos() == ScanCompleted {
				break
			}
		}
	}

	e.bitWriter.Pad()
	return e.bitWriter.DetachBuffer(), nil
}

// writeBlock encodes one block of the given scan component
func (e *scanEncoder) writeBlock(block *Block, csc int) error {
	// Encode DC coefficient (differential)
	dcDiff := block[0] - e.lastDC[csc]
	e.lastDC[csc] = block[0]
	if err := e.writeCoef(e.dcCodes[csc], dcDiff, 0); err != nil {
		return err
	}

	// Encode AC coefficients
	zeroRunLength := 0
	for i := 1; i < BlockSize; i++ {
		coef := block[i]
		if coef == 0 {
			zeroRunLength++
			continue
		}

		// Before encoding this non-zero coefficient, emit ZRL codes for any runs >= 16
		for zeroRunLength >= 16 {
			if err := e.writeSymbol(e.acCodes[csc], 0xF0); err != nil {
				return err
			}
			zeroRunLength -= 16
		}

		if err := e.writeCoef(e.acCodes[csc], coef, zeroRunLength); err != nil {
			return err
		}
		zeroRunLength = 0
	}

	// If block ends with zeros (or is all zeros), write EOB
	if zeroRunLength > 0 {
		return e.writeSymbol(e.acCodes[csc], 0x00)
	}
	return nil
}

// writeCoef writes the symbol for a coefficient and its VLI bits
func (e *scanEncoder) writeCoef(table *HuffmanEncodeTable, coef int32, zeroRunLength int) error {
	limit := uint(maxCoefficientBits)
	if table.id >= ACTableOffset {
		// the size shares the symbol byte with the run
		limit = 15
	}
	bits, category := EncodeVLI(coef)
	if category > limit {
		return fmt.Errorf("coefficient %d is out of range", coef)
	}

	if err := e.writeSymbol(table, uint8(zeroRunLength<<4)|uint8(category)); err != nil {
		return err
	}
	e.bitWriter.Write(uint32(bits), uint32(category))
	return nil
}

// writeSymbol writes the Huffman code of a symbol
func (e *scanEncoder) writeSymbol(table *HuffmanEncodeTable, symbol uint8) error {
	if table.lengths[symbol] == 0 {
		return NewJfifError(KindInvalidHuffmanCode,
			fmt.Sprintf("table %d has no code for symbol 0x%02x", table.id, symbol))
	}
	e.bitWriter.Write(uint32(table.codes[symbol]), uint32(table.lengths[symbol]))
	return nil
}
