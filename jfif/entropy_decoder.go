package jfif

import (
	"errors"
	"fmt"
)

// maxCoefficientBits bounds the magnitude category of a baseline coefficient
const maxCoefficientBits = 16

// minBlockBits is the shortest coded block: a 1-bit DC code for a zero
// difference followed by a 1-bit end of block
const minBlockBits = 2

// scanDecoder holds the state of one DecodeScan call
type scanDecoder struct {
	bitReader  *BitReader
	components []*ComponentInfo

	// lastDC is the DC predictor of each scan component, 0 at scan start
	lastDC [MaxComponents]int32
}

// DecodeScan decodes the de-stuffed entropy-coded data of a baseline scan
// into one block grid per scan component, in scan component order.
//
// A single-component scan codes ceil(w/8) x ceil(h/8) blocks of its
// component in raster order. A scan with several components codes MCUs in
// raster order; each MCU holds Sfh x Sfv blocks of every component in turn,
// and the component grids are padded to whole MCUs.
func DecodeScan(payload []byte, frame *FrameHeader, scan *ScanHeader, tables *HuffmanTableSet) ([]*BlockBasedImage, error) {
	if len(scan.Components) == 0 || len(scan.Components) > MaxComponents {
		return nil, NewJfifError(KindMalformedSegment,
			fmt.Sprintf("scan has %d components", len(scan.Components)))
	}

	d := &scanDecoder{bitReader: NewBitReader(payload)}
	for _, sc := range scan.Components {
		ci, err := newComponentInfo(frame, sc, tables)
		if err != nil {
			return nil, err
		}
		d.components = append(d.components, ci)
	}

	interleaved := scan.Interleaved()
	total := 0
	for _, ci := range d.components {
		total += ci.GetBlockWidth(interleaved) * ci.GetBlockHeight(interleaved)
	}
	if available := len(payload) * 8; total*minBlockBits > available {
		return nil, NewJfifError(KindTruncatedScan,
			fmt.Sprintf("%d blocks need at least %d bits, scan data holds %d", total, total*minBlockBits, available))
	}

	images := make([]*BlockBasedImage, len(d.components))
	for i, ci := range d.components {
		images[i] = NewBlockBasedImage(ci.ID, ci.GetBlockWidth(interleaved), ci.GetBlockHeight(interleaved))
	}

	state := NewJpegPositionState(frame, d.components)
	if state.Empty() {
		return images, nil
	}

	for {
		csc := state.GetCsc()
		x, y := state.BlockXY()

		block, err := d.decodeBlockSeq(csc)
		if err != nil {
			if errors.Is(err, ErrBitstreamExhausted) {
				return nil, NewJfifError(KindTruncatedScan,
					fmt.Sprintf("scan data ends inside block (%d,%d) of component %d, MCU %d",
						x, y, d.components[csc].ID, state.GetMcu()))
			}
			return nil, err
		}
		images[csc].Set(x, y, block)

		if state.NextMcuPos() == ScanCompleted {
			break
		}
	}

	return images, nil
}

// decodeBlockSeq decodes one block of the given scan component and applies
// DC prediction
func (d *scanDecoder) decodeBlockSeq(csc int) (Block, error) {
	var block Block
	ci := d.components[csc]

	// Decode DC coefficient
	diff, err := d.readDC(ci.HuffDC)
	if err != nil {
		return block, err
	}
	d.lastDC[csc] += diff
	block[0] = d.lastDC[csc]

	// Decode AC coefficients
	pos := 1
	for pos < BlockSize {
		z, coef, isEOB, err := d.readACCoef(ci.HuffAC)
		if err != nil {
			return block, err
		}

		if isEOB {
			break
		}

		pos += z
		if pos >= BlockSize {
			break
		}
		block[pos] = coef
		pos++
	}

	return block, nil
}

// readDC reads a DC difference
func (d *scanDecoder) readDC(table *HuffmanTable) (int32, error) {
	if table.IsAC() {
		return 0, NewJfifError(KindWrongTableKind, fmt.Sprintf("table %d is not a DC table", table.ID))
	}

	size, err := table.Decode(d.bitReader)
	if err != nil {
		return 0, err
	}
	if size > maxCoefficientBits {
		return 0, NewJfifError(KindInvalidHuffmanCode,
			fmt.Sprintf("DC table %d yields difference size %d", table.ID, size))
	}

	bits, err := d.bitReader.ReadBits(uint(size))
	if err != nil {
		return 0, err
	}
	return DecodeVLI(bits, uint(size)), nil
}

// readACCoef reads one run-length pair and its coefficient. It returns the
// number of zeros to skip, the coefficient and whether the block ended.
func (d *scanDecoder) readACCoef(table *HuffmanTable) (int, int32, bool, error) {
	if !table.IsAC() {
		return 0, 0, false, NewJfifError(KindWrongTableKind, fmt.Sprintf("table %d is not an AC table", table.ID))
	}

	symbol, err := table.Decode(d.bitReader)
	if err != nil {
		return 0, 0, false, err
	}

	pair := RunLengthPair(symbol)
	if pair.EndOfBlock() {
		return 0, 0, true, nil
	}

	// (15,0) is a run of 16 zeros: 15 skipped and one zero coefficient
	bits, err := d.bitReader.ReadBits(pair.Size())
	if err != nil {
		return 0, 0, false, err
	}
	return pair.Run(), DecodeVLI(bits, pair.Size()), false, nil
}
