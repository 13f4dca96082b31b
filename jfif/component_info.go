package jfif

import "fmt"

// MaxComponents is the maximum number of components in a scan
const MaxComponents = 4

// ComponentInfo holds the block geometry and table assignment of one scan
// component
type ComponentInfo struct {
	// ID is the frame component identifier
	ID uint8

	// FrameIndex is the position of the component in the frame header
	FrameIndex int

	// Sfh is the horizontal sampling factor
	Sfh int

	// Sfv is the vertical sampling factor
	Sfv int

	// Mbs is the number of blocks in one MCU
	Mbs int

	// Bch is the block count horizontal (interleaved, padded to whole MCUs)
	Bch int

	// Bcv is the block count vertical (interleaved, padded to whole MCUs)
	Bcv int

	// Nch is the block count horizontal (non-interleaved)
	Nch int

	// Ncv is the block count vertical (non-interleaved)
	Ncv int

	// HuffDC is the DC Huffman table
	HuffDC *HuffmanTable

	// HuffAC is the AC Huffman table
	HuffAC *HuffmanTable
}

// newComponentInfo derives the geometry of a scan component from the frame
// and looks up its tables
func newComponentInfo(frame *FrameHeader, sc ScanComponent, tables *HuffmanTableSet) (*ComponentInfo, error) {
	fc, index := frame.Component(sc.ID)
	if fc == nil {
		return nil, NewJfifError(KindMalformedSegment,
			fmt.Sprintf("scan component %d is not declared by the frame", sc.ID))
	}
	if fc.HorizontalSampling == 0 || fc.VerticalSampling == 0 {
		return nil, NewJfifError(KindMalformedSegment,
			fmt.Sprintf("component %d has zero sampling factor %dx%d", sc.ID, fc.HorizontalSampling, fc.VerticalSampling))
	}

	if sc.DCTable >= ACTableOffset {
		return nil, NewJfifError(KindWrongTableKind,
			fmt.Sprintf("component %d uses table %d for DC, which is an AC id", sc.ID, sc.DCTable))
	}
	if sc.ACTable < ACTableOffset || sc.ACTable >= MaxHuffmanTables {
		return nil, NewJfifError(KindWrongTableKind,
			fmt.Sprintf("component %d uses table %d for AC, which is not an AC id", sc.ID, sc.ACTable))
	}

	dc, ac := tables[sc.DCTable], tables[sc.ACTable]
	if dc == nil {
		return nil, NewJfifError(KindMissingTable,
			fmt.Sprintf("DC table %d used by component %d is not defined", sc.DCTable, sc.ID))
	}
	if ac == nil {
		return nil, NewJfifError(KindMissingTable,
			fmt.Sprintf("AC table %d used by component %d is not defined", sc.ACTable-ACTableOffset, sc.ID))
	}

	maxH, maxV := frame.MaxSampling()
	mcuh, mcuv := frame.McuCounts()

	ci := &ComponentInfo{
		ID:         sc.ID,
		FrameIndex: index,
		Sfh:        int(fc.HorizontalSampling),
		Sfv:        int(fc.VerticalSampling),
		HuffDC:     dc,
		HuffAC:     ac,
	}
	ci.Mbs = ci.Sfh * ci.Sfv
	ci.Bch = mcuh * ci.Sfh
	ci.Bcv = mcuv * ci.Sfv

	// component dimensions in pixels scale with the sampling factor
	compW := ceilDiv(int(frame.Width)*ci.Sfh, int(maxH))
	compH := ceilDiv(int(frame.Height)*ci.Sfv, int(maxV))
	ci.Nch = ceilDiv(compW, 8)
	ci.Ncv = ceilDiv(compH, 8)

	return ci, nil
}

// GetBlockWidth returns the width of the decoded component in blocks
func (c *ComponentInfo) GetBlockWidth(interleaved bool) int {
	if interleaved {
		return c.Bch
	}
	return c.Nch
}

// GetBlockHeight returns the height of the decoded component in blocks
func (c *ComponentInfo) GetBlockHeight(interleaved bool) int {
	if interleaved {
		return c.Bcv
	}
	return c.Ncv
}
