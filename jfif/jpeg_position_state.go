package jfif

// JpegDecodeStatus is the result of advancing to the next block
type JpegDecodeStatus int

const (
	DecodeInProgress JpegDecodeStatus = iota
	ScanCompleted
)

// JpegPositionState keeps track of the block being decoded in a scan
type JpegPositionState struct {
	components  []*ComponentInfo
	interleaved bool

	// mcuh and mcuc are the MCUs per row and the MCU count (interleaved)
	mcuh int
	mcuc int

	// csc is the index of the component within the scan
	csc int

	// mcu is the current minimum coded unit
	mcu int

	// sub is the block offset within the component's part of the MCU
	sub int

	// dpos is the block index within the component (non-interleaved)
	dpos int
}

// NewJpegPositionState positions the walk on the first block of the scan
func NewJpegPositionState(frame *FrameHeader, components []*ComponentInfo) *JpegPositionState {
	mcuh, mcuv := frame.McuCounts()
	return &JpegPositionState{
		components:  components,
		interleaved: len(components) > 1,
		mcuh:        mcuh,
		mcuc:        mcuh * mcuv,
	}
}

// Empty reports whether the scan contains no blocks at all
func (s *JpegPositionState) Empty() bool {
	if s.interleaved {
		return s.mcuc == 0
	}
	ci := s.components[0]
	return ci.Nch*ci.Ncv == 0
}

// GetCsc returns the index of the current component within the scan
func (s *JpegPositionState) GetCsc() int {
	return s.csc
}

// GetMcu returns the current MCU
func (s *JpegPositionState) GetMcu() int {
	if s.interleaved {
		return s.mcu
	}
	return s.dpos
}

// BlockXY returns the column and row of the current block in its
// component's block grid
func (s *JpegPositionState) BlockXY() (x, y int) {
	ci := s.components[s.csc]
	if !s.interleaved {
		return s.dpos % ci.Nch, s.dpos / ci.Nch
	}

	// blocks inside an MCU are in raster order, Sfh per row
	mcuX, mcuY := s.mcu%s.mcuh, s.mcu/s.mcuh
	return mcuX*ci.Sfh + s.sub%ci.Sfh, mcuY*ci.Sfv + s.sub/ci.Sfh
}

// NextMcuPos advances to the next block of the scan
func (s *JpegPositionState) NextMcuPos() JpegDecodeStatus {
	// if there is just one component, go the simple route
	if !s.interleaved {
		ci := s.components[0]
		s.dpos++
		if s.dpos >= ci.Nch*ci.Ncv {
			return ScanCompleted
		}
		return DecodeInProgress
	}

	s.sub++
	if s.sub < s.components[s.csc].Mbs {
		return DecodeInProgress
	}

	s.sub = 0
	s.csc++
	if s.csc < len(s.components) {
		return DecodeInProgress
	}

	s.csc = 0
	s.mcu++
	if s.mcu >= s.mcuc {
		return ScanCompleted
	}
	return DecodeInProgress
}
