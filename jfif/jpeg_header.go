package jfif

import "fmt"

// FrameHeader is the content of a baseline SOF0 segment
type FrameHeader struct {
	// Precision is the sample precision in bits
	Precision uint8

	// Height is the image height in pixels
	Height uint16

	// Width is the image width in pixels
	Width uint16

	// Components lists the color components in frame order
	Components []FrameComponent
}

// FrameComponent describes one color component of the frame
type FrameComponent struct {
	ID                 uint8
	VerticalSampling   uint8
	HorizontalSampling uint8

	// QuantizationTable is the DQT destination used by this component
	QuantizationTable uint8
}

// ScanHeader is the content of an SOS segment
type ScanHeader struct {
	// Components lists the scan components in the order their blocks
	// appear in the entropy-coded data
	Components []ScanComponent

	// Spectral selection and successive approximation. Baseline scans
	// always carry 0, 63, 0, 0.
	SpectralStart uint8
	SpectralEnd   uint8
	ApproxHigh    uint8
	ApproxLow     uint8
}

// ScanComponent assigns Huffman tables to a frame component for one scan
type ScanComponent struct {
	ID uint8

	// DCTable is a DC table id (0-15)
	DCTable uint8

	// ACTable is an AC table id, already offset into the 16-31 range
	ACTable uint8
}

// Component returns the frame component with the given identifier and
// its index, or nil and -1 if the frame has no such component
func (f *FrameHeader) Component(id uint8) (*FrameComponent, int) {
	for i := range f.Components {
		if f.Components[i].ID == id {
			return &f.Components[i], i
		}
	}
	return nil, -1
}

// MaxSampling returns the largest horizontal and vertical sampling factors
func (f *FrameHeader) MaxSampling() (h, v uint8) {
	for _, c := range f.Components {
		if c.HorizontalSampling > h {
			h = c.HorizontalSampling
		}
		if c.VerticalSampling > v {
			v = c.VerticalSampling
		}
	}
	return h, v
}

// McuCounts returns the number of MCUs per row and per column of an
// interleaved scan. Each MCU covers 8*Hmax by 8*Vmax pixels.
func (f *FrameHeader) McuCounts() (mcuh, mcuv int) {
	maxH, maxV := f.MaxSampling()
	if maxH == 0 || maxV == 0 {
		return 0, 0
	}
	return ceilDiv(int(f.Width), 8*int(maxH)), ceilDiv(int(f.Height), 8*int(maxV))
}

func (f *FrameHeader) String() string {
	return fmt.Sprintf("%dx%d, %d-bit, %d components", f.Width, f.Height, f.Precision, len(f.Components))
}

// Interleaved reports whether the scan codes blocks of several components
// in MCU order
func (s *ScanHeader) Interleaved() bool {
	return len(s.Components) > 1
}

// IsBaseline reports whether the spectral selection and approximation
// parameters are those of a sequential baseline scan
func (s *ScanHeader) IsBaseline() bool {
	return s.SpectralStart == 0 && s.SpectralEnd == BlockSize-1 && s.ApproxHigh == 0 && s.ApproxLow == 0
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
