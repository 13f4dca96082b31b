package jfif

import (
	"github.com/golang/glog"
)

// Options controls how far Parse goes
type Options struct {
	// SkipEntropyDecode stops after the segment table has been built and
	// validated; no coefficients are decoded
	SkipEntropyDecode bool
}

// Container is a parsed JFIF file: its segment table and, unless skipped,
// the decoded coefficient blocks of its scan
type Container struct {
	data    []byte
	markers []*Marker
	entropy EntropySegment

	frame       *FrameHeader
	scan        *ScanHeader
	restart     RestartInterval
	huffman     HuffmanTableSet
	quantTables QuantizationTableSet
	payload     []byte
	components  []*BlockBasedImage
}

// segmentParser parses the bytes of one segment into its content
type segmentParser func(data []byte) (SegmentContent, error)

var segmentParsers = map[uint16]segmentParser{
	MarkerAPP0: func(data []byte) (SegmentContent, error) {
		app, err := ParseAPP0(data)
		if err != nil {
			return nil, err
		}
		return app, nil
	},
	MarkerCOM: func(data []byte) (SegmentContent, error) {
		com, err := ParseCOM(data)
		if err != nil {
			return nil, err
		}
		return com, nil
	},
	MarkerDQT: func(data []byte) (SegmentContent, error) {
		qt, err := ParseDQT(data)
		if err != nil {
			return nil, err
		}
		return qt, nil
	},
	MarkerSOF0: func(data []byte) (SegmentContent, error) {
		frame, err := ParseSOF0(data)
		if err != nil {
			return nil, err
		}
		return frame, nil
	},
	MarkerDHT: func(data []byte) (SegmentContent, error) {
		tables, err := ParseDHT(data)
		if err != nil {
			return nil, err
		}
		return tables, nil
	},
	MarkerSOS: func(data []byte) (SegmentContent, error) {
		scan, err := ParseSOS(data)
		if err != nil {
			return nil, err
		}
		return scan, nil
	},
	MarkerDRI: func(data []byte) (SegmentContent, error) {
		ri, err := ParseDRI(data)
		if err != nil {
			return nil, err
		}
		return ri, nil
	},
}

// Parse parses data with default options
func Parse(data []byte) (*Container, error) {
	return ParseWithOptions(data, Options{})
}

// ParseWithOptions scans the segments of data, parses their contents and
// decodes the scan. Inputs shorter than 4 bytes yield an empty container.
// Any failure aborts the parse and no container is returned.
func ParseWithOptions(data []byte, opts Options) (*Container, error) {
	c := &Container{data: data}
	if len(data) < 4 {
		return c, nil
	}

	markers, err := ScanSegments(data)
	if err != nil {
		return nil, err
	}
	c.markers = markers

	for _, m := range c.markers {
		if m.Descriptor.Unsupported {
			return nil, errorAt(KindUnsupportedVariant, m.Offset, m.Code,
				"%s (%s) is not supported", m.Descriptor.ShortName, m.Descriptor.Name)
		}
	}

	if err := c.parseContents(); err != nil {
		return nil, err
	}
	if err := c.checkVariant(); err != nil {
		return nil, err
	}

	glog.V(1).Infof("parsed %d segments, frame %s, %d scan components",
		len(c.markers), c.frame, len(c.scan.Components))

	if opts.SkipEntropyDecode {
		return c, nil
	}

	c.components, err = DecodeScan(c.payload, c.frame, c.scan, &c.huffman)
	if err != nil {
		return nil, anchor(err, c.entropy.Offset, MarkerSOS)
	}

	glog.V(1).Infof("decoded %d bytes of scan data into %d component grids", len(c.payload), len(c.components))
	return c, nil
}

// parseContents runs the content parser of every segment and collects the
// tables and headers the decoder needs
func (c *Container) parseContents() error {
	for _, m := range c.markers {
		if m.Code == MarkerSOS {
			c.splitScan(m)
		}

		parse, ok := segmentParsers[m.Code]
		if !ok {
			continue
		}
		content, err := parse(c.data[m.Offset:m.End()])
		if err != nil {
			return anchor(err, m.Offset, m.Code)
		}
		m.Content = content

		switch content := content.(type) {
		case *FrameHeader:
			c.frame = content
		case *ScanHeader:
			c.scan = content
		case RestartInterval:
			c.restart = content
		case *QuantizationTable:
			c.quantTables[content.Destination] = content
		case HuffmanTables:
			for _, t := range content {
				c.huffman.Add(t)
			}
		}
	}
	return nil
}

// splitScan narrows the SOS marker found by the scanner to its header and
// records the entropy-coded data after it. The header length comes from the
// length field, falling back to the boundary the scanner found when the
// field is out of range.
func (c *Container) splitScan(m *Marker) {
	if m.Length >= 4 {
		header := (int(c.data[m.Offset+2])<<8 | int(c.data[m.Offset+3])) + 2
		if header <= m.Length {
			m.Length = header
		}
	}

	payload, consumed := ExtractEntropyPayload(c.data[m.End():])
	c.entropy = EntropySegment{Offset: m.End(), Length: consumed}
	c.payload = payload
}

// checkVariant rejects files this package cannot decode
func (c *Container) checkVariant() error {
	frames, scans := 0, 0
	for _, m := range c.markers {
		switch m.Code {
		case MarkerSOF0:
			frames++
		case MarkerSOS:
			scans++
			if scans > 1 {
				return errorAt(KindUnsupportedVariant, m.Offset, m.Code, "multiple scans are not supported")
			}
		}
	}
	if frames != 1 {
		return errorAt(KindUnsupportedVariant, -1, MarkerSOF0, "expected exactly one SOF0 segment, found %d", frames)
	}
	if scans != 1 {
		return errorAt(KindUnsupportedVariant, -1, MarkerSOS, "expected exactly one SOS segment, found %d", scans)
	}
	if c.restart != 0 {
		return errorAt(KindUnsupportedVariant, -1, MarkerDRI, "restart interval %s is not supported", c.restart)
	}
	return nil
}

// Length returns the size of the parsed file in bytes
func (c *Container) Length() int {
	return len(c.data)
}

// Markers returns the segment table in file order
func (c *Container) Markers() []*Marker {
	return c.markers
}

// Frame returns the frame header, or nil for an empty container
func (c *Container) Frame() *FrameHeader {
	return c.frame
}

// Scan returns the scan header, or nil for an empty container
func (c *Container) Scan() *ScanHeader {
	return c.scan
}

// HuffmanTables returns the tables indexed by id
func (c *Container) HuffmanTables() *HuffmanTableSet {
	return &c.huffman
}

// QuantizationTables returns the tables indexed by destination
func (c *Container) QuantizationTables() *QuantizationTableSet {
	return &c.quantTables
}

// Entropy returns the byte range of the entropy-coded data
func (c *Container) Entropy() EntropySegment {
	return c.entropy
}

// EntropyBytes returns the entropy-coded data as stored in the file, still
// byte-stuffed
func (c *Container) EntropyBytes() []byte {
	return c.data[c.entropy.Offset:c.entropy.End()]
}

// Components returns the decoded block grids in scan component order, or
// nil when decoding was skipped
func (c *Container) Components() []*BlockBasedImage {
	return c.components
}

// SegmentBytes returns the raw bytes of a marker's segment
func (c *Container) SegmentBytes(m *Marker) []byte {
	return c.data[m.Offset:m.End()]
}
