package jfif

import (
	"github.com/golang/glog"
)

// ScanSegments walks the whole buffer and returns the ordered segment table.
//
// Segment lengths come from the catalog for fixed-size markers, from the
// length field for markers that carry one, and otherwise (SOS) from a scan
// forward to the next real marker: a 0xFF that is followed neither by a
// stuffed 0x00 nor by a restart code. The SOS entry therefore covers its
// header and the entropy-coded data after it; the container narrows it to
// the header afterwards.
func ScanSegments(data []byte) ([]*Marker, error) {
	// a marker needs two bytes, so it cannot start on the last byte
	lastStart := len(data) - 2
	markers := make([]*Marker, 0, 16)

	pos := 0
	for pos <= lastStart {
		code := uint16(data[pos])<<8 | uint16(data[pos+1])
		desc := LookupSegment(code)
		if desc == nil {
			return nil, errorAt(KindUnknownSegment, pos, code, "unknown segment 0x%04X", code)
		}

		length, err := segmentLength(data, pos, desc)
		if err != nil {
			return nil, err
		}

		glog.V(2).Infof("identified %s segment of length 0x%x at offset 0x%x", desc.ShortName, length, pos)

		markers = append(markers, &Marker{
			Code:       code,
			Offset:     pos,
			Length:     length,
			Descriptor: desc,
		})
		pos += length
	}

	return markers, nil
}

// segmentLength determines the total length of the segment starting at pos
func segmentLength(data []byte, pos int, desc *SegmentDescriptor) (int, error) {
	if desc.FixedSize {
		return desc.Size, nil
	}

	if pos+4 > len(data) {
		return 0, errorAt(KindUnexpectedEndOfFile, pos, desc.Code,
			"%s segment truncated before its length field", desc.ShortName)
	}

	if desc.HasLength {
		// the stored length covers itself but not the marker code
		length := (int(data[pos+2])<<8 | int(data[pos+3])) + 2
		if pos+length > len(data) {
			return 0, errorAt(KindUnexpectedEndOfFile, pos, desc.Code,
				"%s segment of %d bytes overruns file of %d bytes", desc.ShortName, length, len(data))
		}
		return length, nil
	}

	for search := pos + 2; search+1 < len(data); search++ {
		if data[search] != 0xFF {
			continue
		}
		next := data[search+1]
		if next == 0x00 || isRestartCode(next) {
			continue
		}
		return search - pos, nil
	}

	return 0, errorAt(KindUnexpectedEndOfFile, pos, desc.Code,
		"no marker follows %s segment", desc.ShortName)
}
