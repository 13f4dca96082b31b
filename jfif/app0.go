package jfif

import (
	"encoding/binary"
	"fmt"
)

// DensityUnit is the unit of the APP0 pixel density fields
type DensityUnit uint8

const (
	DensityPixels        DensityUnit = 0x00 // aspect ratio only
	DensityPerInch       DensityUnit = 0x01
	DensityPerCentimeter DensityUnit = 0x02
)

func (u DensityUnit) String() string {
	switch u {
	case DensityPixels:
		return "px"
	case DensityPerInch:
		return "ppi"
	case DensityPerCentimeter:
		return "ppcm"
	default:
		return fmt.Sprintf("DensityUnit(%d)", uint8(u))
	}
}

// ThumbnailFormat is the JFXX extension thumbnail encoding
type ThumbnailFormat uint8

const (
	ThumbnailJPEG       ThumbnailFormat = 0x10
	ThumbnailPalettized ThumbnailFormat = 0x11
	ThumbnailRGB        ThumbnailFormat = 0x13
)

func (f ThumbnailFormat) String() string {
	switch f {
	case ThumbnailJPEG:
		return "JPEG"
	case ThumbnailPalettized:
		return "Palettized"
	case ThumbnailRGB:
		return "RGB"
	default:
		return fmt.Sprintf("ThumbnailFormat(0x%02x)", uint8(f))
	}
}

// PaletteSize is the number of entries in a palettized thumbnail palette
const PaletteSize = 256

// Thumbnail is the optional preview image embedded in APP0
type Thumbnail struct {
	Format ThumbnailFormat
	Width  uint8
	Height uint8

	// Palette holds 256 packed 0xRRGGBB entries for palettized thumbnails
	Palette []uint32

	// Data is the raw RGB raster, the palette indices or the compressed
	// JPEG stream, depending on Format
	Data []byte
}

// APP0 is the content of a JFIF or JFXX application segment
type APP0 struct {
	// Identifier is "JFIF" or "JFXX"
	Identifier string

	// Version is "major.minor", set for JFIF segments
	Version string

	DensityUnit DensityUnit
	DensityX    uint16
	DensityY    uint16
	Thumbnail   Thumbnail
}

const (
	app0MinSize      = 10
	jfifHeaderSize   = 18
	jfxxHeaderSize   = 10
	jfxxRasterOffset = 12
	// 12 header bytes and a 256 entry RGB palette
	jfxxPaletteEnd = jfxxRasterOffset + PaletteSize*3
)

// ParseAPP0 parses a JFIF application segment, including its marker code.
// JFIF segments (and anything too short to be a JFXX extension) carry a
// version, the pixel density and an uncompressed RGB thumbnail; JFXX
// extensions carry a thumbnail in one of three formats.
func ParseAPP0(data []byte) (*APP0, error) {
	if err := checkSegment(data, MarkerAPP0, app0MinSize); err != nil {
		return nil, err
	}

	app := &APP0{
		Identifier: sanitize(data[4:8]),
		Thumbnail:  Thumbnail{Format: ThumbnailRGB},
	}

	switch {
	case app.Identifier == "JFIF" || len(data) < jfifHeaderSize:
		if err := parseJFIF(app, data); err != nil {
			return nil, err
		}
	case app.Identifier == "JFXX":
		if err := parseJFXX(app, data); err != nil {
			return nil, err
		}
	default:
		return nil, errorAt(KindInvalidAPP0Identifier, -1, MarkerAPP0,
			"%q is not a valid APP0 identifier", app.Identifier)
	}

	return app, nil
}

func parseJFIF(app *APP0, data []byte) error {
	if len(data) < jfifHeaderSize {
		return errorAt(KindSizeMismatch, -1, MarkerAPP0,
			"%d bytes is too short for a JFIF header (minimum %d)", len(data), jfifHeaderSize)
	}

	app.Version = formatVersion(data[9], data[10])

	unit := DensityUnit(data[11])
	if unit > DensityPerCentimeter {
		return errorAt(KindUnknownDensityUnit, -1, MarkerAPP0, "unknown density unit %d", data[11])
	}
	app.DensityUnit = unit
	app.DensityX = binary.BigEndian.Uint16(data[12:])
	app.DensityY = binary.BigEndian.Uint16(data[14:])

	app.Thumbnail.Width = data[16]
	app.Thumbnail.Height = data[17]
	app.Thumbnail.Data = data[jfifHeaderSize:]
	return nil
}

func parseJFXX(app *APP0, data []byte) error {
	format := ThumbnailFormat(data[9])
	switch format {
	case ThumbnailJPEG:
		// the rest of the segment is a complete JPEG stream
		app.Thumbnail.Format = format
		app.Thumbnail.Data = data[jfxxHeaderSize:]

	case ThumbnailPalettized:
		if len(data) <= jfxxPaletteEnd {
			return errorAt(KindSizeMismatch, -1, MarkerAPP0,
				"%d bytes cannot hold a thumbnail color palette", len(data))
		}
		app.Thumbnail.Format = format
		app.Thumbnail.Width = data[10]
		app.Thumbnail.Height = data[11]
		app.Thumbnail.Palette = make([]uint32, PaletteSize)
		for i := range app.Thumbnail.Palette {
			p := jfxxRasterOffset + i*3
			app.Thumbnail.Palette[i] = uint32(data[p])<<16 | uint32(data[p+1])<<8 | uint32(data[p+2])
		}
		app.Thumbnail.Data = data[jfxxPaletteEnd:]

	case ThumbnailRGB:
		app.Thumbnail.Format = format
		app.Thumbnail.Width = data[10]
		app.Thumbnail.Height = data[11]
		app.Thumbnail.Data = data[jfxxRasterOffset:]

	default:
		return errorAt(KindUnknownThumbnailFormat, -1, MarkerAPP0, "unknown thumbnail format 0x%02x", data[9])
	}
	return nil
}
