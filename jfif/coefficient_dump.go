package jfif

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// Coefficient dump layout: a fixed header followed by one zstd frame.
//
//	magic       "JFCD"
//	version     1 byte
//	components  1 byte
//	zstd frame  per component: id (1 byte), block width and height
//	            (uint32 little endian), then 64 zig-zag varints per block
var dumpMagic = []byte("JFCD")

const dumpVersion = 1

// a 65535 pixel dimension needs at most 8192 blocks plus MCU padding
const maxDumpBlocks = 1 << 14

// initial capacity of a dump grid; larger grids grow as blocks are read
const dumpPreallocBlocks = 1 << 10

// ErrInvalidDump is returned when reading data that is not a coefficient dump
var ErrInvalidDump = errors.New("not a coefficient dump")

// WriteCoefficientDump writes decoded block grids in the dump format
func WriteCoefficientDump(w io.Writer, images []*BlockBasedImage) error {
	if len(images) > MaxComponents {
		return fmt.Errorf("cannot dump %d components", len(images))
	}

	header := append(append([]byte(nil), dumpMagic...), dumpVersion, uint8(len(images)))
	if _, err := w.Write(header); err != nil {
		return err
	}

	enc, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}

	buf := make([]byte, 0, 9+BlockSize*binary.MaxVarintLen32)
	for _, img := range images {
		buf = buf[:0]
		buf = append(buf, img.ComponentID)
		buf = binary.LittleEndian.AppendUint32(buf, uint32(img.BlockWidth()))
		buf = binary.LittleEndian.AppendUint32(buf, uint32(img.BlockHeight()))
		if _, err := enc.Write(buf); err != nil {
			enc.Close()
			return err
		}

		for i := range img.blocks {
			buf = buf[:0]
			for _, coef := range img.blocks[i] {
				buf = binary.AppendVarint(buf, int64(coef))
			}
			if _, err := enc.Write(buf); err != nil {
				enc.Close()
				return err
			}
		}
	}

	return enc.Close()
}

// ReadCoefficientDump reads block grids written by WriteCoefficientDump
func ReadCoefficientDump(r io.Reader) ([]*BlockBasedImage, error) {
	header := make([]byte, len(dumpMagic)+2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("failed to read dump header: %w", err)
	}
	if !bytes.Equal(header[:len(dumpMagic)], dumpMagic) {
		return nil, ErrInvalidDump
	}
	if version := header[len(dumpMagic)]; version != dumpVersion {
		return nil, fmt.Errorf("unsupported dump version %d", version)
	}
	count := int(header[len(dumpMagic)+1])
	if count > MaxComponents {
		return nil, fmt.Errorf("dump declares %d components", count)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	br := bufio.NewReader(dec)

	images := make([]*BlockBasedImage, count)
	var geometry [9]byte
	for i := range images {
		if _, err := io.ReadFull(br, geometry[:]); err != nil {
			return nil, fmt.Errorf("failed to read component %d: %w", i, err)
		}
		width := int(binary.LittleEndian.Uint32(geometry[1:]))
		height := int(binary.LittleEndian.Uint32(geometry[5:]))
		if width > maxDumpBlocks || height > maxDumpBlocks {
			return nil, fmt.Errorf("component %d declares %dx%d blocks", i, width, height)
		}
		img := &BlockBasedImage{
			ComponentID: geometry[0],
			blocks:      make([]Block, 0, min(width*height, dumpPreallocBlocks)),
			blockWidth:  width,
			blockHeight: height,
		}

		for b := 0; b < width*height; b++ {
			var block Block
			for k := 0; k < BlockSize; k++ {
				v, err := binary.ReadVarint(br)
				if err != nil {
					return nil, fmt.Errorf("failed to read block %d of component %d: %w", b, i, err)
				}
				block[k] = int32(v)
			}
			img.blocks = append(img.blocks, block)
		}
		images[i] = img
	}

	return images, nil
}
