package texture

import (
	"encoding/binary"
	"fmt"
	"io"
)

const pngSignature = "\x89PNG\r\n\x1a\n"

// PNG color types.
const (
	pngGray      = 0
	pngRGB       = 2
	pngPaletted  = 3
	pngGrayAlpha = 4
	pngRGBA      = 6
)

// probePNG walks the PNG chunks up to the first IDAT, reading the color type
// and bit depth from IHDR and noting a tRNS chunk.
func probePNG(r io.Reader) (Info, error) {
	if _, err := io.CopyN(io.Discard, r, int64(len(pngSignature))); err != nil {
		return Info{}, fmt.Errorf("reading PNG signature: %w", err)
	}

	colorType, bitDepth := -1, 0
	hasTRNS := false

	var head [8]byte
	for {
		if _, err := io.ReadFull(r, head[:]); err != nil {
			return Info{}, fmt.Errorf("reading PNG chunk header: %w", err)
		}
		length := int64(binary.BigEndian.Uint32(head[:4]))
		kind := string(head[4:8])

		if kind == "IDAT" || kind == "IEND" {
			break
		}

		if kind == "IHDR" {
			if length < 13 {
				return Info{}, fmt.Errorf("PNG IHDR too short: %d", length)
			}
			var ihdr [13]byte
			if _, err := io.ReadFull(r, ihdr[:]); err != nil {
				return Info{}, fmt.Errorf("reading PNG IHDR: %w", err)
			}
			bitDepth = int(ihdr[8])
			colorType = int(ihdr[9])
			length -= 13
		}
		if kind == "tRNS" {
			hasTRNS = true
		}

		// Skip remaining chunk data and CRC
		if _, err := io.CopyN(io.Discard, r, length+4); err != nil {
			return Info{}, fmt.Errorf("PNG chunk %s truncated: %w", kind, err)
		}
	}

	// 16-bit gray opens as a 32-bit integer image and 16-bit gray+alpha as RGBA,
	// so neither counts as grayscale.
	wide := bitDepth == 16

	info := Info{Format: "png"}
	switch colorType {
	case pngGray:
		info.Grayscale = !wide
	case pngGrayAlpha:
		info.Grayscale = !wide
		info.HasAlpha = true
	case pngRGBA:
		info.HasAlpha = true
	case pngPaletted:
		info.HasAlpha = hasTRNS
	case pngRGB:
	default:
		return Info{}, fmt.Errorf("%w: PNG color type %d", ErrUnsupportedFormat, colorType)
	}

	return info, nil
}
