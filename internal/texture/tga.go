package texture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeColorMapped    = 1  // Uncompressed color-mapped
	TGATypeUncompressed   = 2  // Uncompressed true-color
	TGATypeGray           = 3  // Uncompressed grayscale
	TGATypeColorMappedRLE = 9  // RLE compressed color-mapped
	TGATypeRLE            = 10 // RLE compressed true-color
	TGATypeGrayRLE        = 11 // RLE compressed grayscale
)

func init() {
	// TGA has no magic number; sniff on the color map flag and image type.
	decode := func(r io.Reader) (image.Image, error) { return DecodeTGA(r) }
	for _, magic := range []string{
		"?\x01\x01", "?\x00\x02", "?\x00\x03", "?\x01\x09", "?\x00\x0a", "?\x00\x0b",
	} {
		image.RegisterFormat("tga", magic, decode, DecodeTGAConfig)
	}
}

// GrayAlphaModel is the color model of grayscale images carrying an alpha
// channel, such as 16-bit grayscale TGA files.
var GrayAlphaModel = color.ModelFunc(func(c color.Color) color.Color {
	g := color.GrayModel.Convert(c).(color.Gray)
	_, _, _, a := c.RGBA()
	return color.NRGBA{R: g.Y, G: g.Y, B: g.Y, A: uint8(a >> 8)}
})

// tgaHeader is the fixed 18-byte TGA header.
type tgaHeader struct {
	IDLength      uint8
	ColorMapType  uint8
	ImageType     uint8
	ColorMapFirst uint16
	ColorMapLen   uint16
	ColorMapDepth uint8
	XOrigin       uint16
	YOrigin       uint16
	Width         uint16
	Height        uint16
	Depth         uint8
	Descriptor    uint8
}

// alphaBits returns the number of attribute (alpha) bits per pixel.
func (h tgaHeader) alphaBits() int { return int(h.Descriptor & 0x0f) }

// topToBottom reports whether rows are stored top row first.
func (h tgaHeader) topToBottom() bool { return h.Descriptor&0x20 != 0 }

func (h tgaHeader) rle() bool {
	return h.ImageType == TGATypeColorMappedRLE || h.ImageType == TGATypeRLE || h.ImageType == TGATypeGrayRLE
}

// tgaMeta is the parsed header plus the color map, if any.
type tgaMeta struct {
	hdr     tgaHeader
	palette color.Palette
	model   color.Model
}

func readTGAMeta(r io.Reader) (*tgaMeta, error) {
	var hdr tgaHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("reading TGA header: %w", err)
	}

	// Skip ID field
	if _, err := io.CopyN(io.Discard, r, int64(hdr.IDLength)); err != nil {
		return nil, fmt.Errorf("TGA data truncated: %w", err)
	}

	m := &tgaMeta{hdr: hdr}
	switch hdr.ImageType {
	case TGATypeColorMapped, TGATypeColorMappedRLE:
		if hdr.ColorMapType != 1 {
			return nil, fmt.Errorf("%w: color-mapped TGA without color map", ErrUnsupportedFormat)
		}
		if hdr.Depth != 8 {
			return nil, fmt.Errorf("%w: color-mapped TGA index depth %d", ErrUnsupportedFormat, hdr.Depth)
		}
		pal, err := readTGAPalette(r, hdr)
		if err != nil {
			return nil, err
		}
		m.palette = pal
		m.model = pal
	case TGATypeUncompressed, TGATypeRLE:
		switch hdr.Depth {
		case 15, 24:
			m.model = color.RGBAModel
		case 16:
			// The attribute bit is alpha only when the descriptor declares it.
			m.model = color.RGBAModel
			if hdr.alphaBits() > 0 {
				m.model = color.NRGBAModel
			}
		case 32:
			m.model = color.NRGBAModel
		default:
			return nil, fmt.Errorf("%w: TGA bit depth %d (only 15/16/24/32 supported)", ErrUnsupportedFormat, hdr.Depth)
		}
	case TGATypeGray, TGATypeGrayRLE:
		switch hdr.Depth {
		case 8:
			m.model = color.GrayModel
		case 16:
			m.model = GrayAlphaModel
		default:
			return nil, fmt.Errorf("%w: grayscale TGA bit depth %d", ErrUnsupportedFormat, hdr.Depth)
		}
	default:
		return nil, fmt.Errorf("%w: TGA type %d", ErrUnsupportedFormat, hdr.ImageType)
	}

	// A color map present on a non-mapped image is skipped.
	if m.palette == nil && hdr.ColorMapType == 1 {
		size := int64(hdr.ColorMapLen) * int64((int(hdr.ColorMapDepth)+7)/8)
		if _, err := io.CopyN(io.Discard, r, size); err != nil {
			return nil, fmt.Errorf("TGA color map truncated: %w", err)
		}
	}

	return m, nil
}

func readTGAPalette(r io.Reader, hdr tgaHeader) (color.Palette, error) {
	if hdr.ColorMapDepth != 24 && hdr.ColorMapDepth != 32 {
		return nil, fmt.Errorf("%w: TGA color map depth %d", ErrUnsupportedFormat, hdr.ColorMapDepth)
	}

	size := int(hdr.ColorMapDepth) / 8
	raw := make([]byte, int(hdr.ColorMapLen)*size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("TGA color map truncated: %w", err)
	}

	pal := make(color.Palette, int(hdr.ColorMapFirst)+int(hdr.ColorMapLen))
	for i := range pal {
		pal[i] = color.NRGBA{A: 255}
	}
	for i := 0; i < int(hdr.ColorMapLen); i++ {
		p := raw[i*size:]
		c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
		if size == 4 {
			c.A = p[3]
		}
		pal[int(hdr.ColorMapFirst)+i] = c
	}

	return pal, nil
}

// decode555 expands a little-endian A1R5G5B5 pixel.
func decode555(v uint16, alpha bool) color.NRGBA {
	expand := func(c uint16) uint8 { return uint8(c<<3 | c>>2) }
	c := color.NRGBA{
		R: expand(v >> 10 & 0x1f),
		G: expand(v >> 5 & 0x1f),
		B: expand(v & 0x1f),
		A: 255,
	}
	if alpha && v&0x8000 == 0 {
		c.A = 0
	}
	return c
}

// DecodeTGAConfig returns the dimensions and color model of a TGA image
// without decoding its pixels.
func DecodeTGAConfig(r io.Reader) (image.Config, error) {
	m, err := readTGAMeta(r)
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{ColorModel: m.model, Width: int(m.hdr.Width), Height: int(m.hdr.Height)}, nil
}

// DecodeTGA decodes a TGA image.
// Supports true-color (15/16/24/32 bit), grayscale (8/16 bit) and 8-bit color-mapped
// images, both uncompressed and RLE compressed.
func DecodeTGA(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	m, err := readTGAMeta(br)
	if err != nil {
		return nil, err
	}

	hdr := m.hdr
	width, height := int(hdr.Width), int(hdr.Height)
	rect := image.Rect(0, 0, width, height)
	bytesPerPixel := (int(hdr.Depth) + 7) / 8

	var (
		img image.Image
		set func(x, y int, p []byte)
	)
	switch {
	case m.palette != nil:
		dst := image.NewPaletted(rect, m.palette)
		set = func(x, y int, p []byte) { dst.SetColorIndex(x, y, p[0]) }
		img = dst
	case m.model == color.GrayModel:
		dst := image.NewGray(rect)
		set = func(x, y int, p []byte) { dst.SetGray(x, y, color.Gray{Y: p[0]}) }
		img = dst
	case m.model == GrayAlphaModel:
		dst := image.NewNRGBA(rect)
		set = func(x, y int, p []byte) { dst.SetNRGBA(x, y, color.NRGBA{R: p[0], G: p[0], B: p[0], A: p[1]}) }
		img = dst
	case bytesPerPixel == 2:
		dst := image.NewNRGBA(rect)
		alpha := m.model == color.NRGBAModel
		set = func(x, y int, p []byte) { dst.SetNRGBA(x, y, decode555(binary.LittleEndian.Uint16(p), alpha)) }
		img = dst
	case bytesPerPixel == 4:
		dst := image.NewNRGBA(rect)
		set = func(x, y int, p []byte) { dst.SetNRGBA(x, y, color.NRGBA{R: p[2], G: p[1], B: p[0], A: p[3]}) }
		img = dst
	default:
		dst := image.NewRGBA(rect)
		set = func(x, y int, p []byte) { dst.SetRGBA(x, y, color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}) }
		img = dst
	}

	// Check if image is flipped (bit 5 of descriptor = top-to-bottom)
	topToBottom := hdr.topToBottom()
	put := func(idx int, p []byte) {
		x := idx % width
		y := idx / width
		if !topToBottom {
			y = height - 1 - y
		}
		set(x, y, p)
	}

	pixelCount := width * height
	pixel := make([]byte, bytesPerPixel)

	if !hdr.rle() {
		for i := 0; i < pixelCount; i++ {
			if _, err := io.ReadFull(br, pixel); err != nil {
				return nil, fmt.Errorf("TGA pixel data truncated: %w", err)
			}
			put(i, pixel)
		}
		return img, nil
	}

	for i := 0; i < pixelCount; {
		packet, err := br.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("TGA RLE data truncated: %w", err)
		}
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// RLE packet - repeat single pixel
			if _, err := io.ReadFull(br, pixel); err != nil {
				return nil, fmt.Errorf("TGA RLE data truncated: %w", err)
			}
			for j := 0; j < count && i < pixelCount; j++ {
				put(i, pixel)
				i++
			}
			continue
		}

		// Raw packet - read count pixels
		for j := 0; j < count && i < pixelCount; j++ {
			if _, err := io.ReadFull(br, pixel); err != nil {
				return nil, fmt.Errorf("TGA RLE data truncated: %w", err)
			}
			put(i, pixel)
			i++
		}
	}

	return img, nil
}
