// Package texture inspects texture images for the metadata shader
// generation depends on: whether a map carries an alpha channel and whether
// it is grayscale.
package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// ErrUnsupportedFormat indicates an image the probe cannot classify.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Info is the per-image metadata used by shader generation.
type Info struct {
	Format    string // Detected image format
	HasAlpha  bool   // RGBA/LA images and palettes with transparency
	Grayscale bool   // L/LA images
}

// FileProber probes image files on a filesystem.
type FileProber struct {
	Fs afero.Fs
}

// NewFileProber creates a prober reading from fsys.
func NewFileProber(fsys afero.Fs) *FileProber {
	return &FileProber{Fs: fsys}
}

// Probe opens the image at path and reports its metadata.
func (p *FileProber) Probe(path string) (Info, error) {
	f, err := p.Fs.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	info, err := ProbeReader(bufio.NewReader(f))
	if err != nil {
		return Info{}, fmt.Errorf("probing image %s: %w", path, err)
	}

	return info, nil
}

// ProbeReader reports the metadata of the image read from r.
func ProbeReader(r *bufio.Reader) (Info, error) {
	head, _ := r.Peek(12)

	switch {
	case bytes.HasPrefix(head, []byte(pngSignature)):
		// Go's PNG config decoder neither reports gray+alpha nor palette transparency.
		return probePNG(r)
	case len(head) == 12 && string(head[0:4]) == riffMagic && string(head[8:12]) == webpMagic:
		return webpInfo(r)
	case bytes.HasPrefix(head, []byte("GIF8")):
		// Transparency lives in the frame's graphic control block, not the global table.
		img, err := gif.Decode(r)
		if err != nil {
			return Info{}, err
		}
		info := classify(img.ColorModel())
		info.Format = "gif"
		return info, nil
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return Info{}, err
	}

	info := classify(cfg.ColorModel)
	info.Format = format
	return info, nil
}

// classify maps a color model onto alpha/grayscale flags.
func classify(m color.Model) Info {
	if pal, ok := m.(color.Palette); ok {
		for _, c := range pal {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return Info{HasAlpha: true}
			}
		}
		return Info{}
	}

	switch m {
	case color.GrayModel:
		return Info{Grayscale: true}
	case GrayAlphaModel, color.AlphaModel:
		return Info{Grayscale: true, HasAlpha: true}
	case color.NRGBAModel, color.NRGBA64Model, color.NYCbCrAModel, color.Alpha16Model:
		return Info{HasAlpha: true}
	default:
		return Info{}
	}
}
