package texture

import (
	"bufio"
	"encoding/binary"
	"fmt"

	"golang.org/x/image/webp"
)

const (
	riffMagic = "RIFF"
	webpMagic = "WEBP"

	vp8lSignature = 0x2f
	vp8xAlphaFlag = 0x10
)

// webpInfo reads alpha from the first chunk of a WebP container and lets
// the x/image decoder validate the rest of the header. The decoder reports
// NRGBA for every lossless file, ignoring the alpha hint in the VP8L header.
func webpInfo(r *bufio.Reader) (Info, error) {
	head, _ := r.Peek(25)
	if len(head) < 21 {
		return Info{}, fmt.Errorf("%w: WebP header truncated", ErrUnsupportedFormat)
	}

	info := Info{Format: "webp"}
	switch kind := string(head[12:16]); kind {
	case "VP8 ":
	case "VP8L":
		if len(head) < 25 || head[20] != vp8lSignature {
			return Info{}, fmt.Errorf("%w: bad VP8L header", ErrUnsupportedFormat)
		}
		// 14 bits width-1, 14 bits height-1, then the alpha_is_used bit.
		info.HasAlpha = binary.LittleEndian.Uint32(head[21:25])>>28&1 == 1
	case "VP8X":
		info.HasAlpha = head[20]&vp8xAlphaFlag != 0
	default:
		return Info{}, fmt.Errorf("%w: WebP chunk %q", ErrUnsupportedFormat, kind)
	}

	if _, err := webp.DecodeConfig(r); err != nil {
		return Info{}, fmt.Errorf("decoding WebP header: %w", err)
	}

	return info, nil
}
