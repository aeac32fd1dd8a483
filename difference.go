package imaging

import "encoding/binary"

// Difference replaces every channel value with the absolute difference
// between the source and the overlay, the classic background-subtraction
// primitive. Alpha channels are taken from the source unchanged. The overlay
// must match the source in size and format; Apply validates this before any
// pixels are read.
type Difference struct{}

// FormatContract accepts every format unchanged.
func (Difference) FormatContract() FormatContract {
	return identityContract(FormatGray8, FormatGray16, FormatRGB24,
		FormatRGBA32, FormatRGB48, FormatRGBA64)
}

// ProcessOverlay writes |buf - overlay| into buf inside region.
func (Difference) ProcessOverlay(buf, overlay *Buffer, region Rect) error {
	bpp := buf.format.BytesPerPixel()
	channels := buf.format.Channels()
	colorChannels := channels
	if buf.format.HasAlpha() {
		colorChannels--
	}

	switch buf.format.BitsPerChannel() {
	case 8:
		for y := region.Y; y < region.Bottom(); y++ {
			brow := buf.data[y*buf.stride+region.X*bpp:]
			orow := overlay.data[y*overlay.stride+region.X*bpp:]
			for x := 0; x < region.Width; x++ {
				p := x * bpp
				for c := 0; c < colorChannels; c++ {
					a, b := brow[p+c], orow[p+c]
					if a >= b {
						brow[p+c] = a - b
					} else {
						brow[p+c] = b - a
					}
				}
			}
		}

	case 16:
		for y := region.Y; y < region.Bottom(); y++ {
			brow := buf.data[y*buf.stride+region.X*bpp:]
			orow := overlay.data[y*overlay.stride+region.X*bpp:]
			for x := 0; x < region.Width; x++ {
				p := x * bpp
				for c := 0; c < colorChannels; c++ {
					a := binary.BigEndian.Uint16(brow[p+2*c:])
					b := binary.BigEndian.Uint16(orow[p+2*c:])
					if a >= b {
						binary.BigEndian.PutUint16(brow[p+2*c:], a-b)
					} else {
						binary.BigEndian.PutUint16(brow[p+2*c:], b-a)
					}
				}
			}
		}
	}
	return nil
}
