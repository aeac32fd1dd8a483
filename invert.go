package imaging

// Invert replaces every color channel value v with its complement.
// Alpha channels are preserved. Invert processes in place and supports
// region restriction; use Apply to obtain a new image instead.
//
// Inverting a 16-bit channel is a byte-wise complement as well
// (^v == 0xFFFF - v), so all formats share one loop parameterized by the
// per-pixel span of color bytes.
type Invert struct{}

// FormatContract accepts every format unchanged.
func (Invert) FormatContract() FormatContract {
	return identityContract(FormatGray8, FormatGray16, FormatRGB24,
		FormatRGBA32, FormatRGB48, FormatRGBA64)
}

// ProcessRegion inverts the color channels of buf inside region.
func (Invert) ProcessRegion(buf *Buffer, region Rect) error {
	bpp := buf.format.BytesPerPixel()

	// Number of leading bytes per pixel that hold color channels; the
	// remainder is alpha and stays untouched.
	colorBytes := bpp
	if buf.format.HasAlpha() {
		colorBytes = bpp * (buf.format.Channels() - 1) / buf.format.Channels()
	}

	data := buf.data
	for y := region.Y; y < region.Bottom(); y++ {
		rowStart := y*buf.stride + region.X*bpp
		for x := 0; x < region.Width; x++ {
			p := rowStart + x*bpp
			for i := 0; i < colorBytes; i++ {
				data[p+i] = ^data[p+i]
			}
		}
	}
	return nil
}
