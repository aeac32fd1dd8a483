package imaging

import "encoding/binary"

// Grayscale converts a color image to grayscale using BT.601 luminance
// weights (0.299 R + 0.587 G + 0.114 B). 8-bit color formats produce Gray8,
// 16-bit color formats produce Gray16; alpha is discarded. Grayscale always
// produces a new image.
type Grayscale struct{}

// NewGrayscale creates a grayscale conversion filter.
func NewGrayscale() *Grayscale {
	return &Grayscale{}
}

// FormatContract maps each color format to the grayscale format of matching
// channel depth.
func (*Grayscale) FormatContract() FormatContract {
	return FormatContract{
		FormatRGB24:  FormatGray8,
		FormatRGBA32: FormatGray8,
		FormatRGB48:  FormatGray16,
		FormatRGBA64: FormatGray16,
	}
}

// ProcessFrame writes the luminance of src into dst.
func (*Grayscale) ProcessFrame(src, dst *Buffer) error {
	sbpp := src.format.BytesPerPixel()

	switch src.format {
	case FormatRGB24, FormatRGBA32:
		for y := 0; y < src.height; y++ {
			srow := src.data[y*src.stride:]
			drow := dst.data[y*dst.stride:]
			for x := 0; x < src.width; x++ {
				p := x * sbpp
				r := int(srow[p])
				g := int(srow[p+1])
				b := int(srow[p+2])
				drow[x] = byte((r*299 + g*587 + b*114) / 1000)
			}
		}

	case FormatRGB48, FormatRGBA64:
		for y := 0; y < src.height; y++ {
			srow := src.data[y*src.stride:]
			drow := dst.data[y*dst.stride:]
			for x := 0; x < src.width; x++ {
				p := x * sbpp
				r := int(binary.BigEndian.Uint16(srow[p:]))
				g := int(binary.BigEndian.Uint16(srow[p+2:]))
				b := int(binary.BigEndian.Uint16(srow[p+4:]))
				gray := uint16((r*299 + g*587 + b*114) / 1000)
				binary.BigEndian.PutUint16(drow[x*2:], gray)
			}
		}
	}
	return nil
}
