package imaging

import "encoding/binary"

// Threshold binarizes a grayscale image: pixels at or above Level become the
// maximum intensity, pixels below become zero. Processes in place and
// supports region restriction.
type Threshold struct {
	// Level is the cut intensity, scaled to the format's channel depth for
	// 16-bit images (a Level of 128 cuts at 128<<8 on Gray16).
	Level uint8
}

// NewThreshold creates a threshold filter with the given cut level.
func NewThreshold(level uint8) *Threshold {
	return &Threshold{Level: level}
}

// FormatContract accepts the grayscale formats unchanged.
func (*Threshold) FormatContract() FormatContract {
	return identityContract(FormatGray8, FormatGray16)
}

// ProcessRegion binarizes buf inside region.
func (t *Threshold) ProcessRegion(buf *Buffer, region Rect) error {
	data := buf.data

	switch buf.format {
	case FormatGray8:
		level := t.Level
		for y := region.Y; y < region.Bottom(); y++ {
			rowStart := y*buf.stride + region.X
			for x := 0; x < region.Width; x++ {
				if data[rowStart+x] >= level {
					data[rowStart+x] = 0xFF
				} else {
					data[rowStart+x] = 0
				}
			}
		}

	case FormatGray16:
		level := uint16(t.Level) << 8
		for y := region.Y; y < region.Bottom(); y++ {
			rowStart := y*buf.stride + region.X*2
			for x := 0; x < region.Width; x++ {
				p := rowStart + x*2
				v := binary.BigEndian.Uint16(data[p:])
				if v >= level {
					binary.BigEndian.PutUint16(data[p:], 0xFFFF)
				} else {
					binary.BigEndian.PutUint16(data[p:], 0)
				}
			}
		}
	}
	return nil
}
