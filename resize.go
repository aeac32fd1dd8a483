package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// InterpolationMode selects the sampling kernel used by Resize.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	// Fast but produces blocky results when scaling.
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between neighboring pixels.
	// Good balance between quality and performance.
	InterpBilinear

	// InterpBicubic performs Catmull-Rom cubic interpolation.
	// Highest quality but slower than bilinear.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// scaler maps the mode to an x/image/draw kernel.
func (m InterpolationMode) scaler() xdraw.Scaler {
	switch m {
	case InterpBilinear:
		return xdraw.ApproxBiLinear
	case InterpBicubic:
		return xdraw.CatmullRom
	default:
		return xdraw.NearestNeighbor
	}
}

// Resize scales the source to a fixed target size, preserving the pixel
// format. It is a size-changing filter: the framework asks NewSize for the
// destination dimensions before allocating. Sampling is delegated to the
// golang.org/x/image/draw scalers.
type Resize struct {
	// TargetWidth and TargetHeight are the destination dimensions in pixels.
	TargetWidth  int
	TargetHeight int

	// Interpolation selects the sampling kernel. The zero value is nearest
	// neighbor.
	Interpolation InterpolationMode
}

// NewResize creates a resize filter with the given target size and
// interpolation mode.
func NewResize(width, height int, mode InterpolationMode) *Resize {
	return &Resize{TargetWidth: width, TargetHeight: height, Interpolation: mode}
}

// FormatContract accepts every format unchanged.
func (*Resize) FormatContract() FormatContract {
	return identityContract(FormatGray8, FormatGray16, FormatRGB24,
		FormatRGBA32, FormatRGB48, FormatRGBA64)
}

// NewSize reports the configured target dimensions. Non-positive targets are
// rejected by the framework as ErrInvalidParameter.
func (r *Resize) NewSize(src *Buffer) (int, int) {
	return r.TargetWidth, r.TargetHeight
}

// ProcessFrame scales src into the preallocated dst.
func (r *Resize) ProcessFrame(src, dst *Buffer) error {
	srcImg := ToImage(src)
	dstImg := newDrawImage(dst.format, dst.width, dst.height)

	r.Interpolation.scaler().Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)

	return fillFromImage(dst, dstImg)
}

// newDrawImage allocates the stdlib image kind that ToImage produces for the
// given format, so scaling stays in the matching channel depth.
func newDrawImage(f Format, w, h int) xdraw.Image {
	r := image.Rect(0, 0, w, h)
	switch f {
	case FormatGray8:
		return image.NewGray(r)
	case FormatGray16:
		return image.NewGray16(r)
	case FormatRGB48, FormatRGBA64:
		return image.NewNRGBA64(r)
	default:
		return image.NewNRGBA(r)
	}
}

// fillFromImage copies pixels of a stdlib image produced by newDrawImage
// into dst, stripping the synthesized alpha of the alpha-less formats.
func fillFromImage(dst *Buffer, img image.Image) error {
	switch m := img.(type) {
	case *image.Gray:
		fillRows(dst, m.Pix, m.Stride)
	case *image.Gray16:
		fillRows(dst, m.Pix, m.Stride)
	case *image.NRGBA:
		if dst.format == FormatRGB24 {
			for y := 0; y < dst.height; y++ {
				srow := m.Pix[y*m.Stride:]
				drow := dst.data[y*dst.stride:]
				for x := 0; x < dst.width; x++ {
					copy(drow[x*3:x*3+3], srow[x*4:x*4+3])
				}
			}
		} else {
			fillRows(dst, m.Pix, m.Stride)
		}
	case *image.NRGBA64:
		if dst.format == FormatRGB48 {
			for y := 0; y < dst.height; y++ {
				srow := m.Pix[y*m.Stride:]
				drow := dst.data[y*dst.stride:]
				for x := 0; x < dst.width; x++ {
					copy(drow[x*6:x*6+6], srow[x*8:x*8+6])
				}
			}
		} else {
			fillRows(dst, m.Pix, m.Stride)
		}
	default:
		return ErrInvalidFormat
	}
	return nil
}

// fillRows copies unpadded rows from a stdlib Pix slice into dst.
func fillRows(dst *Buffer, pix []byte, srcStride int) {
	rowBytes := dst.format.RowBytes(dst.width)
	for y := 0; y < dst.height; y++ {
		copy(dst.data[y*dst.stride:y*dst.stride+rowBytes], pix[y*srcStride:])
	}
}
