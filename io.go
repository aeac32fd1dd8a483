package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// I/O errors.
var (
	// ErrUnsupportedFileFormat is returned when the file format is not supported.
	ErrUnsupportedFileFormat = errors.New("imaging: unsupported file format")

	// ErrEmptyData is returned when image data is empty.
	ErrEmptyData = errors.New("imaging: empty data")
)

// FromImage converts a standard library image into a Buffer, copying the
// pixels. Grayscale and 16-bit inputs keep their depth; everything else
// converts to RGBA32. The stride of the input image is honored, so sub-images
// convert correctly.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidParameter)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch m := img.(type) {
	case *image.Gray:
		return copyPix(m.Pix[m.PixOffset(bounds.Min.X, bounds.Min.Y):], m.Stride, w, h, FormatGray8)
	case *image.Gray16:
		// image.Gray16 stores big-endian words, as Buffer does.
		return copyPix(m.Pix[m.PixOffset(bounds.Min.X, bounds.Min.Y):], m.Stride, w, h, FormatGray16)
	case *image.NRGBA:
		return copyPix(m.Pix[m.PixOffset(bounds.Min.X, bounds.Min.Y):], m.Stride, w, h, FormatRGBA32)
	case *image.NRGBA64:
		return copyPix(m.Pix[m.PixOffset(bounds.Min.X, bounds.Min.Y):], m.Stride, w, h, FormatRGBA64)
	default:
		// Generic path: unpremultiply through NRGBA, then copy.
		tmp := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.Draw(tmp, tmp.Bounds(), img, bounds.Min, draw.Src)
		return copyPix(tmp.Pix, tmp.Stride, w, h, FormatRGBA32)
	}
}

// copyPix copies pixel rows from a stdlib Pix slice into a fresh Buffer.
func copyPix(pix []byte, srcStride, w, h int, format Format) (*Buffer, error) {
	buf, err := NewBuffer(w, h, format)
	if err != nil {
		return nil, err
	}
	rowBytes := format.RowBytes(w)
	for y := 0; y < h; y++ {
		copy(buf.data[y*buf.stride:y*buf.stride+rowBytes], pix[y*srcStride:])
	}
	return buf, nil
}

// ToImage converts a Buffer into a standard library image, copying the
// pixels. Grayscale formats map to image.Gray/Gray16; color formats map to
// image.NRGBA/NRGBA64, with opaque alpha synthesized for the alpha-less
// RGB24 and RGB48.
func ToImage(b *Buffer) image.Image {
	switch b.format {
	case FormatGray8:
		img := image.NewGray(image.Rect(0, 0, b.width, b.height))
		copyRows(img.Pix, img.Stride, b)
		return img

	case FormatGray16:
		img := image.NewGray16(image.Rect(0, 0, b.width, b.height))
		copyRows(img.Pix, img.Stride, b)
		return img

	case FormatRGBA32:
		img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
		copyRows(img.Pix, img.Stride, b)
		return img

	case FormatRGBA64:
		img := image.NewNRGBA64(image.Rect(0, 0, b.width, b.height))
		copyRows(img.Pix, img.Stride, b)
		return img

	case FormatRGB24:
		img := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
		for y := 0; y < b.height; y++ {
			srow := b.data[y*b.stride:]
			drow := img.Pix[y*img.Stride:]
			for x := 0; x < b.width; x++ {
				copy(drow[x*4:x*4+3], srow[x*3:x*3+3])
				drow[x*4+3] = 0xFF
			}
		}
		return img

	case FormatRGB48:
		img := image.NewNRGBA64(image.Rect(0, 0, b.width, b.height))
		for y := 0; y < b.height; y++ {
			srow := b.data[y*b.stride:]
			drow := img.Pix[y*img.Stride:]
			for x := 0; x < b.width; x++ {
				copy(drow[x*8:x*8+6], srow[x*6:x*6+6])
				drow[x*8+6] = 0xFF
				drow[x*8+7] = 0xFF
			}
		}
		return img

	default:
		return nil
	}
}

// copyRows copies unpadded pixel rows of b into a stdlib Pix slice.
func copyRows(pix []byte, dstStride int, b *Buffer) {
	rowBytes := b.format.RowBytes(b.width)
	for y := 0; y < b.height; y++ {
		copy(pix[y*dstStride:], b.data[y*b.stride:y*b.stride+rowBytes])
	}
}

// LoadImageFromBytes loads an image from a byte slice, auto-detecting the
// format.
func LoadImageFromBytes(data []byte) (*Buffer, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}
	return Decode(bytes.NewReader(data))
}

// Decode decodes an image from the given reader, auto-detecting the format.
// Supported formats: PNG, BMP, TIFF.
func Decode(r io.Reader) (*Buffer, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	Logger().Debug("imaging: decoded image", "format", format)
	return FromImage(img)
}

// LoadImage loads an image from the given file path, auto-detecting the
// format from the content. Supported formats: PNG, BMP, TIFF.
func LoadImage(path string) (*Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imaging: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// EncodePNG writes the buffer as PNG.
func EncodePNG(w io.Writer, b *Buffer) error {
	return png.Encode(w, ToImage(b))
}

// EncodeBMP writes the buffer as BMP.
func EncodeBMP(w io.Writer, b *Buffer) error {
	return bmp.Encode(w, ToImage(b))
}

// EncodeTIFF writes the buffer as uncompressed TIFF. TIFF is the only
// supported container that round-trips the 16-bit formats.
func EncodeTIFF(w io.Writer, b *Buffer) error {
	return tiff.Encode(w, ToImage(b), nil)
}

// SaveImage saves the buffer to the given file path; the format is chosen
// from the extension (.png, .bmp, .tif/.tiff).
func SaveImage(path string, b *Buffer) error {
	var encode func(io.Writer, *Buffer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = EncodePNG
	case ".bmp":
		encode = EncodeBMP
	case ".tif", ".tiff":
		encode = EncodeTIFF
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFileFormat, filepath.Ext(path))
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imaging: create file: %w", err)
	}

	if err := encode(f, b); err != nil {
		_ = f.Close()
		return fmt.Errorf("imaging: encode: %w", err)
	}
	return f.Close()
}
