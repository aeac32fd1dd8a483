package imaging

// Buffer is a stride-aware raster buffer.
//
// Buffer stores pixel data in a contiguous byte slice. Rows may carry
// alignment padding: the byte length of one row is the stride, which is at
// least Format.RowBytes(width) but may be larger. Pixel (x, y) starts at byte
// offset y*stride + x*bytesPerPixel. Code traversing a Buffer must never
// assume stride == width*bytesPerPixel.
//
// The storage may be owned by the caller (see FromRaw): filters never free a
// source buffer and only allocate destination buffers.
//
// Thread safety: Buffer is safe for concurrent read access. Write operations
// require external synchronization.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewBuffer creates a new buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewBuffer(width, height int, format Format) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	stride := format.RowBytes(width)
	data := make([]byte, stride*height)

	return &Buffer{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// NewBufferWithStride creates a new buffer with custom stride for alignment.
// Stride must be at least format.RowBytes(width).
func NewBufferWithStride(width, height int, format Format, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	data := make([]byte, stride*height)

	return &Buffer{
		data:   data,
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates a Buffer from existing data without copying.
// The caller must ensure data remains valid for the lifetime of the Buffer.
// Stride must be at least format.RowBytes(width).
func FromRaw(data []byte, width, height int, format Format, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	if !format.IsValid() {
		return nil, ErrInvalidFormat
	}

	minStride := format.RowBytes(width)
	if stride < minStride {
		return nil, ErrInvalidStride
	}

	requiredSize := stride * height
	if len(data) < requiredSize {
		return nil, ErrDataTooSmall
	}

	return &Buffer{
		data:   data[:requiredSize],
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// Clone creates a deep copy of the buffer, including row padding.
func (b *Buffer) Clone() *Buffer {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &Buffer{
		data:   newData,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes per row (including padding).
func (b *Buffer) Stride() int {
	return b.stride
}

// Format returns the pixel format.
func (b *Buffer) Format() Format {
	return b.format
}

// Rect returns the full bounds of the buffer as a Rect at the origin.
func (b *Buffer) Rect() Rect {
	return Rect{Width: b.width, Height: b.height}
}

// Data returns the raw pixel data slice, including any row padding.
func (b *Buffer) Data() []byte {
	return b.data
}

// Row returns a slice of the pixel data for row y, excluding row padding.
// Returns nil if y is out of bounds.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	end := start + b.format.RowBytes(b.width)
	return b.data[start:end]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *Buffer) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// Pixel returns a slice of the raw bytes for pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *Buffer) Pixel(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	bpp := b.format.BytesPerPixel()
	return b.data[offset : offset+bpp]
}

// SetPixel sets the raw bytes for pixel (x, y).
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *Buffer) SetPixel(x, y int, pixel []byte) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	bpp := b.format.BytesPerPixel()
	copy(b.data[offset:offset+bpp], pixel)
	return nil
}

// Clear sets all bytes to zero, padding included.
func (b *Buffer) Clear() {
	clear(b.data)
}

// Fill sets every pixel to the given raw value. The value must be exactly
// BytesPerPixel long; shorter values fill only the leading bytes of each
// pixel. Row padding is left untouched.
func (b *Buffer) Fill(pixel []byte) {
	bpp := b.format.BytesPerPixel()
	for y := 0; y < b.height; y++ {
		row := b.data[y*b.stride:]
		for x := 0; x < b.width; x++ {
			copy(row[x*bpp:x*bpp+bpp], pixel)
		}
	}
}

// View returns a buffer sharing storage with b, restricted to region.
// The region is clipped to the buffer bounds first. Modifications through the
// view affect the original and vice versa. Returns nil if the clipped region
// is empty.
func (b *Buffer) View(region Rect) *Buffer {
	r := region.Intersect(b.Rect())
	if r.Empty() {
		return nil
	}

	offset := r.Y*b.stride + r.X*b.format.BytesPerPixel()
	end := (r.Bottom()-1)*b.stride + r.Right()*b.format.BytesPerPixel()

	return &Buffer{
		data:   b.data[offset:end],
		width:  r.Width,
		height: r.Height,
		stride: b.stride, // Keep original stride for proper row access
		format: b.format,
	}
}

// ByteSize returns the total size of the pixel data in bytes.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}
