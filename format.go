package imaging

// Format represents a pixel storage format.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale or indexed (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatGray16 is 16-bit grayscale (2 bytes per pixel, big-endian).
	FormatGray16

	// FormatRGB24 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB24

	// FormatRGBA32 is 32-bit RGBA (4 bytes per pixel).
	// This is the standard format for most operations.
	FormatRGBA32

	// FormatRGB48 is 48-bit RGB (6 bytes per pixel, big-endian channels).
	FormatRGB48

	// FormatRGBA64 is 64-bit RGBA (8 bytes per pixel, big-endian channels).
	FormatRGBA64

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// BytesPerPixel is the number of bytes per pixel.
	BytesPerPixel int

	// Channels is the number of color channels.
	Channels int

	// HasAlpha indicates if the format has an alpha channel.
	HasAlpha bool

	// IsGrayscale indicates if this is a grayscale format.
	IsGrayscale bool

	// BitsPerChannel is the number of bits per color channel.
	BitsPerChannel int
}

// formatInfoTable contains metadata for each format.
var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8: {
		BytesPerPixel:  1,
		Channels:       1,
		HasAlpha:       false,
		IsGrayscale:    true,
		BitsPerChannel: 8,
	},
	FormatGray16: {
		BytesPerPixel:  2,
		Channels:       1,
		HasAlpha:       false,
		IsGrayscale:    true,
		BitsPerChannel: 16,
	},
	FormatRGB24: {
		BytesPerPixel:  3,
		Channels:       3,
		HasAlpha:       false,
		IsGrayscale:    false,
		BitsPerChannel: 8,
	},
	FormatRGBA32: {
		BytesPerPixel:  4,
		Channels:       4,
		HasAlpha:       true,
		IsGrayscale:    false,
		BitsPerChannel: 8,
	},
	FormatRGB48: {
		BytesPerPixel:  6,
		Channels:       3,
		HasAlpha:       false,
		IsGrayscale:    false,
		BitsPerChannel: 16,
	},
	FormatRGBA64: {
		BytesPerPixel:  8,
		Channels:       4,
		HasAlpha:       true,
		IsGrayscale:    false,
		BitsPerChannel: 16,
	},
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// BytesPerPixel returns the number of bytes per pixel for this format.
func (f Format) BytesPerPixel() int {
	return f.Info().BytesPerPixel
}

// Channels returns the number of color channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// HasAlpha returns true if this format has an alpha channel.
func (f Format) HasAlpha() bool {
	return f.Info().HasAlpha
}

// IsGrayscale returns true if this is a grayscale format.
func (f Format) IsGrayscale() bool {
	return f.Info().IsGrayscale
}

// BitsPerChannel returns the number of bits per color channel.
func (f Format) BitsPerChannel() int {
	return f.Info().BitsPerChannel
}

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "Gray8"
	case FormatGray16:
		return "Gray16"
	case FormatRGB24:
		return "RGB24"
	case FormatRGBA32:
		return "RGBA32"
	case FormatRGB48:
		return "RGB48"
	case FormatRGBA64:
		return "RGBA64"
	default:
		return "Unknown"
	}
}

// IsValid returns true if the format is a valid known format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// RowBytes calculates the number of bytes needed for a row of the given width.
func (f Format) RowBytes(width int) int {
	return width * f.BytesPerPixel()
}

// ImageBytes calculates the total number of bytes needed for an image.
func (f Format) ImageBytes(width, height int) int {
	return f.RowBytes(width) * height
}
