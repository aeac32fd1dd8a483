package imaging

import "errors"

// Buffer errors.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("imaging: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("imaging: invalid format")

	// ErrInvalidStride is returned when stride is less than minimum required.
	ErrInvalidStride = errors.New("imaging: stride too small for width")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("imaging: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("imaging: coordinates out of bounds")
)

// Filter errors. All are detected before any pixel work begins, so a failed
// Apply or ApplyInPlace never leaves a partially mutated buffer behind.
var (
	// ErrUnsupportedFormat is returned when a source or destination format is
	// absent from the filter's format contract.
	ErrUnsupportedFormat = errors.New("imaging: unsupported pixel format")

	// ErrDimensionMismatch is returned when an overlay buffer does not match
	// the source in size or format.
	ErrDimensionMismatch = errors.New("imaging: dimension mismatch")

	// ErrInvalidParameter is returned when a filter parameter is out of range,
	// such as an even kernel size.
	ErrInvalidParameter = errors.New("imaging: invalid parameter")

	// ErrMissingOverlay is returned when a two-input filter is applied without
	// an overlay buffer.
	ErrMissingOverlay = errors.New("imaging: overlay buffer not supplied")
)
