// Package imaging provides the shared execution core for pixel-level image
// transforms.
//
// # Overview
//
// imaging is a Pure Go library built around two pieces: a filter pipeline
// framework operating on raw, stride-aware pixel buffers, and a reusable
// worker pool (the parallel subpackage) that distributes index-range work
// across long-lived goroutines. Concrete transforms implement a small set of
// capability interfaces and inherit the shared validation logic: format
// negotiation, overlay matching and region clipping.
//
// # Quick Start
//
//	import "github.com/gogpu/imaging"
//
//	// Wrap caller-owned pixel storage (stride-aware, no copy)
//	buf, err := imaging.FromRaw(data, 640, 480, imaging.FormatRGB24, stride)
//
//	// Apply a transform to a new image
//	gray, err := imaging.Apply(imaging.NewGrayscale(), buf)
//
//	// Mutate a sub-rectangle in place
//	err = imaging.ApplyInPlace(&imaging.Invert{}, buf,
//	    imaging.WithRegion(imaging.Rect{X: 0, Y: 0, Width: 320, Height: 480}))
//
// # Architecture
//
// The library is organized into:
//   - Public API: Buffer, Format, Rect, the Filter capability interfaces and
//     the Apply/ApplyInPlace entry points
//   - parallel: the Engine worker pool (Configure/For), usable standalone by
//     transforms that split a region into per-row work
//
// # Pixel formats
//
// Six storage formats are supported: Gray8, Gray16, RGB24, RGBA32, RGB48 and
// RGBA64. Multi-byte channels are big-endian, matching the standard library's
// image.Gray16 and image.RGBA64. Rows may carry alignment padding: every
// traversal in this library goes through the buffer stride, never through
// width*bytesPerPixel.
//
// # Thread safety
//
// Buffers are safe for concurrent reads; writers need external
// synchronization. Filter values carry parameters and cached tables and are
// not safe for concurrent Apply calls on the same instance. The parallel
// Engine is safe for concurrent use and serializes overlapping For calls.
package imaging
