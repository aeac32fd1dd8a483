package imaging

import "fmt"

// FormatContract declares which source formats a filter accepts and which
// destination format it produces for each. Applying a filter to a buffer
// whose format is absent from its contract is a usage error, reported as
// ErrUnsupportedFormat before any pixel work happens.
type FormatContract map[Format]Format

// identityContract builds a contract mapping each format to itself.
func identityContract(formats ...Format) FormatContract {
	c := make(FormatContract, len(formats))
	for _, f := range formats {
		c[f] = f
	}
	return c
}

// Filter is the minimal interface every pixel transform implements.
//
// A concrete transform composes Filter with one or more of the capability
// interfaces below; Apply and ApplyInPlace dispatch on which of them the
// transform implements.
type Filter interface {
	// FormatContract reports accepted source formats and the destination
	// format produced for each.
	FormatContract() FormatContract
}

// FrameFilter produces a whole new image from a source image.
// The destination is allocated by Apply according to the filter's contract
// and, for SizeComputer filters, the computed dimensions. ProcessFrame must
// not mutate src.
type FrameFilter interface {
	Filter
	ProcessFrame(src, dst *Buffer) error
}

// RegionFilter mutates pixels of buf inside region, which is already clipped
// to the buffer bounds and never empty. Pixels outside the region must be
// left untouched.
type RegionFilter interface {
	Filter
	ProcessRegion(buf *Buffer, region Rect) error
}

// OverlayFilter consumes a second input buffer of identical size and format,
// mutating buf inside region. The overlay has been validated against buf
// before the call and must not be written.
type OverlayFilter interface {
	Filter
	ProcessOverlay(buf, overlay *Buffer, region Rect) error
}

// SizeComputer is implemented by size-changing filters. Apply calls NewSize
// before allocating the destination buffer.
type SizeComputer interface {
	NewSize(src *Buffer) (width, height int)
}

// applyOptions collects the optional inputs of one Apply call.
type applyOptions struct {
	region    Rect
	hasRegion bool
	overlay   *Buffer
}

// Option configures an Apply or ApplyInPlace call.
type Option func(*applyOptions)

// WithRegion restricts the filter to an axis-aligned sub-rectangle of the
// source. The region is clipped to the source bounds; pixels outside it pass
// through unchanged. Only filters implementing RegionFilter or OverlayFilter
// support regions.
func WithRegion(r Rect) Option {
	return func(o *applyOptions) {
		o.region = r
		o.hasRegion = true
	}
}

// WithOverlay supplies the second input of a two-input filter, such as the
// background image of a Difference. The overlay must match the source in
// width, height and format.
func WithOverlay(overlay *Buffer) Option {
	return func(o *applyOptions) {
		o.overlay = overlay
	}
}

// Apply runs f against src and returns a new destination buffer.
// src is never mutated: filters that only process in place are run on a
// clone, which also gives out-of-region pixels their unchanged pass-through.
//
// All validation happens before any pixel work:
//   - src format must be in f's contract (ErrUnsupportedFormat)
//   - an OverlayFilter must be given an overlay via WithOverlay
//     (ErrMissingOverlay) matching src in size and format
//     (ErrDimensionMismatch); the overlay's pixels are not read during
//     validation
//   - a region given via WithRegion is clipped to the source bounds; a
//     region that clips to nothing makes the call a successful no-op
func Apply(f Filter, src *Buffer, opts ...Option) (*Buffer, error) {
	o, err := resolveOptions(f, src, opts)
	if err != nil {
		return nil, err
	}

	dstFormat := f.FormatContract()[src.format]

	// A frame filter resamples or reshapes the whole image; a sub-rectangle
	// has no meaning for it unless it also processes regions.
	_, isRegion := f.(RegionFilter)
	_, isOverlay := f.(OverlayFilter)
	if o.hasRegion && !isRegion && !isOverlay {
		return nil, fmt.Errorf("%w: filter does not support regions", ErrInvalidParameter)
	}

	if ff, ok := f.(FrameFilter); ok && !o.hasRegion {
		w, h := src.width, src.height
		if sc, ok := f.(SizeComputer); ok {
			w, h = sc.NewSize(src)
			if w <= 0 || h <= 0 {
				return nil, fmt.Errorf("%w: computed size %dx%d", ErrInvalidParameter, w, h)
			}
		}
		dst, err := NewBuffer(w, h, dstFormat)
		if err != nil {
			return nil, err
		}
		Logger().Debug("imaging: destination allocated",
			"width", w, "height", h, "format", dstFormat.String())
		if err := ff.ProcessFrame(src, dst); err != nil {
			return nil, err
		}
		return dst, nil
	}

	if !isRegion && !isOverlay {
		return nil, fmt.Errorf("%w: filter implements no processing interface", ErrInvalidParameter)
	}
	if err := requireInPlaceContract(src, dstFormat); err != nil {
		return nil, err
	}

	region, ok := clipRegion(src, o)
	if !ok {
		// Nothing to touch; the result is an unmodified copy.
		return src.Clone(), nil
	}

	if ff, ok := f.(OverlayFilter); ok {
		dst := src.Clone()
		if err := ff.ProcessOverlay(dst, o.overlay, region); err != nil {
			return nil, err
		}
		return dst, nil
	}
	return applyRegionClone(f.(RegionFilter), src, region)
}

// ApplyInPlace runs f directly on buf, mutating it. The filter must process
// in place (RegionFilter or OverlayFilter) and its contract must map the
// buffer's format to itself. Validation rules match Apply; on error the
// buffer is untouched.
func ApplyInPlace(f Filter, buf *Buffer, opts ...Option) error {
	o, err := resolveOptions(f, buf, opts)
	if err != nil {
		return err
	}

	dstFormat := f.FormatContract()[buf.format]
	if err := requireInPlaceContract(buf, dstFormat); err != nil {
		return err
	}

	region, ok := clipRegion(buf, o)
	if !ok {
		return nil
	}

	switch ff := f.(type) {
	case OverlayFilter:
		return ff.ProcessOverlay(buf, o.overlay, region)
	case RegionFilter:
		return ff.ProcessRegion(buf, region)
	default:
		return fmt.Errorf("%w: filter cannot run in place", ErrInvalidParameter)
	}
}

// resolveOptions parses options and performs every check that needs no pixel
// access: contract membership and overlay presence, size and format.
func resolveOptions(f Filter, src *Buffer, opts []Option) (*applyOptions, error) {
	if f == nil || src == nil {
		return nil, fmt.Errorf("%w: nil filter or source", ErrInvalidParameter)
	}

	o := &applyOptions{}
	for _, opt := range opts {
		opt(o)
	}

	if _, ok := f.FormatContract()[src.format]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, src.format)
	}

	if _, needs := f.(OverlayFilter); needs {
		if o.overlay == nil {
			return nil, ErrMissingOverlay
		}
		ov := o.overlay
		if ov.width != src.width || ov.height != src.height {
			return nil, fmt.Errorf("%w: overlay %dx%d, source %dx%d",
				ErrDimensionMismatch, ov.width, ov.height, src.width, src.height)
		}
		if ov.format != src.format {
			return nil, fmt.Errorf("%w: overlay format %s, source format %s",
				ErrDimensionMismatch, ov.format, src.format)
		}
	} else if o.overlay != nil {
		return nil, fmt.Errorf("%w: filter takes no overlay", ErrInvalidParameter)
	}

	return o, nil
}

// requireInPlaceContract rejects in-place application of a format-changing
// contract.
func requireInPlaceContract(buf *Buffer, dstFormat Format) error {
	if dstFormat != buf.format {
		return fmt.Errorf("%w: contract %s -> %s cannot run in place",
			ErrUnsupportedFormat, buf.format, dstFormat)
	}
	return nil
}

// clipRegion resolves the effective region of a call: the full frame when no
// region was requested, otherwise the request clipped to the buffer bounds.
// ok is false when the clipped region is empty.
func clipRegion(buf *Buffer, o *applyOptions) (region Rect, ok bool) {
	if !o.hasRegion {
		return buf.Rect(), true
	}
	r := o.region.Intersect(buf.Rect())
	if r.Empty() {
		return Rect{}, false
	}
	if r != o.region {
		Logger().Warn("imaging: region clipped to bounds",
			"requested", fmt.Sprintf("%+v", o.region), "clipped", fmt.Sprintf("%+v", r))
	}
	return r, true
}

// applyRegionClone runs an in-place region filter on a clone of src.
func applyRegionClone(f RegionFilter, src *Buffer, region Rect) (*Buffer, error) {
	dst := src.Clone()
	if err := f.ProcessRegion(dst, region); err != nil {
		return nil, err
	}
	return dst, nil
}
