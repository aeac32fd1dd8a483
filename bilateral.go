package imaging

import (
	"fmt"
	"math"

	"github.com/gogpu/imaging/parallel"
)

// kernelSizeLimit is the safety ceiling on the bilateral kernel size.
// Processing cost grows quadratically with the kernel, so sizes above the
// limit are rejected unless LimitKernelSize is disabled.
const kernelSizeLimit = 35

// BilateralSmoothing is an edge-preserving smoothing filter.
//
// Each output pixel is the weighted average of its square kernel
// neighborhood; the weight of a neighbor is the product of a spatial
// distance term and a color similarity term, so strong edges keep their
// contrast while flat areas are smoothed. Weights are computed independently
// per channel for color images and once for grayscale.
//
// Both weight tables (spatial, indexed by kernel offset; color similarity,
// indexed by the pair of byte intensities) are precomputed lazily and rebuilt
// only when their governing parameters change.
//
// The filter processes in place and supports region restriction. The kernel
// reads neighbors outside the region (but inside the image), so the region's
// interior runs without per-pixel bounds checks and only the four border
// strips pay for checking. Set Engine to process interior rows in parallel;
// the output is bit-identical with and without an Engine.
//
// BilateralSmoothing is not safe for concurrent use on the same instance:
// the cached tables are rebuilt without locking.
type BilateralSmoothing struct {
	// KernelSize is the square kernel side length. Must be odd and within
	// [3, 255]; sizes above the safety ceiling of 35 are rejected unless
	// LimitKernelSize is false.
	KernelSize int

	// SpatialFactor is the falloff of the distance weight (a Gaussian
	// sigma, in pixels). Must be positive.
	SpatialFactor float64

	// ColorFactor is the falloff of the color similarity weight (a Gaussian
	// sigma, in intensity levels). Must be positive.
	ColorFactor float64

	// LimitKernelSize enforces the safety ceiling on KernelSize.
	LimitKernelSize bool

	// Engine, when non-nil, processes the interior rows in parallel, one
	// For index per output row. Border strips always run sequentially.
	Engine *parallel.Engine

	// Cached weight tables and the parameters they were built from.
	spatialTable []float64 // KernelSize*KernelSize entries
	colorTable   []float64 // 256*256 entries, indexed a<<8|b
	builtKernel  int
	builtSpatial float64
	builtColor   float64
}

// NewBilateralSmoothing creates a bilateral filter with the default
// parameters: 9x9 kernel, spatial factor 10, color factor 60, kernel size
// limit enforced.
func NewBilateralSmoothing() *BilateralSmoothing {
	return &BilateralSmoothing{
		KernelSize:      9,
		SpatialFactor:   10,
		ColorFactor:     60,
		LimitKernelSize: true,
	}
}

// FormatContract accepts the 8-bit-channel formats unchanged.
func (b *BilateralSmoothing) FormatContract() FormatContract {
	return identityContract(FormatGray8, FormatRGB24, FormatRGBA32)
}

// validate checks the filter parameters before any pixel is touched.
func (b *BilateralSmoothing) validate() error {
	k := b.KernelSize
	switch {
	case k < 3 || k > 255:
		return fmt.Errorf("%w: kernel size %d out of range [3, 255]", ErrInvalidParameter, k)
	case k%2 == 0:
		return fmt.Errorf("%w: kernel size %d must be odd", ErrInvalidParameter, k)
	case b.LimitKernelSize && k > kernelSizeLimit:
		return fmt.Errorf("%w: kernel size %d exceeds safety limit %d",
			ErrInvalidParameter, k, kernelSizeLimit)
	}
	if b.SpatialFactor <= 0 || b.ColorFactor <= 0 {
		return fmt.Errorf("%w: spatial and color factors must be positive", ErrInvalidParameter)
	}
	return nil
}

// ensureTables rebuilds the weight tables if the governing parameters have
// changed since the last build.
func (b *BilateralSmoothing) ensureTables() {
	k := b.KernelSize
	if b.spatialTable != nil && b.builtKernel == k &&
		b.builtSpatial == b.SpatialFactor && b.builtColor == b.ColorFactor {
		return
	}

	radius := k / 2
	b.spatialTable = make([]float64, k*k)
	inv2s := 1 / (2 * b.SpatialFactor * b.SpatialFactor)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			d2 := float64(dx*dx + dy*dy)
			b.spatialTable[(dy+radius)*k+(dx+radius)] = math.Exp(-d2 * inv2s)
		}
	}

	b.colorTable = make([]float64, 256*256)
	inv2c := 1 / (2 * b.ColorFactor * b.ColorFactor)
	for a := 0; a < 256; a++ {
		for v := 0; v < 256; v++ {
			d := float64(a - v)
			b.colorTable[a<<8|v] = math.Exp(-d * d * inv2c)
		}
	}

	b.builtKernel = k
	b.builtSpatial = b.SpatialFactor
	b.builtColor = b.ColorFactor
}

// ProcessRegion smooths buf inside region.
func (b *BilateralSmoothing) ProcessRegion(buf *Buffer, region Rect) error {
	if err := b.validate(); err != nil {
		return err
	}
	b.ensureTables()

	// The kernel reads neighbors, so the output must come from an immutable
	// snapshot of the input.
	src := buf.Clone()
	radius := b.KernelSize / 2

	// Interior: pixels whose whole kernel lies inside the image. Everything
	// else in the region belongs to a border strip and pays for per-pixel
	// bounds checks against the full image (not the region: the kernel may
	// read region-external neighbors).
	interior := region.Intersect(buf.Rect().Inset(radius))

	if !interior.Empty() {
		row := func(y int) {
			b.processRowUnchecked(src, buf, y, interior.X, interior.Right())
		}
		if b.Engine != nil {
			b.Engine.For(interior.Y, interior.Bottom(), row)
		} else {
			for y := interior.Y; y < interior.Bottom(); y++ {
				row(y)
			}
		}
		b.processBorders(src, buf, region, interior)
		return nil
	}

	// Region too small or too close to the edges for any interior.
	for y := region.Y; y < region.Bottom(); y++ {
		for x := region.X; x < region.Right(); x++ {
			b.processPixelChecked(src, buf, x, y)
		}
	}
	return nil
}

// processBorders runs the four strips of region not covered by interior.
func (b *BilateralSmoothing) processBorders(src, dst *Buffer, region, interior Rect) {
	checked := func(x1, y1, x2, y2 int) {
		for y := y1; y < y2; y++ {
			for x := x1; x < x2; x++ {
				b.processPixelChecked(src, dst, x, y)
			}
		}
	}

	// Top and bottom strips span the full region width; left and right
	// strips cover the interior's row range only.
	checked(region.X, region.Y, region.Right(), interior.Y)
	checked(region.X, interior.Bottom(), region.Right(), region.Bottom())
	checked(region.X, interior.Y, interior.X, interior.Bottom())
	checked(interior.Right(), interior.Y, region.Right(), interior.Bottom())
}

// processRowUnchecked computes output row y for x in [x1, x2) without
// per-pixel bounds checks. The caller guarantees the kernel stays inside the
// image for every pixel of the row.
func (b *BilateralSmoothing) processRowUnchecked(src, dst *Buffer, y, x1, x2 int) {
	k := b.builtKernel
	radius := k / 2
	stride := src.stride

	switch src.format {
	case FormatGray8:
		for x := x1; x < x2; x++ {
			center := int(src.data[y*stride+x])
			colorRow := b.colorTable[center<<8:]

			var sum, weight float64
			si := 0
			for ky := -radius; ky <= radius; ky++ {
				srow := src.data[(y+ky)*stride+x-radius:]
				for kx := 0; kx < k; kx++ {
					v := srow[kx]
					w := b.spatialTable[si] * colorRow[v]
					sum += w * float64(v)
					weight += w
					si++
				}
			}
			dst.data[y*stride+x] = byte(sum/weight + 0.5)
		}

	case FormatRGB24, FormatRGBA32:
		bpp := src.format.BytesPerPixel()
		for x := x1; x < x2; x++ {
			p := y*stride + x*bpp
			crRow := b.colorTable[int(src.data[p])<<8:]
			cgRow := b.colorTable[int(src.data[p+1])<<8:]
			cbRow := b.colorTable[int(src.data[p+2])<<8:]

			var sumR, sumG, sumB float64
			var wR, wG, wB float64
			si := 0
			for ky := -radius; ky <= radius; ky++ {
				srow := src.data[(y+ky)*stride+(x-radius)*bpp:]
				for kx := 0; kx < k; kx++ {
					s := b.spatialTable[si]
					si++
					q := kx * bpp
					vr, vg, vb := srow[q], srow[q+1], srow[q+2]

					w := s * crRow[vr]
					sumR += w * float64(vr)
					wR += w

					w = s * cgRow[vg]
					sumG += w * float64(vg)
					wG += w

					w = s * cbRow[vb]
					sumB += w * float64(vb)
					wB += w
				}
			}
			dst.data[p] = byte(sumR/wR + 0.5)
			dst.data[p+1] = byte(sumG/wG + 0.5)
			dst.data[p+2] = byte(sumB/wB + 0.5)
			// bpp == 4: alpha byte passes through untouched.
		}
	}
}

// processPixelChecked computes one output pixel with bounds checks against
// the full image; out-of-image neighbors contribute no weight.
func (b *BilateralSmoothing) processPixelChecked(src, dst *Buffer, x, y int) {
	k := b.builtKernel
	radius := k / 2
	stride := src.stride

	switch src.format {
	case FormatGray8:
		center := int(src.data[y*stride+x])
		colorRow := b.colorTable[center<<8:]

		var sum, weight float64
		for ky := -radius; ky <= radius; ky++ {
			ny := y + ky
			if ny < 0 || ny >= src.height {
				continue
			}
			for kx := -radius; kx <= radius; kx++ {
				nx := x + kx
				if nx < 0 || nx >= src.width {
					continue
				}
				v := src.data[ny*stride+nx]
				w := b.spatialTable[(ky+radius)*k+(kx+radius)] * colorRow[v]
				sum += w * float64(v)
				weight += w
			}
		}
		dst.data[y*stride+x] = byte(sum/weight + 0.5)

	case FormatRGB24, FormatRGBA32:
		bpp := src.format.BytesPerPixel()
		p := y*stride + x*bpp
		crRow := b.colorTable[int(src.data[p])<<8:]
		cgRow := b.colorTable[int(src.data[p+1])<<8:]
		cbRow := b.colorTable[int(src.data[p+2])<<8:]

		var sumR, sumG, sumB float64
		var wR, wG, wB float64
		for ky := -radius; ky <= radius; ky++ {
			ny := y + ky
			if ny < 0 || ny >= src.height {
				continue
			}
			for kx := -radius; kx <= radius; kx++ {
				nx := x + kx
				if nx < 0 || nx >= src.width {
					continue
				}
				s := b.spatialTable[(ky+radius)*k+(kx+radius)]
				q := ny*stride + nx*bpp
				vr, vg, vb := src.data[q], src.data[q+1], src.data[q+2]

				w := s * crRow[vr]
				sumR += w * float64(vr)
				wR += w

				w = s * cgRow[vg]
				sumG += w * float64(vg)
				wG += w

				w = s * cbRow[vb]
				sumB += w * float64(vb)
				wB += w
			}
		}
		dst.data[p] = byte(sumR/wR + 0.5)
		dst.data[p+1] = byte(sumG/wG + 0.5)
		dst.data[p+2] = byte(sumB/wB + 0.5)
	}
}
