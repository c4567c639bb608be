package retile

import (
	"log/slog"

	"github.com/paulmach/orb/maptile"
)

// HalveOptions configures HalveTile and AccumulateHalfIntoQuadrant.
type HalveOptions struct {
	// Resampler serves the Lanczos kernels. Nil means DefaultResampler.
	Resampler Resampler
}

func (o *HalveOptions) resampler() Resampler {
	if o == nil || o.Resampler == nil {
		return DefaultResampler
	}
	return o.Resampler
}

// alphaWeightedBlend combines two pixels so NODATA never leaks into data.
// When both carry data each channel is (a+b+1)>>1, the mean rounded half up,
// so 255 and 255 stay 255. When only one carries data it is returned as is.
// When neither does the result is Nodata.
func alphaWeightedBlend(a, b uint32) uint32 {
	switch {
	case a>>24 != 0 && b>>24 != 0:
		// per-byte ceil((a+b)/2) without carries between channels
		return (a | b) - ((a ^ b) >> 1 & 0x7F7F7F7F)
	case a>>24 != 0:
		return a
	case b>>24 != 0:
		return b
	}
	return Nodata
}

// HalveTile writes a half-size rendition of src into dst. src must have even
// dimensions and dst must be exactly half its size.
//
// Average (and every kernel without a dedicated halving path) averages 2x2
// blocks with NODATA protection. The Lanczos kernels run the resampler and
// then correct its alpha against the source coverage.
func HalveTile(src, dst *Buffer, k Interpolation, opts *HalveOptions) error {
	if err := checkHalving(src, dst); err != nil {
		return err
	}
	if dst.Width != src.Width/2 || dst.Height != src.Height/2 {
		return invalidf("halving %dx%d into %dx%d", src.Width, src.Height, dst.Width, dst.Height)
	}
	return halve(src, dst, k, opts)
}

// AccumulateHalfIntoQuadrant halves src, the tile srcTile, into the quadrant
// of dst that srcTile covers inside its parent dstTile. src and dst have the
// same size. Calling it for all four children builds the parent.
func AccumulateHalfIntoQuadrant(src *Buffer, srcTile maptile.Tile, dst *Buffer, dstTile maptile.Tile, k Interpolation, opts *HalveOptions) error {
	if err := checkHalving(src, dst); err != nil {
		return err
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return invalidf("child %dx%d and parent %dx%d differ in size", src.Width, src.Height, dst.Width, dst.Height)
	}
	if srcTile.Z != dstTile.Z+1 || srcTile.Parent() != dstTile {
		return invalidf("tile %v is not a child of %v", srcTile, dstTile)
	}
	offX, offY := PxOffset(srcTile, dstTile, src.Width, src.Height)
	quad, err := dst.Sub(offX, offY, src.Width/2, src.Height/2)
	if err != nil {
		return err
	}
	Logger().Debug("retile: accumulate quadrant",
		slog.Any("child", srcTile), slog.Any("parent", dstTile),
		slog.Int("x", offX), slog.Int("y", offY), slog.String("kernel", k.String()))
	return halve(src, quad, k, opts)
}

func checkHalving(src, dst *Buffer) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	if src.Width%2 != 0 || src.Height%2 != 0 {
		return invalidf("halving needs even dimensions, got %dx%d", src.Width, src.Height)
	}
	return nil
}

func halve(src, dst *Buffer, k Interpolation, opts *HalveOptions) error {
	if !k.Valid() {
		return invalidf("unknown interpolation %d", int(k))
	}
	if !k.HighQuality() {
		halveAverage(src, dst)
		return nil
	}
	r := opts.resampler()
	if r == nil {
		Logger().Warn("retile: no resampler for high quality halving, averaging instead",
			slog.String("kernel", k.String()))
		halveAverage(src, dst)
		return nil
	}
	if err := r.Resample(dst, src, qualityFor(k)); err != nil {
		return err
	}
	applyHalvingAuthority(src, dst)
	return nil
}

// halveAverage averages each row pair horizontally, then combines the two
// half rows vertically with the same blend.
func halveAverage(src, dst *Buffer) {
	for y := 0; y < dst.Height; y++ {
		r0 := src.Row(2 * y)
		r1 := src.Row(2*y + 1)
		out := dst.Row(y)
		for x := range out {
			top := alphaWeightedBlend(r0[2*x], r0[2*x+1])
			bottom := alphaWeightedBlend(r1[2*x], r1[2*x+1])
			out[x] = alphaWeightedBlend(top, bottom)
		}
	}
}

// halvingMaskRow sets mask[x] to 1 when either pixel of the horizontal pair
// feeding output x has data.
func halvingMaskRow(row []uint32, mask []uint8) {
	for x := range mask {
		if row[2*x]>>24 != 0 || row[2*x+1]>>24 != 0 {
			mask[x] = 1
		} else {
			mask[x] = 0
		}
	}
}

// applyHalvingAuthority makes the source coverage authoritative over a
// resampled half-size dst: uncovered pixels become Nodata and covered pixels
// keep at least alpha 1.
func applyHalvingAuthority(src, dst *Buffer) {
	m0 := make([]uint8, dst.Width)
	m1 := make([]uint8, dst.Width)
	for y := 0; y < dst.Height; y++ {
		halvingMaskRow(src.Row(2*y), m0)
		halvingMaskRow(src.Row(2*y+1), m1)
		for x := range m0 {
			m0[x] |= m1[x]
		}
		applyMaskRow(dst.Row(y), m0)
	}
}

func applyMaskRow(row []uint32, mask []uint8) {
	for x, m := range mask {
		switch {
		case m == 0:
			row[x] = Nodata
		case row[x]>>24 == 0:
			row[x] = row[x]&0x00FFFFFF | alphaOne
		}
	}
}
