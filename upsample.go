package retile

import (
	"context"
	"log/slog"

	"github.com/paulmach/orb/maptile"
)

// EnlargeOptions configures EnlargeTile.
type EnlargeOptions struct {
	// Resampler serves the Lanczos kernels. Nil means DefaultResampler; if
	// that is nil too they fall back to bilinear.
	Resampler Resampler
	// NeighborhoodFill adds a neighbourhood-mean pass to the NODATA fill of
	// continuous kernels. Off by default since it smears anti-aliased edges.
	NeighborhoodFill bool
	// BitmaskFilter makes nearest-neighbour coverage authoritative over the
	// output of continuous kernels. Off by default for the same reason.
	BitmaskFilter bool
	// XBR tunes the XBR kernel.
	XBR XBROptions
}

func (o *EnlargeOptions) orDefault() *EnlargeOptions {
	if o == nil {
		return &EnlargeOptions{}
	}
	return o
}

// EnlargeTile renders tile dest from src, the tile covering it at srcZoom.
// dest.Z must not be below srcZoom, and src and dst have the same size.
//
// When the part of src covering dest holds no data, dst is left untouched
// and roiWasEmpty is true.
func EnlargeTile(src, dst *Buffer, srcZoom maptile.Zoom, dest maptile.Tile, k Interpolation, opts *EnlargeOptions) (roiWasEmpty bool, err error) {
	if err := src.Validate(); err != nil {
		return false, err
	}
	if err := dst.Validate(); err != nil {
		return false, err
	}
	if src.Width != dst.Width || src.Height != dst.Height {
		return false, invalidf("source %dx%d and destination %dx%d differ in size", src.Width, src.Height, dst.Width, dst.Height)
	}
	if !k.Valid() {
		return false, invalidf("unknown interpolation %d", int(k))
	}
	opts = opts.orDefault()

	w, h := dst.Width, dst.Height
	roi, err := MapROI(srcZoom, dest, w, h)
	if err != nil {
		return false, err
	}
	has, err := HasAnyDataROI(src, roi.X, roi.Y, roi.X+roi.Width-1, roi.Y+roi.Height-1)
	if err != nil {
		return false, err
	}
	if !has {
		return true, nil
	}

	log := Logger()
	if log.Enabled(context.Background(), slog.LevelDebug) {
		log.Debug("retile: enlarge",
			slog.Any("tile", dest), slog.Int("src_zoom", int(srcZoom)),
			slog.Any("roi", roi), slog.Any("polygon", ROIPolygon(SourceTile(srcZoom, dest), roi, w, h)),
			slog.String("kernel", k.String()), slog.String("family", k.Family().String()))
	}

	if k.Family() == PixelArt {
		return false, enlargePixelArt(src, roi, dst, k, opts)
	}
	return false, enlargeContinuous(src, roi, dst, k, opts)
}

func enlargePixelArt(src *Buffer, roi ROI, dst *Buffer, k Interpolation, opts *EnlargeOptions) error {
	if k == NearestNeighbor || roi.Width == dst.Width {
		return EnlargeNN(src, roi, dst)
	}
	switch k {
	case EPX:
		return EnlargeEPX(src, roi, dst)
	case Eagle:
		return EnlargeEagle(src, roi, dst)
	case XBR:
		return EnlargeXBR(src, roi, dst, opts.XBR)
	}
	return invalidf("%s is not a pixel-art kernel", k)
}

// enlargeContinuous pads the ROI for the kernel's reach, copies what the
// tile holds of it into scratch, fills the NODATA around it, resamples to
// the padded tile size and crops the tile back out.
func enlargeContinuous(src *Buffer, roi ROI, dst *Buffer, k Interpolation, opts *EnlargeOptions) error {
	w, h := dst.Width, dst.Height

	var mask *Buffer
	if opts.BitmaskFilter {
		var err error
		if mask, err = getScratch(w, h); err != nil {
			return err
		}
		defer putScratch(mask)
		if err := EnlargeNNBitmask(src, roi, mask); err != nil {
			return err
		}
	}

	pad, err := PadForKernelExtent(k.Extent(), w, h, roi.Width, roi.Height)
	if err != nil {
		return err
	}
	copyW, copyH := ClampROIToBounds(w, h, roi.X, roi.Y, pad.ROIW, pad.ROIH)

	crop, err := getScratch(pad.ROIW, pad.ROIH)
	if err != nil {
		return err
	}
	defer putScratch(crop)
	crop.CopyFrom(src, roi.X, roi.Y, 0, 0, copyW, copyH)
	clearNodataColour(crop)
	if err := FillNodata(crop, copyW, copyH, true, opts.NeighborhoodFill); err != nil {
		return err
	}

	big, err := getScratch(pad.TileW, pad.TileH)
	if err != nil {
		return err
	}
	defer putScratch(big)
	if err := resampleContinuous(big, crop, k, opts.Resampler); err != nil {
		return err
	}

	for y := 0; y < h; y++ {
		out := dst.Row(y)
		in := big.Row(y)[:w]
		if mask == nil {
			copy(out, in)
			continue
		}
		m := mask.Row(y)
		AndPixels(in, m, out)
		for x, bit := range m {
			if bit != 0 && out[x]>>24 == 0 {
				out[x] = out[x]&0x00FFFFFF | alphaOne
			}
		}
	}
	return nil
}

func resampleContinuous(dst, src *Buffer, k Interpolation, r Resampler) error {
	if !k.HighQuality() {
		return ResizeBilinear(dst, src)
	}
	if r == nil {
		r = DefaultResampler
	}
	if r == nil {
		Logger().Warn("retile: no resampler for high quality enlarge, using bilinear",
			slog.String("kernel", k.String()))
		return ResizeBilinear(dst, src)
	}
	return r.Resample(dst, src, qualityFor(k))
}
