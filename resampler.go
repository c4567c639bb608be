package retile

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Quality selects the kernel size of a high-quality resampler.
type Quality int

const (
	QualitySmall Quality = iota
	QualityLarge
)

// Resampler scales src to exactly dst's size. It sees NODATA as ordinary
// pixels; callers mask and fill around it.
type Resampler interface {
	Resample(dst, src *Buffer, q Quality) error
}

// DefaultResampler serves Lanczos kernels when options leave Resampler nil.
// Setting it to nil makes those kernels fall back to the cheaper paths.
var DefaultResampler Resampler = DrawResampler{}

// DrawResampler resamples with golang.org/x/image/draw Lanczos kernels:
// a=3 for QualitySmall and a=5 for QualityLarge.
type DrawResampler struct{}

var (
	lanczos3 = &draw.Kernel{Support: 3, At: lanczos(3)}
	lanczos5 = &draw.Kernel{Support: 5, At: lanczos(5)}
)

func lanczos(a float64) func(float64) float64 {
	return func(t float64) float64 {
		if t < 0 {
			t = -t
		}
		if t < 1e-12 {
			return 1
		}
		if t >= a {
			return 0
		}
		pt := math.Pi * t
		return a * math.Sin(pt) * math.Sin(pt/a) / (pt * pt)
	}
}

func qualityFor(k Interpolation) Quality {
	if k == LanczosLarge {
		return QualityLarge
	}
	return QualitySmall
}

// Resample implements Resampler. Buffers go through image.NRGBA so the
// scaler unpremultiplies on the way out and straight colour survives.
func (DrawResampler) Resample(dst, src *Buffer, q Quality) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	kernel := lanczos3
	if q == QualityLarge {
		kernel = lanczos5
	}
	in := src.ToNRGBA()
	out := image.NewNRGBA(image.Rect(0, 0, dst.Width, dst.Height))
	kernel.Scale(out, out.Bounds(), in, in.Bounds(), draw.Src, nil)
	dst.loadNRGBA(out)
	return nil
}
