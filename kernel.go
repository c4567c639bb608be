package retile

import (
	"fmt"
	"strings"
)

// Interpolation selects the resampling kernel.
type Interpolation int

const (
	Average Interpolation = iota
	Bilinear
	LanczosSmall
	LanczosLarge
	NearestNeighbor
	EPX
	Eagle
	XBR
)

// Family groups kernels by how the enlarge pipeline runs them.
type Family int

const (
	// Continuous kernels blend neighbours and need padding and NODATA fill.
	Continuous Family = iota
	// PixelArt kernels select among existing colours at integer scales.
	PixelArt
)

type kernelInfo struct {
	name   string
	extent int
	family Family
}

var kernels = [...]kernelInfo{
	Average:         {"average", 2, Continuous},
	Bilinear:        {"bilinear", 2, Continuous},
	LanczosSmall:    {"lanczos3", 3, Continuous},
	LanczosLarge:    {"lanczos5", 5, Continuous},
	NearestNeighbor: {"nearest", 1, PixelArt},
	EPX:             {"epx", 3, PixelArt},
	Eagle:           {"eagle", 3, PixelArt},
	XBR:             {"xbr", 5, PixelArt},
}

// Valid reports whether k names a known kernel.
func (k Interpolation) Valid() bool {
	return k >= 0 && int(k) < len(kernels)
}

// Extent is the radius in source pixels one output pixel may read.
func (k Interpolation) Extent() int {
	if !k.Valid() {
		return 0
	}
	return kernels[k].extent
}

// Family reports the pipeline used for k.
func (k Interpolation) Family() Family {
	if !k.Valid() {
		return Continuous
	}
	return kernels[k].family
}

// HighQuality reports whether k is served by the external resampler.
func (k Interpolation) HighQuality() bool {
	return k == LanczosSmall || k == LanczosLarge
}

func (k Interpolation) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Interpolation(%d)", int(k))
	}
	return kernels[k].name
}

func (f Family) String() string {
	if f == PixelArt {
		return "pixel-art"
	}
	return "continuous"
}

// ParseInterpolation maps a kernel name to its identifier.
// Aliases "nn", "lanczos" and "lanczos-large" are accepted.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "nn":
		return NearestNeighbor, nil
	case "lanczos":
		return LanczosSmall, nil
	case "lanczos-large":
		return LanczosLarge, nil
	}
	for i, k := range kernels {
		if k.name == s {
			return Interpolation(i), nil
		}
	}
	return 0, invalidf("unknown interpolation %q", s)
}
