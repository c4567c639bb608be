package retile_test

import (
	"errors"
	"testing"

	"github.com/tingold/retile"
)

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in     string
		want   retile.Interpolation
		extent int
		family retile.Family
	}{
		{"average", retile.Average, 2, retile.Continuous},
		{"bilinear", retile.Bilinear, 2, retile.Continuous},
		{"lanczos3", retile.LanczosSmall, 3, retile.Continuous},
		{"Lanczos", retile.LanczosSmall, 3, retile.Continuous},
		{"lanczos5", retile.LanczosLarge, 5, retile.Continuous},
		{"lanczos-large", retile.LanczosLarge, 5, retile.Continuous},
		{"nearest", retile.NearestNeighbor, 1, retile.PixelArt},
		{" nn ", retile.NearestNeighbor, 1, retile.PixelArt},
		{"epx", retile.EPX, 3, retile.PixelArt},
		{"eagle", retile.Eagle, 3, retile.PixelArt},
		{"XBR", retile.XBR, 5, retile.PixelArt},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := retile.ParseInterpolation(tt.in)
			if err != nil {
				t.Fatalf("ParseInterpolation: %v", err)
			}
			if k != tt.want {
				t.Errorf("got %v, want %v", k, tt.want)
			}
			if k.Extent() != tt.extent {
				t.Errorf("Extent = %d, want %d", k.Extent(), tt.extent)
			}
			if k.Family() != tt.family {
				t.Errorf("Family = %v, want %v", k.Family(), tt.family)
			}
			if back, err := retile.ParseInterpolation(k.String()); err != nil || back != k {
				t.Errorf("String %q does not parse back: %v %v", k.String(), back, err)
			}
		})
	}
}

func TestParseInterpolationUnknown(t *testing.T) {
	if _, err := retile.ParseInterpolation("bicubic"); !errors.Is(err, retile.ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	k := retile.Interpolation(-1)
	if k.Valid() || k.Extent() != 0 || k.String() != "Interpolation(-1)" {
		t.Errorf("invalid kernel reported as %v extent %d", k, k.Extent())
	}
}

func TestHighQuality(t *testing.T) {
	for k := retile.Average; k <= retile.XBR; k++ {
		want := k == retile.LanczosSmall || k == retile.LanczosLarge
		if k.HighQuality() != want {
			t.Errorf("%v: HighQuality = %v", k, k.HighQuality())
		}
	}
}
