package retile_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/tingold/retile"
)

// bruteCount is the per-pixel reference for the ROI scanners.
func bruteCount(b *retile.Buffer, x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !retile.IsNodata(b.At(x, y)) {
				n++
			}
		}
	}
	return n
}

func sparseTile(rng *rand.Rand, w, h, stride int, density float64) *retile.Buffer {
	b := &retile.Buffer{Pix: make([]uint32, (h-1)*stride+w), Width: w, Height: h, Stride: stride}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if rng.Float64() < density {
				b.Set(x, y, rng.Uint32()|0x01000000)
			} else {
				b.Set(x, y, rng.Uint32()&0x00FFFFFF)
			}
		}
	}
	return b
}

func TestHasAnyDataROIMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, density := range []float64{0, 0.0005, 0.01, 0.5, 1} {
		b := sparseTile(rng, 64, 48, 70, density)
		for i := 0; i < 200; i++ {
			x0, y0 := rng.Intn(64), rng.Intn(48)
			x1, y1 := x0+rng.Intn(64-x0), y0+rng.Intn(48-y0)
			want := bruteCount(b, x0, y0, x1, y1)
			got, err := retile.HasAnyDataROI(b, x0, y0, x1, y1)
			if err != nil {
				t.Fatalf("HasAnyDataROI: %v", err)
			}
			if got != (want > 0) {
				t.Fatalf("density %v roi (%d,%d)-(%d,%d): HasAnyDataROI = %v, brute count %d", density, x0, y0, x1, y1, got, want)
			}
			n, err := retile.CountNonTransparentROI(b, x0, y0, x1, y1)
			if err != nil {
				t.Fatalf("CountNonTransparentROI: %v", err)
			}
			if n != want {
				t.Fatalf("density %v roi (%d,%d)-(%d,%d): count = %d, want %d", density, x0, y0, x1, y1, n, want)
			}
		}
	}
}

func TestHasAnyDataROIIgnoresBufferOrigin(t *testing.T) {
	b := retile.NewBuffer(16, 16)
	b.Set(0, 0, retile.Pack(1, 2, 3, 255))
	got, err := retile.HasAnyDataROI(b, 8, 8, 15, 15)
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("data at the buffer origin leaked into an ROI that excludes it")
	}
}

func TestHasAnyData(t *testing.T) {
	tests := []struct {
		name string
		v    []uint32
		want bool
	}{
		{"empty", nil, false},
		{"all zero", make([]uint32, 1000), false},
		{"colour without alpha", []uint32{0x00FFFFFF, 0x00123456}, false},
		{"first pixel", append([]uint32{0xFF000000}, make([]uint32, 999)...), true},
		{"last pixel of long run", append(make([]uint32, 999), 0x01000000), true},
		{"block boundary", append(make([]uint32, 256), 0x80000000), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retile.HasAnyData(tt.v); got != tt.want {
				t.Errorf("HasAnyData = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestROIScannerRejectsBadRectangles(t *testing.T) {
	b := retile.NewBuffer(8, 8)
	for _, r := range [][4]int{{-1, 0, 3, 3}, {0, 0, 8, 3}, {4, 4, 3, 5}, {0, 0, 7, 8}} {
		if _, err := retile.HasAnyDataROI(b, r[0], r[1], r[2], r[3]); !errors.Is(err, retile.ErrInvalidArgument) {
			t.Errorf("HasAnyDataROI%v: err = %v, want ErrInvalidArgument", r, err)
		}
		if _, err := retile.CountNonTransparentROI(b, r[0], r[1], r[2], r[3]); !errors.Is(err, retile.ErrInvalidArgument) {
			t.Errorf("CountNonTransparentROI%v: err = %v, want ErrInvalidArgument", r, err)
		}
	}
}
