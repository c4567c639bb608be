package retile_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/paulmach/orb/maptile"
	"github.com/tingold/retile"
)

var red = retile.Pack(255, 0, 0, 255)

func solid(w, h int, p uint32) *retile.Buffer {
	b := retile.NewBuffer(w, h)
	b.Fill(p)
	return b
}

// constResampler ignores its input, like a resampler whose ringing
// overwhelmed the signal.
type constResampler struct{ p uint32 }

func (c constResampler) Resample(dst, src *retile.Buffer, q retile.Quality) error {
	dst.Fill(c.p)
	return nil
}

func TestHalveAverageFullBlocks(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	src := retile.NewBuffer(64, 64)
	for i := range src.Pix {
		src.Pix[i] = rng.Uint32() | 0x01000000
	}
	dst := retile.NewBuffer(32, 32)
	if err := retile.HalveTile(src, dst, retile.Average, nil); err != nil {
		t.Fatalf("HalveTile: %v", err)
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			got := dst.At(x, y)
			for s := uint(0); s < 32; s += 8 {
				sum := 0.0
				for _, p := range []uint32{src.At(2*x, 2*y), src.At(2*x+1, 2*y), src.At(2*x, 2*y+1), src.At(2*x+1, 2*y+1)} {
					sum += float64(p >> s & 0xFF)
				}
				if d := math.Abs(float64(got>>s&0xFF) - sum/4); d > 1 {
					t.Fatalf("pixel (%d,%d) channel %d: %d is %.2f away from the mean", x, y, s/8, got>>s&0xFF, d)
				}
			}
		}
	}
}

func TestHalveAverageNodata(t *testing.T) {
	src := retile.NewBuffer(4, 2)
	// block 0: colour without alpha only
	src.Set(0, 0, retile.Pack(200, 200, 200, 0))
	src.Set(1, 1, retile.Pack(10, 10, 10, 0))
	// block 1: a single data pixel among NODATA with colour
	lone := retile.Pack(17, 34, 51, 68)
	src.Set(2, 0, retile.Pack(255, 255, 255, 0))
	src.Set(3, 1, lone)
	dst := retile.NewBuffer(2, 1)
	if err := retile.HalveTile(src, dst, retile.Average, nil); err != nil {
		t.Fatalf("HalveTile: %v", err)
	}
	if dst.At(0, 0) != 0 {
		t.Errorf("all-NODATA block = %#08x, want 0", dst.At(0, 0))
	}
	if dst.At(1, 0) != lone {
		t.Errorf("single data pixel block = %#08x, want %#08x", dst.At(1, 0), lone)
	}
}

func TestHalveRedTile(t *testing.T) {
	dst := retile.NewBuffer(128, 128)
	if err := retile.HalveTile(solid(256, 256, red), dst, retile.Average, nil); err != nil {
		t.Fatalf("HalveTile: %v", err)
	}
	for i, p := range dst.Pix {
		if p != red {
			t.Fatalf("pixel %d = %#08x, want opaque red", i, p)
		}
	}
}

func TestRepeatedHalvingKeepsData(t *testing.T) {
	half := retile.NewBuffer(256, 256)
	for y := 0; y < 256; y++ {
		retile.FillPixels(half.Row(y)[:128], red)
	}
	empty := retile.NewBuffer(256, 256)

	for _, k := range []retile.Interpolation{retile.Average, retile.LanczosSmall} {
		a, e := half, empty
		for a.Width > 1 {
			na := retile.NewBuffer(a.Width/2, a.Height/2)
			ne := retile.NewBuffer(e.Width/2, e.Height/2)
			if err := retile.HalveTile(a, na, k, nil); err != nil {
				t.Fatalf("%v: HalveTile: %v", k, err)
			}
			if err := retile.HalveTile(e, ne, k, nil); err != nil {
				t.Fatalf("%v: HalveTile: %v", k, err)
			}
			if retile.CountNonTransparent(ne.Pix) != 0 {
				t.Fatalf("%v: empty tile gained data at %dx%d", k, ne.Width, ne.Height)
			}
			for _, p := range ne.Pix {
				if p != 0 {
					t.Fatalf("%v: empty tile gained colour %#08x", k, p)
				}
			}
			a, e = na, ne
		}
		if retile.IsNodata(a.Pix[0]) {
			t.Errorf("%v: data lost after halving to 1x1", k)
		}
	}
}

func TestHalveBitmaskAuthority(t *testing.T) {
	src := retile.NewBuffer(8, 8)
	// data only in the top-left 2x2 block and one pixel of the bottom-right one
	src.Set(0, 0, red)
	src.Set(1, 1, red)
	src.Set(7, 7, retile.Pack(0, 0, 255, 3))

	tests := []struct {
		name string
		r    retile.Resampler
	}{
		{"resampler drops alpha", constResampler{retile.Pack(9, 9, 9, 0)}},
		{"resampler rings everywhere", constResampler{retile.Pack(9, 9, 9, 255)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dst := retile.NewBuffer(4, 4)
			err := retile.HalveTile(src, dst, retile.LanczosLarge, &retile.HalveOptions{Resampler: tt.r})
			if err != nil {
				t.Fatalf("HalveTile: %v", err)
			}
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					covered := (x == 0 && y == 0) || (x == 3 && y == 3)
					p := dst.At(x, y)
					if covered && retile.Alpha(p) == 0 {
						t.Errorf("covered pixel (%d,%d) lost its data: %#08x", x, y, p)
					}
					if !covered && p != 0 {
						t.Errorf("uncovered pixel (%d,%d) = %#08x, want 0", x, y, p)
					}
				}
			}
		})
	}
}

func TestHalveLanczosWithoutResamplerAverages(t *testing.T) {
	saved := retile.DefaultResampler
	retile.DefaultResampler = nil
	defer func() { retile.DefaultResampler = saved }()

	rng := rand.New(rand.NewSource(5))
	src := retile.NewBuffer(16, 16)
	for i := range src.Pix {
		src.Pix[i] = rng.Uint32()
	}
	got, want := retile.NewBuffer(8, 8), retile.NewBuffer(8, 8)
	if err := retile.HalveTile(src, got, retile.LanczosSmall, nil); err != nil {
		t.Fatal(err)
	}
	if err := retile.HalveTile(src, want, retile.Average, nil); err != nil {
		t.Fatal(err)
	}
	for i := range want.Pix {
		if got.Pix[i] != want.Pix[i] {
			t.Fatalf("pixel %d = %#08x, want %#08x", i, got.Pix[i], want.Pix[i])
		}
	}
}

func TestHalveTileRejects(t *testing.T) {
	tests := []struct {
		name     string
		src, dst *retile.Buffer
		k        retile.Interpolation
	}{
		{"odd width", retile.NewBuffer(7, 8), retile.NewBuffer(3, 4), retile.Average},
		{"wrong destination", retile.NewBuffer(8, 8), retile.NewBuffer(8, 8), retile.Average},
		{"unknown kernel", retile.NewBuffer(8, 8), retile.NewBuffer(4, 4), retile.Interpolation(42)},
		{"nil source", nil, retile.NewBuffer(4, 4), retile.Average},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := retile.HalveTile(tt.src, tt.dst, tt.k, nil); !errors.Is(err, retile.ErrInvalidArgument) {
				t.Errorf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestAccumulateHalfIntoQuadrant(t *testing.T) {
	parent := maptile.New(2, 1, 3)
	dst := retile.NewBuffer(16, 16)
	colours := [4]uint32{
		retile.Pack(255, 0, 0, 255),
		retile.Pack(0, 255, 0, 255),
		retile.Pack(0, 0, 255, 255),
		retile.Pack(255, 255, 0, 255),
	}
	for i, child := range retile.ChildTiles(parent) {
		if err := retile.AccumulateHalfIntoQuadrant(solid(16, 16, colours[i]), child, dst, parent, retile.Average, nil); err != nil {
			t.Fatalf("child %v: %v", child, err)
		}
	}
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			q := x/8 | (y/8)<<1
			if dst.At(x, y) != colours[q] {
				t.Fatalf("pixel (%d,%d) = %#08x, want quadrant %d colour", x, y, dst.At(x, y), q)
			}
		}
	}

	stranger := maptile.New(0, 0, 4)
	if err := retile.AccumulateHalfIntoQuadrant(solid(16, 16, red), stranger, dst, parent, retile.Average, nil); !errors.Is(err, retile.ErrInvalidArgument) {
		t.Errorf("non-child tile: err = %v", err)
	}
}

func BenchmarkHalveAverage(b *testing.B) {
	src := solid(256, 256, red)
	dst := retile.NewBuffer(128, 128)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		retile.HalveTile(src, dst, retile.Average, nil)
	}
}
