package retile

import (
	"math/rand"
	"testing"
)

// withWide runs f with the unrolled paths switched on and then off.
func withWide(t *testing.T, f func(t *testing.T)) {
	saved := useWide
	defer func() { useWide = saved }()
	for _, wide := range []bool{true, false} {
		useWide = wide
		name := "scalar"
		if wide {
			name = "wide"
		}
		t.Run(name, f)
	}
}

func randomPixels(rng *rand.Rand, n int) []uint32 {
	v := make([]uint32, n)
	for i := range v {
		v[i] = rng.Uint32()
		if rng.Intn(3) == 0 {
			v[i] &= 0x00FFFFFF
		}
	}
	return v
}

func TestFillPixelsMatchesScalar(t *testing.T) {
	withWide(t, func(t *testing.T) {
		for n := 0; n <= 67; n++ {
			got := make([]uint32, n)
			want := make([]uint32, n)
			FillPixels(got, 0xDEADBEEF)
			fillScalar(want, 0xDEADBEEF)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("n=%d: element %d = %#x, want %#x", n, i, got[i], want[i])
				}
			}
		}
	})
}

func TestAndPixelsMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	withWide(t, func(t *testing.T) {
		for n := 0; n <= 67; n++ {
			a, b := randomPixels(rng, n), randomPixels(rng, n)
			got := make([]uint32, n)
			want := make([]uint32, n)
			AndPixels(a, b, got)
			andScalar(a, b, want)
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("n=%d: element %d = %#x, want %#x", n, i, got[i], want[i])
				}
			}
		}
	})
}

func TestCountNonTransparentMatchesScalar(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	withWide(t, func(t *testing.T) {
		for n := 0; n <= 67; n++ {
			v := randomPixels(rng, n)
			if got, want := CountNonTransparent(v), countScalar(v); got != want {
				t.Fatalf("n=%d: count = %d, want %d", n, got, want)
			}
		}
		// offsets that are not a multiple of the block width
		v := randomPixels(rng, 1000)
		for off := 0; off < 9; off++ {
			if got, want := CountNonTransparent(v[off:]), countScalar(v[off:]); got != want {
				t.Fatalf("offset %d: count = %d, want %d", off, got, want)
			}
		}
	})
}

func TestCountNonTransparentAlphaOne(t *testing.T) {
	withWide(t, func(t *testing.T) {
		v := make([]uint32, 19)
		v[3] = alphaOne
		v[17] = 0xFF000000
		v[8] = 0x00FFFFFF
		if got := CountNonTransparent(v); got != 2 {
			t.Errorf("count = %d, want 2", got)
		}
	})
}

// Every alpha value in every lane of an eight-pixel block, with colour
// bits set so nothing but alpha can decide.
func TestCountNonTransparentEveryAlpha(t *testing.T) {
	withWide(t, func(t *testing.T) {
		for a := 0; a < 256; a++ {
			for lane := 0; lane < 8; lane++ {
				v := make([]uint32, 8)
				for i := range v {
					v[i] = 0x00FFFFFF
				}
				v[lane] |= uint32(a) << 24
				want := 0
				if a != 0 {
					want = 1
				}
				if got := CountNonTransparent(v); got != want {
					t.Fatalf("alpha %#02x in lane %d: count = %d, want %d", a, lane, got, want)
				}
			}
		}
	})
}

func BenchmarkCountNonTransparent(b *testing.B) {
	v := randomPixels(rand.New(rand.NewSource(1)), 256*256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		CountNonTransparent(v)
	}
}
