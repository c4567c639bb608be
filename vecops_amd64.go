//go:build amd64 && !noasm

package retile

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

// vecWidth is the block size of the unrolled loops.
const vecWidth = 8

// useWide selects the block paths. Counting folds eight alpha flags into
// one word and needs a hardware population count to pay off.
var useWide bool

func init() {
	useWide = cpu.X86.HasPOPCNT
}

func fillPixels(dst []uint32, v uint32) {
	if !useWide {
		fillScalar(dst, v)
		return
	}
	n := len(dst) &^ (vecWidth - 1)
	for i := 0; i < n; i += vecWidth {
		d := dst[i : i+vecWidth : i+vecWidth]
		d[0], d[1], d[2], d[3] = v, v, v, v
		d[4], d[5], d[6], d[7] = v, v, v, v
	}
	fillScalar(dst[n:], v)
}

func andPixels(a, b, dst []uint32) {
	if !useWide {
		andScalar(a, b, dst)
		return
	}
	n := len(dst) &^ (vecWidth - 1)
	for i := 0; i < n; i += vecWidth {
		x := a[i : i+vecWidth : i+vecWidth]
		y := b[i : i+vecWidth : i+vecWidth]
		d := dst[i : i+vecWidth : i+vecWidth]
		d[0] = x[0] & y[0]
		d[1] = x[1] & y[1]
		d[2] = x[2] & y[2]
		d[3] = x[3] & y[3]
		d[4] = x[4] & y[4]
		d[5] = x[5] & y[5]
		d[6] = x[6] & y[6]
		d[7] = x[7] & y[7]
	}
	andScalar(a[n:], b[n:], dst[n:])
}

const (
	// alpha bytes of two pixels packed into one uint64, without and with
	// their top bit
	alphaLow  = 0x7F0000007F000000
	alphaHigh = 0x8000000080000000
)

// alphaFlags leaves bit 31 and bit 63 set for each pixel of the pair whose
// alpha is non-zero. The low seven alpha bits plus 0x7F carry into bit 7 of
// the byte exactly when they are non-zero, and the byte's own top bit covers
// the rest. No sum leaves its byte.
func alphaFlags(pair uint64) uint64 {
	return ((pair&alphaLow)+alphaLow | pair) & alphaHigh
}

// countNonTransparent packs pixels two per uint64 and shifts the flags of
// four pairs into distinct bits, so one population count covers eight
// pixels.
func countNonTransparent(v []uint32) int {
	if !useWide {
		return countScalar(v)
	}
	n := len(v) &^ (vecWidth - 1)
	sum := 0
	for i := 0; i < n; i += vecWidth {
		p := v[i : i+vecWidth : i+vecWidth]
		f0 := alphaFlags(uint64(p[0]) | uint64(p[1])<<32)
		f1 := alphaFlags(uint64(p[2]) | uint64(p[3])<<32)
		f2 := alphaFlags(uint64(p[4]) | uint64(p[5])<<32)
		f3 := alphaFlags(uint64(p[6]) | uint64(p[7])<<32)
		sum += bits.OnesCount64(f0 | f1>>1 | f2>>2 | f3>>3)
	}
	return sum + countScalar(v[n:])
}
