//go:build !amd64 || noasm

package retile

const vecWidth = 1

var useWide = false

func fillPixels(dst []uint32, v uint32) { fillScalar(dst, v) }

func andPixels(a, b, dst []uint32) { andScalar(a, b, dst) }

func countNonTransparent(v []uint32) int { return countScalar(v) }
