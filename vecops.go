package retile

// Run primitives. Each has a scalar reference here and a platform variant in
// vecops_amd64.go or vecops_generic.go; both must give identical results.

// FillPixels sets every element of dst to v.
func FillPixels(dst []uint32, v uint32) {
	fillPixels(dst, v)
}

// AndPixels stores a[i] & b[i] into dst[i] for the length of dst.
// a and b must be at least as long as dst.
func AndPixels(a, b, dst []uint32) {
	n := len(dst)
	andPixels(a[:n], b[:n], dst)
}

// CountNonTransparent returns the number of pixels in v with alpha != 0.
func CountNonTransparent(v []uint32) int {
	return countNonTransparent(v)
}

func fillScalar(dst []uint32, v uint32) {
	for i := range dst {
		dst[i] = v
	}
}

func andScalar(a, b, dst []uint32) {
	for i := range dst {
		dst[i] = a[i] & b[i]
	}
}

func countScalar(v []uint32) int {
	n := 0
	for _, p := range v {
		if p>>24 != 0 {
			n++
		}
	}
	return n
}
