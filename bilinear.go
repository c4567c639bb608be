package retile

// ResizeBilinear scales src to dst's size with fixed-point bilinear
// interpolation. Corners map to corners; weights have 7 bits. NODATA
// pixels are read as zero whatever colour they carry.
func ResizeBilinear(dst, src *Buffer) error {
	if err := src.Validate(); err != nil {
		return err
	}
	if err := dst.Validate(); err != nil {
		return err
	}
	xs := bilinearTaps(src.Width, dst.Width)
	ys := bilinearTaps(src.Height, dst.Height)
	for y, ty := range ys {
		r0, r1 := src.Row(ty.i0), src.Row(ty.i1)
		out := dst.Row(y)
		fy, gy := ty.w, 128-ty.w
		for x, tx := range xs {
			fx, gx := tx.w, 128-tx.w
			w00, w10 := gx*gy, fx*gy
			w01, w11 := gx*fy, fx*fy
			p00, p10 := dataOrNodata(r0[tx.i0]), dataOrNodata(r0[tx.i1])
			p01, p11 := dataOrNodata(r1[tx.i0]), dataOrNodata(r1[tx.i1])
			var v uint32
			for s := uint(0); s < 32; s += 8 {
				c := (p00>>s&0xFF)*w00 + (p10>>s&0xFF)*w10 + (p01>>s&0xFF)*w01 + (p11>>s&0xFF)*w11
				v |= (c >> 14) << s
			}
			out[x] = v
		}
	}
	return nil
}

type bilinearTap struct {
	i0, i1 int
	w      uint32
}

// bilinearTaps maps each of dstN output positions to two source indexes
// and the weight, out of 128, of the second.
func bilinearTaps(srcN, dstN int) []bilinearTap {
	taps := make([]bilinearTap, dstN)
	var step int64
	if dstN > 1 {
		step = int64(srcN-1) << 16 / int64(dstN-1)
	}
	for i := range taps {
		pos := int64(i) * step
		i0 := int(pos >> 16)
		taps[i] = bilinearTap{
			i0: i0,
			i1: min(i0+1, srcN-1),
			w:  uint32(pos>>9) & 127,
		}
	}
	return taps
}
