package retile

// XBROptions tunes the edge-directed XBR approximation. Zero fields take the
// defaults.
type XBROptions struct {
	// Threshold is the largest per-channel difference two pixels may have
	// and still count as equal. Default 16.
	Threshold int
	// EdgeRatio is how much stronger one edge direction must be to get the
	// corner blend. Default 2.
	EdgeRatio int
}

const (
	defaultXBRThreshold = 16
	defaultXBREdgeRatio = 2
)

func (o XBROptions) withDefaults() XBROptions {
	if o.Threshold <= 0 {
		o.Threshold = defaultXBRThreshold
	}
	if o.EdgeRatio <= 0 {
		o.EdgeRatio = defaultXBREdgeRatio
	}
	return o
}

// EnlargeXBR scales the ROI with an XBR-style edge-directed kernel.
func EnlargeXBR(src *Buffer, roi ROI, dst *Buffer, opts XBROptions) error {
	x := xbr{opts.withDefaults()}
	return runDoubler(src, roi, dst, x.double)
}

type xbr struct {
	opts XBROptions
}

func absDiff(a, b int32) int32 {
	if a < b {
		return b - a
	}
	return a - b
}

// near reports whether every channel of p and q is within the threshold.
func (x xbr) near(p, q uint32) bool {
	t := int32(x.opts.Threshold)
	pr, pg, pb, pa := UnpackSigned(p)
	qr, qg, qb, qa := UnpackSigned(q)
	return absDiff(pr, qr) <= t && absDiff(pg, qg) <= t && absDiff(pb, qb) <= t && absDiff(pa, qa) <= t
}

// diff is the summed absolute channel difference of p and q.
func diff(p, q uint32) int32 {
	pr, pg, pb, pa := UnpackSigned(p)
	qr, qg, qb, qa := UnpackSigned(q)
	return absDiff(pr, qr) + absDiff(pg, qg) + absDiff(pb, qb) + absDiff(pa, qa)
}

// mix returns (p*m0 + q*m1) >> shift per channel.
func mix(p, q uint32, m0, m1 uint32, shift uint) uint32 {
	var out uint32
	for s := uint(0); s < 32; s += 8 {
		c := ((p>>s&0xFF)*m0 + (q>>s&0xFF)*m1) >> shift
		out |= (c & 0xFF) << s
	}
	return out
}

// corner blends toward one output corner of the centre pixel e. f and h are
// the neighbours on the sides of that corner; the other arguments walk
// outward from them. d1, d2 and d3 are the outputs next to and at the
// corner.
func (x xbr) corner(b, c, d, e, f, f4, g, h, i, i4, h5, i5 uint32, d1, d2, d3 *uint32) {
	if e == h && e == f {
		return
	}
	wdRed := diff(e, c) + diff(e, g) + diff(i, f4) + diff(i, h5) + diff(h, f)<<2
	wdBlue := diff(h, d) + diff(h, i5) + diff(f, i4) + diff(f, b) + diff(e, i)<<2

	newColor := h
	if diff(e, f) <= diff(e, h) {
		newColor = f
	}

	edge := wdRed < wdBlue &&
		((!x.near(f, b) && !x.near(h, d)) ||
			(x.near(e, i) && !x.near(f, i4) && !x.near(h, i5)) ||
			x.near(e, g) || x.near(e, c))

	if !edge {
		if wdRed <= wdBlue {
			*d3 = mix(*d3, newColor, 3, 1, 2)
		}
		return
	}

	ke := diff(f, g)
	ki := diff(h, c)
	ratio := int32(x.opts.EdgeRatio)
	ex2 := !x.near(f, g) && !x.near(b, c)
	ex3 := !x.near(e, g) && !x.near(d, g)
	switch {
	case ki >= ke*ratio && ex3:
		*d3 = mix(*d3, newColor, 1, 3, 2)
		*d2 = mix(*d2, newColor, 3, 1, 2)
	case ke >= ki*ratio && ex2:
		*d3 = mix(*d3, newColor, 1, 3, 2)
		*d1 = mix(*d1, newColor, 3, 1, 2)
	default:
		*d3 = mix(*d3, newColor, 1, 1, 1)
	}
}

// double runs the corner rule four times per pixel, rotating the 5x5
// window a quarter turn each time. NODATA is read as zero, so a blend
// toward a hole fades alpha and never picks up the hole's colour.
//
//	    A1 B1 C1
//	A0  A  B  C  C4
//	D0  D  E  F  F4
//	G0  G  H  I  I4
//	    G5 H5 I5
func (x xbr) double(rows roiRows, dst *Buffer) {
	w := rows.roi.Width
	for y := 0; y < rows.roi.Height; y++ {
		r0, r1, r2, r3, r4 := rows.row(y-2), rows.row(y-1), rows.row(y), rows.row(y+1), rows.row(y+2)
		out0, out1 := dst.Row(2*y), dst.Row(2*y+1)
		for cx := 0; cx < w; cx++ {
			xm2, xm1 := clampIndex(cx-2, w), clampIndex(cx-1, w)
			xp1, xp2 := clampIndex(cx+1, w), clampIndex(cx+2, w)

			a1, b1, c1 := dataOrNodata(r0[xm1]), dataOrNodata(r0[cx]), dataOrNodata(r0[xp1])
			a0, a, b := dataOrNodata(r1[xm2]), dataOrNodata(r1[xm1]), dataOrNodata(r1[cx])
			c, c4 := dataOrNodata(r1[xp1]), dataOrNodata(r1[xp2])
			d0, d, e := dataOrNodata(r2[xm2]), dataOrNodata(r2[xm1]), dataOrNodata(r2[cx])
			f, f4 := dataOrNodata(r2[xp1]), dataOrNodata(r2[xp2])
			g0, g, h := dataOrNodata(r3[xm2]), dataOrNodata(r3[xm1]), dataOrNodata(r3[cx])
			i, i4 := dataOrNodata(r3[xp1]), dataOrNodata(r3[xp2])
			g5, h5, i5 := dataOrNodata(r4[xm1]), dataOrNodata(r4[cx]), dataOrNodata(r4[xp1])

			e0, e1, e2, e3 := e, e, e, e
			x.corner(b, c, d, e, f, f4, g, h, i, i4, h5, i5, &e1, &e2, &e3)
			x.corner(d, a, h, e, b, b1, i, f, c, c1, f4, c4, &e0, &e3, &e1)
			x.corner(h, g, f, e, d, d0, c, b, a, a0, b1, a1, &e2, &e1, &e0)
			x.corner(f, i, b, e, h, h5, a, d, g, g5, d0, g0, &e3, &e0, &e2)

			out0[2*cx], out0[2*cx+1] = e0, e1
			out1[2*cx], out1[2*cx+1] = e2, e3
		}
	}
}
