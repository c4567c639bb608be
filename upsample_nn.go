package retile

// Pixel-art kernels. Each reads an ROI of src and writes dst, whose size is
// the ROI times an integer scale. EPX, Eagle and XBR are 2x kernels; larger
// power-of-two scales run them repeatedly.

// pixelArtScale returns the integer factor from roi to dst.
func pixelArtScale(src *Buffer, roi ROI, dst *Buffer) (int, error) {
	if err := src.Validate(); err != nil {
		return 0, err
	}
	if err := dst.Validate(); err != nil {
		return 0, err
	}
	if roi.Empty() || roi.X < 0 || roi.Y < 0 || roi.X+roi.Width > src.Width || roi.Y+roi.Height > src.Height {
		return 0, invalidf("roi %+v outside %dx%d", roi, src.Width, src.Height)
	}
	scale := dst.Width / roi.Width
	if scale < 1 || dst.Width != roi.Width*scale || dst.Height != roi.Height*scale {
		return 0, invalidf("roi %dx%d does not scale evenly to %dx%d", roi.Width, roi.Height, dst.Width, dst.Height)
	}
	return scale, nil
}

// roiRows hands out ROI rows with the row index clamped to the ROI, so
// kernels read edge rows in place of missing neighbours.
type roiRows struct {
	src *Buffer
	roi ROI
}

func (r roiRows) row(y int) []uint32 {
	y = min(max(y, 0), r.roi.Height-1)
	off := (r.roi.Y+y)*r.src.Stride + r.roi.X
	return r.src.Pix[off : off+r.roi.Width : off+r.roi.Width]
}

// clampIndex pins i to [0, n).
func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

// EnlargeNN replicates every ROI pixel into a scale x scale block.
func EnlargeNN(src *Buffer, roi ROI, dst *Buffer) error {
	scale, err := pixelArtScale(src, roi, dst)
	if err != nil {
		return err
	}
	replicate(src, roi, dst, scale, func(p uint32) uint32 { return p })
	return nil
}

// EnlargeNNBitmask is EnlargeNN writing Opaque for data pixels and Nodata
// for the rest, giving a coverage mask at dst resolution.
func EnlargeNNBitmask(src *Buffer, roi ROI, dst *Buffer) error {
	scale, err := pixelArtScale(src, roi, dst)
	if err != nil {
		return err
	}
	replicate(src, roi, dst, scale, func(p uint32) uint32 {
		if p>>24 == 0 {
			return Nodata
		}
		return Opaque
	})
	return nil
}

func replicate(src *Buffer, roi ROI, dst *Buffer, scale int, conv func(uint32) uint32) {
	rows := roiRows{src, roi}
	for y := 0; y < roi.Height; y++ {
		in := rows.row(y)
		first := dst.Row(y * scale)
		for x, p := range in {
			FillPixels(first[x*scale:(x+1)*scale], conv(p))
		}
		for k := 1; k < scale; k++ {
			copy(dst.Row(y*scale+k), first)
		}
	}
}

// doubler is a 2x kernel writing the 2x2 block for every ROI pixel.
type doubler func(rows roiRows, dst *Buffer)

// runDoubler applies k once per doubling between roi and dst, through
// pooled scratch for the intermediate passes.
func runDoubler(src *Buffer, roi ROI, dst *Buffer, k doubler) error {
	scale, err := pixelArtScale(src, roi, dst)
	if err != nil {
		return err
	}
	if scale&(scale-1) != 0 || scale < 2 {
		return invalidf("scale %d is not a power of two above 1", scale)
	}
	cur, curROI := src, roi
	var scratch *Buffer
	for ; scale > 2; scale >>= 1 {
		next, err := getScratch(curROI.Width*2, curROI.Height*2)
		if err != nil {
			putScratch(scratch)
			return err
		}
		k(roiRows{cur, curROI}, next)
		putScratch(scratch)
		scratch = next
		cur, curROI = next, ROI{Width: next.Width, Height: next.Height}
	}
	k(roiRows{cur, curROI}, dst)
	putScratch(scratch)
	return nil
}

// EnlargeEPX scales the ROI with EPX (Scale2x).
func EnlargeEPX(src *Buffer, roi ROI, dst *Buffer) error {
	return runDoubler(src, roi, dst, epx2x)
}

// EnlargeEagle scales the ROI with the Eagle kernel.
func EnlargeEagle(src *Buffer, roi ROI, dst *Buffer) error {
	return runDoubler(src, roi, dst, eagle2x)
}

//	  A
//	C P B
//	  D
func epx2x(rows roiRows, dst *Buffer) {
	w := rows.roi.Width
	for y := 0; y < rows.roi.Height; y++ {
		up, mid, down := rows.row(y-1), rows.row(y), rows.row(y+1)
		d0, d1 := dst.Row(2*y), dst.Row(2*y+1)
		for x := 0; x < w; x++ {
			p := mid[x]
			a, d := up[x], down[x]
			c, b := mid[clampIndex(x-1, w)], mid[clampIndex(x+1, w)]
			tl, tr, bl, br := p, p, p, p
			if a != d && c != b {
				if c == a {
					tl = a
				}
				if a == b {
					tr = b
				}
				if d == c {
					bl = c
				}
				if b == d {
					br = d
				}
			}
			d0[2*x], d0[2*x+1] = tl, tr
			d1[2*x], d1[2*x+1] = bl, br
		}
	}
}

//	E A F
//	C P B
//	G D H
func eagle2x(rows roiRows, dst *Buffer) {
	w := rows.roi.Width
	for y := 0; y < rows.roi.Height; y++ {
		up, mid, down := rows.row(y-1), rows.row(y), rows.row(y+1)
		d0, d1 := dst.Row(2*y), dst.Row(2*y+1)
		for x := 0; x < w; x++ {
			l, r := clampIndex(x-1, w), clampIndex(x+1, w)
			e, a, f := up[l], up[x], up[r]
			c, p, b := mid[l], mid[x], mid[r]
			g, d, h := down[l], down[x], down[r]
			tl, tr, bl, br := p, p, p, p
			if c == e && e == a {
				tl = e
			}
			if a == f && f == b {
				tr = f
			}
			if c == g && g == d {
				bl = g
			}
			if b == h && h == d {
				br = h
			}
			d0[2*x], d0[2*x+1] = tl, tr
			d1[2*x], d1[2*x+1] = bl, br
		}
	}
}
