package retile

// scanBlock is the run length HasAnyData counts at a time.
const scanBlock = 256

// HasAnyData reports whether any pixel of v has non-zero alpha. Pixel 0 is
// checked first since tiles touching data usually do so at their corner.
func HasAnyData(v []uint32) bool {
	if len(v) == 0 {
		return false
	}
	if v[0]>>24 != 0 {
		return true
	}
	for off := 0; off < len(v); off += scanBlock {
		end := min(off+scanBlock, len(v))
		if countNonTransparent(v[off:end]) != 0 {
			return true
		}
	}
	return false
}

// HasAnyDataROI reports whether the inclusive rectangle (x0,y0)-(x1,y1) of b
// holds a pixel with non-zero alpha.
func HasAnyDataROI(b *Buffer, x0, y0, x1, y1 int) (bool, error) {
	if err := checkROI(b, x0, y0, x1, y1); err != nil {
		return false, err
	}
	if b.Pix[y0*b.Stride+x0]>>24 != 0 {
		return true, nil
	}
	for y := y0; y <= y1; y++ {
		off := y*b.Stride + x0
		if countNonTransparent(b.Pix[off:off+x1-x0+1]) != 0 {
			return true, nil
		}
	}
	return false, nil
}

// CountNonTransparentROI counts pixels with non-zero alpha in the inclusive
// rectangle (x0,y0)-(x1,y1) of b.
func CountNonTransparentROI(b *Buffer, x0, y0, x1, y1 int) (int, error) {
	if err := checkROI(b, x0, y0, x1, y1); err != nil {
		return 0, err
	}
	n := 0
	for y := y0; y <= y1; y++ {
		off := y*b.Stride + x0
		n += countNonTransparent(b.Pix[off : off+x1-x0+1])
	}
	return n, nil
}

func checkROI(b *Buffer, x0, y0, x1, y1 int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if x0 < 0 || y0 < 0 || x1 < x0 || y1 < y0 || x1 >= b.Width || y1 >= b.Height {
		return invalidf("roi (%d,%d)-(%d,%d) outside %dx%d", x0, y0, x1, y1, b.Width, b.Height)
	}
	return nil
}

// bufferHasData is HasAnyData over every row of b.
func bufferHasData(b *Buffer) bool {
	if b.Stride == b.Width {
		return HasAnyData(b.Pix[:b.Width*b.Height])
	}
	for y := 0; y < b.Height; y++ {
		if HasAnyData(b.Row(y)) {
			return true
		}
	}
	return false
}
