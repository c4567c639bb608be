package retile

// ExtendEdges fills the padding of a buffer whose top-left dataW x dataH
// pixels hold real data. Each row's last data pixel is repeated to the right
// and every row from dataH down repeats the row above it. Only all-zero
// pixels are written, so data already present in the padding is kept.
func ExtendEdges(b *Buffer, dataW, dataH int) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if dataW <= 0 || dataH <= 0 || dataW > b.Width || dataH > b.Height {
		return invalidf("data %dx%d in buffer %dx%d", dataW, dataH, b.Width, b.Height)
	}
	for y := 0; y < dataH; y++ {
		row := b.Row(y)
		edge := row[dataW-1]
		for x := dataW; x < len(row); x++ {
			if row[x] == 0 {
				row[x] = edge
			}
		}
	}
	for y := dataH; y < b.Height; y++ {
		prev, row := b.Row(y-1), b.Row(y)
		for x := range row {
			if row[x] == 0 {
				row[x] = prev[x]
			}
		}
	}
	return nil
}

// neighborhoodReach splits a cell into how far it reaches back and forward
// from its seed. Even cells reach one pixel further forward.
func neighborhoodReach(cellSize int) (back, fwd int) {
	if cellSize%2 == 0 {
		return cellSize/2 - 1, cellSize / 2
	}
	return (cellSize - 1) / 2, (cellSize - 1) / 2
}

// FillNeighborhoodMean seeds from every data pixel inside roi, in row-major
// order, and writes the mean of the data in its cellSize neighbourhood into
// the neighbourhood pixels that were NODATA before the call. Means are taken
// over a snapshot of the input, so a later seed overwrites an earlier one.
//
// With smooth set, pixels already filled by earlier seeds also count
// towards the mean. smooth needs roi to cover the whole buffer.
func FillNeighborhoodMean(b *Buffer, roi ROI, cellSize int, smooth bool) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if roi.Empty() || roi.X < 0 || roi.Y < 0 || roi.X+roi.Width > b.Width || roi.Y+roi.Height > b.Height {
		return invalidf("roi %+v outside %dx%d", roi, b.Width, b.Height)
	}
	if cellSize < 1 {
		return invalidf("cell size %d", cellSize)
	}
	if smooth && (roi.X != 0 || roi.Y != 0 || roi.Width != b.Width || roi.Height != b.Height) {
		return invalidf("smoothing needs the whole buffer, got roi %+v", roi)
	}
	if cellSize > roi.Width && cellSize > roi.Height {
		cellSize = max(roi.Width, roi.Height)
	}
	back, fwd := neighborhoodReach(cellSize)

	snap, err := getScratch(b.Width, b.Height)
	if err != nil {
		return err
	}
	defer putScratch(snap)
	snap.CopyFrom(b, 0, 0, 0, 0, b.Width, b.Height)

	xEnd, yEnd := roi.X+roi.Width-1, roi.Y+roi.Height-1
	for y := roi.Y; y <= yEnd; y++ {
		for x := roi.X; x <= xEnd; x++ {
			if snap.At(x, y)>>24 == 0 {
				continue
			}
			wx0, wx1 := max(x-back, roi.X), min(x+fwd, xEnd)
			wy0, wy1 := max(y-back, roi.Y), min(y+fwd, yEnd)

			var sr, sg, sb, sa, n uint32
			holes := false
			for wy := wy0; wy <= wy1; wy++ {
				srow := snap.Pix[wy*snap.Stride:]
				brow := b.Pix[wy*b.Stride:]
				for wx := wx0; wx <= wx1; wx++ {
					p := srow[wx]
					if p>>24 == 0 {
						holes = true
						if !smooth || brow[wx]>>24 == 0 {
							continue
						}
						p = brow[wx]
					}
					sr += p & 0xFF
					sg += p >> 8 & 0xFF
					sb += p >> 16 & 0xFF
					sa += p >> 24
					n++
				}
			}
			if !holes {
				continue
			}
			half := n / 2
			mean := Pack(uint8((sr+half)/n), uint8((sg+half)/n), uint8((sb+half)/n), uint8((sa+half)/n))
			for wy := wy0; wy <= wy1; wy++ {
				srow := snap.Pix[wy*snap.Stride:]
				brow := b.Pix[wy*b.Stride:]
				for wx := wx0; wx <= wx1; wx++ {
					if srow[wx]>>24 == 0 {
						brow[wx] = mean
					}
				}
			}
		}
	}
	return nil
}

// NodataCellSize derives the neighbourhood cell from how far the padded
// buffer extends past its data.
func NodataCellSize(paddedW, paddedH, dataW, dataH int) int {
	largest := max(paddedW-dataW, paddedH-dataH)
	return max(min(2*largest+2, paddedW), 3)
}

// FillNodata conditions a padded buffer before continuous resampling. The
// top-left dataW x dataH pixels hold the copied data; the rest is padding.
func FillNodata(b *Buffer, dataW, dataH int, edgeExtend, neighborhoodMean bool) error {
	if edgeExtend {
		if err := ExtendEdges(b, dataW, dataH); err != nil {
			return err
		}
	}
	if neighborhoodMean {
		if err := b.Validate(); err != nil {
			return err
		}
		cell := NodataCellSize(b.Width, b.Height, dataW, dataH)
		full := ROI{Width: b.Width, Height: b.Height}
		if err := FillNeighborhoodMean(b, full, cell, true); err != nil {
			return err
		}
	}
	return nil
}
