package retile

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// ROI is a rectangle in a source tile's pixel space.
type ROI struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether the rectangle has no area.
func (r ROI) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Padding is the enlarged geometry a continuous kernel needs around an ROI.
type Padding struct {
	// Scale is the integer zoom factor from ROI to tile.
	Scale int
	// SrcReach is added to the ROI, DestReach to the tile.
	SrcReach, DestReach int
	TileW, TileH        int
	ROIW, ROIH          int
}

// SourceTile returns the ancestor of dest at zoom srcZoom.
func SourceTile(srcZoom maptile.Zoom, dest maptile.Tile) maptile.Tile {
	if dest.Z <= srcZoom {
		return dest
	}
	zs := uint32(dest.Z - srcZoom)
	return maptile.New(dest.X>>zs, dest.Y>>zs, srcZoom)
}

// MapROI returns the rectangle of the srcZoom ancestor tile that covers dest
// once enlarged. dest must not be coarser than srcZoom and the zoom step must
// leave at least one source pixel.
func MapROI(srcZoom maptile.Zoom, dest maptile.Tile, tileW, tileH int) (ROI, error) {
	if tileW <= 0 || tileH <= 0 {
		return ROI{}, invalidf("tile size %dx%d", tileW, tileH)
	}
	if dest.Z < srcZoom {
		return ROI{}, invalidf("dest zoom %d coarser than source zoom %d", dest.Z, srcZoom)
	}
	zs := uint(dest.Z - srcZoom)
	if tileW>>zs == 0 || tileH>>zs == 0 {
		return ROI{}, invalidf("zoom step %d leaves no source pixels in a %dx%d tile", zs, tileW, tileH)
	}
	src := SourceTile(srcZoom, dest)
	w, h := int64(tileW), int64(tileH)
	return ROI{
		X:      int((int64(dest.X)*w)>>zs - int64(src.X)*w),
		Y:      int((int64(dest.Y)*h)>>zs - int64(src.Y)*h),
		Width:  tileW >> zs,
		Height: tileH >> zs,
	}, nil
}

// PxOffset returns the pixel offset between the origins of tiles a and b,
// measured in the pixel space of the coarser of the two. For a child and its
// parent this is where the halved child lands inside the parent.
func PxOffset(a, b maptile.Tile, width, height int) (x, y int) {
	ax, ay := int64(a.X)*int64(width), int64(a.Y)*int64(height)
	bx, by := int64(b.X)*int64(width), int64(b.Y)*int64(height)
	if a.Z > b.Z {
		s := uint(a.Z - b.Z)
		return int(ax>>s - bx), int(ay>>s - by)
	}
	s := uint(b.Z - a.Z)
	return int(bx>>s - ax), int(by>>s - ay)
}

// PadForKernelExtent grows an ROI and its tile so a kernel of the given
// extent never samples past the data it was given.
func PadForKernelExtent(extent, tileW, tileH, roiW, roiH int) (Padding, error) {
	if roiW <= 0 || roiH <= 0 || tileW < roiW || tileH < roiH {
		return Padding{}, invalidf("roi %dx%d in tile %dx%d", roiW, roiH, tileW, tileH)
	}
	if extent < 0 {
		return Padding{}, invalidf("kernel extent %d", extent)
	}
	scale := tileW / roiW
	srcReach := extent / 2
	if extent%2 == 1 {
		srcReach++
	}
	destReach := srcReach * scale
	return Padding{
		Scale:     scale,
		SrcReach:  srcReach,
		DestReach: destReach,
		TileW:     tileW + destReach,
		TileH:     tileH + destReach,
		ROIW:      roiW + srcReach,
		ROIH:      roiH + srcReach,
	}, nil
}

// ClampROIToBounds shrinks a padded ROI so it ends inside the tile. The
// result bounds what is copied, never the padded buffer itself.
func ClampROIToBounds(tileW, tileH, roiX, roiY, paddedW, paddedH int) (w, h int) {
	w, h = paddedW, paddedH
	if roiX+w > tileW {
		w = tileW - roiX
	}
	if roiY+h > tileH {
		h = tileH - roiY
	}
	return w, h
}

// ChildTiles returns the four children of t in quadrant order: top-left,
// top-right, bottom-left, bottom-right.
func ChildTiles(t maptile.Tile) [4]maptile.Tile {
	x, y, z := t.X<<1, t.Y<<1, t.Z+1
	return [4]maptile.Tile{
		maptile.New(x, y, z),
		maptile.New(x+1, y, z),
		maptile.New(x, y+1, z),
		maptile.New(x+1, y+1, z),
	}
}

// PointFromPixel converts a pixel of tile t to a lon/lat point.
func PointFromPixel(t maptile.Tile, x, y float64, tileW, tileH int) orb.Point {
	n := math.Exp2(float64(t.Z))
	fx := (float64(t.X) + x/float64(tileW)) / n
	fy := (float64(t.Y) + y/float64(tileH)) / n
	lon := fx*360 - 180
	lat := math.Atan(math.Sinh(math.Pi*(1-2*fy))) * 180 / math.Pi
	return orb.Point{lon, lat}
}

// ROIPolygon returns the lon/lat outline of an ROI inside tile t as a closed
// ring, the shape debug logs report for each enlarge.
func ROIPolygon(t maptile.Tile, roi ROI, tileW, tileH int) orb.Polygon {
	return ROIBound(t, roi, tileW, tileH).ToPolygon()
}

// ROIBound returns the lon/lat bound of an ROI inside tile t.
func ROIBound(t maptile.Tile, roi ROI, tileW, tileH int) orb.Bound {
	tl := PointFromPixel(t, float64(roi.X), float64(roi.Y), tileW, tileH)
	br := PointFromPixel(t, float64(roi.X+roi.Width), float64(roi.Y+roi.Height), tileW, tileH)
	return orb.Bound{
		Min: orb.Point{tl[0], br[1]},
		Max: orb.Point{br[0], tl[1]},
	}
}
