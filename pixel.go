package retile

import (
	"image"

	"golang.org/x/image/draw"
)

// Pixels are RGBA8888 packed low to high: R | G<<8 | B<<16 | A<<24.
// Alpha 0 marks NODATA.

const (
	// Nodata is the fully transparent pixel.
	Nodata uint32 = 0
	// Opaque is the all-ones pixel written by coverage masks.
	Opaque uint32 = 0xFFFFFFFF
	// alphaOne is a pixel with alpha 1 and zero color, used to keep coverage alive.
	alphaOne uint32 = 0x01000000
)

// Pack builds a pixel from its channels.
func Pack(r, g, b, a uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16 | uint32(a)<<24
}

// Unpack splits a pixel into its channels.
func Unpack(p uint32) (r, g, b, a uint8) {
	return uint8(p), uint8(p >> 8), uint8(p >> 16), uint8(p >> 24)
}

// UnpackSigned splits a pixel into widened signed channels, for arithmetic
// that takes differences.
func UnpackSigned(p uint32) (r, g, b, a int32) {
	return int32(p & 0xFF), int32(p >> 8 & 0xFF), int32(p >> 16 & 0xFF), int32(p >> 24)
}

// Alpha returns the alpha channel of p.
func Alpha(p uint32) uint8 { return uint8(p >> 24) }

// IsNodata reports whether p carries no data.
func IsNodata(p uint32) bool { return p>>24 == 0 }

// dataOrNodata returns p, or Nodata when p has alpha 0, so leftover colour
// under NODATA never reaches a blend.
func dataOrNodata(p uint32) uint32 {
	if p>>24 == 0 {
		return Nodata
	}
	return p
}

// clearNodataColour zeroes the colour of every NODATA pixel of b.
func clearNodataColour(b *Buffer) {
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		for x, p := range row {
			if p>>24 == 0 {
				row[x] = Nodata
			}
		}
	}
}

// Buffer is a tile of packed pixels. Stride is the row pitch in pixels and
// may exceed Width.
type Buffer struct {
	Pix    []uint32
	Width  int
	Height int
	Stride int
}

// NewBuffer allocates a zeroed buffer with Stride == Width.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		Pix:    make([]uint32, width*height),
		Width:  width,
		Height: height,
		Stride: width,
	}
}

// WrapPixels views pix as a buffer with the given row pitch in bytes.
func WrapPixels(pix []uint32, width, height, rowBytes int) (*Buffer, error) {
	if rowBytes%4 != 0 {
		return nil, invalidf("row bytes %d not a multiple of 4", rowBytes)
	}
	b := &Buffer{Pix: pix, Width: width, Height: height, Stride: rowBytes / 4}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// RowBytes returns the row pitch in bytes.
func (b *Buffer) RowBytes() int { return b.Stride * 4 }

// Validate checks that the buffer is well formed.
func (b *Buffer) Validate() error {
	if b == nil {
		return invalidf("nil buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return invalidf("buffer size %dx%d", b.Width, b.Height)
	}
	if b.Stride < b.Width {
		return invalidf("stride %d below width %d", b.Stride, b.Width)
	}
	if need := (b.Height-1)*b.Stride + b.Width; len(b.Pix) < need {
		return invalidf("buffer holds %d pixels, need %d", len(b.Pix), need)
	}
	return nil
}

// Row returns the Width pixels of row y.
func (b *Buffer) Row(y int) []uint32 {
	off := y * b.Stride
	return b.Pix[off : off+b.Width : off+b.Width]
}

// At returns the pixel at (x, y).
func (b *Buffer) At(x, y int) uint32 { return b.Pix[y*b.Stride+x] }

// Set writes the pixel at (x, y).
func (b *Buffer) Set(x, y int, p uint32) { b.Pix[y*b.Stride+x] = p }

// Fill sets every pixel of the buffer to p.
func (b *Buffer) Fill(p uint32) {
	for y := 0; y < b.Height; y++ {
		FillPixels(b.Row(y), p)
	}
}

// Clone returns a packed copy of b.
func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.Width, b.Height)
	for y := 0; y < b.Height; y++ {
		copy(c.Row(y), b.Row(y))
	}
	return c
}

// Sub returns a view of the w x h rectangle at (x, y). The view shares
// pixels with b.
func (b *Buffer) Sub(x, y, w, h int) (*Buffer, error) {
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > b.Width || y+h > b.Height {
		return nil, invalidf("sub rectangle %dx%d at (%d,%d) outside %dx%d", w, h, x, y, b.Width, b.Height)
	}
	off := y*b.Stride + x
	return &Buffer{Pix: b.Pix[off:], Width: w, Height: h, Stride: b.Stride}, nil
}

// CopyFrom copies the w x h block at (sx, sy) of src to (dx, dy) of b.
func (b *Buffer) CopyFrom(src *Buffer, sx, sy, dx, dy, w, h int) {
	for y := 0; y < h; y++ {
		so := (sy+y)*src.Stride + sx
		do := (dy+y)*b.Stride + dx
		copy(b.Pix[do:do+w], src.Pix[so:so+w])
	}
}

// ToNRGBA converts the buffer to a non-premultiplied image.
func (b *Buffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		out := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x, p := range row {
			out[x*4] = uint8(p)
			out[x*4+1] = uint8(p >> 8)
			out[x*4+2] = uint8(p >> 16)
			out[x*4+3] = uint8(p >> 24)
		}
	}
	return img
}

// BufferFromImage converts any image to a buffer. Images other than
// *image.NRGBA are drawn into an NRGBA first.
func BufferFromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
		bounds = nrgba.Bounds()
	}
	b := NewBuffer(bounds.Dx(), bounds.Dy())
	b.loadNRGBA(nrgba)
	return b
}

// loadNRGBA copies the top-left Width x Height pixels of img into b.
func (b *Buffer) loadNRGBA(img *image.NRGBA) {
	origin := img.Bounds().Min
	for y := 0; y < b.Height; y++ {
		off := img.PixOffset(origin.X, origin.Y+y)
		in := img.Pix[off : off+b.Width*4]
		row := b.Row(y)
		for x := range row {
			row[x] = Pack(in[x*4], in[x*4+1], in[x*4+2], in[x*4+3])
		}
	}
}
