package retile

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Scratch pools for the continuous enlarge path, the bitmask filter and
// the neighbourhood fill.

const (
	tile256Pixels = 256 * 256
	tile512Pixels = 512 * 512
	// padded tiles: 512 plus the largest kernel reach on each axis
	tilePaddedPixels = 528 * 528
)

// DefaultMaxScratchPixels bounds a single scratch request.
const DefaultMaxScratchPixels = 64 << 20

var maxScratchPixels atomic.Int64

func init() {
	maxScratchPixels.Store(DefaultMaxScratchPixels)
}

// SetMaxScratchPixels changes the largest scratch buffer, in pixels, an
// operation may request. Requests above it fail with ErrResourceExhausted.
func SetMaxScratchPixels(n int) {
	if n <= 0 {
		n = DefaultMaxScratchPixels
	}
	maxScratchPixels.Store(int64(n))
}

// pixelSlicePool pools pixel slices by tile size class.
type pixelSlicePool struct {
	tile256    sync.Pool
	tile512    sync.Pool
	tilePadded sync.Pool
}

var pixelPool = &pixelSlicePool{
	tile256: sync.Pool{
		New: func() interface{} {
			buf := make([]uint32, tile256Pixels)
			return &buf
		},
	},
	tile512: sync.Pool{
		New: func() interface{} {
			buf := make([]uint32, tile512Pixels)
			return &buf
		},
	},
	tilePadded: sync.Pool{
		New: func() interface{} {
			buf := make([]uint32, tilePaddedPixels)
			return &buf
		},
	},
}

// getPixels returns a zeroed slice of exactly size pixels.
// Call putPixels when done.
func getPixels(size int) ([]uint32, error) {
	if size < 0 || int64(size) > maxScratchPixels.Load() {
		return nil, fmt.Errorf("%w: scratch of %d pixels", ErrResourceExhausted, size)
	}
	var buf []uint32
	switch {
	case size <= tile256Pixels:
		buf = (*pixelPool.tile256.Get().(*[]uint32))[:size]
	case size <= tile512Pixels:
		buf = (*pixelPool.tile512.Get().(*[]uint32))[:size]
	case size <= tilePaddedPixels:
		buf = (*pixelPool.tilePadded.Get().(*[]uint32))[:size]
	default:
		// For larger buffers, allocate directly
		return make([]uint32, size), nil
	}
	clear(buf)
	return buf, nil
}

// putPixels returns a slice to its pool.
func putPixels(buf []uint32) {
	c := cap(buf)
	buf = buf[:c]
	switch c {
	case tile256Pixels:
		pixelPool.tile256.Put(&buf)
	case tile512Pixels:
		pixelPool.tile512.Put(&buf)
	case tilePaddedPixels:
		pixelPool.tilePadded.Put(&buf)
	}
	// Don't pool non-standard sizes
}

// getScratch returns a zeroed pooled buffer of the given size.
func getScratch(width, height int) (*Buffer, error) {
	pix, err := getPixels(width * height)
	if err != nil {
		return nil, err
	}
	return &Buffer{Pix: pix, Width: width, Height: height, Stride: width}, nil
}

// putScratch releases a buffer obtained from getScratch.
func putScratch(b *Buffer) {
	if b == nil {
		return
	}
	putPixels(b.Pix)
	b.Pix = nil
}
