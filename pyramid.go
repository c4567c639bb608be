package retile

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/paulmach/orb/maptile"
)

// BuildParent renders parent from its four children, given in ChildTiles
// order. A nil or empty child leaves its quadrant NODATA.
func BuildParent(children [4]*Buffer, parent maptile.Tile, tileW, tileH int, k Interpolation, opts *HalveOptions) (*Buffer, error) {
	if tileW <= 0 || tileH <= 0 || tileW%2 != 0 || tileH%2 != 0 {
		return nil, invalidf("tile size %dx%d", tileW, tileH)
	}
	dst := NewBuffer(tileW, tileH)
	for i, child := range ChildTiles(parent) {
		src := children[i]
		if src == nil {
			continue
		}
		if err := src.Validate(); err != nil {
			return nil, fmt.Errorf("child %v: %w", child, err)
		}
		if !bufferHasData(src) {
			continue
		}
		if err := AccumulateHalfIntoQuadrant(src, child, dst, parent, k, opts); err != nil {
			return nil, fmt.Errorf("child %v: %w", child, err)
		}
	}
	return dst, nil
}

// LevelOptions configures BuildLevel.
type LevelOptions struct {
	HalveOptions
	Kernel Interpolation
	// Workers bounds concurrent parents. Zero means GOMAXPROCS.
	Workers int
}

// BuildLevel renders the parent level of tiles, which must all share one
// zoom. Parents are independent, so they are built concurrently; each owns
// its destination buffer. Parents whose children hold no data are omitted.
func BuildLevel(ctx context.Context, tiles map[maptile.Tile]*Buffer, tileW, tileH int, opts LevelOptions) (map[maptile.Tile]*Buffer, error) {
	groups := make(map[maptile.Tile]*[4]*Buffer)
	var zoom maptile.Zoom
	first := true
	for t, b := range tiles {
		if first {
			zoom, first = t.Z, false
		} else if t.Z != zoom {
			return nil, invalidf("tiles span zooms %d and %d", zoom, t.Z)
		}
		if t.Z == 0 {
			return nil, invalidf("tile %v has no parent", t)
		}
		p := t.Parent()
		g := groups[p]
		if g == nil {
			g = new([4]*Buffer)
			groups[p] = g
		}
		g[quadrantIndex(t)] = b
	}

	parents := make([]maptile.Tile, 0, len(groups))
	for p := range groups {
		parents = append(parents, p)
	}
	sort.Slice(parents, func(i, j int) bool {
		a, b := parents[i], parents[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var (
		mu       sync.Mutex
		out      = make(map[maptile.Tile]*Buffer, len(parents))
		firstErr error
		wg       sync.WaitGroup
	)
	jobs := make(chan maptile.Tile)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				b, err := BuildParent(*groups[p], p, tileW, tileH, opts.Kernel, &opts.HalveOptions)
				mu.Lock()
				switch {
				case err != nil && firstErr == nil:
					firstErr = fmt.Errorf("parent %v: %w", p, err)
				case err == nil && bufferHasData(b):
					out[p] = b
				}
				mu.Unlock()
			}
		}()
	}

	aborted := false
feed:
	for _, p := range parents {
		if ctx.Err() != nil {
			aborted = true
			break
		}
		select {
		case jobs <- p:
		case <-ctx.Done():
			aborted = true
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if aborted {
		return nil, fmt.Errorf("%w: %v", ErrAborted, ctx.Err())
	}
	if firstErr != nil {
		return nil, firstErr
	}
	Logger().Debug("retile: level built",
		slog.Int("zoom", int(zoom)-1), slog.Int("children", len(tiles)), slog.Int("parents", len(out)))
	return out, nil
}

// quadrantIndex returns t's position in ChildTiles(t.Parent()).
func quadrantIndex(t maptile.Tile) int {
	return int(t.X&1) | int(t.Y&1)<<1
}
