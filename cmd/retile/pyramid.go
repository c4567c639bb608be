package main

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tingold/retile"
)

var pyramidCmd = &cobra.Command{
	Use:   "pyramid",
	Short: "Build coarser zoom levels from a directory of tiles",
	Long: `Read every {z}/{x}/{y}.png under --dir at --max-zoom and write each coarser
level down to --min-zoom next to it. Parents whose children hold no data are
not written.

Examples:
  retile pyramid --dir tiles --max-zoom 14 --min-zoom 8
  retile pyramid --dir tiles --max-zoom 14 --min-zoom 8 -k lanczos3 --workers 4`,
	RunE: runPyramid,
}

func init() {
	rootCmd.AddCommand(pyramidCmd)

	pyramidCmd.Flags().String("dir", "", "tile directory laid out as {z}/{x}/{y}.png (required)")
	pyramidCmd.Flags().Int("max-zoom", 0, "zoom of the existing tiles")
	pyramidCmd.Flags().Int("min-zoom", 0, "coarsest zoom to build")
	pyramidCmd.Flags().StringP("kernel", "k", "average", "kernel (average|lanczos3|lanczos5)")
	pyramidCmd.Flags().IntP("tilesize", "t", 256, "tile size in pixels")
	pyramidCmd.Flags().Int("workers", 0, "parents built concurrently (default GOMAXPROCS)")

	viper.BindPFlag("pyramid.dir", pyramidCmd.Flags().Lookup("dir"))
	viper.BindPFlag("pyramid.max-zoom", pyramidCmd.Flags().Lookup("max-zoom"))
	viper.BindPFlag("pyramid.min-zoom", pyramidCmd.Flags().Lookup("min-zoom"))
	viper.BindPFlag("pyramid.kernel", pyramidCmd.Flags().Lookup("kernel"))
	viper.BindPFlag("pyramid.tilesize", pyramidCmd.Flags().Lookup("tilesize"))
	viper.BindPFlag("pyramid.workers", pyramidCmd.Flags().Lookup("workers"))
}

func runPyramid(cmd *cobra.Command, args []string) error {
	dir := viper.GetString("pyramid.dir")
	if dir == "" {
		return fmt.Errorf("--dir is required")
	}
	maxZoom, minZoom := viper.GetInt("pyramid.max-zoom"), viper.GetInt("pyramid.min-zoom")
	if maxZoom <= minZoom || minZoom < 0 {
		return fmt.Errorf("need 0 <= --min-zoom < --max-zoom, got %d and %d", minZoom, maxZoom)
	}
	k, err := kernelFlag("pyramid.kernel")
	if err != nil {
		return err
	}
	size := viper.GetInt("pyramid.tilesize")

	tiles, err := readLevel(dir, maptile.Zoom(maxZoom), size)
	if err != nil {
		return err
	}
	opts := retile.LevelOptions{Kernel: k, Workers: viper.GetInt("pyramid.workers")}
	for z := maxZoom; z > minZoom && len(tiles) > 0; z-- {
		parents, err := retile.BuildLevel(cmd.Context(), tiles, size, size, opts)
		if err != nil {
			return err
		}
		for t, b := range parents {
			if err := writeTile(tilePath(dir, t), b); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "zoom %d: %d tiles\n", z-1, len(parents))
		tiles = parents
	}
	return nil
}

func tilePath(dir string, t maptile.Tile) string {
	return filepath.Join(dir, strconv.Itoa(int(t.Z)), strconv.FormatUint(uint64(t.X), 10),
		strconv.FormatUint(uint64(t.Y), 10)+".png")
}

// readLevel loads every {x}/{y}.png under dir/{z}.
func readLevel(dir string, z maptile.Zoom, size int) (map[maptile.Tile]*retile.Buffer, error) {
	root := filepath.Join(dir, strconv.Itoa(int(z)))
	tiles := make(map[maptile.Tile]*retile.Buffer)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(path) != ".png" {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 2 {
			return nil
		}
		x, errX := strconv.ParseUint(parts[0], 10, 32)
		y, errY := strconv.ParseUint(strings.TrimSuffix(parts[1], ".png"), 10, 32)
		if errX != nil || errY != nil {
			return nil
		}
		b, err := readTile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if b.Width != size || b.Height != size {
			return fmt.Errorf("%s: tile is %dx%d, expected %dx%d", path, b.Width, b.Height, size, size)
		}
		tiles[maptile.New(uint32(x), uint32(y), z)] = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tiles, nil
}
