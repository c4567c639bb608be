package main

import (
	"context"
	"fmt"
	"time"

	"github.com/paulmach/orb/maptile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tingold/retile"
)

var enlargeCmd = &cobra.Command{
	Use:   "enlarge",
	Short: "Render a tile from its ancestor at a coarser zoom",
	Long: `Enlarge the part of an ancestor tile covering --tile to a full tile.

The source is either a local file (--in) holding the ancestor at --src-zoom,
or a tile server URL template (--url) the ancestor is fetched from.

Kernels: nearest, epx, eagle, xbr (pixel art) and bilinear, lanczos3,
lanczos5 (continuous).

Examples:
  retile enlarge -i 10_163_395.png --src-zoom 10 --tile 12/654/1582 -k xbr -o out.png
  retile enlarge --url http://{s}.tile.example.org/{z}/{x}/{y}.png --src-zoom 10 --tile 12/654/1582 -o out.png`,
	RunE: runEnlarge,
}

func init() {
	rootCmd.AddCommand(enlargeCmd)

	enlargeCmd.Flags().StringP("in", "i", "", "ancestor tile file")
	enlargeCmd.Flags().StringP("url", "u", "", "tile URL template with {z}, {x}, {y} placeholders")
	enlargeCmd.Flags().StringP("out", "o", "", "output PNG (required)")
	enlargeCmd.Flags().Int("src-zoom", 0, "zoom of the ancestor tile")
	enlargeCmd.Flags().String("tile", "", "tile to render as z/x/y (required)")
	enlargeCmd.Flags().StringP("kernel", "k", "lanczos3", "interpolation kernel")
	enlargeCmd.Flags().Bool("neighborhood-fill", false, "fill NODATA with neighbourhood means before continuous kernels")
	enlargeCmd.Flags().Bool("bitmask-filter", false, "clip continuous kernels to nearest-neighbour coverage")
	enlargeCmd.Flags().Int("xbr-threshold", 16, "per-channel difference XBR treats as equal")
	enlargeCmd.Flags().String("user-agent", "retile/1.0", "HTTP User-Agent header")
	enlargeCmd.Flags().Duration("timeout", 30*time.Second, "HTTP request timeout")

	viper.BindPFlag("enlarge.in", enlargeCmd.Flags().Lookup("in"))
	viper.BindPFlag("enlarge.url", enlargeCmd.Flags().Lookup("url"))
	viper.BindPFlag("enlarge.out", enlargeCmd.Flags().Lookup("out"))
	viper.BindPFlag("enlarge.src-zoom", enlargeCmd.Flags().Lookup("src-zoom"))
	viper.BindPFlag("enlarge.tile", enlargeCmd.Flags().Lookup("tile"))
	viper.BindPFlag("enlarge.kernel", enlargeCmd.Flags().Lookup("kernel"))
	viper.BindPFlag("enlarge.neighborhood-fill", enlargeCmd.Flags().Lookup("neighborhood-fill"))
	viper.BindPFlag("enlarge.bitmask-filter", enlargeCmd.Flags().Lookup("bitmask-filter"))
	viper.BindPFlag("enlarge.xbr-threshold", enlargeCmd.Flags().Lookup("xbr-threshold"))
	viper.BindPFlag("enlarge.user-agent", enlargeCmd.Flags().Lookup("user-agent"))
	viper.BindPFlag("enlarge.timeout", enlargeCmd.Flags().Lookup("timeout"))
}

func runEnlarge(cmd *cobra.Command, args []string) error {
	out := viper.GetString("enlarge.out")
	if out == "" {
		return fmt.Errorf("--out is required")
	}
	dest, err := parseTile(viper.GetString("enlarge.tile"))
	if err != nil {
		return err
	}
	srcZoom := maptile.Zoom(viper.GetInt("enlarge.src-zoom"))
	if srcZoom > dest.Z {
		return fmt.Errorf("--src-zoom %d is finer than tile zoom %d", srcZoom, dest.Z)
	}
	k, err := kernelFlag("enlarge.kernel")
	if err != nil {
		return err
	}

	src, err := loadAncestor(cmd.Context(), srcZoom, dest)
	if err != nil {
		return err
	}

	opts := &retile.EnlargeOptions{
		NeighborhoodFill: viper.GetBool("enlarge.neighborhood-fill"),
		BitmaskFilter:    viper.GetBool("enlarge.bitmask-filter"),
		XBR:              retile.XBROptions{Threshold: viper.GetInt("enlarge.xbr-threshold")},
	}
	dst := retile.NewBuffer(src.Width, src.Height)
	empty, err := retile.EnlargeTile(src, dst, srcZoom, dest, k, opts)
	if err != nil {
		return err
	}
	if empty {
		fmt.Fprintf(cmd.ErrOrStderr(), "tile %d/%d/%d has no data, writing an empty tile\n", dest.Z, dest.X, dest.Y)
	}
	return writeTile(out, dst)
}

func loadAncestor(ctx context.Context, srcZoom maptile.Zoom, dest maptile.Tile) (*retile.Buffer, error) {
	if in := viper.GetString("enlarge.in"); in != "" {
		return readTile(in)
	}
	url := viper.GetString("enlarge.url")
	if url == "" {
		return nil, fmt.Errorf("either --in or --url is required")
	}
	ctx, cancel := context.WithTimeout(ctx, viper.GetDuration("enlarge.timeout"))
	defer cancel()

	source := retile.NewTileSource(url, nil)
	source.SetUserAgent(viper.GetString("enlarge.user-agent"))
	return source.Fetch(ctx, retile.SourceTile(srcZoom, dest))
}
