package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tingold/retile"
)

var halveCmd = &cobra.Command{
	Use:   "halve",
	Short: "Write a half-size rendition of a tile",
	Long: `Halve a tile. Average blends 2x2 blocks and never lets NODATA pull colour
toward zero; lanczos3 and lanczos5 resample and then correct the result with
the source's coverage so no fringe grows into NODATA and no data vanishes.

Examples:
  retile halve -i tile.png -o half.png
  retile halve -i tile.png -o half.png -k lanczos5`,
	RunE: runHalve,
}

func init() {
	rootCmd.AddCommand(halveCmd)

	halveCmd.Flags().StringP("in", "i", "", "input tile (required)")
	halveCmd.Flags().StringP("out", "o", "", "output PNG (required)")
	halveCmd.Flags().StringP("kernel", "k", "average", "kernel (average|lanczos3|lanczos5)")

	viper.BindPFlag("halve.in", halveCmd.Flags().Lookup("in"))
	viper.BindPFlag("halve.out", halveCmd.Flags().Lookup("out"))
	viper.BindPFlag("halve.kernel", halveCmd.Flags().Lookup("kernel"))
}

func runHalve(cmd *cobra.Command, args []string) error {
	in, out := viper.GetString("halve.in"), viper.GetString("halve.out")
	if in == "" || out == "" {
		return fmt.Errorf("both --in and --out are required")
	}
	k, err := kernelFlag("halve.kernel")
	if err != nil {
		return err
	}
	src, err := readTile(in)
	if err != nil {
		return err
	}
	dst := retile.NewBuffer(src.Width/2, src.Height/2)
	if err := retile.HalveTile(src, dst, k, nil); err != nil {
		return err
	}
	return writeTile(out, dst)
}
