package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/paulmach/orb/maptile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tingold/retile"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "retile",
	Short: "Resample map tiles up and down the pyramid without losing NODATA",
	Long: `retile halves and enlarges RGBA map tiles. Transparent pixels are NODATA
and stay NODATA: data never leaks into holes and thin slivers of data survive
repeated halving.

Examples:
  # Halve a tile with NODATA-protected averaging
  retile halve -i 12_655_1583.png -o half.png

  # Render tile 14/2620/6332 from its zoom 12 ancestor with Lanczos
  retile enlarge -i 12_655_1583.png --src-zoom 12 --tile 14/2620/6332 -k lanczos3 -o out.png

  # Same, fetching the ancestor from a tile server
  retile enlarge --url https://{s}.tiles.example.com/{z}/{x}/{y}.png --src-zoom 12 --tile 14/2620/6332 -o out.png

  # Build zoom levels 10..13 from a directory of zoom 14 tiles
  retile pyramid --dir tiles --max-zoom 14 --min-zoom 10`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger(viper.GetString("log-level"))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.retile.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Int("max-scratch", retile.DefaultMaxScratchPixels, "largest scratch buffer in pixels")

	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("max-scratch", rootCmd.PersistentFlags().Lookup("max-scratch"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".retile")
	}

	viper.SetEnvPrefix("retile")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	retile.SetMaxScratchPixels(viper.GetInt("max-scratch"))
}

func setupLogger(level string) error {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	retile.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// parseTile parses "z/x/y".
func parseTile(s string) (maptile.Tile, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return maptile.Tile{}, fmt.Errorf("tile must be in format 'z/x/y', got %q", s)
	}
	var v [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return maptile.Tile{}, fmt.Errorf("invalid tile %q: %v", s, err)
		}
		v[i] = n
	}
	if v[0] > 30 || v[1] >= 1<<v[0] || v[2] >= 1<<v[0] {
		return maptile.Tile{}, fmt.Errorf("tile %q out of range for its zoom", s)
	}
	return maptile.New(uint32(v[1]), uint32(v[2]), maptile.Zoom(v[0])), nil
}

func kernelFlag(key string) (retile.Interpolation, error) {
	return retile.ParseInterpolation(viper.GetString(key))
}

func readTile(path string) (*retile.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return retile.DecodeTile(data)
}

func writeTile(path string, b *retile.Buffer) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := retile.EncodePNG(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
