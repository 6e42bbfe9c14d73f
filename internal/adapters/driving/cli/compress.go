package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

var (
	compressMaxWidth  float64
	compressMaxHeight float64
	compressQuality   int
	compressFormat    string
)

var compressCmd = &cobra.Command{
	Use:   "compress [src] [dst]",
	Short: "Compress an image to a file",
	Long: `Resamples src to fit the bounding box and writes it to dst.
Nothing is staged or uploaded.

Flags that are not given fall back to the configured compression settings.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompress,
}

func init() {
	compressCmd.Flags().Float64Var(&compressMaxWidth, "max-width", domain.DefaultMaxWidth, "maximum output width")
	compressCmd.Flags().Float64Var(&compressMaxHeight, "max-height", domain.DefaultMaxHeight, "maximum output height")
	compressCmd.Flags().IntVarP(&compressQuality, "quality", "q", domain.DefaultQuality, "encoder quality (1-100)")
	compressCmd.Flags().StringVarP(&compressFormat, "format", "f", domain.CompressFormatJPEG.String(),
		"output format (jpeg, png)")
	rootCmd.AddCommand(compressCmd)
}

func runCompress(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	opts, err := compressOptions(cmd, args[1])
	if err != nil {
		return err
	}

	out, err := pipelineService.Compress(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}

	cmd.Printf("Wrote %s\n", out.Path)
	cmd.Printf("  Dimensions:  %dx%d\n", out.Width, out.Height)
	cmd.Printf("  Size:        %s\n", formatBytes(out.Size))
	cmd.Printf("  Sample size: %d\n", out.SampleSize)
	if out.Orientation > 1 {
		cmd.Printf("  Orientation: %d (corrected)\n", out.Orientation)
	}
	return nil
}

// compressOptions layers explicit flags over the configured defaults.
func compressOptions(cmd *cobra.Command, dst string) (domain.CompressionOptions, error) {
	opts := domain.DefaultCompressionOptions()
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return opts, fmt.Errorf("get settings: %w", err)
		}
		opts = settings.Compression.Options("")
	}
	opts.DestinationPath = dst

	flags := cmd.Flags()
	if flags.Changed("max-width") {
		opts.MaxWidth = compressMaxWidth
	}
	if flags.Changed("max-height") {
		opts.MaxHeight = compressMaxHeight
	}
	if flags.Changed("quality") {
		opts.Quality = compressQuality
	}
	if flags.Changed("format") {
		format, err := domain.ParseCompressFormat(compressFormat)
		if err != nil {
			return opts, err
		}
		opts.Format = format
	}
	return opts, nil
}
