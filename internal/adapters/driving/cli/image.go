package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// imageCamera marks the source as a camera capture owned by bucketdrop.
var imageCamera bool

var imageCmd = &cobra.Command{
	Use:   "image [path]",
	Short: "Compress and stage an image",
	Long: `Compresses an image into the staging area and selects it for upload.

The image is resampled to fit the configured bounding box and written in
the configured format. Gallery images are left untouched. With --camera the
source is treated as a fresh capture and deleted once compressed.`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func init() {
	imageCmd.Flags().BoolVar(&imageCamera, "camera", false, "treat the file as a camera capture and remove it after staging")
	rootCmd.AddCommand(imageCmd)
}

func runImage(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	source := domain.ImageSourceGallery
	if imageCamera {
		source = domain.ImageSourceCamera
	}

	staged, err := pipelineService.StageImage(cmd.Context(), args[0], source)
	if err != nil {
		return fmt.Errorf("stage image: %w", err)
	}

	printStaged(cmd, staged)
	return nil
}

func printStaged(cmd *cobra.Command, staged *domain.StagedFile) {
	cmd.Printf("Staged %s\n", staged.Path)
	cmd.Printf("  Object: %s\n", staged.ObjectName())
	cmd.Printf("  Type:   %s\n", staged.ContentType)
	cmd.Printf("  Size:   %s\n", formatBytes(staged.Size))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
