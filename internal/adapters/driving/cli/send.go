package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
)

var (
	sendCamera   bool
	sendDocument bool
	sendDryRun   bool
)

var sendCmd = &cobra.Command{
	Use:   "send [path]",
	Short: "Stage and upload a file",
	Long: `Runs the full pipeline for one file: stage, compress images, upload,
and print the outcome.

Images are detected from their content and compressed before upload.
Use --document to upload an image untouched, or --camera to remove the
source once it has been compressed.

--dry-run uploads to an in-memory bucket so the pipeline can be checked
without credentials.`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().BoolVar(&sendCamera, "camera", false, "treat the file as a camera capture")
	sendCmd.Flags().BoolVar(&sendDocument, "document", false, "upload as a document without compression")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "upload to an in-memory bucket")
	sendCmd.MarkFlagsMutuallyExclusive("camera", "document")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	pipeline := pipelineService
	if sendDryRun {
		pipeline = dryRunPipeline
	}
	if pipeline == nil {
		return errors.New("pipeline service not configured")
	}

	req := driving.SendRequest{Path: args[0]}
	switch {
	case sendCamera:
		req.Kind = domain.FileKindImage
		req.Source = domain.ImageSourceCamera
	case sendDocument:
		req.Kind = domain.FileKindDocument
	}

	record, err := pipeline.Send(cmd.Context(), req)
	if err != nil {
		return err
	}

	cmd.Printf("  gs://%s/%s (%s, %s)\n",
		record.Bucket, record.ObjectName, formatBytes(record.Bytes), record.Duration().Round(time.Millisecond))
	return nil
}
