package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:   "document [path]",
	Short: "Stage a document",
	Long: `Copies a file into the staging area as-is and selects it for upload.
Documents are uploaded under files/ in the bucket.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocument,
}

func init() {
	rootCmd.AddCommand(documentCmd)
}

func runDocument(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	staged, err := pipelineService.StageDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("stage document: %w", err)
	}

	printStaged(cmd, staged)
	return nil
}
