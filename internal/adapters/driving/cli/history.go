package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent uploads",
	Long:  `Lists recent upload attempts, newest first, including failed and cancelled ones.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	records, err := historyService.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list uploads: %w", err)
	}

	if historyJSON {
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(records) == 0 {
		cmd.Println("No uploads yet.")
		return nil
	}

	for i := range records {
		printRecord(cmd, &records[i])
	}
	cmd.Printf("\nTotal: %d uploads\n", len(records))
	return nil
}

func printRecord(cmd *cobra.Command, r *domain.UploadRecord) {
	cmd.Printf("  %s %s  %s\n",
		statusMarker(r.Status), r.StartedAt.Local().Format(time.DateTime), r.ObjectName)
	cmd.Printf("      Bucket: %s  Size: %s  Took: %s\n",
		r.Bucket, formatBytes(r.Bytes), r.Duration().Round(time.Millisecond))
	if r.Error != "" {
		cmd.Printf("      Error: %s\n", r.Error)
	}
}

func statusMarker(s domain.UploadStatus) string {
	switch s {
	case domain.UploadStatusDone:
		return "[done]     "
	case domain.UploadStatusCancelled:
		return "[cancelled]"
	default:
		return "[failed]   "
	}
}
