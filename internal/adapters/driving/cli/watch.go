package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/watcher"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

var watchCamera bool

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Upload files as they appear in a directory",
	Long: `Watches a directory and sends every new file through the pipeline,
one at a time, once it has stopped changing for half a second.

Hidden files and the staging directory are ignored. Subdirectories are not
watched. Press Ctrl-C to stop.

With --camera every file is treated as a capture: it is compressed, removed
from the watched directory, and uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchCamera, "camera", false, "treat new files as camera captures")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requirePipeline(); err != nil {
		return err
	}

	w, err := watcher.New(pipelineService, watcher.Config{
		Dir:    args[0],
		Camera: watchCamera,
		Ignore: []string{stagingRoot},
		OnResult: func(path string, record *domain.UploadRecord, err error) {
			if err == nil && record != nil {
				cmd.Printf("  %s -> gs://%s/%s\n", path, record.Bucket, record.ObjectName)
			}
		},
	})
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", w.Dir())
	if err := w.Run(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}
