package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for bucketdrop.

Capture or pick an image, or pick a document, then upload it to the
configured bucket. The status line shows the outcome of the last upload.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  u        - Upload the selected file
  Esc      - Back
  Ctrl+C   - Cancel a running upload, or quit
  ?        - Help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var tuiStartDir string

func init() {
	tuiCmd.Flags().StringVar(&tuiStartDir, "dir", "", "directory the file picker opens in (default home)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if err := requirePipeline(); err != nil {
		return err
	}

	ports := tui.NewPorts(pipelineService, historyService, settingsService)
	ports.StartDir = tuiStartDir

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))

	// Log lines would tear the alt screen
	logger.SetOutput(nil)
	defer logger.SetOutput(os.Stderr)

	// Notices become status-line messages while the program runs
	notifier := tui.NewNotifier()
	notifier.Attach(p)
	notices.SetTarget(notifier)
	defer func() {
		notifier.Attach(nil)
		notices.SetTarget(newNoticePrinter(cmd.OutOrStdout()))
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
