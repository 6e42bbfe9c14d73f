package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driving"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
)

// Services wired by the composition root.
var (
	pipelineService driving.PipelineService
	dryRunPipeline  driving.PipelineService
	historyService  driving.HistoryService
	settingsService driving.SettingsService
	envOverrides    EnvOverrides
	stagingRoot     string
)

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "bucketdrop/no-services"

// notices receives every pipeline notice and forwards it to the active surface.
var notices = &noticeRelay{}

// bootstrap builds services once flags are parsed. Nil when services are
// supplied directly with SetServices.
var bootstrap BootstrapFunc

// shutdown releases what bootstrap opened.
var shutdown func()

// EnvOverrides reports which config keys are set from the environment.
type EnvOverrides interface {
	EnvVar(key string) (string, bool)
}

// Services holds the driving ports used by commands.
type Services struct {
	Pipeline driving.PipelineService

	// DryRun uploads to an in-memory bucket. Used by send --dry-run.
	DryRun driving.PipelineService

	History   driving.HistoryService
	Settings  driving.SettingsService
	Overrides EnvOverrides

	// StagingDir is skipped by the folder watcher.
	StagingDir string
}

// Options are handed to the bootstrap function.
type Options struct {
	ConfigDir string
	Verbose   bool

	// Notifier must be passed to the pipeline services.
	Notifier driven.Notifier
}

// BootstrapFunc builds the services. The returned func is called on exit.
type BootstrapFunc func(opts Options) (*Services, func(), error)

var rootCmd = &cobra.Command{
	Use:   "bucketdrop",
	Short: "Compress and upload files to a cloud bucket",
	Long: `bucketdrop stages an image or document, compresses images to a bounded
box, and uploads the result to a Google Cloud Storage (or Firebase Storage)
bucket.

Images go to images/<name>, documents to files/<name>.

Get started:
  bucketdrop settings bucket my-app.appspot.com
  bucketdrop send ~/Pictures/holiday.jpg`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.bucketdrop)")
}

// SetBootstrap registers the function that builds services after flags are parsed.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices sets the services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	pipelineService = s.Pipeline
	dryRunPipeline = s.DryRun
	historyService = s.History
	settingsService = s.Settings
	envOverrides = s.Overrides
	stagingRoot = s.StagingDir
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Notifier returns the notifier pipeline services should report to.
func Notifier() driven.Notifier {
	return notices
}

// Execute runs the root command. Cancelling ctx cancels a running upload.
func Execute(ctx context.Context) error {
	defer func() {
		if shutdown != nil {
			shutdown()
			shutdown = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	notices.SetTarget(newNoticePrinter(cmd.OutOrStdout()))

	if cmd.Annotations[annotationNoServices] != "" || bootstrap == nil || pipelineService != nil {
		return nil
	}

	services, closeFn, err := bootstrap(Options{
		ConfigDir: configDir,
		Verbose:   verbose,
		Notifier:  notices,
	})
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	SetServices(services)
	shutdown = closeFn
	return nil
}

func requirePipeline() error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}
	return nil
}
