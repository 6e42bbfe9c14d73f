package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/staging"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketdrop/internal/compression"
	"github.com/custodia-labs/bucketdrop/internal/core/services"
)

const testBucket = "test-bucket"

// testEnv wires real services over in-memory adapters.
type testEnv struct {
	buckets  *memory.ObjectStoreFactory
	dryRun   *memory.ObjectStoreFactory
	uploads  *memory.UploadStore
	settings *services.SettingsService
	staging  string
}

func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	settings := services.NewSettingsService(memory.NewConfigStore())
	require.NoError(t, settings.SetBucket(testBucket))

	stagingDir := filepath.Join(t.TempDir(), "staging")
	workspace, err := staging.NewWorkspace(stagingDir)
	require.NoError(t, err)

	env := &testEnv{
		buckets:  memory.NewObjectStoreFactory(),
		dryRun:   memory.NewObjectStoreFactory(),
		uploads:  memory.NewUploadStore(),
		settings: settings,
		staging:  workspace.Root(),
	}

	compressor := compression.New()
	pipeline := services.NewPipelineService(compressor, workspace, env.buckets, env.uploads, Notifier(), settings)
	dryRun := services.NewPipelineService(compressor, workspace, env.dryRun, memory.NewUploadStore(), Notifier(), settings)

	SetServices(&Services{
		Pipeline:   pipeline,
		DryRun:     dryRun,
		History:    services.NewHistoryService(env.uploads),
		Settings:   settings,
		StagingDir: workspace.Root(),
	})
	t.Cleanup(func() { SetServices(nil) })
	return env
}

// clearBucket removes the bucket, which SetBucket refuses to do.
func (e *testEnv) clearBucket(t *testing.T) {
	t.Helper()
	settings, err := e.settings.Get()
	require.NoError(t, err)
	settings.Storage.Bucket = ""
	require.NoError(t, e.settings.Save(settings))
}

// runCmd executes the root command with args and returns everything written.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCmdContext(context.Background(), t, args...)
}

func runCmdContext(ctx context.Context, t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	}()

	err := rootCmd.ExecuteContext(ctx)
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil) //nolint:errcheck // slice flags accept nil
		} else {
			_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writePNG writes a w x h PNG and returns its path.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func writeText(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
