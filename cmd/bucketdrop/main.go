// Command bucketdrop compresses images and uploads files to a cloud bucket.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/config/env"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/config/file"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/objectstore/gcs"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/staging"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/cli"
	"github.com/custodia-labs/bucketdrop/internal/compression"
	"github.com/custodia-labs/bucketdrop/internal/core/services"
	"github.com/custodia-labs/bucketdrop/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, func(), error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultDir()
		if err != nil {
			return nil, nil, err
		}
		configDir = dir
	}
	logger.Debug("config directory: %s", configDir)

	fileStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("open config: %w", err)
	}
	envStore, err := env.NewConfigStore(fileStore)
	if err != nil {
		return nil, nil, fmt.Errorf("read environment: %w", err)
	}
	for _, name := range envStore.Overridden() {
		logger.Debug("%s is set from the environment", name)
	}

	settingsService := services.NewSettingsService(envStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("load settings: %w", err)
	}

	workspace, err := staging.NewWorkspace(settings.Staging.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open staging area: %w", err)
	}

	store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	uploads := store.UploadStore()

	compressor := compression.New()
	pipeline := services.NewPipelineService(
		compressor, workspace, gcs.NewFactory(), uploads, opts.Notifier, settingsService,
	)
	dryRun := services.NewPipelineService(
		compressor, workspace, memory.NewObjectStoreFactory(), memory.NewUploadStore(), opts.Notifier, settingsService,
	)

	closeFn := func() {
		if err := store.Close(); err != nil {
			logger.Warn("close history: %v", err)
		}
	}

	return &cli.Services{
		Pipeline:   pipeline,
		DryRun:     dryRun,
		History:    services.NewHistoryService(uploads),
		Settings:   settingsService,
		Overrides:  envStore,
		StagingDir: workspace.Root(),
	}, closeFn, nil
}
