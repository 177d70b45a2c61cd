package managers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/climate"
	"github.com/chrissnell/coolingload/internal/project"
	"github.com/chrissnell/coolingload/pkg/config"
)

// StorageManager holds the project store and the climate reference data
type StorageManager struct {
	Projects project.Store
	Climate  *climate.Store
	// ClimateLoaded is closed once the climate store has left the loading state
	ClimateLoaded <-chan struct{}
	logger        *zap.SugaredLogger
}

// NewStorageManager opens the configured project store and starts loading the
// climate data in the background. Requests arriving before the load finishes
// see the store in its loading state.
func NewStorageManager(ctx context.Context, c *config.ConfigData, logger *zap.SugaredLogger) (*StorageManager, error) {
	projects, err := project.OpenSQLStore(ctx, c.Storage.Driver, c.Storage.DSN, logger.Named("projects"))
	if err != nil {
		return nil, fmt.Errorf("could not open project store: %v", err)
	}

	s := &StorageManager{
		Projects: projects,
		Climate:  climate.NewStore(logger.Named("climate")),
		logger:   logger,
	}
	s.ClimateLoaded = s.Climate.LoadAsync(ctx, ClimateLoader(c.Climate, logger.Named("climate")))
	return s, nil
}

// ClimateLoader builds a directory loader, overriding the default file names
// with the configured ones
func ClimateLoader(cc config.ClimateData, logger *zap.SugaredLogger) *climate.DirLoader {
	loader := climate.NewDirLoader(cc.DataDir, logger)
	if cc.DesignFile != "" {
		loader.Files.Design = cc.DesignFile
	}
	if cc.TypicalFile != "" {
		loader.Files.Typical = cc.TypicalFile
	}
	if cc.RTSFile != "" {
		loader.Files.RTS = cc.RTSFile
	}
	if cc.ShadingFile != "" {
		loader.Files.Shading = cc.ShadingFile
	}
	return loader
}

// Close closes the project store
func (s *StorageManager) Close() error {
	s.logger.Info("closing project store...")
	return s.Projects.Close()
}
