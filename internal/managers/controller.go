package managers

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chrissnell/coolingload/internal/calc"
	"github.com/chrissnell/coolingload/internal/controllers/mqttpub"
	"github.com/chrissnell/coolingload/internal/controllers/restserver"
	"github.com/chrissnell/coolingload/internal/metrics"
	"github.com/chrissnell/coolingload/internal/types"
	"github.com/chrissnell/coolingload/pkg/config"
)

// ControllerManager interface for the controller manager
type ControllerManager interface {
	StartControllers() error
}

// Controller is an interface that provides standard methods for various controller backends
type Controller interface {
	StartController() error
}

// NewControllerManager creates a new controller manager. MQTT publishers are
// created first so that the REST server can hand them its results.
func NewControllerManager(ctx context.Context, wg *sync.WaitGroup, c *config.ConfigData, storage *StorageManager, m *metrics.Metrics, logger *zap.SugaredLogger) (ControllerManager, error) {
	cm := &controllerManager{
		ctx:         ctx,
		wg:          wg,
		config:      c,
		storage:     storage,
		metrics:     m,
		logger:      logger,
		controllers: make([]Controller, 0),
	}

	for _, con := range c.Controllers {
		if con.Type != "mqtt" {
			continue
		}
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}
	for _, con := range c.Controllers {
		if con.Type == "mqtt" {
			continue
		}
		controller, err := cm.createController(con)
		if err != nil {
			return nil, fmt.Errorf("error creating controller: %v", err)
		}
		cm.controllers = append(cm.controllers, controller)
	}

	return cm, nil
}

type controllerManager struct {
	ctx         context.Context
	wg          *sync.WaitGroup
	config      *config.ConfigData
	storage     *StorageManager
	metrics     *metrics.Metrics
	logger      *zap.SugaredLogger
	controllers []Controller
	publishers  publishers
}

func (c *controllerManager) StartControllers() error {
	c.logger.Info("Starting controller manager...")

	for _, controller := range c.controllers {
		err := controller.StartController()
		if err != nil {
			return fmt.Errorf("error starting controller: %v", err)
		}
	}

	c.logger.Infof("Started %d controllers successfully", len(c.controllers))
	return nil
}

// createController creates a controller based on the controller configuration
func (cm *controllerManager) createController(cc config.ControllerData) (Controller, error) {
	switch cc.Type {
	case "rest", "restserver":
		rc := config.RESTServerData{}
		if cc.RESTServer != nil {
			rc = *cc.RESTServer
		}
		deps := restserver.Dependencies{
			Climate:      cm.storage.Climate,
			Projects:     cm.storage.Projects,
			Engine:       calc.NewEngine(cm.logger.Named("calc")),
			Metrics:      cm.metrics,
			Accumulation: accumulationDefaults(cm.config.Defaults),
		}
		if len(cm.publishers) > 0 {
			deps.Publisher = cm.publishers
		}
		return restserver.NewController(cm.ctx, cm.wg, rc, deps, cm.logger.Named("rest"))
	case "mqtt":
		if cc.MQTT == nil {
			return nil, fmt.Errorf("mqtt controller requires an mqtt section")
		}
		pub, err := mqttpub.NewController(cm.ctx, cm.wg, *cc.MQTT, cm.metrics, cm.logger.Named("mqtt"))
		if err != nil {
			return nil, err
		}
		cm.publishers = append(cm.publishers, pub)
		return pub, nil
	default:
		return nil, fmt.Errorf("unknown controller type: %s", cc.Type)
	}
}

// publishers fans a summary out to every configured publisher
type publishers []mqttpub.Publisher

func (p publishers) PublishSummary(project string, s calc.Summary) {
	for _, pub := range p {
		pub.PublishSummary(project, s)
	}
}

// accumulationDefaults returns the configured settings for new projects, or
// the zero value when none are configured
func accumulationDefaults(d config.DefaultsData) types.AccumulationSettings {
	if d.ThermalMass == "" && d.FloorType == "" && d.GlassPercentage == 0 {
		return types.AccumulationSettings{}
	}
	acc := types.DefaultAccumulation()
	if d.ThermalMass != "" {
		acc.ThermalMass = types.ThermalMass(d.ThermalMass)
	}
	if d.FloorType != "" {
		acc.FloorType = types.FloorType(d.FloorType)
	}
	if d.GlassPercentage > 0 {
		acc.GlassPercentage = types.Number(d.GlassPercentage)
	}
	return acc
}
