package config

import "go.uber.org/zap"

// Default values applied by ApplyDefaults
const (
	DefaultClimateDir    = "data"
	DefaultStorageDriver = "sqlite"
	DefaultStorageDSN    = "coolingload.db"
	DefaultRESTPort      = 8080
	DefaultRESTAddr      = "0.0.0.0"
	DefaultRateBurst     = 20
	DefaultMQTTPrefix    = "coolingload"
	DefaultMQTTClientID  = "coolingload"
)

// ApplyDefaults fills every missing value and logs what it chose
func ApplyDefaults(c *ConfigData, logger *zap.SugaredLogger) {
	if c.Climate.DataDir == "" {
		logger.Infof("climate.data_dir not provided; defaulting to %s", DefaultClimateDir)
		c.Climate.DataDir = DefaultClimateDir
	}

	if c.Storage.Driver == "" {
		logger.Infof("storage.driver not provided; defaulting to %s", DefaultStorageDriver)
		c.Storage.Driver = DefaultStorageDriver
	}
	if c.Storage.DSN == "" && c.Storage.Driver == DefaultStorageDriver {
		logger.Infof("storage.dsn not provided; defaulting to %s", DefaultStorageDSN)
		c.Storage.DSN = DefaultStorageDSN
	}

	for i := range c.Controllers {
		ctrl := &c.Controllers[i]
		switch ctrl.Type {
		case "rest":
			if ctrl.RESTServer == nil {
				ctrl.RESTServer = &RESTServerData{}
			}
			if ctrl.RESTServer.Port == 0 {
				logger.Infof("rest.port not provided; defaulting to %d", DefaultRESTPort)
				ctrl.RESTServer.Port = DefaultRESTPort
			}
			if ctrl.RESTServer.ListenAddr == "" {
				logger.Infof("rest.listen_addr not provided; defaulting to %s (all interfaces)", DefaultRESTAddr)
				ctrl.RESTServer.ListenAddr = DefaultRESTAddr
			}
			if ctrl.RESTServer.RateLimit > 0 && ctrl.RESTServer.RateBurst == 0 {
				ctrl.RESTServer.RateBurst = DefaultRateBurst
			}
		case "mqtt":
			if ctrl.MQTT == nil {
				continue
			}
			if ctrl.MQTT.TopicPrefix == "" {
				logger.Infof("mqtt.topic_prefix not provided; defaulting to %s", DefaultMQTTPrefix)
				ctrl.MQTT.TopicPrefix = DefaultMQTTPrefix
			}
			if ctrl.MQTT.ClientID == "" {
				ctrl.MQTT.ClientID = DefaultMQTTClientID
			}
		}
	}
}
