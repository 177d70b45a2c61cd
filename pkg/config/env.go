package config

import (
	"fmt"
	"strconv"
)

// Environment variables that override the configuration file
const (
	EnvDebug         = "COOLINGLOAD_DEBUG"
	EnvClimateDir    = "COOLINGLOAD_CLIMATE_DIR"
	EnvStorageDriver = "COOLINGLOAD_STORAGE_DRIVER"
	EnvStorageDSN    = "COOLINGLOAD_STORAGE_DSN"
	EnvRESTPort      = "COOLINGLOAD_REST_PORT"
	EnvRESTAddr      = "COOLINGLOAD_REST_LISTEN_ADDR"
	EnvMQTTBroker    = "COOLINGLOAD_MQTT_BROKER"
	EnvMQTTUsername  = "COOLINGLOAD_MQTT_USERNAME"
	EnvMQTTPassword  = "COOLINGLOAD_MQTT_PASSWORD"
)

type lookupFunc func(string) (string, bool)

func applyEnv(c *ConfigData, lookup lookupFunc) error {
	if v, ok := lookup(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = b
	}
	if v, ok := lookup(EnvClimateDir); ok {
		c.Climate.DataDir = v
	}
	if v, ok := lookup(EnvStorageDriver); ok {
		c.Storage.Driver = v
	}
	if v, ok := lookup(EnvStorageDSN); ok {
		c.Storage.DSN = v
	}

	_, hasPort := lookup(EnvRESTPort)
	_, hasAddr := lookup(EnvRESTAddr)
	if hasPort || hasAddr {
		rest := c.controller("rest")
		if rest.RESTServer == nil {
			rest.RESTServer = &RESTServerData{}
		}
		if v, ok := lookup(EnvRESTPort); ok {
			port, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", EnvRESTPort, err)
			}
			rest.RESTServer.Port = port
		}
		if v, ok := lookup(EnvRESTAddr); ok {
			rest.RESTServer.ListenAddr = v
		}
	}

	if v, ok := lookup(EnvMQTTBroker); ok {
		mqtt := c.controller("mqtt")
		if mqtt.MQTT == nil {
			mqtt.MQTT = &MQTTData{}
		}
		mqtt.MQTT.Broker = v
	}
	if ctrl, ok := c.Controller("mqtt"); ok && ctrl.MQTT != nil {
		if v, ok := lookup(EnvMQTTUsername); ok {
			ctrl.MQTT.Username = v
		}
		if v, ok := lookup(EnvMQTTPassword); ok {
			ctrl.MQTT.Password = v
		}
	}
	return nil
}

// controller returns the controller of the given type, appending one if needed
func (c *ConfigData) controller(kind string) *ControllerData {
	for i := range c.Controllers {
		if c.Controllers[i].Type == kind {
			return &c.Controllers[i]
		}
	}
	c.Controllers = append(c.Controllers, ControllerData{Type: kind})
	return &c.Controllers[len(c.Controllers)-1]
}
