// Package config loads the service configuration.
package config

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Debug       bool             `yaml:"debug,omitempty" json:"debug,omitempty"`
	Climate     ClimateData      `yaml:"climate" json:"climate"`
	Storage     StorageData      `yaml:"storage,omitempty" json:"storage,omitempty"`
	Controllers []ControllerData `yaml:"controllers,omitempty" json:"controllers,omitempty"`
	Defaults    DefaultsData     `yaml:"defaults,omitempty" json:"defaults,omitempty"`
}

// ClimateData locates the reference data files
type ClimateData struct {
	DataDir     string `yaml:"data_dir" json:"data_dir"`
	DesignFile  string `yaml:"design_file,omitempty" json:"design_file,omitempty"`
	TypicalFile string `yaml:"typical_file,omitempty" json:"typical_file,omitempty"`
	RTSFile     string `yaml:"rts_file,omitempty" json:"rts_file,omitempty"`
	ShadingFile string `yaml:"shading_file,omitempty" json:"shading_file,omitempty"`
}

// StorageData configures the project store
type StorageData struct {
	// Driver is "sqlite" or "postgres"
	Driver string `yaml:"driver,omitempty" json:"driver,omitempty"`
	DSN    string `yaml:"dsn,omitempty" json:"dsn,omitempty"`
}

// ControllerData holds the configuration for one controller
type ControllerData struct {
	Type       string          `yaml:"type,omitempty" json:"type,omitempty"`
	RESTServer *RESTServerData `yaml:"rest,omitempty" json:"rest,omitempty"`
	MQTT       *MQTTData       `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
}

// RESTServerData configures the HTTP API
type RESTServerData struct {
	Cert       string `yaml:"cert,omitempty" json:"cert,omitempty"`
	Key        string `yaml:"key,omitempty" json:"key,omitempty"`
	Port       int    `yaml:"port,omitempty" json:"port,omitempty"`
	ListenAddr string `yaml:"listen_addr,omitempty" json:"listen_addr,omitempty"`
	// RateLimit is requests per second per client; 0 disables limiting
	RateLimit     float64 `yaml:"rate_limit,omitempty" json:"rate_limit,omitempty"`
	RateBurst     int     `yaml:"rate_burst,omitempty" json:"rate_burst,omitempty"`
	EnableMetrics bool    `yaml:"enable_metrics,omitempty" json:"enable_metrics,omitempty"`
}

// MQTTData configures result publishing
type MQTTData struct {
	Broker      string `yaml:"broker" json:"broker"`
	ClientID    string `yaml:"client_id,omitempty" json:"client_id,omitempty"`
	Username    string `yaml:"username,omitempty" json:"username,omitempty"`
	Password    string `yaml:"password,omitempty" json:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty" json:"topic_prefix,omitempty"`
	QoS         byte   `yaml:"qos,omitempty" json:"qos,omitempty"`
	Retain      bool   `yaml:"retain,omitempty" json:"retain,omitempty"`
}

// DefaultsData holds the accumulation settings new projects start with
type DefaultsData struct {
	ThermalMass     string  `yaml:"thermal_mass,omitempty" json:"thermal_mass,omitempty"`
	FloorType       string  `yaml:"floor_type,omitempty" json:"floor_type,omitempty"`
	GlassPercentage float64 `yaml:"glass_percentage,omitempty" json:"glass_percentage,omitempty"`
}

// Controller returns the first controller of the given type
func (c *ConfigData) Controller(kind string) (ControllerData, bool) {
	for _, ctrl := range c.Controllers {
		if ctrl.Type == kind {
			return ctrl, true
		}
	}
	return ControllerData{}, false
}
