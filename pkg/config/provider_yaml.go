package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// YAMLProvider implements ConfigProvider for YAML configuration files
type YAMLProvider struct {
	filename string
	envFiles []string
}

// NewYAMLProvider creates a new YAML configuration provider. Any env files
// given are loaded before the YAML so their variables can override it.
func NewYAMLProvider(filename string, envFiles ...string) *YAMLProvider {
	return &YAMLProvider{
		filename: filename,
		envFiles: envFiles,
	}
}

// LoadConfig loads the complete configuration from the YAML file and applies
// COOLINGLOAD_* environment overrides. A missing file yields an empty
// configuration so that the service can run from the environment alone.
func (y *YAMLProvider) LoadConfig() (*ConfigData, error) {
	if err := loadEnvFiles(y.envFiles); err != nil {
		return nil, err
	}

	config := &ConfigData{}
	cfgFile, err := os.ReadFile(y.filename)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(cfgFile, config); err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", y.filename, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("could not read %s: %w", y.filename, err)
	}

	if err := applyEnv(config, os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

// IsReadOnly returns true; YAML files are edited by hand
func (y *YAMLProvider) IsReadOnly() bool {
	return true
}

// Close is a no-op for YAML provider
func (y *YAMLProvider) Close() error {
	return nil
}

func loadEnvFiles(files []string) error {
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("could not load env files: %w", err)
	}
	return nil
}
