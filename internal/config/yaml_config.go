package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLConfig represents the structure of the config.yaml file.
// Per-client settings are easier to manage in YAML than env vars.
type YAMLConfig struct {
	Clients  []ClientConfig `yaml:"clients"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// ClientConfig overrides settings for one client_id.
type ClientConfig struct {
	ID           string `yaml:"id"`
	RequestLimit int    `yaml:"request_limit"` // requests per reset interval
}

// DefaultsConfig defines default settings.
type DefaultsConfig struct {
	RequestLimit int `yaml:"request_limit"` // overrides REQUEST_LIMIT when set
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLConfigFrom(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLConfigFrom loads the YAML configuration from path.
func LoadYAMLConfigFrom(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// GetClientByID finds a client override by its id.
func (c *YAMLConfig) GetClientByID(id string) *ClientConfig {
	if c == nil {
		return nil
	}
	for i := range c.Clients {
		if c.Clients[i].ID == id {
			return &c.Clients[i]
		}
	}
	return nil
}

// RequestLimitFor returns the request limit for clientID: the client's own
// override, then defaults.request_limit, then fallback.
func (c *YAMLConfig) RequestLimitFor(clientID string, fallback int) int {
	if client := c.GetClientByID(clientID); client != nil && client.RequestLimit > 0 {
		return client.RequestLimit
	}
	if c != nil && c.Defaults.RequestLimit > 0 {
		return c.Defaults.RequestLimit
	}
	return fallback
}
