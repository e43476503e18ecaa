package harness

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration of a test run. Command line
// flags take precedence over every value here.
type Config struct {
	Device int `yaml:"device"`
	Logger struct {
		Verbosity string `yaml:"verbosity"`
	} `yaml:"logger"`
	Metrics struct {
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
	Checks struct {
		Lgamma     bool `yaml:"lgamma"`
		Iterations int  `yaml:"iterations"`
	} `yaml:"checks"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Logger.Verbosity = "info"
	cfg.Checks.Iterations = 1
	return cfg
}

// LoadConfig reads path on top of DefaultConfig. An empty path yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
