package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

const (
	DefaultZScoreLimit      = 4.0
	DefaultMinClassCount    = 40
	DefaultMaxClassCount    = 60
	DefaultCorrelationLimit = 0.95

	defaultConfigPath = "configs/validation.yaml"
)

// ValidationConfig holds the thresholds used by the validation checks.
type ValidationConfig struct {
	ZScoreLimit      float64 `yaml:"zscore_limit"`
	MinClassCount    int     `yaml:"min_class_count"`
	MaxClassCount    int     `yaml:"max_class_count"`
	CorrelationLimit float64 `yaml:"correlation_limit"`
}

func DefaultValidationConfig() *ValidationConfig {
	cfg := &ValidationConfig{}
	applyDefaults(cfg)
	return cfg
}

// LoadValidationConfig reads thresholds from VALIDATION_CONFIG_PATH. When the
// variable is unset and configs/validation.yaml does not exist the defaults
// are returned.
func LoadValidationConfig() (*ValidationConfig, error) {
	return LoadValidationConfigFile(os.Getenv("VALIDATION_CONFIG_PATH"))
}

// LoadValidationConfigFile reads thresholds from path. An empty path means
// configs/validation.yaml, which may be absent.
func LoadValidationConfigFile(path string) (*ValidationConfig, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return DefaultValidationConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg ValidationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *ValidationConfig) {
	if cfg.ZScoreLimit == 0 {
		cfg.ZScoreLimit = DefaultZScoreLimit
	}
	if cfg.MinClassCount == 0 {
		cfg.MinClassCount = DefaultMinClassCount
	}
	if cfg.MaxClassCount == 0 {
		cfg.MaxClassCount = DefaultMaxClassCount
	}
	if cfg.CorrelationLimit == 0 {
		cfg.CorrelationLimit = DefaultCorrelationLimit
	}
}

func (c *ValidationConfig) Validate() error {
	if c.ZScoreLimit < 0 {
		return fmt.Errorf("zscore_limit must be positive, got %v", c.ZScoreLimit)
	}
	if c.MinClassCount < 0 {
		return fmt.Errorf("min_class_count must not be negative, got %d", c.MinClassCount)
	}
	if c.MinClassCount > c.MaxClassCount {
		return fmt.Errorf("min_class_count %d is greater than max_class_count %d", c.MinClassCount, c.MaxClassCount)
	}
	if c.CorrelationLimit < 0 || c.CorrelationLimit > 1 {
		return fmt.Errorf("correlation_limit must be in [0, 1], got %v", c.CorrelationLimit)
	}
	return nil
}
