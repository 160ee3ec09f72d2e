package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "validation.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadValidationConfig_Success(t *testing.T) {
	path := writeConfig(t, `zscore_limit: 3.5
min_class_count: 10
max_class_count: 20
correlation_limit: 0.9
`)
	t.Setenv("VALIDATION_CONFIG_PATH", path)

	cfg, err := LoadValidationConfig()
	if err != nil {
		t.Fatalf("LoadValidationConfig() failed: %v", err)
	}

	if cfg.ZScoreLimit != 3.5 {
		t.Errorf("Expected zscore_limit=3.5, got %v", cfg.ZScoreLimit)
	}
	if cfg.MinClassCount != 10 || cfg.MaxClassCount != 20 {
		t.Errorf("Expected class count range [10, 20], got [%d, %d]", cfg.MinClassCount, cfg.MaxClassCount)
	}
	if cfg.CorrelationLimit != 0.9 {
		t.Errorf("Expected correlation_limit=0.9, got %v", cfg.CorrelationLimit)
	}
}

func TestLoadValidationConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "zscore_limit: 5\n")
	t.Setenv("VALIDATION_CONFIG_PATH", path)

	cfg, err := LoadValidationConfig()
	if err != nil {
		t.Fatalf("LoadValidationConfig() failed: %v", err)
	}

	if cfg.ZScoreLimit != 5 {
		t.Errorf("Expected zscore_limit=5, got %v", cfg.ZScoreLimit)
	}
	if cfg.MinClassCount != DefaultMinClassCount {
		t.Errorf("Expected default min_class_count, got %d", cfg.MinClassCount)
	}
	if cfg.MaxClassCount != DefaultMaxClassCount {
		t.Errorf("Expected default max_class_count, got %d", cfg.MaxClassCount)
	}
	if cfg.CorrelationLimit != DefaultCorrelationLimit {
		t.Errorf("Expected default correlation_limit, got %v", cfg.CorrelationLimit)
	}
}

func TestLoadValidationConfig_MissingDefaultFile(t *testing.T) {
	t.Setenv("VALIDATION_CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := LoadValidationConfig()
	if err != nil {
		t.Fatalf("LoadValidationConfig() failed: %v", err)
	}
	if *cfg != *DefaultValidationConfig() {
		t.Errorf("Expected defaults, got %+v", *cfg)
	}
}

func TestLoadValidationConfig_FileNotFound(t *testing.T) {
	t.Setenv("VALIDATION_CONFIG_PATH", "/nonexistent/path/validation.yaml")

	_, err := LoadValidationConfig()
	if err == nil {
		t.Fatal("Expected error for nonexistent config file")
	}
	if !strings.Contains(err.Error(), "failed to read config file") {
		t.Errorf("Expected 'failed to read config file' error, got: %v", err)
	}
}

func TestLoadValidationConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "zscore_limit: [4\n")
	t.Setenv("VALIDATION_CONFIG_PATH", path)

	_, err := LoadValidationConfig()
	if err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Expected 'failed to parse YAML' error, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ValidationConfig
		wantErr bool
	}{
		{
			name: "defaults",
			cfg:  *DefaultValidationConfig(),
		},
		{
			name:    "inverted class range",
			cfg:     ValidationConfig{ZScoreLimit: 4, MinClassCount: 60, MaxClassCount: 40, CorrelationLimit: 0.95},
			wantErr: true,
		},
		{
			name:    "correlation above one",
			cfg:     ValidationConfig{ZScoreLimit: 4, MinClassCount: 40, MaxClassCount: 60, CorrelationLimit: 1.5},
			wantErr: true,
		},
		{
			name:    "negative z-score limit",
			cfg:     ValidationConfig{ZScoreLimit: -1, MinClassCount: 40, MaxClassCount: 60, CorrelationLimit: 0.95},
			wantErr: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.cfg.Validate()
			if (err != nil) != test.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}
