package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
type Config struct {
	Addr                string `json:"addr" yaml:"addr" toml:"addr"`
	StorageDir          string `json:"storage_dir" yaml:"storage_dir" toml:"storage_dir"`
	EngineCacheCapacity int    `json:"engine_cache_capacity" yaml:"engine_cache_capacity" toml:"engine_cache_capacity"`
	BatchConcurrency    int    `json:"batch_concurrency" yaml:"batch_concurrency" toml:"batch_concurrency"`
	MaxBodyMB           int    `json:"max_body_mb" yaml:"max_body_mb" toml:"max_body_mb"`

	VLMProvider string `json:"vlm_provider" yaml:"vlm_provider" toml:"vlm_provider"`
	VLMAPIKey   string `json:"vlm_api_key" yaml:"vlm_api_key" toml:"vlm_api_key"`
	VLMBaseURL  string `json:"vlm_base_url" yaml:"vlm_base_url" toml:"vlm_base_url"`
	VLMModel    string `json:"vlm_model" yaml:"vlm_model" toml:"vlm_model"`
	VLMPrompt   string `json:"vlm_prompt" yaml:"vlm_prompt" toml:"vlm_prompt"`

	LocalModelsDir string `json:"local_models_dir" yaml:"local_models_dir" toml:"local_models_dir"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
