package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotenv reads a .env file from the working directory when present.
// Missing files are fine; real environment variables always win.
func LoadDotenv() {
	_ = godotenv.Load()
}

// ApplyEnv overlays environment variables onto cfg. Environment wins over
// file values so deployments can override a mounted config.
func ApplyEnv(cfg Config) Config {
	if v := os.Getenv("DOCEXD_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("STORAGE_DIR"); v != "" {
		cfg.StorageDir = v
	}
	if v := os.Getenv("DOCEXD_ENGINE_CACHE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EngineCacheCapacity = n
		}
	}
	if v := os.Getenv("DOCEXD_BATCH_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BatchConcurrency = n
		}
	}
	if v := os.Getenv("VLM_API_PROVIDER"); v != "" {
		cfg.VLMProvider = strings.ToLower(strings.TrimSpace(v))
	}
	if v := apiKeyFromEnv(); v != "" {
		cfg.VLMAPIKey = v
	}
	if v := os.Getenv("VLM_API_BASE_URL"); v != "" {
		cfg.VLMBaseURL = v
	}
	if v := os.Getenv("VLM_MODEL"); v != "" {
		cfg.VLMModel = v
	}
	// The literal value "default" keeps the built-in prompt.
	if v := os.Getenv("VLM_PROMPT"); v != "" && v != "default" {
		cfg.VLMPrompt = v
	}
	if v := os.Getenv("DOCEXD_MODELS_DIR"); v != "" {
		cfg.LocalModelsDir = v
	}
	return cfg
}

// apiKeyFromEnv reads the provider credential. OPENAI_API_KEY is the legacy
// name and only consulted when VLM_API_KEY is unset.
func apiKeyFromEnv() string {
	if v := os.Getenv("VLM_API_KEY"); v != "" {
		return v
	}
	return os.Getenv("OPENAI_API_KEY")
}

// Debug reports whether debug logging was requested via environment.
func Debug() bool {
	v := strings.ToLower(os.Getenv("DEBUG"))
	return v == "1" || v == "true" || v == "yes"
}
