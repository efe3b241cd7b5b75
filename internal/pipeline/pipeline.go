// Package pipeline builds immutable pipeline configurations from
// request-level flags and derives the cache keys the lifecycle manager
// looks resources up by.
package pipeline

import (
	"fmt"
	"strings"

	"docexd/internal/vlm"
)

// Mode selects how image placeholders are described during extraction.
type Mode string

const (
	ModeNone  Mode = "none"
	ModeLocal Mode = "local"
	ModeAPI   Mode = "api"
)

// ParseMode validates a vlm_mode form value. An empty value means none.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeNone:
		return ModeNone, nil
	case ModeLocal:
		return ModeLocal, nil
	case ModeAPI:
		return ModeAPI, nil
	}
	return "", ErrConfig(fmt.Sprintf("invalid vlm_mode %q (expected none, local or api)", s))
}

// Config is an immutable pipeline configuration. Construct it with Build;
// copies are safe to pass by value.
type Config struct {
	OCREnabled      bool
	TableExtraction bool
	VLMMode         Mode
	VLMModelID      string
}

// Build turns request flags into a Config. Pure and deterministic, no I/O.
//
// A missing vlm_model_id resolves to the local default model or to the
// active provider's default. The literal value "string" is treated as unset
// (artifact of Swagger UI form placeholders). Build rejects api mode when no
// credential is configured for the active provider settings.
func Build(ocrEnabled, tableExtraction bool, vlmMode, vlmModelID string, providers vlm.Settings) (Config, error) {
	mode, err := ParseMode(vlmMode)
	if err != nil {
		return Config{}, err
	}

	modelID := strings.TrimSpace(vlmModelID)
	if modelID == "string" {
		modelID = ""
	}

	switch mode {
	case ModeNone:
		modelID = ""
	case ModeLocal:
		if modelID == "" {
			modelID = vlm.DefaultLocalModel
		}
	case ModeAPI:
		if !providers.HasCredential() {
			return Config{}, ErrConfig(fmt.Sprintf(
				"vlm_mode=api requires an API key for provider %s (set VLM_API_KEY)", providers.Provider))
		}
		if modelID == "" {
			if providers.DefaultModel != "" {
				modelID = providers.DefaultModel
			} else {
				modelID = vlm.DefaultModel(providers.Provider)
			}
		}
	}

	return Config{
		OCREnabled:      ocrEnabled,
		TableExtraction: tableExtraction,
		VLMMode:         mode,
		VLMModelID:      modelID,
	}, nil
}

// CacheKey is the canonical serialization of a Config. Equal configurations
// produce equal keys and distinct configurations produce distinct keys.
func (c Config) CacheKey() string {
	return fmt.Sprintf("ocr=%t|tables=%t|vlm=%s|model=%s",
		c.OCREnabled, c.TableExtraction, c.VLMMode, c.VLMModelID)
}

// EngineKey identifies the conversion-engine resource a Config needs. VLM
// fields deliberately do not participate: the engine is shared across vlm
// modes for the same (ocr, tables) pair.
func (c Config) EngineKey() string {
	return fmt.Sprintf("ocr=%t|tables=%t", c.OCREnabled, c.TableExtraction)
}
