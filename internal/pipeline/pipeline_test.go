package pipeline

import (
	"strings"
	"testing"

	"docexd/internal/vlm"
)

func apiSettings() vlm.Settings {
	return vlm.Settings{Provider: vlm.ProviderOpenAI, APIKey: "sk-test"}
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	_, err := Build(true, true, "telepathy", "", apiSettings())
	if !IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestBuildEmptyModeMeansNone(t *testing.T) {
	cfg, err := Build(true, true, "", "", vlm.Settings{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.VLMMode != ModeNone {
		t.Fatalf("mode=%s", cfg.VLMMode)
	}
	if cfg.VLMModelID != "" {
		t.Fatalf("model id should be empty for mode none, got %q", cfg.VLMModelID)
	}
}

func TestBuildAPIWithoutCredential(t *testing.T) {
	_, err := Build(true, true, "api", "", vlm.Settings{Provider: vlm.ProviderOpenAI})
	if !IsConfigError(err) {
		t.Fatalf("expected config error, got %v", err)
	}
	if !strings.Contains(err.Error(), "VLM_API_KEY") {
		t.Fatalf("error should name the missing setting: %q", err.Error())
	}
}

func TestBuildResolvesDefaultModels(t *testing.T) {
	local, err := Build(true, true, "local", "", vlm.Settings{})
	if err != nil {
		t.Fatalf("Build local: %v", err)
	}
	if local.VLMModelID != vlm.DefaultLocalModel {
		t.Fatalf("local default=%q", local.VLMModelID)
	}

	api, err := Build(true, true, "api", "", apiSettings())
	if err != nil {
		t.Fatalf("Build api: %v", err)
	}
	if api.VLMModelID != vlm.DefaultModel(vlm.ProviderOpenAI) {
		t.Fatalf("api default=%q", api.VLMModelID)
	}

	settings := apiSettings()
	settings.DefaultModel = "gpt-4o-mini"
	api2, err := Build(true, true, "api", "", settings)
	if err != nil {
		t.Fatalf("Build api with settings default: %v", err)
	}
	if api2.VLMModelID != "gpt-4o-mini" {
		t.Fatalf("configured default ignored: %q", api2.VLMModelID)
	}
}

func TestBuildTreatsLiteralStringAsUnset(t *testing.T) {
	cfg, err := Build(true, true, "local", "string", vlm.Settings{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.VLMModelID != vlm.DefaultLocalModel {
		t.Fatalf("model id=%q", cfg.VLMModelID)
	}
}

func TestBuildExplicitModelWins(t *testing.T) {
	cfg, err := Build(false, true, "api", "pixtral-12b", apiSettings())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.VLMModelID != "pixtral-12b" {
		t.Fatalf("model id=%q", cfg.VLMModelID)
	}
}

// CacheKey must be a bijection over configurations: any field difference
// changes the key, equal configs give equal keys.
func TestCacheKeyBijection(t *testing.T) {
	configs := []Config{
		{OCREnabled: true, TableExtraction: true, VLMMode: ModeNone},
		{OCREnabled: false, TableExtraction: true, VLMMode: ModeNone},
		{OCREnabled: true, TableExtraction: false, VLMMode: ModeNone},
		{OCREnabled: true, TableExtraction: true, VLMMode: ModeLocal, VLMModelID: "a"},
		{OCREnabled: true, TableExtraction: true, VLMMode: ModeLocal, VLMModelID: "b"},
		{OCREnabled: true, TableExtraction: true, VLMMode: ModeAPI, VLMModelID: "a"},
	}
	seen := make(map[string]Config, len(configs))
	for _, c := range configs {
		key := c.CacheKey()
		if prev, dup := seen[key]; dup {
			t.Fatalf("key collision %q between %+v and %+v", key, prev, c)
		}
		seen[key] = c
		if c.CacheKey() != key {
			t.Fatalf("key not deterministic for %+v", c)
		}
	}
}

func TestEngineKeyIgnoresVLMFields(t *testing.T) {
	a := Config{OCREnabled: true, TableExtraction: true, VLMMode: ModeNone}
	b := Config{OCREnabled: true, TableExtraction: true, VLMMode: ModeAPI, VLMModelID: "gpt-4o"}
	if a.EngineKey() != b.EngineKey() {
		t.Fatalf("engine keys differ: %q vs %q", a.EngineKey(), b.EngineKey())
	}
	c := Config{OCREnabled: false, TableExtraction: true}
	if a.EngineKey() == c.EngineKey() {
		t.Fatalf("engine key should depend on ocr flag")
	}
}
