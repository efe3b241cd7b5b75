package vlm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider identifies one of the supported remote VLM API variants.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderGroq      Provider = "groq"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
	ProviderAzure     Provider = "azure"
	ProviderCustom    Provider = "custom"
)

// ParseProvider normalizes a provider name. Unknown names return an error.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGroq:
		return ProviderGroq, nil
	case ProviderAnthropic:
		return ProviderAnthropic, nil
	case ProviderGoogle:
		return ProviderGoogle, nil
	case ProviderAzure:
		return ProviderAzure, nil
	case ProviderCustom:
		return ProviderCustom, nil
	}
	return "", fmt.Errorf("unknown vlm provider: %q", s)
}

// DefaultModel returns the documented default model id for a provider.
func DefaultModel(p Provider) string {
	switch p {
	case ProviderGroq:
		return "llama-3.2-11b-vision-preview"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-20241022"
	case ProviderGoogle:
		return "gemini-1.5-pro"
	default:
		// openai, azure and custom all default to gpt-4o
		return "gpt-4o"
	}
}

// defaultBaseURL returns the built-in endpoint base for a provider. Azure and
// custom have no built-in base; the operator must supply one.
func defaultBaseURL(p Provider) string {
	switch p {
	case ProviderOpenAI:
		return "https://api.openai.com/v1"
	case ProviderGroq:
		return "https://api.groq.com/openai/v1"
	case ProviderGoogle:
		return "https://generativelanguage.googleapis.com/v1beta/openai"
	case ProviderAnthropic:
		return "https://api.anthropic.com/v1"
	default:
		return ""
	}
}

// DefaultPrompt is the instruction sent with every image when the operator
// does not override it via VLM_PROMPT.
const DefaultPrompt = `Analyze the provided image and extract all relevant information.
If the image contains text, transcribe it accurately.
If it's a diagram, chart, or any visual representation, describe its key elements, labels, and the relationships or trends it conveys.
Focus on factual details and avoid subjective interpretations.
Present the extracted information in a structured markdown format, prioritizing clarity and completeness.`

const defaultTimeout = 60 * time.Second

// Settings is the process-wide remote VLM configuration. Loaded once at
// startup; immutable afterward.
type Settings struct {
	Provider     Provider
	APIKey       string
	BaseURL      string
	DefaultModel string
	Prompt       string
	Timeout      time.Duration
	// HTTPClient overrides the transport, used by tests.
	HTTPClient *http.Client
}

// HasCredential reports whether an API key is configured.
func (s Settings) HasCredential() bool { return strings.TrimSpace(s.APIKey) != "" }

// ResolvedPrompt returns the configured prompt, falling back to DefaultPrompt.
// The literal value "default" keeps the built-in prompt.
func (s Settings) ResolvedPrompt() string {
	p := strings.TrimSpace(s.Prompt)
	if p == "" || p == "default" {
		return DefaultPrompt
	}
	return s.Prompt
}

// Describer produces a short textual description of one image. It is the
// single capability shared by all provider variants and the local runner.
type Describer interface {
	Describe(ctx context.Context, image []byte, prompt, modelID string) (string, error)
}

// New selects the adaptor variant for the configured provider. The variant is
// fixed once per process; it is not re-selected per request.
func New(s Settings) (Describer, error) {
	if _, err := ParseProvider(string(s.Provider)); err != nil {
		return nil, err
	}
	if s.Timeout <= 0 {
		s.Timeout = defaultTimeout
	}
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL(s.Provider)
	}
	if base == "" {
		return nil, fmt.Errorf("provider %s requires an explicit base URL", s.Provider)
	}
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: s.Timeout}
	}
	if s.Provider == ProviderAnthropic {
		return &anthropicClient{settings: s, baseURL: base, http: hc}, nil
	}
	return &openAIClient{settings: s, baseURL: base, http: hc}, nil
}
