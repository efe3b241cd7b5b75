package vlm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// anthropicClient speaks the Messages API content-block schema, the one
// provider that diverges from the OpenAI chat envelope.
type anthropicClient struct {
	settings Settings
	baseURL  string
	http     *http.Client
}

type anthropicImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicContentBlock struct {
	Type   string                `json:"type"`
	Text   string                `json:"text,omitempty"`
	Source *anthropicImageSource `json:"source,omitempty"`
}

type anthropicMessage struct {
	Role    string                  `json:"role"`
	Content []anthropicContentBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (c *anthropicClient) Describe(ctx context.Context, image []byte, prompt, modelID string) (string, error) {
	if !c.settings.HasCredential() {
		return "", ErrProviderAuth(ProviderAnthropic)
	}
	if modelID == "" {
		modelID = c.settings.DefaultModel
	}
	if modelID == "" {
		modelID = DefaultModel(ProviderAnthropic)
	}

	payload := anthropicRequest{
		Model:     modelID,
		MaxTokens: 4096,
		Messages: []anthropicMessage{{
			Role: "user",
			Content: []anthropicContentBlock{
				{Type: "image", Source: &anthropicImageSource{
					Type:      "base64",
					MediaType: sniffMIME(image),
					Data:      base64.StdEncoding.EncodeToString(image),
				}},
				{Type: "text", Text: prompt},
			},
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.settings.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", ErrProviderTimeout(ProviderAnthropic)
		}
		return "", fmt.Errorf("vlm provider %s: %w", ProviderAnthropic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrProviderRequest(ProviderAnthropic, resp.StatusCode, readErrorBody(resp.Body))
	}

	var out anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("vlm provider %s: decode response: %w", ProviderAnthropic, err)
	}
	var sb strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrProviderRequest(ProviderAnthropic, resp.StatusCode, "no text content in response")
	}
	return text, nil
}
