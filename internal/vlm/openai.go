package vlm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// openAIClient serves every provider that speaks the OpenAI chat-completions
// wire contract with image content parts: openai, groq, google (OpenAI-compat
// endpoint), azure and custom. The variants differ only in base URL and
// authentication header shape.
type openAIClient struct {
	settings Settings
	baseURL  string
	http     *http.Client
}

type openAIContentPart struct {
	Type     string             `json:"type"`
	Text     string             `json:"text,omitempty"`
	ImageURL *openAIImageSource `json:"image_url,omitempty"`
}

type openAIImageSource struct {
	URL string `json:"url"`
}

type openAIMessage struct {
	Role    string              `json:"role"`
	Content []openAIContentPart `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *openAIClient) Describe(ctx context.Context, image []byte, prompt, modelID string) (string, error) {
	if !c.settings.HasCredential() {
		return "", ErrProviderAuth(c.settings.Provider)
	}
	if modelID == "" {
		modelID = c.settings.DefaultModel
	}
	if modelID == "" {
		modelID = DefaultModel(c.settings.Provider)
	}

	dataURI := fmt.Sprintf("data:%s;base64,%s", sniffMIME(image), base64.StdEncoding.EncodeToString(image))
	payload := openAIChatRequest{
		Model: modelID,
		Messages: []openAIMessage{{
			Role: "user",
			Content: []openAIContentPart{
				{Type: "image_url", ImageURL: &openAIImageSource{URL: dataURI}},
				{Type: "text", Text: prompt},
			},
		}},
		Temperature: 0,
		MaxTokens:   4096,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.settings.Provider == ProviderAzure {
		req.Header.Set("api-key", c.settings.APIKey)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.settings.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return "", ErrProviderTimeout(c.settings.Provider)
		}
		return "", fmt.Errorf("vlm provider %s: %w", c.settings.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrProviderRequest(c.settings.Provider, resp.StatusCode, readErrorBody(resp.Body))
	}

	var out openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("vlm provider %s: decode response: %w", c.settings.Provider, err)
	}
	if len(out.Choices) == 0 {
		return "", ErrProviderRequest(c.settings.Provider, resp.StatusCode, "empty choices in response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}

// sniffMIME guesses the image MIME type from magic bytes; defaults to PNG.
func sniffMIME(b []byte) string {
	switch {
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return "image/jpeg"
	case len(b) >= 4 && b[0] == 'G' && b[1] == 'I' && b[2] == 'F' && b[3] == '8':
		return "image/gif"
	case len(b) >= 12 && string(b[8:12]) == "WEBP":
		return "image/webp"
	default:
		return "image/png"
	}
}

// readErrorBody extracts a short upstream message from an error response.
func readErrorBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(b, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	msg := strings.TrimSpace(string(b))
	if msg == "" {
		return "no response body"
	}
	return msg
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return ctx.Err() == context.DeadlineExceeded
}
