package vlm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseProvider(t *testing.T) {
	cases := []struct {
		in      string
		want    Provider
		wantErr bool
	}{
		{"openai", ProviderOpenAI, false},
		{"GROQ", ProviderGroq, false},
		{" anthropic ", ProviderAnthropic, false},
		{"google", ProviderGoogle, false},
		{"azure", ProviderAzure, false},
		{"custom", ProviderCustom, false},
		{"hal9000", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := ParseProvider(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseProvider(%q): expected error", c.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseProvider(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseProvider(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestDefaultModelPerProvider(t *testing.T) {
	if got := DefaultModel(ProviderOpenAI); got != "gpt-4o" {
		t.Fatalf("openai default=%q", got)
	}
	if got := DefaultModel(ProviderAnthropic); got != "claude-3-5-sonnet-20241022" {
		t.Fatalf("anthropic default=%q", got)
	}
	if got := DefaultModel(ProviderGroq); got != "llama-3.2-11b-vision-preview" {
		t.Fatalf("groq default=%q", got)
	}
	if got := DefaultModel(ProviderCustom); got != "gpt-4o" {
		t.Fatalf("custom default=%q", got)
	}
}

func TestNewRequiresBaseURLForAzureAndCustom(t *testing.T) {
	for _, p := range []Provider{ProviderAzure, ProviderCustom} {
		if _, err := New(Settings{Provider: p, APIKey: "k"}); err == nil {
			t.Fatalf("provider %s: expected base URL error", p)
		}
		if _, err := New(Settings{Provider: p, APIKey: "k", BaseURL: "http://localhost:9"}); err != nil {
			t.Fatalf("provider %s with base URL: %v", p, err)
		}
	}
}

func TestDescribeWithoutCredential(t *testing.T) {
	d, err := New(Settings{Provider: ProviderOpenAI})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = d.Describe(context.Background(), []byte{1}, "p", "")
	if !IsProviderAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestOpenAIDescribe(t *testing.T) {
	var gotAuth, gotPath string
	var gotReq openAIChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":" a chart of sales "}}]}`))
	}))
	defer srv.Close()

	d, err := New(Settings{Provider: ProviderOpenAI, APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text, err := d.Describe(context.Background(), []byte{0xFF, 0xD8, 0xFF, 0x01}, "describe", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != "a chart of sales" {
		t.Fatalf("text=%q", text)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("auth=%q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path=%q", gotPath)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Fatalf("model=%q", gotReq.Model)
	}
	if len(gotReq.Messages) != 1 || len(gotReq.Messages[0].Content) != 2 {
		t.Fatalf("unexpected message shape: %+v", gotReq.Messages)
	}
	img := gotReq.Messages[0].Content[0]
	if img.Type != "image_url" || img.ImageURL == nil || !strings.HasPrefix(img.ImageURL.URL, "data:image/jpeg;base64,") {
		t.Fatalf("image part=%+v", img)
	}
}

func TestAzureUsesAPIKeyHeader(t *testing.T) {
	var gotKey, gotBearer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		gotBearer = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	d, err := New(Settings{Provider: ProviderAzure, APIKey: "az-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := d.Describe(context.Background(), []byte{1}, "p", ""); err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if gotKey != "az-key" {
		t.Fatalf("api-key=%q", gotKey)
	}
	if gotBearer != "" {
		t.Fatalf("unexpected bearer header %q", gotBearer)
	}
}

func TestAnthropicDescribe(t *testing.T) {
	var gotKey, gotVersion string
	var gotReq anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"a bar chart"}]}`))
	}))
	defer srv.Close()

	d, err := New(Settings{Provider: ProviderAnthropic, APIKey: "ak", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	text, err := d.Describe(context.Background(), []byte{0x89, 0x50, 0x4E, 0x47}, "describe", "")
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if text != "a bar chart" {
		t.Fatalf("text=%q", text)
	}
	if gotKey != "ak" || gotVersion != "2023-06-01" {
		t.Fatalf("headers key=%q version=%q", gotKey, gotVersion)
	}
	if gotReq.Model != DefaultModel(ProviderAnthropic) {
		t.Fatalf("model=%q", gotReq.Model)
	}
	blocks := gotReq.Messages[0].Content
	if len(blocks) != 2 || blocks[0].Type != "image" || blocks[0].Source == nil || blocks[0].Source.Type != "base64" {
		t.Fatalf("content blocks=%+v", blocks)
	}
}

func TestDescribeNon2xxBecomesRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	d, err := New(Settings{Provider: ProviderGroq, APIKey: "k", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = d.Describe(context.Background(), []byte{1}, "p", "")
	if !IsProviderRequest(err) {
		t.Fatalf("expected request error, got %v", err)
	}
	if !strings.Contains(err.Error(), "groq") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("error message=%q", err.Error())
	}
}

func TestDescribeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	d, err := New(Settings{Provider: ProviderOpenAI, APIKey: "k", BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = d.Describe(context.Background(), []byte{1}, "p", "")
	if !IsProviderTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestResolvedPrompt(t *testing.T) {
	if got := (Settings{}).ResolvedPrompt(); got != DefaultPrompt {
		t.Fatalf("empty prompt should fall back to default")
	}
	if got := (Settings{Prompt: "default"}).ResolvedPrompt(); got != DefaultPrompt {
		t.Fatalf("literal 'default' should keep the built-in prompt")
	}
	if got := (Settings{Prompt: "say cheese"}).ResolvedPrompt(); got != "say cheese" {
		t.Fatalf("custom prompt lost: %q", got)
	}
}

func TestSniffMIME(t *testing.T) {
	if got := sniffMIME([]byte{0xFF, 0xD8, 0xFF, 0xE0}); got != "image/jpeg" {
		t.Fatalf("jpeg=%q", got)
	}
	if got := sniffMIME([]byte("GIF89a")); got != "image/gif" {
		t.Fatalf("gif=%q", got)
	}
	if got := sniffMIME([]byte{0x89, 0x50}); got != "image/png" {
		t.Fatalf("fallback=%q", got)
	}
}
