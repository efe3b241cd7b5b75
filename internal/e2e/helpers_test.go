package e2e

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"docexd/internal/batch"
	"docexd/internal/engine"
	"docexd/internal/extract"
	"docexd/internal/httpapi"
	"docexd/internal/lifecycle"
	"docexd/internal/pipeline"
	"docexd/internal/vlm"
	"docexd/pkg/types"
)

// stubEngine returns a fixed two-page document for any input, so the whole
// HTTP → orchestrator → lifecycle path runs without a real converter.
type stubEngine struct{}

func (stubEngine) Convert(ctx context.Context, content []byte, filename string) (*types.Document, error) {
	return &types.Document{
		Filename: filename,
		Pages: []types.Page{
			{Number: 1, Blocks: []types.Block{{Kind: types.BlockText, Text: "first page"}}},
			{Number: 2, Blocks: []types.Block{
				{Kind: types.BlockTable, Table: &types.Table{Headers: []string{"k", "v"}, Data: [][]string{{"a", "1"}}}},
			}},
		},
	}, nil
}

func (stubEngine) Close() error { return nil }

// newServer wires the real orchestrator, coordinator and router around the
// stub engine and serves it over a loopback listener.
func newServer(t *testing.T) (*httptest.Server, *lifecycle.Manager) {
	t.Helper()
	lm := lifecycle.NewWithConfig(lifecycle.ManagerConfig{
		EngineFactory: func(cfg pipeline.Config) (engine.Engine, error) { return stubEngine{}, nil },
	})
	orch, err := extract.New(lm, vlm.Settings{}, t.TempDir())
	if err != nil {
		t.Fatalf("extract.New: %v", err)
	}
	app := &httpapi.App{Orch: orch, Coord: batch.New(orch, 1)}
	srv := httptest.NewServer(httpapi.NewMux(app))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { lm.ReleaseAll() })
	return srv, lm
}

// postFiles uploads one part per entry under field, plus plain form fields.
func postFiles(t *testing.T, url, field string, files map[string][]byte, fields map[string]string) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, &buf)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}
