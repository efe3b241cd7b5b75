package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, f := range names {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("w"), 0o644); err != nil {
			t.Fatalf("write temp file: %v", err)
		}
	}
}

func TestScanFiltersGGUF(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.gguf", "b.GGUF", "not-model.txt", "model.bin")

	models, err := Scan(dir)
	if err != nil {
		t.Fatalf("scan error: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	for _, m := range models {
		if !strings.HasSuffix(strings.ToLower(m.ID), ".gguf") {
			t.Fatalf("id not gguf: %s", m.ID)
		}
		if !filepath.IsAbs(m.Path) {
			t.Fatalf("path not absolute: %s", m.Path)
		}
	}
}

func TestScanMissingDir(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestResolveExactFilename(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "smolvlm-256m-instruct-q8_0.gguf", "other.gguf")

	p, err := Resolve(dir, "other.gguf")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(p) != "other.gguf" {
		t.Fatalf("path=%s", p)
	}
}

func TestResolveHuggingFaceID(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "smolvlm-256m-instruct-q8_0.gguf")

	p, err := Resolve(dir, "HuggingFaceTB/SmolVLM-256M-Instruct")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(p) != "smolvlm-256m-instruct-q8_0.gguf" {
		t.Fatalf("path=%s", p)
	}
}

func TestResolveAbsolutePathPassesThrough(t *testing.T) {
	p, err := Resolve(t.TempDir(), "/weights/custom.gguf")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p != "/weights/custom.gguf" {
		t.Fatalf("path=%s", p)
	}
}

func TestResolveNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.gguf")

	if _, err := Resolve(dir, "missing-model"); err == nil {
		t.Fatalf("expected not-found error")
	}
}
