// Package registry locates locally downloaded model weights. The local VLM
// runner asks it to turn a requested model id into a concrete weights file
// under the configured models directory.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docexd/internal/common/fsutil"
)

// Model describes one locally available weights file.
type Model struct {
	// ID is the bare filename, e.g. "smolvlm-256m-instruct-q8_0.gguf".
	ID string
	// Path is the absolute file path.
	Path string
	// SizeBytes of the weights file.
	SizeBytes int64
}

// Scan lists *.gguf files directly under dir. A leading '~' is expanded.
func Scan(dir string) ([]Model, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var models []Model
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".gguf") {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		models = append(models, Model{ID: name, Path: filepath.Join(abs, name), SizeBytes: size})
	}
	return models, nil
}

// Resolve maps a requested model id to a weights path. Absolute paths pass
// through untouched. Otherwise the id is matched against the scanned files:
// first by exact filename, then case-insensitively with any repo owner
// prefix (e.g. "HuggingFaceTB/") stripped.
func Resolve(dir, modelID string) (string, error) {
	id := strings.TrimSpace(modelID)
	if id == "" {
		return "", fmt.Errorf("model id is empty")
	}
	if filepath.IsAbs(id) {
		return id, nil
	}
	models, err := Scan(dir)
	if err != nil {
		return "", err
	}
	for _, m := range models {
		if m.ID == id {
			return m.Path, nil
		}
	}
	want := normalizeID(id)
	for _, m := range models {
		if strings.Contains(normalizeID(m.ID), want) {
			return m.Path, nil
		}
	}
	return "", fmt.Errorf("model %q not found in %s (%d weights files)", modelID, dir, len(models))
}

// normalizeID lowercases an id, drops any owner prefix and the .gguf suffix,
// and collapses separator characters so "HuggingFaceTB/SmolVLM-256M-Instruct"
// matches "smolvlm_256m_instruct-q8_0.gguf".
func normalizeID(id string) string {
	s := strings.ToLower(id)
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ".gguf")
	s = strings.ReplaceAll(s, "_", "-")
	return s
}
