package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"docexd/internal/common/fsutil"
)

// SaveMarkdown writes content under the storage directory as
// <stem>_<timestamp>.md and returns the absolute path.
func (o *Orchestrator) SaveMarkdown(content, originalFilename string) (string, error) {
	dir, err := fsutil.ExpandHome(o.storeDir)
	if err != nil {
		return "", err
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	stem := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	name := fmt.Sprintf("%s_%s.md", stem, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write markdown: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	log.Info().Str("path", abs).Msg("saved markdown")
	return abs, nil
}
