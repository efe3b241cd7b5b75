package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"

	"docexd/internal/pipeline"
	"docexd/pkg/types"
)

// FitzEngine is the bundled converter, backed by MuPDF via go-fitz. It
// extracts per-page text; OCR and table structure are capability hints it
// records but cannot serve itself — richer converters plug in through the
// same Factory.
type FitzEngine struct {
	cfg pipeline.Config
}

// NewFitzEngine is the default engine Factory.
func NewFitzEngine(cfg pipeline.Config) (Engine, error) {
	return &FitzEngine{cfg: cfg}, nil
}

func (e *FitzEngine) Convert(ctx context.Context, content []byte, filename string) (*types.Document, error) {
	if len(content) == 0 {
		return nil, ErrConversion(filename, fmt.Errorf("empty file"))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// go-fitz works best with file paths, so the upload goes to a temp file.
	tmp, err := os.CreateTemp("", "docexd-*"+filepath.Ext(filename))
	if err != nil {
		return nil, ErrConversion(filename, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return nil, ErrConversion(filename, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, ErrConversion(filename, err)
	}

	doc, err := fitz.New(tmp.Name())
	if err != nil {
		return nil, ErrConversion(filename, err)
	}
	defer doc.Close()

	out := &types.Document{Filename: filename}
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(i)
		if err != nil {
			log.Warn().Err(err).Str("file", filename).Int("page", i+1).
				Msg("page text extraction failed")
			text = ""
		}
		page := types.Page{Number: i + 1}
		if t := strings.TrimSpace(text); t != "" {
			page.Blocks = append(page.Blocks, types.Block{Kind: types.BlockText, Text: t})
		}
		out.Pages = append(out.Pages, page)
	}
	if len(out.Pages) == 0 {
		return nil, ErrConversion(filename, fmt.Errorf("document has no pages"))
	}
	return out, nil
}

func (e *FitzEngine) Close() error { return nil }
