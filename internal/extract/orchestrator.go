// Package extract runs single-document extractions: it builds the pipeline
// configuration, borrows resources from the lifecycle manager, drives the
// conversion engine and fills image placeholders through the configured VLM.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"docexd/internal/lifecycle"
	"docexd/internal/pipeline"
	"docexd/internal/vlm"
	"docexd/pkg/types"
)

// imageMarker is emitted for images that were not (or could not be)
// described.
const imageMarker = "<!-- image -->"

// Request is one extraction job as received from the HTTP layer or CLI.
type Request struct {
	Content  []byte
	Filename string

	OCREnabled      bool
	TableExtraction bool
	VLMMode         string
	VLMModelID      string
}

// Orchestrator coordinates one extraction end to end. Stateless apart from
// its collaborators; safe for concurrent use.
type Orchestrator struct {
	lm        *lifecycle.Manager
	providers vlm.Settings
	remote    vlm.Describer
	storeDir  string
}

// New wires an orchestrator. The remote describer variant is fixed here,
// once per process, from the provider settings; it is not re-selected per
// request.
func New(lm *lifecycle.Manager, providers vlm.Settings, storageDir string) (*Orchestrator, error) {
	o := &Orchestrator{lm: lm, providers: providers, storeDir: storageDir}
	if providers.HasCredential() {
		remote, err := vlm.New(providers)
		if err != nil {
			return nil, fmt.Errorf("configure vlm provider: %w", err)
		}
		o.remote = remote
	}
	return o, nil
}

// Providers exposes the immutable provider settings for config building.
func (o *Orchestrator) Providers() vlm.Settings { return o.providers }

// Lifecycle exposes the manager for warmup and status endpoints.
func (o *Orchestrator) Lifecycle() *lifecycle.Manager { return o.lm }

// Extract converts one document. Configuration errors propagate unchanged;
// per-image description failures degrade to the placeholder marker, never
// failing the document.
func (o *Orchestrator) Extract(ctx context.Context, req Request) (*types.ExtractionResponse, error) {
	if strings.TrimSpace(req.Filename) == "" {
		return nil, pipeline.ErrConfig("no filename provided")
	}

	cfg, err := pipeline.Build(req.OCREnabled, req.TableExtraction, req.VLMMode, req.VLMModelID, o.providers)
	if err != nil {
		return nil, err
	}
	logger := log.With().Str("file", req.Filename).Str("key", cfg.CacheKey()).Logger()
	logger.Info().Msg("extraction started")

	eng, err := o.lm.AcquireEngine(ctx, cfg)
	if err != nil {
		return nil, err
	}

	doc, err := eng.Convert(ctx, req.Content, req.Filename)
	if err != nil {
		return nil, err
	}

	var describer vlm.Describer
	switch cfg.VLMMode {
	case pipeline.ModeAPI:
		describer = o.remote
	case pipeline.ModeLocal:
		describer, err = o.lm.AcquireLocalVLM(ctx, cfg.VLMModelID)
		if err != nil {
			return nil, err
		}
	}

	markdown := o.assemble(ctx, doc, cfg, describer, logger)

	resp := &types.ExtractionResponse{
		Markdown: markdown,
		Tables:   []types.Table{},
		Metadata: types.Metadata{Filename: req.Filename, PageCount: doc.PageCount()},
	}
	if cfg.TableExtraction {
		resp.Tables = doc.Tables()
	}
	logger.Info().Int("pages", doc.PageCount()).Int("tables", len(resp.Tables)).Msg("extraction completed")
	return resp, nil
}

// assemble renders the document tree to markdown. A heading precedes every
// page after the first, with a horizontal rule before it; the page 1 heading
// appears only for multi-page documents.
func (o *Orchestrator) assemble(ctx context.Context, doc *types.Document, cfg pipeline.Config, describer vlm.Describer, logger zerolog.Logger) string {
	var sb strings.Builder
	multi := doc.PageCount() > 1
	for i, page := range doc.Pages {
		if i == 0 {
			if multi {
				sb.WriteString("## Page 1\n\n")
			}
		} else {
			sb.WriteString(PageSeparator(page.Number))
		}
		sb.WriteString(o.renderPage(ctx, page, cfg, describer, logger))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// PageSeparator is the marker emitted before every page after the first.
func PageSeparator(pageNumber int) string {
	return fmt.Sprintf("\n\n---\n## Page %d\n\n", pageNumber)
}

func (o *Orchestrator) renderPage(ctx context.Context, page types.Page, cfg pipeline.Config, describer vlm.Describer, logger zerolog.Logger) string {
	var parts []string
	for _, block := range page.Blocks {
		switch block.Kind {
		case types.BlockText:
			if block.Text != "" {
				parts = append(parts, block.Text)
			}
		case types.BlockTable:
			if cfg.TableExtraction && block.Table != nil {
				parts = append(parts, renderTable(block.Table))
			}
		case types.BlockImage:
			parts = append(parts, o.renderImage(ctx, block.Image, cfg, describer, logger))
		}
	}
	return strings.Join(parts, "\n\n")
}

// renderImage replaces an image placeholder with its description. Description
// is best-effort: any failure logs and falls back to the original marker.
func (o *Orchestrator) renderImage(ctx context.Context, img *types.ImageRef, cfg pipeline.Config, describer vlm.Describer, logger zerolog.Logger) string {
	marker := imageMarker
	if img != nil && img.Marker != "" {
		marker = img.Marker
	}
	if cfg.VLMMode == pipeline.ModeNone || describer == nil || img == nil || len(img.Data) == 0 {
		return marker
	}
	desc, err := describer.Describe(ctx, img.Data, o.providers.ResolvedPrompt(), cfg.VLMModelID)
	if err != nil {
		logger.Warn().Err(err).Str("image", img.ID).Msg("image description failed, keeping placeholder")
		return marker
	}
	return desc
}
