package extract

import (
	"context"

	"github.com/rs/zerolog/log"

	"docexd/internal/pipeline"
)

// dummyPDF is a minimal valid one-page PDF. Converting it is the surest way
// to pull every model the pipeline needs into memory.
var dummyPDF = []byte("%PDF-1.4\n1 0 obj\n<<\n/Type /Catalog\n/Pages 2 0 R\n>>\nendobj\n2 0 obj\n<<\n/Type /Pages\n/Kids [3 0 R]\n/Count 1\n>>\nendobj\n3 0 obj\n<<\n/Type /Page\n/Parent 2 0 R\n/MediaBox [0 0 612 792]\n/Resources <<\n>>\n>>\nendobj\nxref\n0 4\n0000000000 65535 f\n0000000010 00000 n\n0000000060 00000 n\n0000000117 00000 n\ntrailer\n<<\n/Size 4\n/Root 1 0 R\n>>\nstartxref\n223\n%%EOF")

// Warmup eagerly loads the resources a configuration needs and runs a dummy
// conversion through the engine, so the first real request is fast.
// Everything is enabled to force every download.
func (o *Orchestrator) Warmup(ctx context.Context, vlmMode, vlmModelID string) error {
	cfg, err := pipeline.Build(true, true, vlmMode, vlmModelID, o.providers)
	if err != nil {
		return err
	}
	log.Info().Str("key", cfg.CacheKey()).Msg("warmup started")

	if err := o.lm.Warmup(ctx, cfg); err != nil {
		return err
	}
	eng, err := o.lm.AcquireEngine(ctx, cfg)
	if err != nil {
		return err
	}
	if _, err := eng.Convert(ctx, dummyPDF, "warmup.pdf"); err != nil {
		return err
	}
	log.Info().Msg("warmup completed")
	return nil
}
