package lifecycle

import (
	"context"

	"docexd/internal/pipeline"
)

// Warmup eagerly acquires the resources each configuration needs, without
// running an extraction, so the first real request is fast. Idempotent:
// already-resident keys are cache hits and mutate nothing.
func (m *Manager) Warmup(ctx context.Context, cfgs ...pipeline.Config) error {
	for _, cfg := range cfgs {
		if _, err := m.AcquireEngine(ctx, cfg); err != nil {
			return err
		}
		if cfg.VLMMode == pipeline.ModeLocal {
			if _, err := m.AcquireLocalVLM(ctx, cfg.VLMModelID); err != nil {
				return err
			}
		}
	}
	return nil
}
