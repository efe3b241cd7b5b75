package httpapi

import (
	"context"

	"docexd/internal/batch"
	"docexd/internal/extract"
	"docexd/pkg/types"
)

// App adapts the orchestrator and batch coordinator to the Service
// interface consumed by the router.
type App struct {
	Orch  *extract.Orchestrator
	Coord *batch.Coordinator
}

func (a *App) Extract(ctx context.Context, req extract.Request) (*types.ExtractionResponse, error) {
	return a.Orch.Extract(ctx, req)
}

func (a *App) SaveMarkdown(content, originalFilename string) (string, error) {
	return a.Orch.SaveMarkdown(content, originalFilename)
}

func (a *App) Batch(ctx context.Context, reqs []extract.Request) types.BatchExtractionResponse {
	return a.Coord.Run(ctx, reqs)
}

func (a *App) Warmup(ctx context.Context, vlmMode, vlmModelID string) error {
	return a.Orch.Warmup(ctx, vlmMode, vlmModelID)
}

func (a *App) Status() types.StatusResponse {
	return a.Orch.Lifecycle().Status()
}

func (a *App) Ready() bool {
	return a.Orch.Lifecycle().Ready()
}
