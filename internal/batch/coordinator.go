// Package batch fans a list of extraction requests out to the orchestrator
// with per-item failure isolation: one corrupt file never aborts the rest.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"docexd/internal/extract"
	"docexd/pkg/types"
)

// Coordinator runs batches against one orchestrator.
type Coordinator struct {
	orch        *extract.Orchestrator
	concurrency int
}

// New constructs a Coordinator. Concurrency below 1 means sequential
// execution, the default: unconstrained parallel local-VLM requests would
// only queue at the lifecycle swap lock anyway.
func New(orch *extract.Orchestrator, concurrency int) *Coordinator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Coordinator{orch: orch, concurrency: concurrency}
}

// Run extracts every request independently and aggregates the outcomes.
// Output order mirrors input order regardless of completion order. Exactly
// one outcome is written per input file: an error (or panic) in one item is
// recorded as its failure outcome and processing continues.
func (c *Coordinator) Run(ctx context.Context, requests []extract.Request) types.BatchExtractionResponse {
	batchID := uuid.NewString()
	logger := log.With().Str("batch_id", batchID).Int("files", len(requests)).Logger()
	logger.Info().Msg("batch started")

	outcomes := make([]types.BatchFileResult, len(requests))

	if c.concurrency == 1 {
		for i, req := range requests {
			outcomes[i] = c.runOne(ctx, req)
		}
	} else {
		sem := make(chan struct{}, c.concurrency)
		var wg sync.WaitGroup
		for i, req := range requests {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, req extract.Request) {
				defer wg.Done()
				defer func() { <-sem }()
				outcomes[i] = c.runOne(ctx, req)
			}(i, req)
		}
		wg.Wait()
	}

	resp := types.BatchExtractionResponse{
		Results:    outcomes,
		TotalFiles: len(requests),
	}
	for _, out := range outcomes {
		if out.Status == "success" {
			resp.Successful++
		} else {
			resp.Failed++
		}
	}
	logger.Info().Int("successful", resp.Successful).Int("failed", resp.Failed).Msg("batch completed")
	return resp
}

// runOne isolates a single item: any error or panic becomes its failure
// outcome.
func (c *Coordinator) runOne(ctx context.Context, req extract.Request) (out types.BatchFileResult) {
	filename := req.Filename
	if filename == "" {
		filename = "unknown"
	}
	out = types.BatchFileResult{Filename: filename}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("file", filename).Interface("panic", r).Msg("extraction panicked")
			out.Status = "error"
			out.Error = fmt.Sprintf("internal error: %v", r)
		}
	}()

	result, err := c.orch.Extract(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("file", filename).Msg("batch item failed")
		out.Status = "error"
		out.Error = err.Error()
		return out
	}
	out.Status = "success"
	out.Markdown = result.Markdown
	out.Tables = result.Tables
	out.Metadata = &result.Metadata
	return out
}
