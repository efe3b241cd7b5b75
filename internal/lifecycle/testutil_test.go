package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"docexd/internal/engine"
	"docexd/internal/pipeline"
	"docexd/internal/vlm"
	"docexd/pkg/types"
)

// fakeEngine records identity so tests can assert the same instance is
// returned on cache hits.
type fakeEngine struct {
	id     int
	closed atomic.Bool
}

func (f *fakeEngine) Convert(ctx context.Context, content []byte, filename string) (*types.Document, error) {
	return &types.Document{Filename: filename, Pages: []types.Page{{Number: 1}}}, nil
}

func (f *fakeEngine) Close() error {
	f.closed.Store(true)
	return nil
}

// countingEngineFactory hands out fakeEngines with increasing ids.
type countingEngineFactory struct {
	mu    sync.Mutex
	built int
	delay time.Duration
	err   error
}

func (c *countingEngineFactory) factory() EngineFactory {
	return func(cfg pipeline.Config) (engine.Engine, error) {
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.err != nil {
			return nil, c.err
		}
		c.built++
		return &fakeEngine{id: c.built}, nil
	}
}

func (c *countingEngineFactory) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.built
}

// fakeRunner is a loadable local VLM stand-in.
type fakeRunner struct {
	modelID string
	closed  atomic.Bool
}

func (f *fakeRunner) Describe(ctx context.Context, image []byte, prompt, modelID string) (string, error) {
	return "description of " + f.modelID, nil
}

func (f *fakeRunner) Close() error {
	f.closed.Store(true)
	return nil
}

// countingLocalFactory tracks every runner it builds.
type countingLocalFactory struct {
	mu      sync.Mutex
	runners []*fakeRunner
	delay   time.Duration
	err     error
}

func (c *countingLocalFactory) factory() LocalFactory {
	return func(modelID string, opts vlm.LocalOptions) (vlm.LocalRunner, error) {
		if c.delay > 0 {
			time.Sleep(c.delay)
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.err != nil {
			return nil, c.err
		}
		r := &fakeRunner{modelID: modelID}
		c.runners = append(c.runners, r)
		return r, nil
	}
}

func (c *countingLocalFactory) built() []*fakeRunner {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*fakeRunner, len(c.runners))
	copy(out, c.runners)
	return out
}

func cfgWith(ocr, tables bool) pipeline.Config {
	return pipeline.Config{OCREnabled: ocr, TableExtraction: tables}
}
