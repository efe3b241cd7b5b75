package lifecycle

import (
	"time"

	"docexd/internal/engine"
	"docexd/internal/pipeline"
	"docexd/internal/vlm"
)

// defaultEngineCacheCapacity bounds how many converter instances stay
// resident. Converters are cheap next to VLM weights, so a small LRU cache
// is enough.
const defaultEngineCacheCapacity = 4

// EngineFactory constructs a conversion engine for a configuration.
type EngineFactory func(cfg pipeline.Config) (engine.Engine, error)

// LocalFactory constructs a local VLM runner for a model id.
type LocalFactory func(modelID string, opts vlm.LocalOptions) (vlm.LocalRunner, error)

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	EngineFactory       EngineFactory
	LocalFactory        LocalFactory
	EngineCacheCapacity int
	LocalOptions        vlm.LocalOptions
	Publisher           EventPublisher
}

// New constructs a Manager with the bundled go-fitz engine and the real
// local runner.
func New() *Manager {
	return NewWithConfig(ManagerConfig{})
}

// NewWithConfig constructs a Manager, applying defaults for unset fields.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		engines:   make(map[string]*engineEntry),
		inflight:  make(map[string]*inflightLoad),
		startTime: time.Now(),
	}
	m.engineFactory = cfg.EngineFactory
	if m.engineFactory == nil {
		m.engineFactory = func(c pipeline.Config) (engine.Engine, error) { return engine.NewFitzEngine(c) }
	}
	m.localFactory = cfg.LocalFactory
	if m.localFactory == nil {
		m.localFactory = vlm.NewLocalRunner
	}
	m.engineCap = cfg.EngineCacheCapacity
	if m.engineCap <= 0 {
		m.engineCap = defaultEngineCacheCapacity
	}
	m.localOpts = cfg.LocalOptions
	m.publisher = cfg.Publisher
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	return m
}
