package lifecycle

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"docexd/internal/engine"
	"docexd/internal/pipeline"
	"docexd/internal/vlm"
)

// AcquireEngine returns the resident conversion engine for cfg's engine key,
// constructing it on a miss. Hits update last-used and never reconstruct.
// Construction happens outside the structure lock so unrelated cache reads
// are not blocked, and is deduplicated per key: a second caller for the same
// missing key waits for the first load instead of starting its own. A waiter
// abandoning via ctx does not cancel the load; the loaded entry stays for
// subsequent callers.
func (m *Manager) AcquireEngine(ctx context.Context, cfg pipeline.Config) (engine.Engine, error) {
	key := cfg.EngineKey()
	for {
		m.mu.Lock()
		if e, ok := m.engines[key]; ok {
			e.lastUsed = time.Now()
			m.mu.Unlock()
			cacheHits.WithLabelValues("engine").Inc()
			return e.eng.(engine.Engine), nil
		}
		if fl, ok := m.inflight[key]; ok {
			m.mu.Unlock()
			select {
			case <-fl.done:
				if fl.err != nil {
					return nil, fl.err
				}
				// Entry is cached now; re-enter for the hit path.
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		fl := &inflightLoad{done: make(chan struct{})}
		m.inflight[key] = fl
		m.mu.Unlock()

		cacheMisses.WithLabelValues("engine").Inc()
		m.publisher.Publish(Event{Name: "engine_load_start", Key: key})
		start := time.Now()

		eng, err := m.engineFactory(cfg)

		m.mu.Lock()
		delete(m.inflight, key)
		if err != nil {
			m.mu.Unlock()
			fl.err = classifyLoadError(key, err)
			close(fl.done)
			m.publisher.Publish(Event{Name: "engine_load_error", Key: key, Fields: map[string]any{"error": err.Error()}})
			return nil, fl.err
		}
		m.evictEnginesLocked(m.engineCap - 1)
		m.engines[key] = &engineEntry{key: key, eng: eng, lastUsed: time.Now()}
		m.loadsTotal++
		m.mu.Unlock()
		close(fl.done)

		loadsCounter.WithLabelValues("engine").Inc()
		log.Debug().Str("key", key).Dur("dur", time.Since(start)).Msg("conversion engine loaded")
		m.publisher.Publish(Event{Name: "engine_load_done", Key: key, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
		return eng, nil
	}
}

// evictEnginesLocked drops least-recently-used engine entries until at most
// max remain. Caller holds m.mu. Closing waits until after unlock would be
// nicer, but engine Close is cheap for every converter we ship.
func (m *Manager) evictEnginesLocked(max int) {
	if max < 0 {
		max = 0
	}
	for len(m.engines) > max {
		var lru *engineEntry
		for _, e := range m.engines {
			if lru == nil || e.lastUsed.Before(lru.lastUsed) {
				lru = e
			}
		}
		if lru == nil {
			return
		}
		delete(m.engines, lru.key)
		_ = lru.eng.Close()
		m.evictionsTotal++
		evictionsCounter.WithLabelValues("engine").Inc()
		m.publisher.Publish(Event{Name: "engine_evict", Key: lru.key})
	}
}

// AcquireLocalVLM returns the runner for modelID, swapping the single local
// slot when a different model is resident. The unload-then-load sequence is
// the documented double penalty of switching models.
//
// Double-checked acquire: the fast path hits under the read lock; the slow
// path is serialized by swapMu, and after winning swapMu the caller
// re-checks residency — the winner of a concurrent race may already have
// loaded the model this caller wants, or the model it was about to evict.
func (m *Manager) AcquireLocalVLM(ctx context.Context, modelID string) (vlm.Describer, error) {
	if modelID == "" {
		modelID = vlm.DefaultLocalModel
	}

	if r := m.localHit(modelID); r != nil {
		cacheHits.WithLabelValues("local_vlm").Inc()
		return r, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.swapMu.Lock()
	defer m.swapMu.Unlock()

	if r := m.localHit(modelID); r != nil {
		cacheHits.WithLabelValues("local_vlm").Inc()
		return r, nil
	}
	cacheMisses.WithLabelValues("local_vlm").Inc()

	// Resident(old) -> Evicting(old): release the old weights before loading
	// the new ones. Both models never coexist.
	m.mu.Lock()
	old := m.localVLM
	m.localVLM = nil
	m.mu.Unlock()
	if old != nil {
		m.publisher.Publish(Event{Name: "vlm_evict_start", Key: old.modelID})
		if err := old.runner.Close(); err != nil {
			log.Warn().Err(err).Str("model", old.modelID).Msg("local vlm unload reported error")
		}
		m.mu.Lock()
		m.evictionsTotal++
		m.mu.Unlock()
		evictionsCounter.WithLabelValues("local_vlm").Inc()
		m.publisher.Publish(Event{Name: "vlm_evict_done", Key: old.modelID})
	}

	// Loading(new) -> Resident(new). The load is not cancelled on ctx: a
	// load started for one caller benefits the next caller of the same key.
	m.publisher.Publish(Event{Name: "vlm_load_start", Key: modelID})
	start := time.Now()
	runner, err := m.localFactory(modelID, m.localOpts)
	if err != nil {
		m.publisher.Publish(Event{Name: "vlm_load_error", Key: modelID, Fields: map[string]any{"error": err.Error()}})
		return nil, classifyLoadError(modelID, err)
	}

	m.mu.Lock()
	m.localVLM = &vlmEntry{modelID: modelID, runner: runner, lastUsed: time.Now()}
	m.loadsTotal++
	m.mu.Unlock()

	loadsCounter.WithLabelValues("local_vlm").Inc()
	log.Info().Str("model", modelID).Dur("dur", time.Since(start)).Msg("local vlm loaded")
	m.publisher.Publish(Event{Name: "vlm_load_done", Key: modelID, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
	return runner, nil
}

// localHit returns the resident runner when it matches modelID, promoting
// last-used, else nil.
func (m *Manager) localHit(modelID string) vlm.LocalRunner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.localVLM != nil && m.localVLM.modelID == modelID {
		m.localVLM.lastUsed = time.Now()
		return m.localVLM.runner
	}
	return nil
}
