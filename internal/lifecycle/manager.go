// Package lifecycle owns every heavyweight resource the service holds in
// memory: conversion-engine instances and local VLM weights. It is the only
// component allowed to construct, evict or swap them.
package lifecycle

import (
	"sync"
	"time"

	"docexd/internal/vlm"
	"docexd/pkg/types"
)

// engineEntry is one resident conversion engine, keyed by EngineKey.
type engineEntry struct {
	key      string
	eng      resource
	lastUsed time.Time
}

// resource is the opaque handle stored in an entry. Both engine.Engine and
// vlm.LocalRunner satisfy it.
type resource interface{ Close() error }

// vlmEntry is the single local-VLM slot. At most one exists at a time.
type vlmEntry struct {
	modelID  string
	runner   vlm.LocalRunner
	lastUsed time.Time
}

// inflightLoad deduplicates concurrent engine constructions for one key.
// Waiters block on done; err is set before done is closed.
type inflightLoad struct {
	done chan struct{}
	err  error
}

type Manager struct {
	mu       sync.RWMutex
	engines  map[string]*engineEntry
	inflight map[string]*inflightLoad
	localVLM *vlmEntry

	// swapMu serializes the slow unload-then-load path for the single
	// local-VLM slot. Two requests demanding different models must not race
	// to unload each other's target.
	swapMu sync.Mutex

	engineCap     int
	engineFactory EngineFactory
	localFactory  LocalFactory
	localOpts     vlm.LocalOptions
	publisher     EventPublisher
	startTime     time.Time

	loadsTotal     uint64
	evictionsTotal uint64
}

// Status returns a read-only projection of the cache for GET /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.StatusResponse{
		EngineCacheCapacity: m.engineCap,
		LoadsTotal:          m.loadsTotal,
		EvictionsTotal:      m.evictionsTotal,
		UptimeSeconds:       int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix:      time.Now().Unix(),
		Resources:           []types.ResourceStatus{},
	}
	for _, e := range m.engines {
		resp.Resources = append(resp.Resources, types.ResourceStatus{
			Key:      e.key,
			Kind:     "engine",
			LastUsed: e.lastUsed.Unix(),
		})
	}
	if m.localVLM != nil {
		resp.LocalVLMModel = m.localVLM.modelID
		resp.Resources = append(resp.Resources, types.ResourceStatus{
			Key:      m.localVLM.modelID,
			Kind:     "local_vlm",
			LastUsed: m.localVLM.lastUsed.Unix(),
		})
	}
	return resp
}

// Ready reports whether at least one resource is resident, i.e. the service
// has been warmed (or has served a request) and the next extraction will not
// pay a cold construction.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.engines) > 0 || m.localVLM != nil
}

// ResidentLocalModel returns the model id in the local slot, empty when none.
func (m *Manager) ResidentLocalModel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.localVLM == nil {
		return ""
	}
	return m.localVLM.modelID
}

// residentEngineCount is used by tests.
func (m *Manager) residentEngineCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.engines)
}
