package lifecycle

import "github.com/rs/zerolog/log"

// ReleaseAll unloads every resident resource. Process-teardown hook; the
// manager stays usable afterwards, loads just start cold.
func (m *Manager) ReleaseAll() {
	// Take the swap lock so no load commits between the snapshot and the
	// close calls below.
	m.swapMu.Lock()
	defer m.swapMu.Unlock()

	m.mu.Lock()
	engines := m.engines
	local := m.localVLM
	m.engines = make(map[string]*engineEntry)
	m.localVLM = nil
	m.mu.Unlock()

	for _, e := range engines {
		if err := e.eng.Close(); err != nil {
			log.Warn().Err(err).Str("key", e.key).Msg("engine close reported error")
		}
		m.publisher.Publish(Event{Name: "engine_evict", Key: e.key})
	}
	if local != nil {
		if err := local.runner.Close(); err != nil {
			log.Warn().Err(err).Str("model", local.modelID).Msg("local vlm close reported error")
		}
		m.publisher.Publish(Event{Name: "vlm_evict_done", Key: local.modelID})
	}
	log.Info().Int("engines", len(engines)).Bool("local_vlm", local != nil).Msg("released all resident resources")
}
