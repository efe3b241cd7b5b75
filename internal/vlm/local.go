package vlm

// LocalRunner is a Describer backed by locally loaded model weights. It is
// constructed by the lifecycle manager, which owns the single resident slot,
// and must be closed when evicted so the weights are actually released.
type LocalRunner interface {
	Describer
	Close() error
}

// DefaultLocalModel is used when a local-mode request omits vlm_model_id.
const DefaultLocalModel = "HuggingFaceTB/SmolVLM-256M-Instruct"

// LocalOptions configures local runner construction.
type LocalOptions struct {
	// ModelsDir is where model weight files are resolved when the model id
	// is not an absolute path.
	ModelsDir string
	// ContextSize and Threads are passed to the runtime when built with it.
	ContextSize int
	Threads     int
}
