//go:build llama

package vlm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"

	"docexd/internal/registry"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaRunner owns a loaded gguf model for the single local slot.
type llamaRunner struct {
	model   *llama.LLama
	threads int
}

// NewLocalRunner loads model weights through go-llama.cpp. The model id is
// resolved against the weights scanned from opts.ModelsDir unless it is
// already an absolute path.
func NewLocalRunner(modelID string, opts LocalOptions) (LocalRunner, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("model id is empty")
	}
	path := modelID
	if opts.ModelsDir != "" {
		resolved, err := registry.Resolve(opts.ModelsDir, modelID)
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	mo := []llama.ModelOption{}
	if opts.ContextSize > 0 {
		mo = append(mo, llama.SetContext(opts.ContextSize))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	threads := opts.Threads
	if threads <= 0 {
		threads = 4
	}
	return &llamaRunner{model: m, threads: threads}, nil
}

func (r *llamaRunner) Describe(ctx context.Context, image []byte, prompt, modelID string) (string, error) {
	if r.model == nil {
		return "", ErrInference("model not initialized")
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	// go-llama.cpp exposes text-only prediction; image tensors need a
	// multimodal projector this binding does not wire yet. Fail explicitly
	// rather than caption blind.
	if len(image) > 0 {
		return "", ErrInference("image input requires a multimodal runtime; use vlm_mode=api")
	}
	r.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := r.model.Predict(prompt,
		llama.SetTokens(1024),
		llama.SetThreads(r.threads),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", ErrInference(err.Error())
	}
	return strings.TrimSpace(text), nil
}

func (r *llamaRunner) Close() error {
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}
