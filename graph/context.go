package graph

import (
	"context"
	"sync"
)

type resumeValueKey struct{}
type resumePathKey struct{}

// holder carries a consume-once value through the context. Both the resume
// value and the remaining resume path must be consumed exactly once per
// resumption: the first node that asks for them gets them, every later node
// sees nothing.
type holder struct {
	mu    sync.Mutex
	value any
	taken bool
}

func (h *holder) take() (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.taken || h.value == nil {
		return nil, false
	}
	h.taken = true
	return h.value, true
}

// WithResumeValue attaches a one-shot resume value to the context. It is
// returned by the first Interrupt call that re-executes after resumption.
func WithResumeValue(ctx context.Context, value any) context.Context {
	return context.WithValue(ctx, resumeValueKey{}, &holder{value: value})
}

func takeResumeValue(ctx context.Context) (any, bool) {
	h, ok := ctx.Value(resumeValueKey{}).(*holder)
	if !ok {
		return nil, false
	}
	return h.take()
}

func hasResumeValue(ctx context.Context) bool {
	_, ok := ctx.Value(resumeValueKey{}).(*holder)
	return ok
}

// withResumePath attaches the remaining resume path (the part below the
// current graph level) for the next subgraph node to consume.
func withResumePath(ctx context.Context, path []string) context.Context {
	return context.WithValue(ctx, resumePathKey{}, &holder{value: path})
}

func takeResumePath(ctx context.Context) ([]string, bool) {
	h, ok := ctx.Value(resumePathKey{}).(*holder)
	if !ok {
		return nil, false
	}
	v, ok := h.take()
	if !ok {
		return nil, false
	}
	path, ok := v.([]string)
	return path, ok && len(path) > 0
}
