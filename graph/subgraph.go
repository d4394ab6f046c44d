package graph

import (
	"context"
)

// AddSubgraph mounts a compiled child graph as a single node of the parent.
// The child shares the parent's state type and runs to completion inside the
// node.
//
// Interrupts compose: when the child suspends, its *GraphInterrupt is passed
// through unchanged and the parent engine prepends the mount-point node name
// to the path. When the parent is later re-entered with that path, the mount
// node consumes the remaining path segment and resumes the child at the
// exact inner node that interrupted.
func AddSubgraph[S any](g *StateGraph[S], name, description string, child *Runnable[S]) {
	g.AddNode(name, description, func(ctx context.Context, state S) (S, error) {
		var cfg *Config
		if tail, ok := takeResumePath(ctx); ok {
			cfg = &Config{ResumePath: tail}
		}
		return child.InvokeWithConfig(ctx, state, cfg)
	})
}
