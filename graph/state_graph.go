package graph

import (
	"context"
	"errors"
	"fmt"
)

// StateGraph represents a state-based graph. The type parameter S is the
// state type shared by every node, typically a pointer to a struct.
//
// Nodes execute strictly sequentially: a conversation session is a single
// logical thread, and routers read status fields written by the node that
// ran immediately before them.
type StateGraph[S any] struct {
	// nodes is a map of node names to their corresponding Node objects
	nodes map[string]Node[S]

	// edges is a slice of Edge objects representing the connections between nodes
	edges []Edge

	// conditionalEdges maps a "From" node to a router deriving the "To" node
	conditionalEdges map[string]func(ctx context.Context, state S) string

	// entryPoint is the name of the entry point node in the graph
	entryPoint string
}

// NewStateGraph creates a new instance of StateGraph.
func NewStateGraph[S any]() *StateGraph[S] {
	return &StateGraph[S]{
		nodes:            make(map[string]Node[S]),
		conditionalEdges: make(map[string]func(ctx context.Context, state S) string),
	}
}

// AddNode adds a new node to the state graph with the given name, description
// and function.
func (g *StateGraph[S]) AddNode(name, description string, fn func(ctx context.Context, state S) (S, error)) {
	g.nodes[name] = Node[S]{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// AddEdge adds a new edge to the state graph between the "from" and "to" nodes.
func (g *StateGraph[S]) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// AddConditionalEdge adds a conditional edge where the target node is
// determined at runtime by the router function. The router must return the
// name of a node in this graph, or END. An empty or unknown result is
// reported as ErrNoSuchTransition.
func (g *StateGraph[S]) AddConditionalEdge(from string, router func(ctx context.Context, state S) string) {
	g.conditionalEdges[from] = router
}

// SetEntryPoint sets the entry point node name for the state graph.
func (g *StateGraph[S]) SetEntryPoint(name string) {
	g.entryPoint = name
}

// Runnable represents a compiled state graph that can be invoked.
type Runnable[S any] struct {
	graph *StateGraph[S]
}

// Compile validates the graph and returns a Runnable instance. Static edges
// must reference declared nodes; conditional edges are checked at runtime
// since their targets depend on state.
func (g *StateGraph[S]) Compile() (*Runnable[S], error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, e.From)
		}
		if e.To == END {
			continue
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, e.To)
		}
	}
	return &Runnable[S]{graph: g}, nil
}

// Invoke executes the compiled state graph with the given input state.
func (r *Runnable[S]) Invoke(ctx context.Context, initialState S) (S, error) {
	return r.InvokeWithConfig(ctx, initialState, nil)
}

// InvokeWithConfig executes the compiled state graph with the given input
// state and config. Execution runs node by node until END, until a node
// returns an error, or until a node interrupts.
//
// On interruption the returned error is a *GraphInterrupt whose Path
// addresses the suspension point and whose State is the state at that
// moment; the returned state equals GraphInterrupt.State.
func (r *Runnable[S]) InvokeWithConfig(ctx context.Context, initialState S, config *Config) (S, error) {
	state := initialState
	current := r.graph.entryPoint

	if config != nil {
		if len(config.ResumePath) > 0 {
			current = config.ResumePath[0]
			ctx = withResumePath(ctx, config.ResumePath[1:])
		}
		// The outermost invocation owns the resume value; nested subgraph
		// invocations inherit it through the context.
		if config.ResumeValue != nil && !hasResumeValue(ctx) {
			ctx = WithResumeValue(ctx, config.ResumeValue)
		}
	}

	for current != END {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		node, ok := r.graph.nodes[current]
		if !ok {
			return state, fmt.Errorf("%w: %s", ErrNodeNotFound, current)
		}

		result, err := node.Function(ctx, state)
		if err != nil {
			// A nested subgraph already produced a positioned interrupt:
			// extend the path with the enclosing node name.
			var gi *GraphInterrupt
			if errors.As(err, &gi) {
				if s, ok := gi.State.(S); ok {
					state = s
				}
				gi.Path = append([]string{current}, gi.Path...)
				gi.State = state
				return state, gi
			}

			// A direct interrupt from this node.
			var ni *NodeInterrupt
			if errors.As(err, &ni) {
				ni.Node = current
				return state, &GraphInterrupt{
					Path:  []string{current},
					State: state,
					Value: ni.Value,
				}
			}

			return state, fmt.Errorf("error in node %s: %w", current, err)
		}
		state = result

		next, err := r.nextNode(ctx, current, state)
		if err != nil {
			return state, err
		}
		current = next
	}

	return state, nil
}

// nextNode determines the next node based on conditional edges first, then
// static edges.
func (r *Runnable[S]) nextNode(ctx context.Context, current string, state S) (string, error) {
	if router, ok := r.graph.conditionalEdges[current]; ok {
		target := router(ctx, state)
		if target == END {
			return END, nil
		}
		if target == "" {
			return "", fmt.Errorf("%w: router for %s returned no target", ErrNoSuchTransition, current)
		}
		if _, ok := r.graph.nodes[target]; !ok {
			return "", fmt.Errorf("%w: %s -> %s", ErrNoSuchTransition, current, target)
		}
		return target, nil
	}

	for _, edge := range r.graph.edges {
		if edge.From == current {
			return edge.To, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoOutgoingEdge, current)
}
