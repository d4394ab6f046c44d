package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// END is a special constant used to represent the terminal node of a graph.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrNoOutgoingEdge is returned when no outgoing edge is found for a node.
	ErrNoOutgoingEdge = errors.New("no outgoing edge found for node")

	// ErrNoSuchTransition is returned when a conditional edge selects a target
	// that is not part of the graph. A router producing such a target is a
	// defect in the graph definition, not a runtime condition to recover from.
	ErrNoSuchTransition = errors.New("no such transition")
)

// Node represents a node in the graph.
type Node[S any] struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function is the function associated with the node.
	Function func(ctx context.Context, state S) (S, error)
}

// Edge represents an unconditional edge between two nodes.
type Edge struct {
	From string
	To   string
}

// NodeInterrupt is returned by a node that suspends execution, typically to
// wait for human input.
type NodeInterrupt struct {
	// Node is the name of the node that triggered the interrupt.
	Node string
	// Value is the data/prompt provided by the interrupt.
	Value any
}

func (e *NodeInterrupt) Error() string {
	return fmt.Sprintf("interrupt at node %s: %v", e.Node, e.Value)
}

// GraphInterrupt is returned when execution is suspended. It carries the full
// node path to the suspension point, including the names of any enclosing
// subgraph nodes, so a later invocation can re-enter exactly that position.
type GraphInterrupt struct {
	// Path is the node path from the outermost graph down to the node that
	// interrupted, e.g. ["call_onboarding_subgraph", "wait_and_preview"].
	Path []string
	// State is the state at the time of interruption.
	State any
	// Value is the value provided by the interrupting node.
	Value any
}

func (e *GraphInterrupt) Error() string {
	return fmt.Sprintf("graph interrupted at %s", strings.Join(e.Path, "/"))
}

// Interrupt pauses execution and waits for input. If the current invocation
// carries an unconsumed resume value, Interrupt consumes it and returns it
// instead of suspending. The value is consumed at most once per resumption,
// so a later Interrupt in the same run suspends again rather than replaying
// stale input.
func Interrupt(ctx context.Context, value any) (any, error) {
	if v, ok := takeResumeValue(ctx); ok {
		return v, nil
	}
	return nil, &NodeInterrupt{Value: value}
}
