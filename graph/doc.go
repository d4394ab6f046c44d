// Package graph implements a finite-state workflow engine for conversational
// flows. A StateGraph is built from named nodes and edges, compiled into a
// Runnable, and invoked with a shared state value that every node reads and
// rewrites.
//
// Nodes may suspend execution with Interrupt to wait for human input. The
// resulting GraphInterrupt carries the full node path to the suspension
// point, including enclosing subgraph mounts, so a later invocation can
// re-enter exactly that position with a resume value. Combined with a
// store.CheckpointStore via Checkpointable, suspended conversations survive
// process teardown.
package graph
