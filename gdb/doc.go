// Package gdb is the graph-database collaborator client. It speaks the
// FalkorDB dialect (GRAPH.* commands over the Redis protocol) for graph
// traffic and keeps its metadata documents, schema descriptions, named data
// sources, saved queries and vector embeddings, in plain keys alongside the
// graphs.
//
// The chatbot never talks to this package directly; every operation is
// wrapped as a named tool in the tools package and invoked through the
// registry.
package gdb
