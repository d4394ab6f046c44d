// Package tools implements the uniform tool invocation contract over the
// graph database client. Every operation the chatbot can perform is a named
// tool in an immutable registry; the planner LLM binds the registry's
// function definitions and the executor dispatches its tool calls back
// through Invoke. Failures render as "[Error] <Kind>: <message>".
package tools
