package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	lctools "github.com/tmc/langchaingo/tools"

	"github.com/graphmind/graphchat/gdb"
)

// ErrUnknownTool is returned when an invocation names a tool that is not
// registered. A lookup miss is a reportable error, never a crash.
var ErrUnknownTool = errors.New("unknown tool")

// Registry maps the closed tool-name enumeration to handlers. It is
// immutable after construction and shared read-only across sessions.
type Registry struct {
	tools map[Name]*tool
	order []Name
}

// NewRegistry builds the full tool set over a graph database client and a
// file fetcher.
func NewRegistry(client *gdb.Client, fetcher gdb.Fetcher) *Registry {
	r := &Registry{tools: make(map[Name]*tool)}

	r.register(schemaTools(client)...)
	r.register(crudTools(client)...)
	r.register(queryTools(client)...)
	r.register(vectorTools(client)...)
	r.register(dataSourceTools(client)...)
	r.register(previewTools(client, fetcher)...)
	r.register(loadTools(client, fetcher)...)
	r.register(triggerTools()...)
	return r
}

func (r *Registry) register(ts ...*tool) {
	for _, t := range ts {
		if _, dup := r.tools[t.name]; dup {
			panic(fmt.Sprintf("duplicate tool registration: %s", t.name))
		}
		r.tools[t.name] = t
		r.order = append(r.order, t.name)
	}
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name Name) (lctools.Tool, bool) {
	t, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return t, true
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []Name {
	out := make([]Name, len(r.order))
	copy(out, r.order)
	return out
}

// Invoke executes a tool by name with a JSON-object argument string.
func (r *Registry) Invoke(ctx context.Context, name Name, input string) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Call(ctx, input)
}

// Definitions returns the function-call bindings for every registered tool,
// in registration order.
func (r *Registry) Definitions() []llms.Tool {
	out := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Definition())
	}
	return out
}

// Scoped returns a registry restricted to the given names. Scoping is how
// minimal agents (such as the onboarding preview agent) are denied access to
// mutating tools.
func (r *Registry) Scoped(names ...Name) *Registry {
	scoped := &Registry{tools: make(map[Name]*tool, len(names))}
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			scoped.tools[name] = t
			scoped.order = append(scoped.order, name)
		}
	}
	return scoped
}
