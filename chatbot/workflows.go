package chatbot

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/graphmind/graphchat/gdb"
	"github.com/graphmind/graphchat/tools"
)

// Workflows builds the conversation state graphs. One instance per session
// wiring; the compiled graphs themselves are stateless and safe to share.
type Workflows struct {
	model    llms.Model
	registry *tools.Registry
	client   *gdb.Client
}

// NewWorkflows creates a workflow builder over the given model, tool
// registry, and graph-database client.
func NewWorkflows(model llms.Model, registry *tools.Registry, client *gdb.Client) *Workflows {
	return &Workflows{
		model:    model,
		registry: registry,
		client:   client,
	}
}

// complete runs a plain completion: system instructions plus transcript in,
// assistant text out.
func (w *Workflows) complete(ctx context.Context, system string, msgs []Message) (string, error) {
	resp, err := w.model.GenerateContent(ctx, withSystem(system, msgs))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}
	return resp.Choices[0].Content, nil
}
