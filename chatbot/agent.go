package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/graphmind/graphchat/tools"
)

// ToolCallResult is the structured outcome contract for mutating agent runs
// (schema creation, data loading). Plain text is not enough to branch on, so
// the agent's final answer must parse into this exact shape; anything else
// is treated as a failure outcome, never a crash.
type ToolCallResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const defaultMaxAgentSteps = 8

// Agent is a bounded tool-calling loop over a scoped registry. Each step the
// model either requests tool calls, which the agent executes and feeds back,
// or produces a final answer.
type Agent struct {
	model    llms.Model
	registry *tools.Registry
	maxSteps int
}

// NewAgent creates an agent over the given model and registry. Scope the
// registry to the capabilities the agent is allowed to exercise.
func NewAgent(model llms.Model, registry *tools.Registry) *Agent {
	return &Agent{
		model:    model,
		registry: registry,
		maxSteps: defaultMaxAgentSteps,
	}
}

// Run executes the loop and returns the final assistant message together
// with every intermediate message the run produced, in order.
func (a *Agent) Run(ctx context.Context, system string, transcript []Message) (*Message, []Message, error) {
	var produced []Message
	defs := a.registry.Definitions()

	for step := 0; step < a.maxSteps; step++ {
		msgs := withSystem(system, append(append([]Message{}, transcript...), produced...))
		resp, err := a.model.GenerateContent(ctx, msgs, llms.WithTools(defs))
		if err != nil {
			return nil, produced, fmt.Errorf("agent model call: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, produced, fmt.Errorf("agent model returned no choices")
		}

		choice := resp.Choices[0]
		assistant := Message{Role: RoleAssistant, Content: choice.Content}
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			assistant.ToolCalls = append(assistant.ToolCalls, ToolCall{
				ID:        tc.ID,
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			})
		}
		produced = append(produced, assistant)

		if len(assistant.ToolCalls) == 0 {
			final := produced[len(produced)-1]
			return &final, produced, nil
		}

		for _, tc := range assistant.ToolCalls {
			result, err := a.registry.Invoke(ctx, tools.Name(tc.Name), tc.Arguments)
			if err != nil {
				result = tools.FormatError(err)
			}
			produced = append(produced, Message{
				Role:       RoleTool,
				Content:    result,
				ToolName:   tc.Name,
				ToolCallID: tc.ID,
			})
		}
	}

	return nil, produced, fmt.Errorf("agent exceeded %d steps without a final answer", a.maxSteps)
}

// RunStructured executes the loop and parses the final answer as a
// ToolCallResult. A missing final answer or a shape mismatch yields a
// failure result carrying the raw text, so callers branch on Success without
// handling a separate error path for malformed model output.
func (a *Agent) RunStructured(ctx context.Context, system string, transcript []Message) (*ToolCallResult, error) {
	final, _, err := a.Run(ctx, system, transcript)
	if err != nil {
		return nil, err
	}
	return parseToolCallResult(final.Content), nil
}

// parseToolCallResult applies strict parsing to untrusted model output. The
// text must be a JSON object with a boolean "success" and a string
// "message"; markdown code fences around it are tolerated.
func parseToolCallResult(text string) *ToolCallResult {
	raw := strings.TrimSpace(text)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return &ToolCallResult{Success: false, Message: text}
	}

	var result ToolCallResult
	successRaw, ok := fields["success"]
	if !ok || json.Unmarshal(successRaw, &result.Success) != nil {
		return &ToolCallResult{Success: false, Message: text}
	}
	messageRaw, ok := fields["message"]
	if !ok || json.Unmarshal(messageRaw, &result.Message) != nil {
		return &ToolCallResult{Success: false, Message: text}
	}
	return &result
}
