package chatbot

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

const destructiveConfirmationQuestion = "⚠️ %s is a destructive operation. " +
	"Please reply with \"confirmed\" if you want me to proceed."

// buildTaskExecution assembles the planner loop: ask the model for the next
// action with the full tool set bound, execute any requested tool calls, and
// hand off to a dedicated sub-workflow whenever a reserved trigger tool
// appears among the results.
func (w *Workflows) buildTaskExecution() (*graph.Runnable[*ChatSessionState], error) {
	schemaCreation, err := w.buildSchemaCreation()
	if err != nil {
		return nil, err
	}
	dataLoading, err := w.buildDataLoading()
	if err != nil {
		return nil, err
	}
	algorithms, err := w.buildAlgorithms()
	if err != nil {
		return nil, err
	}

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("execute_next_task", "Plan the next tool call or final answer",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			resp, err := w.model.GenerateContent(ctx,
				withSystem(prompts.PlanToolExecution, state.Messages),
				llms.WithTools(w.registry.Definitions()))
			if err != nil {
				return state, err
			}
			if len(resp.Choices) == 0 {
				return state, fmt.Errorf("planner returned no choices")
			}

			choice := resp.Choices[0]
			msg := Message{Role: RoleAssistant, Content: choice.Content}
			for _, tc := range choice.ToolCalls {
				if tc.FunctionCall == nil {
					continue
				}
				msg.ToolCalls = append(msg.ToolCalls, ToolCall{
					ID:        tc.ID,
					Name:      tc.FunctionCall.Name,
					Arguments: tc.FunctionCall.Arguments,
				})
			}
			state.Messages = append(state.Messages, msg)
			if msg.Content != "" {
				writerFrom(ctx).Message(msg)
			}
			return state, nil
		})

	g.AddNode("execute_tool_call", "Execute the planner's tool calls in order",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			plan := lastAssistantWithToolCalls(state)
			if plan == nil {
				return state, nil
			}
			for _, tc := range plan.ToolCalls {
				state.AppendTool(tc.ID, tc.Name, w.runToolCall(ctx, state, tc))
			}
			return state, nil
		})

	graph.AddSubgraph(g, "call_schema_creation_subgraph", "Interactive schema creation", schemaCreation)
	graph.AddSubgraph(g, "call_data_loading_subgraph", "Interactive data loading", dataLoading)
	graph.AddSubgraph(g, "call_run_algorithms_subgraph", "Interactive algorithm selection", algorithms)

	g.SetEntryPoint("execute_next_task")
	g.AddConditionalEdge("execute_next_task", func(ctx context.Context, state *ChatSessionState) string {
		last := state.LastMessage()
		if last == nil || last.Role != RoleAssistant || len(last.ToolCalls) == 0 {
			return graph.END
		}
		return "execute_tool_call"
	})
	g.AddConditionalEdge("execute_tool_call", func(ctx context.Context, state *ChatSessionState) string {
		switch routeToolCompletion(state) {
		case StatusTriggerSchemaSubgraph:
			return "call_schema_creation_subgraph"
		case StatusTriggerLoadingSubgraph:
			return "call_data_loading_subgraph"
		case StatusTriggerAlgorithmsSubgraph:
			return "call_run_algorithms_subgraph"
		default:
			return "execute_next_task"
		}
	})
	g.AddEdge("call_schema_creation_subgraph", "execute_next_task")
	g.AddEdge("call_data_loading_subgraph", "execute_next_task")
	g.AddEdge("call_run_algorithms_subgraph", "execute_next_task")

	return g.Compile()
}

// runToolCall executes one planned call and returns the tool-result text.
// Destructive operations without a recent explicit confirmation are not
// executed; a confirmation question takes the result's place. Invocation
// failures are formatted, never propagated: the planner sees them as
// results and can recover or report.
func (w *Workflows) runToolCall(ctx context.Context, state *ChatSessionState, tc ToolCall) string {
	name := tools.Name(tc.Name)
	if tools.Destructive(name) && !recentUserConfirmation(state) {
		return fmt.Sprintf(destructiveConfirmationQuestion, tc.Name)
	}
	result, err := w.registry.Invoke(ctx, name, tc.Arguments)
	if err != nil {
		return tools.FormatError(err)
	}
	return result
}

// lastAssistantWithToolCalls finds the most recent planner message carrying
// tool calls.
func lastAssistantWithToolCalls(state *ChatSessionState) *Message {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		m := &state.Messages[i]
		if m.Role == RoleAssistant {
			if len(m.ToolCalls) == 0 {
				return nil
			}
			return m
		}
	}
	return nil
}

// routeToolCompletion scans the tool results appended by the last batch for
// reserved trigger names. The planner is told to call triggers alone, but a
// model may still batch them with other calls, so the whole trailing run of
// tool results is scanned and schema creation wins ties. Each batch
// dispatches at most one sub-workflow.
func routeToolCompletion(state *ChatSessionState) FlowStatus {
	var schema, loading, algorithms bool
	for i := len(state.Messages) - 1; i >= 0; i-- {
		m := state.Messages[i]
		if m.Role != RoleTool {
			break
		}
		switch tools.Name(m.ToolName) {
		case tools.TriggerSchemaCreation:
			schema = true
		case tools.TriggerLoadData:
			loading = true
		case tools.TriggerRunAlgorithms:
			algorithms = true
		}
	}
	switch {
	case schema:
		return StatusTriggerSchemaSubgraph
	case loading:
		return StatusTriggerLoadingSubgraph
	case algorithms:
		return StatusTriggerAlgorithmsSubgraph
	default:
		return StatusProceedToNextTask
	}
}

// recentUserConfirmation reports whether one of the user's last two messages
// is an explicit confirmation. Destructive operations key off this: the
// confirmation must come from the same or the immediately preceding turn,
// never from older history.
func recentUserConfirmation(state *ChatSessionState) bool {
	seen := 0
	for i := len(state.Messages) - 1; i >= 0 && seen < 2; i-- {
		if state.Messages[i].Role != RoleUser {
			continue
		}
		if isConfirmed(state.Messages[i].Content) {
			return true
		}
		seen++
	}
	return false
}
