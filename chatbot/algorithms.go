package chatbot

import (
	"context"
	"fmt"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

// buildAlgorithms assembles the algorithm-selection flow: suggest applicable
// algorithms from the schema shape, loop on user review, then create,
// install, and run the selected queries.
func (w *Workflows) buildAlgorithms() (*graph.Runnable[*ChatSessionState], error) {
	agent := NewAgent(w.model, w.registry.Scoped(
		tools.GetSchema, tools.CreateQuery, tools.InstallQuery, tools.RunQuery, tools.ListQueries))

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("suggest_algorithms", "Suggest algorithms applicable to the schema",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("🤖 Suggesting graph algorithms...")

			reply, err := w.complete(ctx, prompts.SuggestAlgorithms, state.Messages)
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			writer.Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("wait_for_user_review_algos", "Suspend for algorithm review",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			v, err := graph.Interrupt(ctx,
				"Please review and confirm the suggested algorithms, or request changes.")
			if err != nil {
				return state, err
			}
			reply := resumeText(v)
			state.AppendUser(reply)
			if isConfirmed(reply) {
				state.FlowStatus = StatusUserConfirmedAlgorithms
			} else {
				state.FlowStatus = StatusUserRequestedAlgoChanges
			}
			return state, nil
		})

	g.AddNode("edit_algorithm_selection", "Revise the selection from user feedback",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("✏️ Editing algorithm selection...")

			reply, err := w.complete(ctx, prompts.EditAlgorithmSelection, state.Messages)
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			writer.Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("run_algorithms", "Create, install, and run the selected queries",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("🚀 Running selected algorithms...")

			final, _, err := agent.Run(ctx, prompts.RunAlgorithms, state.Messages)
			if err != nil {
				msg := Message{Role: RoleAssistant, Content: fmt.Sprintf("\n[Error] Algorithms: %v", err)}
				state.Messages = append(state.Messages, msg)
				writer.Message(msg)
				return state, nil
			}
			state.Messages = append(state.Messages, *final)
			writer.Message(*final)
			return state, nil
		})

	g.SetEntryPoint("suggest_algorithms")
	g.AddEdge("suggest_algorithms", "wait_for_user_review_algos")
	g.AddConditionalEdge("wait_for_user_review_algos", func(ctx context.Context, state *ChatSessionState) string {
		if state.FlowStatus == StatusUserRequestedAlgoChanges {
			return "edit_algorithm_selection"
		}
		return "run_algorithms"
	})
	g.AddEdge("edit_algorithm_selection", "wait_for_user_review_algos")
	g.AddEdge("run_algorithms", graph.END)

	return g.Compile()
}
