package chatbot

import (
	"context"
	"fmt"
	"strings"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/gdb"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

// buildDataLoading assembles the data-loading flow. The draft is built in
// three grounded steps (files, node mappings, edge mappings), reviewed by
// the user, then executed via the structured agent. The first step fetches
// the live schema so drafting is grounded in the schema that actually
// exists, not an earlier draft.
func (w *Workflows) buildDataLoading() (*graph.Runnable[*ChatSessionState], error) {
	agent := NewAgent(w.model, w.registry.Scoped(tools.LoadData, tools.GetSchema))

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("load_config_file", "Fetch the live schema and draft the files section",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writerFrom(ctx).Status("🧾 Drafting loading config...")

			fetch := Message{Role: RoleUser, Content: "Get the graph schema of the created graph."}
			final, _, err := agent.Run(ctx, prompts.GetSchemaPrompt,
				append(append([]Message{}, state.Messages...), fetch))
			if err != nil {
				return state, fmt.Errorf("fetching schema for loading config: %w", err)
			}
			state.Messages = append(state.Messages, *final)

			request := Message{Role: RoleUser, Content: "Please define the `files` section with valid file " +
				"aliases, file paths, and CSV parsing options based on the graph schema."}
			reply, err := w.complete(ctx, prompts.LoadConfigFile,
				append(append([]Message{}, state.Messages...), request))
			if err != nil {
				return state, err
			}
			state.LoadingJobDraft = reply
			return state, nil
		})

	g.AddNode("load_config_node_mapping", "Add node mappings to the draft",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			request := Message{Role: RoleUser, Content: state.LoadingJobDraft}
			reply, err := w.complete(ctx, prompts.LoadConfigNodeMapping,
				append(append([]Message{}, state.Messages...), request))
			if err != nil {
				return state, err
			}
			state.LoadingJobDraft = reply
			return state, nil
		})

	g.AddNode("load_config_edge_mapping", "Add edge mappings and emit the combined draft",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			request := Message{Role: RoleUser, Content: state.LoadingJobDraft}
			reply, err := w.complete(ctx, prompts.LoadConfigEdgeMapping,
				append(append([]Message{}, state.Messages...), request))
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			state.LoadingJobDraft = reply
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("wait_for_user_review_job", "Suspend for loading-job review",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			v, err := graph.Interrupt(ctx, "Please provide feedback")
			if err != nil {
				return state, err
			}
			reply := resumeText(v)
			state.AppendUser(reply)
			if isConfirmed(reply) {
				state.FlowStatus = StatusUserConfirmedJob
			} else {
				state.FlowStatus = StatusUserRequestedJobChanges
			}
			return state, nil
		})

	g.AddNode("edit_loading_job", "Revise the draft from user feedback",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("✏️ Editing loading config...")
			reply, err := w.complete(ctx, prompts.EditLoadingJob, state.Messages)
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			state.LoadingJobDraft = reply
			writer.Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("run_loading_job", "Execute the confirmed loading job",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("📥 Loading data...")

			state.FlowStatus = StatusDataLoadedFailed
			result, err := agent.RunStructured(ctx, prompts.RunLoadingJob, state.Messages)
			if err != nil {
				msg := Message{Role: RoleAssistant, Content: fmt.Sprintf("\n[Error] DataLoading: %v", err)}
				state.Messages = append(state.Messages, msg)
				writer.Message(msg)
			} else {
				state.AppendAssistant(stripDiagnosticHints(result.Message))
				writer.Message(*state.LastMessage())
				if result.Success {
					state.FlowStatus = StatusDataLoadedSuccessful
				}
			}

			state.LoadingJobDraft = ""
			return state, nil
		})

	g.SetEntryPoint("load_config_file")
	g.AddEdge("load_config_file", "load_config_node_mapping")
	g.AddEdge("load_config_node_mapping", "load_config_edge_mapping")
	g.AddEdge("load_config_edge_mapping", "wait_for_user_review_job")
	g.AddConditionalEdge("wait_for_user_review_job", func(ctx context.Context, state *ChatSessionState) string {
		if state.FlowStatus == StatusUserRequestedJobChanges {
			return "edit_loading_job"
		}
		return "run_loading_job"
	})
	g.AddEdge("edit_loading_job", "wait_for_user_review_job")
	g.AddEdge("run_loading_job", graph.END)

	return g.Compile()
}

// stripDiagnosticHints removes the console diagnostic instruction from load
// warnings before they reach the user. The warnings themselves are surfaced
// verbatim; only the run-this-command hint is dropped, since chat users have
// no console to run it in.
func stripDiagnosticHints(text string) string {
	return strings.ReplaceAll(text, gdb.DiagnosticHint, "")
}
