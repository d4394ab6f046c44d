package chatbot

import (
	"context"
	"fmt"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

// buildSchemaCreation assembles the schema-creation flow: classify columns,
// draft a schema, loop on user review, then commit via the structured
// agent. Draft→confirm→create ordering is total; the draft scratch field is
// cleared unconditionally once the pass ends.
func (w *Workflows) buildSchemaCreation() (*graph.Runnable[*ChatSessionState], error) {
	agent := NewAgent(w.model, w.registry.Scoped(tools.CreateSchema, tools.GetSchema))

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("classify_columns", "Classify columns of the previewed data",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writerFrom(ctx).Status("🧠 Drafting schema...")

			request := Message{Role: RoleUser, Content: "Analyze the provided data tables and classify each " +
				"column as one of: `primary_id`, `node`, or `attribute`. Also infer the data type.\n" +
				state.PreviewedSampleData}
			reply, err := w.complete(ctx, prompts.ClassifyColumns, append(append([]Message{}, state.Messages...), request))
			if err != nil {
				return state, err
			}
			// Classification result, not yet a schema. Kept out of the
			// transcript; the draft step consumes it.
			state.SchemaDraft = reply
			return state, nil
		})

	g.AddNode("draft_schema", "Propose a full schema from the classified columns",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			request := Message{Role: RoleUser, Content: "Using classified columns and table data, draft a " +
				"complete graph schema including graph name, node types, and edge types following best " +
				"practices. Here is the classified columns and table data: " + state.SchemaDraft}
			reply, err := w.complete(ctx, prompts.DraftSchema, append(append([]Message{}, state.Messages...), request))
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			state.SchemaDraft = reply
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("wait_for_user_review_schema", "Suspend for schema review",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			v, err := graph.Interrupt(ctx, "Please provide feedback")
			if err != nil {
				return state, err
			}
			reply := resumeText(v)
			state.AppendUser(reply)
			if isConfirmed(reply) {
				state.FlowStatus = StatusUserConfirmedSchema
			} else {
				state.FlowStatus = StatusUserRequestedSchemaChanges
			}
			return state, nil
		})

	g.AddNode("edit_schema", "Revise the draft from user feedback",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writerFrom(ctx).Status("✏️ Editing schema...")
			reply, err := w.complete(ctx, prompts.EditSchema, state.Messages)
			if err != nil {
				return state, err
			}
			state.AppendAssistant(reply)
			state.SchemaDraft = reply
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("create_schema", "Commit the confirmed schema",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("🛠️ Creating schema...")

			state.FlowStatus = StatusSchemaCreatedFailed
			result, err := agent.RunStructured(ctx, prompts.CreateSchema, state.Messages)
			if err != nil {
				msg := Message{Role: RoleAssistant, Content: fmt.Sprintf("\n[Error] SchemaCreation: %v", err)}
				state.Messages = append(state.Messages, msg)
				writer.Message(msg)
			} else {
				state.AppendAssistant(result.Message)
				writer.Message(*state.LastMessage())
				if result.Success {
					state.FlowStatus = StatusSchemaCreatedSuccessful
				}
			}

			// The transient draft must not leak into the next pass,
			// whatever the outcome.
			state.SchemaDraft = ""
			return state, nil
		})

	g.SetEntryPoint("classify_columns")
	g.AddEdge("classify_columns", "draft_schema")
	g.AddEdge("draft_schema", "wait_for_user_review_schema")
	g.AddConditionalEdge("wait_for_user_review_schema", func(ctx context.Context, state *ChatSessionState) string {
		if state.FlowStatus == StatusUserRequestedSchemaChanges {
			return "edit_schema"
		}
		return "create_schema"
	})
	g.AddEdge("edit_schema", "wait_for_user_review_schema")
	g.AddEdge("create_schema", graph.END)

	return g.Compile()
}
