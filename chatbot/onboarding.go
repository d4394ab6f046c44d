package chatbot

import (
	"context"
	"strings"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/gdb"
	"github.com/graphmind/graphchat/graph"
	"github.com/graphmind/graphchat/tools"
)

// S3AnonymousSourceName is the data source onboarding provisions for
// publicly readable sample files.
const S3AnonymousSourceName = "s3_anonymous_source"

const dataPreviewErrorMessage = "There was a problem previewing your data. Please ensure your S3 path " +
	"is correct and publicly accessible, then try again."

const providePathsPrompt = "Please provide the S3 path(s) to your data file(s) to get started.\n" +
	"Only S3 paths with anonymous access are supported.\n\n" +
	"Example: `s3://bucket-name/path/to/your/file.csv`"

// buildOnboarding assembles the guided first-run flow: ensure the anonymous
// S3 data source exists, prompt for paths, preview the files (retrying until
// a preview succeeds), then chain schema creation and, if it succeeds, data
// loading.
func (w *Workflows) buildOnboarding() (*graph.Runnable[*ChatSessionState], error) {
	previewAgent := NewAgent(w.model, w.registry.Scoped(tools.PreviewSampleData))

	schemaCreation, err := w.buildSchemaCreation()
	if err != nil {
		return nil, err
	}
	dataLoading, err := w.buildDataLoading()
	if err != nil {
		return nil, err
	}

	g := graph.NewStateGraph[*ChatSessionState]()

	g.AddNode("prepare_data_source_and_prompt", "Ensure the anonymous S3 source exists",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			writer := writerFrom(ctx)
			writer.Status("🔍 Checking data source existence...")

			// Get-or-create: a creation failure propagates to the session
			// driver like any other top-level error.
			_, err := w.client.GetOrCreateDataSource(ctx, &gdb.DataSource{
				Name: S3AnonymousSourceName,
				Type: gdb.SourceS3Anonymous,
			})
			if err != nil {
				return state, err
			}

			state.FromOnboarding = true
			state.AppendAssistant(providePathsPrompt)
			writer.Message(*state.LastMessage())
			return state, nil
		})

	g.AddNode("wait_and_preview_sample_data", "Suspend for paths, then preview them",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			v, err := graph.Interrupt(ctx, "Please provide feedback")
			if err != nil {
				return state, err
			}
			request := Message{Role: RoleUser, Content: "Please preview the data in the data source '" +
				S3AnonymousSourceName + "'. " + resumeText(v)}
			state.Messages = append(state.Messages, request)

			writer := writerFrom(ctx)
			writer.Status("📄 Previewing sample data...")

			final, _, err := previewAgent.Run(ctx, prompts.PreviewSampleData, []Message{request})
			if err != nil || final == nil {
				state.FlowStatus = StatusPreviewFailed
				return state, nil
			}
			if strings.Contains(final.Content, gdb.NoValidPathsMarker) {
				state.Messages = append(state.Messages, *final)
				state.FlowStatus = StatusPreviewFailed
				return state, nil
			}

			state.Messages = append(state.Messages, *final)
			writer.Message(*final)
			state.PreviewedSampleData = final.Content
			state.FlowStatus = StatusPreviewSuccessful
			return state, nil
		})

	g.AddNode("prompt_file_paths_retry", "Ask for corrected paths",
		func(ctx context.Context, state *ChatSessionState) (*ChatSessionState, error) {
			state.AppendAssistant(dataPreviewErrorMessage)
			writerFrom(ctx).Message(*state.LastMessage())
			return state, nil
		})

	graph.AddSubgraph(g, "call_schema_creation_subgraph", "Interactive schema creation", schemaCreation)
	graph.AddSubgraph(g, "call_data_loading_subgraph", "Interactive data loading", dataLoading)

	g.SetEntryPoint("prepare_data_source_and_prompt")
	g.AddEdge("prepare_data_source_and_prompt", "wait_and_preview_sample_data")
	g.AddConditionalEdge("wait_and_preview_sample_data", func(ctx context.Context, state *ChatSessionState) string {
		if state.FlowStatus == StatusPreviewFailed {
			return "prompt_file_paths_retry"
		}
		return "call_schema_creation_subgraph"
	})
	g.AddEdge("prompt_file_paths_retry", "wait_and_preview_sample_data")
	g.AddConditionalEdge("call_schema_creation_subgraph", func(ctx context.Context, state *ChatSessionState) string {
		// No loading into a schema that was never created.
		if state.FlowStatus == StatusSchemaCreatedFailed {
			return graph.END
		}
		return "call_data_loading_subgraph"
	})
	g.AddEdge("call_data_loading_subgraph", graph.END)

	return g.Compile()
}
