package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmind/graphchat/chatbot/prompts"
	"github.com/graphmind/graphchat/graph"
)

func invokeUntilInterrupt(t *testing.T, r *graph.Runnable[*ChatSessionState], state *ChatSessionState) (*ChatSessionState, *graph.GraphInterrupt) {
	t.Helper()
	got, err := r.Invoke(context.Background(), state)
	gi, ok := err.(*graph.GraphInterrupt)
	require.True(t, ok, "expected interrupt, got %v", err)
	return got, gi
}

func resumeUntilInterrupt(t *testing.T, r *graph.Runnable[*ChatSessionState], state *ChatSessionState, path []string, reply string) (*ChatSessionState, *graph.GraphInterrupt) {
	t.Helper()
	got, err := r.InvokeWithConfig(context.Background(), state, &graph.Config{
		ResumePath:  path,
		ResumeValue: reply,
	})
	gi, ok := err.(*graph.GraphInterrupt)
	require.True(t, ok, "expected interrupt, got %v", err)
	return got, gi
}

func TestMainWorkflowWelcomeThenWait(t *testing.T) {
	w := newTestWorkflows(t, newFakeModel())
	main, err := w.BuildMainGraph()
	require.NoError(t, err)

	state, gi := invokeUntilInterrupt(t, main, NewChatSessionState())
	assert.Equal(t, []string{"wait_for_user_input"}, gi.Path)
	require.Len(t, state.Messages, 1)
	assert.Equal(t, RoleAssistant, state.Messages[0].Role)
	assert.Equal(t, prompts.Welcome, state.Messages[0].Content)
}

func TestMainWorkflowHelpShortCircuitsClassifier(t *testing.T) {
	model := newFakeModel()
	w := newTestWorkflows(t, model)
	main, err := w.BuildMainGraph()
	require.NoError(t, err)

	state, gi := invokeUntilInterrupt(t, main, NewChatSessionState())
	state, gi = resumeUntilInterrupt(t, main, state, gi.Path, "help")

	assert.Equal(t, []string{"wait_for_user_input"}, gi.Path)
	assert.Zero(t, model.callCount(), "literal command must not reach the classifier")
	last := state.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, RoleAssistant, last.Role)
	assert.Contains(t, last.Content, "Available features")
	assert.Contains(t, last.Content, "preview_sample_data")
}

func TestMainWorkflowFreeTextRoutesToTaskExecution(t *testing.T) {
	// Scenario: free text that mentions schema work is NOT onboarding. The
	// classifier says false and the planner handles the request.
	model := newFakeModel(
		textTurn("false"),
		textTurn("Sure, please share your CSV files."),
	)
	w := newTestWorkflows(t, model)
	main, err := w.BuildMainGraph()
	require.NoError(t, err)

	state, gi := invokeUntilInterrupt(t, main, NewChatSessionState())
	state, gi = resumeUntilInterrupt(t, main, state, gi.Path, "please help create a schema from this CSV")

	assert.Equal(t, []string{"wait_for_user_input"}, gi.Path)
	assert.Equal(t, StatusToolExecutionReady, state.FlowStatus)
	last := state.LastMessage()
	require.NotNil(t, last)
	assert.Equal(t, "Sure, please share your CSV files.", last.Content)
}

func TestMainWorkflowClassifierFailsClosed(t *testing.T) {
	// Malformed classifier output must never route to onboarding.
	model := newFakeModel(
		textTurn("well, maybe, it depends"),
		textTurn("What would you like to do?"),
	)
	w := newTestWorkflows(t, model)
	main, err := w.BuildMainGraph()
	require.NoError(t, err)

	state, gi := invokeUntilInterrupt(t, main, NewChatSessionState())
	state, _ = resumeUntilInterrupt(t, main, state, gi.Path, "set me up from scratch")

	assert.Equal(t, StatusToolExecutionReady, state.FlowStatus)
}

func TestMainWorkflowLiteralOnboardingEntersOnboarding(t *testing.T) {
	w := newTestWorkflows(t, newFakeModel())
	main, err := w.BuildMainGraph()
	require.NoError(t, err)

	state, gi := invokeUntilInterrupt(t, main, NewChatSessionState())
	state, gi = resumeUntilInterrupt(t, main, state, gi.Path, "onboarding")

	assert.Equal(t, []string{"call_onboarding_subgraph", "wait_and_preview_sample_data"}, gi.Path)
	assert.True(t, state.FromOnboarding)
	last := state.LastMessage()
	require.NotNil(t, last)
	assert.Contains(t, last.Content, "S3 path")
}
