package chatbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaCreationConfirmFlow(t *testing.T) {
	model := newFakeModel(
		textTurn("- people.csv:\n  - id: primary_id, STRING\n  - name: attribute, STRING"),
		textTurn("Graph social: Person(id, name). Please confirm."),
		textTurn(`{"success": true, "message": "✅ Schema for graph social created."}`),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildSchemaCreation()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.PreviewedSampleData = "| id | name |\n| 1 | Alice |"
	state.AppendUser("create a schema from people.csv")

	state, gi := invokeUntilInterrupt(t, r, state)
	assert.Equal(t, []string{"wait_for_user_review_schema"}, gi.Path)
	assert.Equal(t, "Graph social: Person(id, name). Please confirm.", state.SchemaDraft)
	// The classification output seeds the draft but stays out of the
	// transcript; only the proposed schema is shown.
	assert.Equal(t, "Graph social: Person(id, name). Please confirm.", state.LastMessage().Content)

	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "approved"))
	require.NoError(t, err)
	assert.Equal(t, StatusSchemaCreatedSuccessful, got.FlowStatus)
	assert.Empty(t, got.SchemaDraft, "draft is cleared after a definitive outcome")
	assert.Contains(t, got.LastMessage().Content, "✅ Schema for graph social created.")
}

func TestSchemaCreationEditLoop(t *testing.T) {
	model := newFakeModel(
		textTurn("classified columns"),
		textTurn("Draft v1. Please confirm."),
		textTurn("Draft v2 with the Company node. Please confirm."),
		textTurn(`{"success": true, "message": "✅ Created."}`),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildSchemaCreation()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.PreviewedSampleData = "| id |"
	state.AppendUser("make a schema")

	state, gi := invokeUntilInterrupt(t, r, state)
	state, gi = resumeUntilInterrupt(t, r, state, gi.Path, "add a Company node")
	assert.Equal(t, []string{"wait_for_user_review_schema"}, gi.Path)
	assert.Equal(t, StatusUserRequestedSchemaChanges, state.FlowStatus)
	assert.Equal(t, "Draft v2 with the Company node. Please confirm.", state.SchemaDraft)

	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "ok"))
	require.NoError(t, err)
	assert.Equal(t, StatusSchemaCreatedSuccessful, got.FlowStatus)
}

func TestSchemaCreationStructuredMismatchIsFailure(t *testing.T) {
	model := newFakeModel(
		textTurn("classified columns"),
		textTurn("Draft. Please confirm."),
		// Final answer is not the {success, message} shape: failure
		// outcome, not a crash.
		textTurn("sure, the schema has been created!"),
	)
	w := newTestWorkflows(t, model)
	r, err := w.buildSchemaCreation()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.PreviewedSampleData = "| id |"
	state.AppendUser("make a schema")

	state, gi := invokeUntilInterrupt(t, r, state)
	got, err := r.InvokeWithConfig(context.Background(), state, resumeConfig(gi.Path, "go ahead"))
	require.NoError(t, err)
	assert.Equal(t, StatusSchemaCreatedFailed, got.FlowStatus)
	assert.Empty(t, got.SchemaDraft, "draft is cleared even on failure")
}

func TestSchemaCreationAgentErrorIsReported(t *testing.T) {
	model := newFakeModel(
		textTurn("classified columns"),
		textTurn("Draft. Please confirm."),
		modelTurn{err: assert.AnError},
	)
	writer := &recordWriter{}
	w := newTestWorkflows(t, model)
	r, err := w.buildSchemaCreation()
	require.NoError(t, err)

	state := NewChatSessionState()
	state.PreviewedSampleData = "| id |"
	state.AppendUser("make a schema")

	state, gi := invokeUntilInterrupt(t, r, state)
	ctx := WithWriter(context.Background(), writer)
	got, err := r.InvokeWithConfig(ctx, state, resumeConfig(gi.Path, "confirmed"))
	require.NoError(t, err, "agent errors become transcript messages, not workflow errors")
	assert.Equal(t, StatusSchemaCreatedFailed, got.FlowStatus)
	assert.Contains(t, got.LastMessage().Content, "[Error]")
	assert.Empty(t, got.SchemaDraft)
}
